package mount

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/retree/internal/errors"
	"github.com/vango-dev/retree/pkg/observe"
	"github.com/vango-dev/retree/pkg/tree"
)

const defaultTracerName = "github.com/vango-dev/retree/pkg/mount"

// Stats counts the tree events of one cycle.
type Stats struct {
	Constructed int `json:"constructed"`
	Destructed  int `json:"destructed"`
	Rendered    int `json:"rendered"`
	Inserted    int `json:"inserted"`
	Kept        int `json:"kept"`
	Removed     int `json:"removed"`
	Refreshed   int `json:"refreshed"`

	// Replaced is set when Recycle swapped the root node.
	Replaced bool `json:"replaced"`
}

func (s *Stats) add(op tree.Op) {
	switch op {
	case tree.OpConstruct:
		s.Constructed++
	case tree.OpDestruct:
		s.Destructed++
	case tree.OpRender:
		s.Rendered++
	case tree.OpInsert:
		s.Inserted++
	case tree.OpKeep:
		s.Kept++
	case tree.OpRemove:
		s.Removed++
	case tree.OpRefresh:
		s.Refreshed++
	}
}

func (s Stats) attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("retree.constructed", s.Constructed),
		attribute.Int("retree.destructed", s.Destructed),
		attribute.Int("retree.rendered", s.Rendered),
		attribute.Int("retree.inserted", s.Inserted),
		attribute.Int("retree.kept", s.Kept),
		attribute.Int("retree.removed", s.Removed),
		attribute.Int("retree.refreshed", s.Refreshed),
		attribute.Bool("retree.replaced", s.Replaced),
	}
}

// Option configures a Root.
type Option func(*Root)

// WithObserver forwards every tree event to o. If o implements
// observe.CycleObserver it also receives cycle timings.
func WithObserver(o tree.Observer) Option {
	return func(r *Root) {
		r.observer = o
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Root) {
		r.logger = logger
	}
}

// WithTracerName resolves the tracer from the global provider.
func WithTracerName(name string) Option {
	return func(r *Root) {
		r.tracer = otel.Tracer(name)
	}
}

// WithTracer sets the tracer directly.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Root) {
		r.tracer = tracer
	}
}

// Root owns a node tree and serializes every operation on it. Each
// operation is a cycle: it runs under the lock inside a span, counts the
// tree events it caused and, on success, publishes the realized snapshot
// to subscribers.
type Root struct {
	mu      sync.Mutex
	node    *tree.Node
	mounted bool
	stats   Stats

	observer tree.Observer
	logger   *slog.Logger
	tracer   trace.Tracer

	subsMu sync.Mutex
	subs   map[int]func(*tree.Snapshot)
	nextID int
}

// New creates a Root for node. The node must be detached and unconstructed.
func New(node *tree.Node, opts ...Option) *Root {
	r := &Root{
		node:   node,
		subs:   make(map[int]func(*tree.Snapshot)),
		tracer: otel.Tracer(defaultTracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger = r.logger.With("component", "mount")
	node.SetObserver(r)
	return r
}

// Observe implements tree.Observer. It is installed on the tree by New.
func (r *Root) Observe(e tree.Event) {
	r.stats.add(e.Op)
	if r.observer != nil {
		r.observer.Observe(e)
	}
}

// Mount constructs the tree.
func (r *Root) Mount(ctx context.Context) (Stats, error) {
	return r.cycle(ctx, "mount", func() error {
		if err := r.node.Construct(); err != nil {
			return err
		}
		r.mounted = true
		return nil
	})
}

// Update re-renders every Fragment and Component boundary.
func (r *Root) Update(ctx context.Context) (Stats, error) {
	return r.cycle(ctx, "update", func() error {
		if !r.mounted {
			return errors.New("E062")
		}
		return r.node.Update()
	})
}

// Recycle reconciles the tree against proposal. When proposal cannot be
// recycled into the current root (different kind, type, tag or content)
// the old root is destructed and proposal is constructed in its place.
func (r *Root) Recycle(ctx context.Context, proposal *tree.Node) (Stats, error) {
	return r.cycle(ctx, "recycle", func() error {
		if !r.mounted {
			return errors.New("E062")
		}
		if proposal == nil {
			return errors.New(errors.CodeTypeMismatch).WithSubject("nil proposal")
		}
		if tree.Same(r.node, proposal) {
			_, err := r.node.Recycle(proposal)
			return err
		}

		r.stats.Replaced = true
		if err := r.node.Destruct(); err != nil {
			return err
		}
		r.node = proposal
		proposal.SetObserver(r)
		return proposal.Construct()
	})
}

// Unmount destructs the tree.
func (r *Root) Unmount(ctx context.Context) (Stats, error) {
	return r.cycle(ctx, "unmount", func() error {
		if !r.mounted {
			return errors.New("E062")
		}
		r.mounted = false
		return r.node.Destruct()
	})
}

// View runs fn with exclusive access to the current root node. fn may
// read the tree or change component state, but must not keep the node.
func (r *Root) View(fn func(*tree.Node) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.node)
}

// Mounted reports whether the tree is constructed.
func (r *Root) Mounted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mounted
}

// Snapshot serializes the current tree, walking realized children when
// realized is set and declared children otherwise.
func (r *Root) Snapshot(realized bool) (*tree.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(realized)
}

func (r *Root) snapshot(realized bool) (*tree.Snapshot, error) {
	if realized {
		return tree.SerializeRealized(r.node)
	}
	return tree.Serialize(r.node)
}

// Subscribe registers fn to receive the realized snapshot after every
// successful cycle. Calls happen outside the lock, so fn may use the
// Root. The returned function unsubscribes.
func (r *Root) Subscribe(fn func(*tree.Snapshot)) func() {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	return func() {
		r.subsMu.Lock()
		defer r.subsMu.Unlock()
		delete(r.subs, id)
	}
}

func (r *Root) cycle(ctx context.Context, name string, fn func() error) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	stats, snap, err := r.run(ctx, name, fn)
	if snap != nil {
		r.publish(snap)
	}
	return stats, err
}

// run executes fn under the lock. A panic in fn is recorded on the span and
// the cycle observers, the lock is released, and the panic continues. The
// tree may be left half reconciled.
func (r *Root) run(ctx context.Context, name string, fn func() error) (stats Stats, snap *tree.Snapshot, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, span := r.tracer.Start(ctx, "retree."+name,
		trace.WithAttributes(attribute.String("retree.root", r.node.String())),
	)
	defer span.End()
	start := time.Now()
	r.stats = Stats{}

	defer func() {
		if p := recover(); p != nil {
			perr := fmt.Errorf("panic in %s cycle: %v", name, p)
			span.RecordError(perr)
			span.SetStatus(codes.Error, perr.Error())
			r.logger.Error("cycle panicked", "cycle", name, "panic", p)
			r.observeCycle(name, time.Since(start), perr)
			panic(p)
		}
	}()

	err = fn()

	stats = r.stats
	elapsed := time.Since(start)
	span.SetAttributes(stats.attributes()...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("cycle failed", "cycle", name, "duration", elapsed, "error", err)
	} else {
		span.SetStatus(codes.Ok, "")
		r.logger.Debug("cycle finished", "cycle", name, "duration", elapsed,
			"inserted", stats.Inserted, "kept", stats.Kept, "removed", stats.Removed)
	}
	r.observeCycle(name, elapsed, err)

	if err == nil && r.hasSubscribers() {
		var serr error
		if snap, serr = r.snapshot(true); serr != nil {
			r.logger.Warn("snapshot failed", "cycle", name, "error", serr)
		}
	}
	return stats, snap, err
}

func (r *Root) observeCycle(name string, d time.Duration, err error) {
	if c, ok := r.observer.(observe.CycleObserver); ok {
		c.ObserveCycle(name, d, err)
	}
}

func (r *Root) hasSubscribers() bool {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	return len(r.subs) > 0
}

func (r *Root) publish(snap *tree.Snapshot) {
	r.subsMu.Lock()
	subs := make([]func(*tree.Snapshot), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.subsMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
