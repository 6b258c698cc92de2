package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/retree/internal/errors"
	"github.com/vango-dev/retree/pkg/tree"
)

// Exporter serializes trees and writes them to a Store.
type Exporter struct {
	store    Store
	prefix   string
	realized bool
	indent   bool
	now      func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPrefix prepends prefix to every key.
func WithPrefix(prefix string) Option {
	return func(e *Exporter) {
		e.prefix = prefix
	}
}

// WithRealized exports realized children instead of declared ones.
func WithRealized(realized bool) Option {
	return func(e *Exporter) {
		e.realized = realized
	}
}

// WithIndent pretty-prints the JSON.
func WithIndent(indent bool) Option {
	return func(e *Exporter) {
		e.indent = indent
	}
}

// NewExporter creates an Exporter writing to store.
func NewExporter(store Store, opts ...Option) *Exporter {
	e := &Exporter{store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export serializes node and stores it under a fresh key of the form
// <prefix><UTC timestamp>-<uuid>.json, which it returns.
func (e *Exporter) Export(ctx context.Context, node *tree.Node) (string, error) {
	var (
		snap *tree.Snapshot
		err  error
	)
	if e.realized {
		snap, err = tree.SerializeRealized(node)
	} else {
		snap, err = tree.Serialize(node)
	}
	if err != nil {
		return "", err
	}
	return e.ExportSnapshot(ctx, snap)
}

// ExportSnapshot stores an already serialized tree.
func (e *Exporter) ExportSnapshot(ctx context.Context, snap *tree.Snapshot) (string, error) {
	data, err := e.encode(snap)
	if err != nil {
		return "", errors.New("E061").Wrap(err)
	}

	key := e.prefix + e.now().UTC().Format("20060102T150405Z") + "-" + uuid.NewString() + ".json"
	if err := e.store.Put(ctx, key, data); err != nil {
		return "", errors.New("E060").WithSubject("%s", key).Wrap(err)
	}
	return key, nil
}

func (e *Exporter) encode(snap *tree.Snapshot) ([]byte, error) {
	if e.indent {
		data, err := json.MarshalIndent(snap, "", "  ")
		return append(data, '\n'), err
	}
	return json.Marshal(snap)
}
