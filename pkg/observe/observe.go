package observe

import (
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/vango-dev/retree/internal/errors"
	"github.com/vango-dev/retree/pkg/tree"
)

// CycleObserver is implemented by observers that also want cycle timings.
type CycleObserver interface {
	ObserveCycle(cycle string, d time.Duration, err error)
}

// LogObserver logs every tree event at debug level.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver. A nil logger uses slog.Default.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger.With("component", "tree")}
}

// Observe implements tree.Observer.
func (l *LogObserver) Observe(e tree.Event) {
	attrs := []any{"op", e.Op.String(), "node", e.Node.String()}
	if e.Parent != nil {
		attrs = append(attrs, "parent", e.Parent.String())
	}
	if e.Previous != nil {
		attrs = append(attrs, "after", e.Previous.String())
	}
	l.logger.Debug("tree event", attrs...)
}

// ObserveCycle implements CycleObserver.
func (l *LogObserver) ObserveCycle(cycle string, d time.Duration, err error) {
	if err != nil {
		l.logger.Error("cycle failed", "cycle", cycle, "duration", d, "error", err)
		return
	}
	l.logger.Debug("cycle finished", "cycle", cycle, "duration", d)
}

// Multi fans events out to several observers in order. Nil entries are
// skipped.
type Multi []tree.Observer

// Observe implements tree.Observer.
func (m Multi) Observe(e tree.Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(e)
		}
	}
}

// ObserveCycle forwards to every member implementing CycleObserver.
func (m Multi) ObserveCycle(cycle string, d time.Duration, err error) {
	for _, o := range m {
		if c, ok := o.(CycleObserver); ok {
			c.ObserveCycle(cycle, d, err)
		}
	}
}

// Counter tallies events by op. It is not safe for concurrent use and is
// meant to be installed for the duration of one cycle.
type Counter map[tree.Op]int

// Observe implements tree.Observer.
func (c Counter) Observe(e tree.Event) {
	c[e.Op]++
}

// Code returns the error code of err, or "unknown".
func Code(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "unknown"
}
