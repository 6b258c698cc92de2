// Package observe provides tree.Observer implementations.
//
// Metrics exports Prometheus counters and gauges, LogObserver logs events
// through slog, and Multi combines several observers:
//
//	root.SetObserver(observe.Multi{
//	    observe.NewMetrics(observe.WithRegistry(reg)),
//	    observe.NewLogObserver(logger),
//	})
//
// Observers that also implement CycleObserver receive the duration and
// outcome of every mount.Root cycle.
package observe
