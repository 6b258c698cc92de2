// Package inspect serves an HTTP inspector for a mount.Root.
//
// The inspector exposes the tree as JSON, renders it as HTML, triggers
// update cycles, exports snapshots, serves Prometheus metrics and streams
// the realized snapshot to websocket clients after every cycle.
//
//	srv := inspect.New(inspect.Config{Root: root, Gatherer: registry})
//	err := srv.ListenAndServe(ctx, "localhost:7070")
package inspect
