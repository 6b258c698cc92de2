// Package mount provides Root, a single owner for a live node tree.
//
// tree.Node is not safe for concurrent use. Root serializes mount, update,
// recycle and unmount cycles behind a mutex, traces each one with
// OpenTelemetry, counts the tree events it caused and pushes the realized
// snapshot to subscribers:
//
//	root := mount.New(node, mount.WithObserver(metrics), mount.WithLogger(logger))
//	if _, err := root.Mount(ctx); err != nil {
//	    return err
//	}
//	stop := root.Subscribe(func(s *tree.Snapshot) { ... })
//	defer stop()
//
//	stats, err := root.Recycle(ctx, next)
package mount
