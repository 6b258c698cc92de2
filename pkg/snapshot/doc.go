// Package snapshot exports serialized trees to a file directory or an S3
// bucket. Exports are write-only: nothing here reads a snapshot back into
// a live tree.
//
//	store, _ := snapshot.NewFileStore("snapshots")
//	key, err := snapshot.NewExporter(store, snapshot.WithRealized(true)).Export(ctx, root)
package snapshot
