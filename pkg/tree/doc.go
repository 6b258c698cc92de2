// Package tree implements a retained node tree reconciled against freshly
// built proposals.
//
// # Nodes and attachments
//
// A Node pairs an Attachment with a lifecycle (unconstructed, constructed,
// destructed), a parent back-reference, the declared children and the
// realized children (Nodes). The attachment decides the node Kind:
//
//   - Fragment: renders its declared children without a wrapper
//   - Component: stateful, renders a subtree and exposes lifecycle hooks
//   - Element: a platform primitive; Render yields the platform reference
//   - Text: a text leaf
//
// User code embeds Component or Fragment and declares a Type with
// DefineComponent or DefineFragment. Platforms embed Element and Text and
// register constructors through Models.
//
// # Building and reconciling
//
//	f := tree.NewFactory(platform.Models())
//	root, _ := f.Create("ul", nil, items)
//	_ = root.Construct()
//
//	next, _ := f.Create("ul", nil, newItems)
//	_, _ = root.Recycle(next)
//
// Recycle keeps nodes that are the Same (matching kind and type, tag or
// content), inserts new ones and destructs removed ones, preserving the
// identity of every kept node. Update re-renders Fragment and Component
// boundaries after a state change.
//
// # Observing
//
// The package performs no logging. Install an Observer on the root to
// receive construct, render, insert, keep, remove, refresh, reassign and
// destruct events; descendants inherit it when inserted.
package tree
