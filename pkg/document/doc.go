// Package document builds retree nodes from YAML or JSON markup.
//
// A document node is either a scalar, which becomes a text node, or a
// mapping with exactly one of tag, component or fragment and optional
// attrs and children:
//
//	tag: ul
//	attrs: {id: todo}
//	children:
//	  - tag: li
//	    children: [Write the decoder]
//	  - component: Panel
//	    attrs: {title: Done}
//	    children: [Nothing yet]
//
// Component and fragment names are resolved through a tree.Registry.
// Errors carry the line and column of the offending node.
package document
