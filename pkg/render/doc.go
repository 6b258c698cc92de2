// Package render is the HTML platform for retree.
//
// Platform supplies the Element and Text attachments used by a
// tree.Factory. Constructing one of its nodes produces a *Ref, so every
// live element has a stable reference for as long as it stays in the tree.
//
//	p := render.NewPlatform()
//	root, _ := p.Factory().Create("ul", nil, items)
//	_ = root.Construct()
//
// Renderer writes a constructed tree as HTML5 from its realized children:
//
//   - text and attribute values are escaped
//   - attributes are written in name order; nil and func values are skipped
//   - boolean attributes (disabled, checked, ...) render as bare names
//   - void elements (br, img, input, ...) have no closing tag
//   - fragments and components contribute only their children
//
//	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(root)
//
// RenderPage wraps the tree in a complete document.
package render
