package tree

import (
	"maps"

	"github.com/vango-dev/retree/internal/errors"
)

// Attributes is an immutable attribute snapshot. Nodes replace the whole
// map on every refresh; callers must never write into a map they received.
type Attributes map[string]any

// State is an immutable component state snapshot.
type State map[string]any

// Attachment is the variant-specific payload of a Node.
//
// The set of variants is closed: every attachment embeds exactly one of
// Fragment, Component, Element or Text. User components embed Component and
// override Render and the lifecycle hooks they need; platforms embed Element
// and Text and override Render to produce their references.
type Attachment interface {
	// Children returns the owning node's declared children.
	Children() []*Node

	// Attributes returns the owning node's current attributes.
	Attributes() Attributes

	// Render returns a tree description for Fragment and Component
	// attachments, or the platform reference for Element and Text.
	Render() (any, error)

	bound() *binding
}

// FragmentAttachment is an attachment embedding Fragment.
type FragmentAttachment interface {
	Attachment
	fragment() *Fragment
}

// ComponentAttachment is an attachment embedding Component.
type ComponentAttachment interface {
	Attachment
	State() State
	Update(partial State)

	// Construct runs before the first render.
	Construct()
	// Refresh runs after the attributes changed.
	Refresh()
	// Reassign runs after the declared children changed.
	Reassign()
	// Destruct runs when the node is destructed, before its subtree.
	Destruct()

	component() *Component
}

// ElementAttachment is an attachment embedding Element.
type ElementAttachment interface {
	Attachment
	Name() string
	element() *Element
}

// TextAttachment is an attachment embedding Text.
type TextAttachment interface {
	Attachment
	Content() string
	text() *Text
}

// binding is the back-reference from an attachment to the node owning it.
// It is injected by NewNode; before that the accessors report empty values.
type binding struct {
	node *Node
	typ  *Type
}

func (b *binding) bound() *binding { return b }

// Children returns the owning node's declared children.
func (b *binding) Children() []*Node {
	if b.node == nil {
		return nil
	}
	return b.node.Children()
}

// Attributes returns the owning node's current attributes.
func (b *binding) Attributes() Attributes {
	if b.node == nil {
		return nil
	}
	return b.node.Attributes()
}

// Node returns the node owning the attachment, or nil before it is owned.
func (b *binding) Node() *Node {
	return b.node
}

// Factory returns the factory of the owning node. Render methods use it to
// build their output.
func (b *binding) Factory() *Factory {
	if b.node == nil {
		return nil
	}
	return b.node.factory
}

// Fragment groups children without a wrapper. Its render returns the
// declared children unchanged.
type Fragment struct {
	binding
}

// Render implements Attachment.
func (f *Fragment) Render() (any, error) {
	return f.Children(), nil
}

func (f *Fragment) fragment() *Fragment { return f }

// Component is the embeddable base of stateful attachments.
//
//	type Counter struct {
//	    tree.Component
//	}
//
//	func (c *Counter) Render() (any, error) {
//	    return c.Factory().Create("span", nil, c.State()["count"])
//	}
type Component struct {
	binding
	state State
}

// State returns the current state snapshot.
func (c *Component) State() State {
	return c.state
}

// Update merges partial into a new state snapshot, last write wins.
// It does not reconcile; call Update on the node or its root afterwards.
func (c *Component) Update(partial State) {
	next := make(State, len(c.state)+len(partial))
	maps.Copy(next, c.state)
	maps.Copy(next, partial)
	c.state = next
}

// Construct implements ComponentAttachment.
func (c *Component) Construct() {}

// Refresh implements ComponentAttachment.
func (c *Component) Refresh() {}

// Reassign implements ComponentAttachment.
func (c *Component) Reassign() {}

// Destruct implements ComponentAttachment.
func (c *Component) Destruct() {}

// Render implements Attachment. Components must override it.
func (c *Component) Render() (any, error) {
	return nil, notImplemented(c.typ)
}

func (c *Component) component() *Component { return c }

// Element is the base of platform primitives.
type Element struct {
	binding
	name string
}

// NewElement returns an element attachment without a platform render.
func NewElement(name string) *Element {
	return &Element{name: name}
}

// Name returns the element tag.
func (e *Element) Name() string {
	return e.name
}

// Render implements Attachment. Platforms must override it.
func (e *Element) Render() (any, error) {
	return nil, fail(errors.CodeRenderNotImplemented, "element "+e.name)
}

func (e *Element) element() *Element { return e }

// Text is the base of text leaves.
type Text struct {
	binding
	content string
}

// NewText returns a text attachment without a platform render.
func NewText(content string) *Text {
	return &Text{content: content}
}

// Content returns the text content.
func (t *Text) Content() string {
	return t.content
}

// Render implements Attachment. Platforms must override it.
func (t *Text) Render() (any, error) {
	return nil, fail(errors.CodeRenderNotImplemented, "text")
}

func (t *Text) text() *Text { return t }

func notImplemented(t *Type) error {
	if t != nil {
		return fail(errors.CodeRenderNotImplemented, t.Name())
	}
	return fail(errors.CodeRenderNotImplemented)
}
