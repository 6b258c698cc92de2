package tree

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/vango-dev/retree/internal/errors"
)

// lifecycle is the node state machine: unconstructed -> constructed -> destructed.
type lifecycle uint8

const (
	unconstructed lifecycle = iota
	constructed
	destructed
)

// Node is the live tree entity pairing an attachment with its lifecycle,
// ownership and realized children.
//
// A Node is not safe for concurrent use. Callers serialize every operation
// on a tree (see pkg/mount for a single-owner wrapper).
type Node struct {
	kind       Kind
	state      lifecycle
	parent     *Node
	children   []*Node
	attributes Attributes
	attachment Attachment
	nodes      []*Node
	reference  any

	typ      *Type
	factory  *Factory
	observer Observer
}

// NewNode creates a detached, unconstructed node owning attachment.
//
// Attributes are copied. For Element and Text nodes the declared children
// are also the realized children; Fragment and Component nodes derive their
// realized children from Render when constructed.
func NewNode(attachment Attachment, attributes Attributes, children []*Node) (*Node, error) {
	if attachment == nil {
		return nil, fail(errors.CodeUnsupportedAttachment, "nil")
	}

	n := &Node{
		children:   slices.Clip(slices.Clone(children)),
		attributes: maps.Clone(attributes),
		attachment: attachment,
	}

	switch attachment.(type) {
	case FragmentAttachment:
		n.kind = KindFragment
	case ComponentAttachment:
		n.kind = KindComponent
	case ElementAttachment:
		n.kind = KindElement
		n.nodes = n.children
	case TextAttachment:
		n.kind = KindText
		n.nodes = n.children
	default:
		return nil, fail(errors.CodeUnsupportedAttachment, fmt.Sprintf("%T", attachment))
	}

	b := attachment.bound()
	b.node = n
	n.typ = b.typ
	return n, nil
}

// Kind returns the node type. It never changes.
func (n *Node) Kind() Kind {
	return n.kind
}

// Ready reports whether the node is constructed.
func (n *Node) Ready() bool {
	return n.state == constructed
}

// Parent returns the owning node, or nil for detached nodes.
// The back-reference is for validation only.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the declared children snapshot.
func (n *Node) Children() []*Node {
	return n.children
}

// Attributes returns the attribute snapshot.
func (n *Node) Attributes() Attributes {
	return n.attributes
}

// Attachment returns the owned attachment.
func (n *Node) Attachment() Attachment {
	return n.attachment
}

// Nodes returns the realized children snapshot.
func (n *Node) Nodes() []*Node {
	return n.nodes
}

// Reference returns the platform reference of a constructed Element or Text.
func (n *Node) Reference() any {
	return n.reference
}

// Type returns the declared type of a Fragment or Component node. It is nil
// for Element and Text nodes and for attachments built without a Type.
func (n *Node) Type() *Type {
	return n.typ
}

// Factory returns the factory that created the node or its nearest
// ancestor's factory once inserted.
func (n *Node) Factory() *Factory {
	return n.factory
}

// SetObserver installs o on n and on every realized descendant. Nodes
// inserted later inherit the observer of their parent.
func (n *Node) SetObserver(o Observer) {
	n.observer = o
	for _, child := range n.nodes {
		child.SetObserver(o)
	}
}

// String describes the node for error subjects and logs.
func (n *Node) String() string {
	switch n.kind {
	case KindElement:
		return "Element<" + n.attachment.(ElementAttachment).Name() + ">"
	case KindText:
		return "Text(" + strconv.Quote(n.attachment.(TextAttachment).Content()) + ")"
	default:
		return n.kind.String() + "<" + n.typeName() + ">"
	}
}

// typeName returns the declared type name, falling back to the Go type.
func (n *Node) typeName() string {
	if n.typ != nil {
		return n.typ.Name()
	}
	return fmt.Sprintf("%T", n.attachment)
}

// Construct renders the node and constructs its realized children.
//
// Fragment and Component nodes render their attachment (Component runs its
// Construct hook first) and normalize the result into the realized children.
// Element and Text nodes render once to obtain their reference. Each realized
// child is then inserted in order.
func (n *Node) Construct() error {
	if n.state != unconstructed {
		return fail(errors.CodeAlreadyConstructed, n)
	}
	n.state = constructed

	switch n.kind {
	case KindFragment:
		nodes, err := n.render()
		if err != nil {
			return err
		}
		n.nodes = nodes
	case KindComponent:
		n.attachment.(ComponentAttachment).Construct()
		nodes, err := n.render()
		if err != nil {
			return err
		}
		n.nodes = nodes
	default:
		ref, err := n.attachment.Render()
		if err != nil {
			return err
		}
		n.reference = ref
	}

	var previous *Node
	for _, child := range n.nodes {
		if _, err := n.Insert(child, previous); err != nil {
			return err
		}
		previous = child
	}

	n.emit(Event{Op: OpConstruct, Node: n})
	return nil
}

// Insert attaches node as a child positioned after previous and constructs
// it if it was never constructed. The child inherits the parent's factory
// and observer when it has none.
func (n *Node) Insert(node, previous *Node) (*Node, error) {
	if node.parent != nil {
		return nil, fail(errors.CodeAlreadyAttached, node)
	}
	if node.state == destructed {
		return nil, fail(errors.CodeAlreadyConstructed, node)
	}
	node.parent = n
	if node.factory == nil {
		node.factory = n.factory
	}
	if node.observer == nil && n.observer != nil {
		node.SetObserver(n.observer)
	}
	n.emit(Event{Op: OpInsert, Node: node, Parent: n, Previous: previous})

	if node.state != constructed {
		if err := node.Construct(); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// Remove detaches node from n and destructs it if it is constructed.
func (n *Node) Remove(node *Node) (*Node, error) {
	if node.parent == nil {
		return nil, fail(errors.CodeAlreadyDetached, node)
	}
	if node.parent != n {
		return nil, fail(errors.CodeWrongParent, node)
	}
	node.parent = nil
	n.emit(Event{Op: OpRemove, Node: node, Parent: n})

	if node.state == constructed {
		if err := node.Destruct(); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// Destruct tears the node down: Component nodes run their Destruct hook,
// then every realized child is removed. A destructed node is terminal.
func (n *Node) Destruct() error {
	if n.state != constructed {
		return fail(errors.CodeAlreadyDestroyed, n)
	}
	n.state = destructed

	if n.kind == KindComponent {
		n.attachment.(ComponentAttachment).Destruct()
	}
	for _, child := range n.nodes {
		if _, err := n.Remove(child); err != nil {
			return err
		}
	}
	n.nodes = nil

	n.emit(Event{Op: OpDestruct, Node: n})
	return nil
}

// Reassign replaces the declared children.
//
// For Component nodes the Reassign hook runs afterwards; the caller decides
// whether to re-render. Element and Text nodes realize their declared
// children directly, so the new list is reconciled against the current one.
func (n *Node) Reassign(children []*Node) error {
	switch n.kind {
	case KindElement, KindText:
		nodes, err := recycleNodes(n, n.nodes, children)
		if err != nil {
			return err
		}
		n.children = nodes
		n.nodes = nodes
	default:
		n.children = slices.Clip(slices.Clone(children))
		if n.kind == KindComponent {
			n.attachment.(ComponentAttachment).Reassign()
		}
	}
	n.emit(Event{Op: OpReassign, Node: n})
	return nil
}

// Refresh merges attributes into a new snapshot. Component nodes run their
// Refresh hook afterwards.
func (n *Node) Refresh(attributes Attributes) {
	next := make(Attributes, len(n.attributes)+len(attributes))
	maps.Copy(next, n.attributes)
	maps.Copy(next, attributes)
	n.attributes = next

	if n.kind == KindComponent {
		n.attachment.(ComponentAttachment).Refresh()
	}
	n.emit(Event{Op: OpRefresh, Node: n})
}

// Update re-renders every Fragment and Component boundary below and
// including n and reconciles their realized children. Element and Text
// nodes only forward the update to their realized children.
func (n *Node) Update() error {
	switch n.kind {
	case KindFragment, KindComponent:
		nodes, err := n.render()
		if err != nil {
			return err
		}
		result, err := recycleNodes(n, n.nodes, nodes)
		if err != nil {
			return err
		}
		n.nodes = result
		if n.kind == KindFragment {
			n.children = result
		}
	default:
		for _, child := range n.nodes {
			if err := child.Update(); err != nil {
				return err
			}
		}
	}
	return nil
}

// render invokes the attachment's Render and normalizes the output.
func (n *Node) render() ([]*Node, error) {
	out, err := n.attachment.Render()
	if err != nil {
		return nil, err
	}
	n.emit(Event{Op: OpRender, Node: n})
	return n.factory.normalize(out)
}
