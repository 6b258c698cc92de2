package tree

// Op is the kind of a tree event.
type Op uint8

const (
	OpConstruct Op = iota // node finished constructing its subtree
	OpDestruct            // node finished destructing its subtree
	OpRender              // Fragment/Component attachment rendered
	OpInsert              // node attached to Parent
	OpKeep                // node kept by a node-list diff and recycled in place
	OpRemove              // node detached from Parent
	OpRefresh             // attributes replaced
	OpReassign            // declared children replaced
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpConstruct:
		return "construct"
	case OpDestruct:
		return "destruct"
	case OpRender:
		return "render"
	case OpInsert:
		return "insert"
	case OpKeep:
		return "keep"
	case OpRemove:
		return "remove"
	case OpRefresh:
		return "refresh"
	case OpReassign:
		return "reassign"
	default:
		return "unknown"
	}
}

// Event describes one step of a tree operation.
type Event struct {
	Op   Op
	Node *Node

	// Parent is set for insert, keep and remove.
	Parent *Node

	// Previous is the sibling cursor of an insert, nil for the first child.
	Previous *Node
}

// Observer receives tree events synchronously, in the order the operations
// run. Implementations must not mutate the tree.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

func (n *Node) emit(e Event) {
	if n.observer != nil {
		n.observer.Observe(e)
	}
}
