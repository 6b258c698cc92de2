package tree

// Kind is the node type discriminator. It is derived from the attachment
// variant when the node is created and never changes afterwards.
type Kind uint8

const (
	KindFragment  Kind = iota // Grouping without own state
	KindComponent             // Stateful, renders a subtree
	KindElement               // Platform primitive (<div>, <button>, etc.)
	KindText                  // Plain text leaf
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}
