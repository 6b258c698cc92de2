package tree

import (
	"encoding/json"
	"maps"

	"github.com/vango-dev/retree/internal/errors"
)

// Snapshot is a plain-data view of a node subtree for inspection, tests and
// debugging. Its JSON shape depends on Type:
//
//	Component {"type":1,"name":...,"state":{},"attributes":{},"children":[]}
//	Element   {"type":2,"name":...,"attributes":{},"children":[]}
//	Fragment  {"type":0,"name":...,"children":[]}
//	Text      {"type":3,"content":...}
type Snapshot struct {
	Type       Kind
	Name       string
	Content    string
	State      State
	Attributes Attributes
	Children   []*Snapshot
}

// Serialize snapshots n and its declared children.
func Serialize(n *Node) (*Snapshot, error) {
	return serialize(n, (*Node).Children)
}

// SerializeRealized snapshots n and its realized children, i.e. what
// Fragment and Component nodes actually rendered.
func SerializeRealized(n *Node) (*Snapshot, error) {
	return serialize(n, (*Node).Nodes)
}

func serialize(n *Node, children func(*Node) []*Node) (*Snapshot, error) {
	if n == nil {
		return nil, fail(errors.CodeUnsupportedNodeType, "nil")
	}

	s := &Snapshot{Type: n.kind}
	switch a := n.attachment.(type) {
	case ComponentAttachment:
		s.Name = n.typeName()
		s.State = copyMap(a.State())
		s.Attributes = copyMap(n.attributes)
	case FragmentAttachment:
		s.Name = n.typeName()
	case ElementAttachment:
		s.Name = a.Name()
		s.Attributes = copyMap(n.attributes)
	case TextAttachment:
		s.Content = a.Content()
		return s, nil
	default:
		return nil, fail(errors.CodeUnsupportedNodeType, n.kind)
	}

	list := children(n)
	s.Children = make([]*Snapshot, 0, len(list))
	for _, child := range list {
		cs, err := serialize(child, children)
		if err != nil {
			return nil, err
		}
		s.Children = append(s.Children, cs)
	}
	return s, nil
}

func copyMap[M ~map[string]any](m M) M {
	out := make(M, len(m))
	maps.Copy(out, m)
	return out
}

type componentJSON struct {
	Type       Kind        `json:"type"`
	Name       string      `json:"name"`
	State      State       `json:"state"`
	Attributes Attributes  `json:"attributes"`
	Children   []*Snapshot `json:"children"`
}

type elementJSON struct {
	Type       Kind        `json:"type"`
	Name       string      `json:"name"`
	Attributes Attributes  `json:"attributes"`
	Children   []*Snapshot `json:"children"`
}

type fragmentJSON struct {
	Type     Kind        `json:"type"`
	Name     string      `json:"name"`
	Children []*Snapshot `json:"children"`
}

type textJSON struct {
	Type    Kind   `json:"type"`
	Content string `json:"content"`
}

// MarshalJSON implements json.Marshaler.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	children := s.Children
	if children == nil {
		children = []*Snapshot{}
	}
	switch s.Type {
	case KindComponent:
		return json.Marshal(componentJSON{s.Type, s.Name, copyMap(s.State), copyMap(s.Attributes), children})
	case KindElement:
		return json.Marshal(elementJSON{s.Type, s.Name, copyMap(s.Attributes), children})
	case KindFragment:
		return json.Marshal(fragmentJSON{s.Type, s.Name, children})
	case KindText:
		return json.Marshal(textJSON{s.Type, s.Content})
	}
	return nil, fail(errors.CodeUnsupportedNodeType, s.Type)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type       Kind        `json:"type"`
		Name       string      `json:"name"`
		Content    string      `json:"content"`
		State      State       `json:"state"`
		Attributes Attributes  `json:"attributes"`
		Children   []*Snapshot `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Snapshot(raw)
	return nil
}
