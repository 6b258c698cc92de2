package tree

import (
	"reflect"
	"slices"
	"sort"

	"github.com/vango-dev/retree/internal/errors"
	"github.com/vango-dev/retree/pkg/differ"
)

// Same reports whether proposal can be recycled into current: both have the
// same kind and the same type (Fragment/Component), name (Element) or
// content (Text).
func Same(current, proposal *Node) bool {
	if current.kind != proposal.kind {
		return false
	}
	switch current.kind {
	case KindFragment, KindComponent:
		if current.typ != nil || proposal.typ != nil {
			return current.typ == proposal.typ
		}
		return reflect.TypeOf(current.attachment) == reflect.TypeOf(proposal.attachment)
	case KindElement:
		return current.attachment.(ElementAttachment).Name() == proposal.attachment.(ElementAttachment).Name()
	case KindText:
		return current.attachment.(TextAttachment).Content() == proposal.attachment.(TextAttachment).Content()
	}
	return false
}

// Recycle reconciles n in place against proposal, a freshly built node of
// the same kind, and returns n.
//
// Fragment nodes re-render from the proposal and reconcile their realized
// children. Element and Text nodes refresh changed attributes and reconcile
// their children against the proposal's. Component nodes refresh changed
// attributes, reassign materially changed children, and re-render only when
// one of the two changed.
func (n *Node) Recycle(proposal *Node) (*Node, error) {
	if proposal == nil || n.kind != proposal.kind {
		return nil, fail(errors.CodeTypeMismatch, mismatch(n, proposal))
	}
	if proposal == n {
		return n, nil
	}

	switch n.kind {
	case KindFragment:
		out, err := proposal.attachment.Render()
		if err != nil {
			return nil, err
		}
		nodes, err := n.factory.normalize(out)
		if err != nil {
			return nil, err
		}
		result, err := recycleNodes(n, n.nodes, nodes)
		if err != nil {
			return nil, err
		}
		n.nodes = result
		n.children = result

	case KindComponent:
		changedAttributes, useAttributes := recycleAttributes(n.attributes, proposal.attributes)
		if useAttributes {
			n.Refresh(changedAttributes)
		}
		children, useChildren := recycleChildren(n.children, proposal.children)
		if useChildren {
			if err := n.Reassign(children); err != nil {
				return nil, err
			}
		}
		if useAttributes || useChildren {
			nodes, err := n.render()
			if err != nil {
				return nil, err
			}
			result, err := recycleNodes(n, n.nodes, nodes)
			if err != nil {
				return nil, err
			}
			n.nodes = result
		}

	default:
		changedAttributes, useAttributes := recycleAttributes(n.attributes, proposal.attributes)
		if useAttributes {
			n.Refresh(changedAttributes)
		}
		result, err := recycleNodes(n, n.nodes, proposal.children)
		if err != nil {
			return nil, err
		}
		n.nodes = result
		n.children = result
	}
	return n, nil
}

func mismatch(n, proposal *Node) string {
	if proposal == nil {
		return n.kind.String() + " != nil"
	}
	return n.kind.String() + " != " + proposal.kind.String()
}

// recycleNodes applies the node-list edit script of current against
// proposal under parent and returns the new realized list. Inserted nodes
// are attached after the running sibling cursor, kept nodes are recycled
// against their paired proposal, removed nodes are detached and destructed.
func recycleNodes(parent *Node, current, proposal []*Node) ([]*Node, error) {
	changes := differ.Diff(current, proposal, Same)
	result := make([]*Node, 0, len(proposal))

	var previous *Node
	for _, change := range changes {
		switch change.Action {
		case differ.Insert:
			for _, node := range change.Values {
				if _, err := parent.Insert(node, previous); err != nil {
					return nil, err
				}
				result = append(result, node)
				previous = node
			}
		case differ.Keep:
			for i, node := range change.Values {
				parent.emit(Event{Op: OpKeep, Node: node, Parent: parent})
				if _, err := node.Recycle(change.Pairs[i]); err != nil {
					return nil, err
				}
				result = append(result, node)
				previous = node
			}
		case differ.Remove:
			for _, node := range change.Values {
				if _, err := parent.Remove(node); err != nil {
					return nil, err
				}
			}
		}
	}
	return slices.Clip(result), nil
}

// recycleChildren reports whether the declared children changed materially
// (any insert or remove) and returns the merged list. It does not recycle.
func recycleChildren(current, proposal []*Node) ([]*Node, bool) {
	changes := differ.Diff(current, proposal, Same)
	result := make([]*Node, 0, len(proposal))

	changed := false
	for _, change := range changes {
		switch change.Action {
		case differ.Insert:
			result = append(result, change.Values...)
			changed = true
		case differ.Keep:
			result = append(result, change.Values...)
		case differ.Remove:
			changed = true
		}
	}
	return result, changed
}

// recycleAttributes returns the attributes of proposal that differ from
// current and whether there were any. Removed names map to nil.
func recycleAttributes(current, proposal Attributes) (Attributes, bool) {
	changes := differ.Diff(sortedNames(current), sortedNames(proposal), differ.Strict[string]())
	result := make(Attributes)

	for _, change := range changes {
		for _, name := range change.Values {
			switch change.Action {
			case differ.Insert:
				result[name] = proposal[name]
			case differ.Keep:
				if !sameValue(current[name], proposal[name]) {
					result[name] = proposal[name]
				}
			case differ.Remove:
				if current[name] != nil {
					result[name] = nil
				}
			}
		}
	}
	return result, len(result) > 0
}

func sortedNames(attributes Attributes) []string {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sameValue compares attribute values by value for comparable types and by
// identity for maps, slices, pointers, channels and funcs. Structs and
// arrays are compared field by field, so a non-comparable value held in an
// interface field falls back to identity instead of panicking.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	return sameReflect(va, vb)
}

// sameReflect compares two values of the same type.
func sameReflect(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() == b.Float()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	case reflect.String:
		return a.String() == b.String()
	case reflect.Slice:
		return a.Pointer() == b.Pointer() && a.Len() == b.Len()
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		ea, eb := a.Elem(), b.Elem()
		return ea.Type() == eb.Type() && sameReflect(ea, eb)
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !sameReflect(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !sameReflect(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	}
	return false
}
