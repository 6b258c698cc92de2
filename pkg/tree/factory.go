package tree

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/vango-dev/retree/internal/errors"
)

// Models supplies the platform's Element and Text attachments. A nil field
// falls back to the base attachment, whose Render is not implemented.
type Models struct {
	Element func(name string) ElementAttachment
	Text    func(content string) TextAttachment
}

// Factory converts markup descriptions into nodes.
//
// A nil *Factory is usable and behaves like a factory with zero Models.
type Factory struct {
	models Models
}

// NewFactory creates a factory for the given platform models.
func NewFactory(models Models) *Factory {
	return &Factory{models: models}
}

// Create builds a detached, unconstructed node.
//
// source is an element tag (string) or a *Type declared with
// DefineComponent or DefineFragment. children may contain nodes, nested
// slices, nil (dropped), primitives and fmt.Stringer values; the last two
// become Text nodes.
func (f *Factory) Create(source any, attributes Attributes, children ...any) (*Node, error) {
	var attachment Attachment
	switch s := source.(type) {
	case string:
		attachment = f.element(s)
	case *Type:
		if s == nil {
			return nil, fail(errors.CodeUnsupportedMarkupSource, "nil *Type")
		}
		attachment = s.New()
	default:
		return nil, fail(errors.CodeUnsupportedMarkupSource, fmt.Sprintf("%T", source))
	}

	nodes, err := f.normalize(children)
	if err != nil {
		return nil, err
	}
	return f.node(attachment, attributes, nodes)
}

// Text builds a detached Text node.
func (f *Factory) Text(content string) (*Node, error) {
	return f.node(f.text(content), nil, nil)
}

func (f *Factory) node(attachment Attachment, attributes Attributes, children []*Node) (*Node, error) {
	n, err := NewNode(attachment, attributes, children)
	if err != nil {
		return nil, err
	}
	n.factory = f
	return n, nil
}

func (f *Factory) element(name string) Attachment {
	if f != nil && f.models.Element != nil {
		return f.models.Element(name)
	}
	return NewElement(name)
}

func (f *Factory) text(content string) Attachment {
	if f != nil && f.models.Text != nil {
		return f.models.Text(content)
	}
	return NewText(content)
}

// normalize flattens a render output or children list into nodes.
func (f *Factory) normalize(v any) ([]*Node, error) {
	return f.flatten(v, nil)
}

func (f *Factory) flatten(v any, out []*Node) ([]*Node, error) {
	switch c := v.(type) {
	case nil:
		return out, nil
	case *Node:
		if c == nil {
			return out, nil
		}
		return append(out, c), nil
	case []*Node:
		for _, child := range c {
			if child != nil {
				out = append(out, child)
			}
		}
		return out, nil
	case []any:
		for _, child := range c {
			var err error
			if out, err = f.flatten(child, out); err != nil {
				return nil, err
			}
		}
		return out, nil
	case string:
		return f.appendText(out, c)
	case bool:
		return f.appendText(out, strconv.FormatBool(c))
	case int:
		return f.appendText(out, strconv.Itoa(c))
	case int64:
		return f.appendText(out, strconv.FormatInt(c, 10))
	case float64:
		return f.appendText(out, strconv.FormatFloat(c, 'f', -1, 64))
	case fmt.Stringer:
		if rv := reflect.ValueOf(c); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return out, nil
		}
		return f.appendText(out, c.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			var err error
			if out, err = f.flatten(rv.Index(i).Interface(), out); err != nil {
				return nil, err
			}
		}
		return out, nil
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return out, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Bool, reflect.String,
		reflect.Complex64, reflect.Complex128:
		return f.appendText(out, fmt.Sprint(v))
	}
	return nil, fail(errors.CodeUnsupportedChildType, fmt.Sprintf("%T", v))
}

func (f *Factory) appendText(out []*Node, content string) ([]*Node, error) {
	n, err := f.Text(content)
	if err != nil {
		return nil, err
	}
	return append(out, n), nil
}
