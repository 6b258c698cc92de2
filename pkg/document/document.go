package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/retree/internal/errors"
	"github.com/vango-dev/retree/pkg/tree"
)

// Keys of a mapping node.
const (
	keyTag       = "tag"
	keyComponent = "component"
	keyFragment  = "fragment"
	keyAttrs     = "attrs"
	keyChildren  = "children"

	// rawHTMLAttr is rendered unescaped, so documents may not set it.
	rawHTMLAttr = "dangerouslySetInnerHTML"
)

// Decoder builds nodes from parsed documents.
type Decoder struct {
	factory  *tree.Factory
	registry *tree.Registry

	// file is used for error locations only.
	file string

	// Per-Decode alias bookkeeping.
	visiting map[*yaml.Node]bool
	aliases  int
}

// maxAliases bounds alias dereferences per document.
const maxAliases = 10000

// NewDecoder creates a decoder. A nil registry resolves no component or
// fragment names.
func NewDecoder(factory *tree.Factory, registry *tree.Registry) *Decoder {
	return &Decoder{factory: factory, registry: registry}
}

// Decode parses data as YAML (or JSON) and builds a detached,
// unconstructed node.
func Decode(data []byte, factory *tree.Factory, registry *tree.Registry) (*tree.Node, error) {
	return NewDecoder(factory, registry).Decode(data)
}

// Load reads and decodes the document at path.
func Load(path string, factory *tree.Factory, registry *tree.Registry) (*tree.Node, error) {
	return NewDecoder(factory, registry).Load(path)
}

// Load reads and decodes the document at path.
func (d *Decoder) Load(path string) (*tree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E141").WithSubject("%s", path).Wrap(err)
	}
	file := d.file
	d.file = path
	defer func() { d.file = file }()
	return d.Decode(data)
}

// Decode parses data and builds a node.
func (d *Decoder) Decode(data []byte) (*tree.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("E142").WithSubject("%s", d.name()).Wrap(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, d.invalid(&doc, "empty document")
	}

	d.visiting = make(map[*yaml.Node]bool)
	d.aliases = 0

	root, err := d.resolve(doc.Content[0])
	if err != nil {
		return nil, err
	}
	if root.Kind == yaml.SequenceNode || isNull(root) {
		return nil, d.invalid(root, "document root must be a single node")
	}
	return d.node(root)
}

func (d *Decoder) name() string {
	if d.file == "" {
		return "<input>"
	}
	return d.file
}

// node builds a node from a scalar (text) or mapping.
func (d *Decoder) node(n *yaml.Node) (*tree.Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.factory.Text(n.Value)
	case yaml.MappingNode:
		return d.mapping(n)
	default:
		return nil, d.invalid(n, kindName(n.Kind))
	}
}

func (d *Decoder) mapping(n *yaml.Node) (*tree.Node, error) {
	if err := d.enter(n); err != nil {
		return nil, err
	}
	defer delete(d.visiting, n)

	var (
		source   any
		attrs    tree.Attributes
		children []any
		sources  int
	)

	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		value, err := d.resolve(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		switch key.Value {
		case keyTag:
			if value.Kind != yaml.ScalarNode || value.Value == "" {
				return nil, d.invalid(value, "tag must be a non-empty string")
			}
			source = value.Value
			sources++
		case keyComponent, keyFragment:
			t, err := d.lookup(key.Value, value)
			if err != nil {
				return nil, err
			}
			source = t
			sources++
		case keyAttrs:
			if value.Kind != yaml.MappingNode {
				if isNull(value) {
					continue
				}
				return nil, d.invalid(value, "attrs must be a mapping")
			}
			if err := value.Decode(&attrs); err != nil {
				return nil, d.invalid(value, err.Error())
			}
			if _, ok := attrs[rawHTMLAttr]; ok {
				return nil, d.invalid(attrKey(value, rawHTMLAttr), rawHTMLAttr+" is not allowed in documents")
			}
		case keyChildren:
			var err error
			if children, err = d.children(value); err != nil {
				return nil, err
			}
		default:
			return nil, d.invalid(key, "unknown key "+key.Value)
		}
	}

	if sources != 1 {
		return nil, d.invalid(n, "mapping needs exactly one of tag, component, fragment")
	}
	return d.factory.Create(source, attrs, children...)
}

func (d *Decoder) lookup(key string, value *yaml.Node) (*tree.Type, error) {
	if value.Kind != yaml.ScalarNode || value.Value == "" {
		return nil, d.invalid(value, key+" must be a non-empty string")
	}

	var t *tree.Type
	ok := false
	if d.registry != nil {
		t, ok = d.registry.Lookup(value.Value)
	}
	if !ok {
		return nil, d.locate(errors.New("E143").WithSubject("%s", value.Value), value)
	}

	want := tree.KindComponent
	if key == keyFragment {
		want = tree.KindFragment
	}
	if t.Kind() != want {
		return nil, d.invalid(value, fmt.Sprintf("%s is a %v, not a %v", t.Name(), t.Kind(), want))
	}
	return t, nil
}

// children decodes a child list. Nested sequences are flattened and null
// entries dropped, as the factory does for programmatic children.
func (d *Decoder) children(n *yaml.Node) ([]any, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.invalid(n, "children must be a sequence")
	}
	if err := d.enter(n); err != nil {
		return nil, err
	}
	defer delete(d.visiting, n)

	out := make([]any, 0, len(n.Content))
	for _, item := range n.Content {
		item, err := d.resolve(item)
		if err != nil {
			return nil, err
		}
		switch {
		case isNull(item):
			continue
		case item.Kind == yaml.SequenceNode:
			nested, err := d.children(item)
			if err != nil {
				return nil, err
			}
			out = append(out, nested)
		default:
			child, err := d.node(item)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
	}
	return out, nil
}

func (d *Decoder) invalid(n *yaml.Node, subject string) error {
	return d.locate(errors.New("E145").WithSubject("%s", subject), n)
}

func (d *Decoder) locate(err *errors.Error, n *yaml.Node) error {
	if n.Line > 0 {
		err.WithLocation(d.file, n.Line, n.Column)
	}
	return err
}

// resolve follows aliases to their anchored node.
func (d *Decoder) resolve(n *yaml.Node) (*yaml.Node, error) {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		d.aliases++
		if d.aliases > maxAliases {
			return nil, d.invalid(n, "too many alias expansions")
		}
		n = n.Alias
	}
	return n, nil
}

// enter marks n as being decoded. Reaching it again before it is done
// means an alias refers to one of its own ancestors.
func (d *Decoder) enter(n *yaml.Node) error {
	if d.visiting[n] {
		return d.invalid(n, "recursive alias")
	}
	d.visiting[n] = true
	return nil
}

// attrKey returns the key node for name in an attrs mapping, or the
// mapping itself when the key came in through a merge.
func attrKey(attrs *yaml.Node, name string) *yaml.Node {
	for i := 0; i+1 < len(attrs.Content); i += 2 {
		if attrs.Content[i].Value == name {
			return attrs.Content[i]
		}
	}
	return attrs
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
