package render

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/retree/internal/errors"
	"github.com/vango-dev/retree/pkg/tree"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer writes realized node trees as HTML. It reads the tree and never
// mutates it, so callers must serialize rendering with reconciliation.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a node tree to an HTML string.
func (r *Renderer) RenderToString(node *tree.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *tree.Node) error {
	return r.renderNode(w, node, 0)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *tree.Node, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind() {
	case tree.KindElement:
		return r.renderElement(w, node, depth)
	case tree.KindText:
		return r.renderText(w, node)
	case tree.KindFragment, tree.KindComponent:
		return r.renderChildren(w, node, depth)
	default:
		return errors.New(errors.CodeUnsupportedNodeType).WithSubject("%v", node.Kind())
	}
}

// renderElement renders an HTML element with its attributes and children.
// An element whose tag is not a valid name is skipped with its subtree.
func (r *Renderer) renderElement(w io.Writer, node *tree.Node, depth int) error {
	tag := node.Attachment().(tree.ElementAttachment).Name()
	if !validName(tag) {
		return nil
	}

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := io.WriteString(w, "<"+tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node.Attributes()); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if isVoidElement(tag) {
		r.newline(w)
		return nil
	}

	if raw, ok := node.Attributes()["dangerouslySetInnerHTML"].(string); ok {
		if _, err := io.WriteString(w, raw); err != nil {
			return err
		}
	} else {
		block := len(node.Nodes()) > 0 && !isInlineElement(tag)
		if block {
			r.newline(w)
		}
		if err := r.renderChildren(w, node, depth+1); err != nil {
			return err
		}
		if r.config.Pretty && block {
			r.writeIndent(w, depth)
		}
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	r.newline(w)
	return nil
}

// renderText renders a text node with HTML escaping.
func (r *Renderer) renderText(w io.Writer, node *tree.Node) error {
	content := node.Attachment().(tree.TextAttachment).Content()
	_, err := io.WriteString(w, escapeHTML(content))
	return err
}

// renderChildren renders the realized children. Fragment and Component
// nodes have no markup of their own.
func (r *Renderer) renderChildren(w io.Writer, node *tree.Node, depth int) error {
	for _, child := range node.Nodes() {
		if err := r.renderNode(w, child, depth); err != nil {
			return err
		}
	}
	return nil
}

// renderAttributes renders attributes in name order. Nil values are
// cleared attributes and funcs are handlers; neither is rendered, and
// neither are keys that are not valid names.
func (r *Renderer) renderAttributes(w io.Writer, attrs tree.Attributes) error {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := attrs[key]
		if value == nil || !validName(key) || isFunc(value) {
			continue
		}

		switch key {
		case "className":
			key = "class"
		case "htmlFor":
			key = "for"
		case "dangerouslySetInnerHTML", "key":
			continue
		}

		if isBooleanAttr(key) {
			if b, ok := value.(bool); ok {
				if b {
					if _, err := io.WriteString(w, " "+key); err != nil {
						return err
					}
				}
				continue
			}
		}

		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(attrToString(value))); err != nil {
			return err
		}
	}
	return nil
}

func isFunc(value any) bool {
	return reflect.TypeOf(value).Kind() == reflect.Func
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []string:
		return strings.Join(v, " ")
	default:
		return fmt.Sprint(v)
	}
}

func (r *Renderer) newline(w io.Writer) {
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat(r.config.Indent, depth))
}
