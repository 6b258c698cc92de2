package render

import (
	"strconv"
	"sync/atomic"

	"github.com/vango-dev/retree/pkg/tree"
)

// Ref is the platform reference of a constructed Element or Text node.
type Ref struct {
	// ID is unique per Platform and increases in construction order.
	ID uint64

	// Tag is the element name, or "#text" for text nodes.
	Tag string
}

// String returns "tag#id".
func (r *Ref) String() string {
	return r.Tag + "#" + strconv.FormatUint(r.ID, 10)
}

// Platform is the HTML platform. Its element and text attachments produce
// a *Ref when constructed. It is safe for concurrent use.
type Platform struct {
	ids atomic.Uint64
}

// NewPlatform creates an HTML platform.
func NewPlatform() *Platform {
	return &Platform{}
}

// Models returns the attachment constructors for tree.NewFactory.
func (p *Platform) Models() tree.Models {
	return tree.Models{
		Element: func(name string) tree.ElementAttachment {
			return &element{Element: tree.NewElement(name), platform: p}
		},
		Text: func(content string) tree.TextAttachment {
			return &text{Text: tree.NewText(content), platform: p}
		},
	}
}

// Factory is shorthand for tree.NewFactory(p.Models()).
func (p *Platform) Factory() *tree.Factory {
	return tree.NewFactory(p.Models())
}

func (p *Platform) ref(tag string) *Ref {
	return &Ref{ID: p.ids.Add(1), Tag: tag}
}

type element struct {
	*tree.Element
	platform *Platform
}

func (e *element) Render() (any, error) {
	return e.platform.ref(e.Name()), nil
}

type text struct {
	*tree.Text
	platform *Platform
}

func (t *text) Render() (any, error) {
	return t.platform.ref("#text"), nil
}
