package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/retree/pkg/tree"
)

type card struct {
	tree.Component
}

func (c *card) Render() (any, error) {
	return c.Factory().Create("div", tree.Attributes{"className": "card"}, c.Attributes()["title"], c.Children())
}

var cardType = tree.DefineComponent("Card", func() *card { return &card{} })

// build creates and constructs a node from the HTML platform.
func build(t *testing.T, source any, attrs tree.Attributes, children ...any) *tree.Node {
	t.Helper()
	n, err := NewPlatform().Factory().Create(source, attrs, children...)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := n.Construct(); err != nil {
		t.Fatalf("Construct error: %v", err)
	}
	return n
}

func child(t *testing.T, f *tree.Factory, source any, attrs tree.Attributes, children ...any) *tree.Node {
	t.Helper()
	n, err := f.Create(source, attrs, children...)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return n
}

func TestPlatformRefs(t *testing.T) {
	p := NewPlatform()
	f := p.Factory()
	root := child(t, f, "ul", nil, child(t, f, "li", nil, "one"))
	if err := root.Construct(); err != nil {
		t.Fatal(err)
	}

	rootRef, ok := root.Reference().(*Ref)
	if !ok {
		t.Fatalf("Reference() = %T, want *Ref", root.Reference())
	}
	li := root.Nodes()[0]
	liRef := li.Reference().(*Ref)
	textRef := li.Nodes()[0].Reference().(*Ref)

	if rootRef.Tag != "ul" || liRef.Tag != "li" || textRef.Tag != "#text" {
		t.Errorf("tags = %s %s %s", rootRef.Tag, liRef.Tag, textRef.Tag)
	}
	if !(rootRef.ID < liRef.ID && liRef.ID < textRef.ID) {
		t.Errorf("ids not increasing: %v %v %v", rootRef, liRef, textRef)
	}
	if rootRef.String() != "ul#1" {
		t.Errorf("String() = %s, want ul#1", rootRef.String())
	}
}

func TestRenderText(t *testing.T) {
	html, err := NewRenderer(RendererConfig{}).RenderToString(build(t, "p", nil, "<script>alert('x')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<p>&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;</p>"
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderElement(t *testing.T) {
	f := NewPlatform().Factory()
	root := child(t, f, "div", tree.Attributes{"className": "container", "id": "main"},
		child(t, f, "h1", nil, "Title"),
		child(t, f, "p", nil, "Content"),
	)
	if err := root.Construct(); err != nil {
		t.Fatal(err)
	}

	html, err := NewRenderer(RendererConfig{}).RenderToString(root)
	if err != nil {
		t.Fatal(err)
	}
	want := `<div class="container" id="main"><h1>Title</h1><p>Content</p></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAttributes(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		attrs tree.Attributes
		want  string
	}{
		{"sorted", "a", tree.Attributes{"title": "t", "href": "/x"}, `<a href="/x" title="t"></a>`},
		{"boolean true", "input", tree.Attributes{"disabled": true}, `<input disabled>`},
		{"boolean false", "input", tree.Attributes{"disabled": false}, `<input>`},
		{"nil cleared", "div", tree.Attributes{"id": nil}, `<div></div>`},
		{"handler skipped", "button", tree.Attributes{"onclick": func() {}}, `<button></button>`},
		{"internal skipped", "div", tree.Attributes{"_k": 1, "key": "a"}, `<div></div>`},
		{"escaped", "div", tree.Attributes{"title": "a\"b\n"}, `<div title="a&quot;b&#10;"></div>`},
		{"numbers", "td", tree.Attributes{"colspan": 2, "data-x": 1.5}, `<td colspan="2" data-x="1.5"></td>`},
		{"htmlFor", "label", tree.Attributes{"htmlFor": "name"}, `<label for="name"></label>`},
		{"raw html", "div", tree.Attributes{"dangerouslySetInnerHTML": "<b>x</b>"}, `<div><b>x</b></div>`},
		{"injected name skipped", "div", tree.Attributes{`x" onload="alert(1)`: "v", "id": "a"}, `<div id="a"></div>`},
		{"spaced name skipped", "div", tree.Attributes{"a b": 1, "=": 2}, `<div></div>`},
		{"namespaced", "svg", tree.Attributes{"xlink:href": "#i"}, `<svg xlink:href="#i"></svg>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := NewRenderer(RendererConfig{}).RenderToString(build(t, tt.tag, tt.attrs))
			if err != nil {
				t.Fatal(err)
			}
			if html != tt.want {
				t.Errorf("got %q, want %q", html, tt.want)
			}
		})
	}
}

func TestRenderInvalidTag(t *testing.T) {
	f := NewPlatform().Factory()
	root := child(t, f, "main", nil,
		child(t, f, "p", nil, "ok"),
		child(t, f, "img src=x onerror=alert(1)", nil, "hidden"),
		child(t, f, "script>", nil),
		child(t, f, "my-widget", nil, "custom"),
	)
	if err := root.Construct(); err != nil {
		t.Fatal(err)
	}

	html, err := NewRenderer(RendererConfig{}).RenderToString(root)
	if err != nil {
		t.Fatal(err)
	}
	want := `<main><p>ok</p><my-widget>custom</my-widget></main>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderVoidElement(t *testing.T) {
	html, err := NewRenderer(RendererConfig{}).RenderToString(build(t, "br", nil))
	if err != nil {
		t.Fatal(err)
	}
	if html != "<br>" {
		t.Errorf("got %q, want <br>", html)
	}
}

func TestRenderComponentAndFragment(t *testing.T) {
	f := NewPlatform().Factory()
	group := tree.DefineFragment("Group", func() *tree.Fragment { return &tree.Fragment{} })
	root := child(t, f, "main", nil,
		child(t, f, group, nil, "a", child(t, f, "hr", nil)),
		child(t, f, cardType, tree.Attributes{"title": "Hello"}, child(t, f, "em", nil, "!")),
	)
	if err := root.Construct(); err != nil {
		t.Fatal(err)
	}

	html, err := NewRenderer(RendererConfig{}).RenderToString(root)
	if err != nil {
		t.Fatal(err)
	}
	want := `<main>a<hr><div class="card">Hello<em>!</em></div></main>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAfterRecycle(t *testing.T) {
	f := NewPlatform().Factory()
	root := child(t, f, "ul", nil, child(t, f, "li", nil, "a"))
	if err := root.Construct(); err != nil {
		t.Fatal(err)
	}
	if _, err := root.Recycle(child(t, f, "ul", tree.Attributes{"id": "x"}, child(t, f, "li", nil, "b"), child(t, f, "li", nil, "c"))); err != nil {
		t.Fatal(err)
	}

	html, err := NewRenderer(RendererConfig{}).RenderToString(root)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<ul id="x"><li>b</li><li>c</li></ul>`; html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderPretty(t *testing.T) {
	f := NewPlatform().Factory()
	root := child(t, f, "div", nil, child(t, f, "p", nil, child(t, f, "span", nil, "x")))
	if err := root.Construct(); err != nil {
		t.Fatal(err)
	}

	html, err := NewRenderer(RendererConfig{Pretty: true}).RenderToString(root)
	if err != nil {
		t.Fatal(err)
	}
	want := "<div>\n  <p>\n    <span>x</span>\n  </p>\n</div>\n"
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderNil(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderToWriter(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("got %q, want empty", buf.String())
	}
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	page := PageData{
		Body:    build(t, "h1", nil, "Hi"),
		Title:   "<Tree>",
		Styles:  []string{"body{margin:0}"},
		Scripts: []string{"console.log(1)"},
	}
	if err := NewRenderer(RendererConfig{}).RenderPage(&buf, page); err != nil {
		t.Fatal(err)
	}
	html := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>&lt;Tree&gt;</title>",
		"<style>body{margin:0}</style>",
		"<h1>Hi</h1>",
		"<script>console.log(1)</script>",
		"</html>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
}
