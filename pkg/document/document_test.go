package document

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/retree/internal/errors"
	"github.com/vango-dev/retree/pkg/tree"
)

type panel struct {
	tree.Component
}

func (p *panel) Render() (any, error) {
	return p.Factory().Create("section", nil, p.Children())
}

var (
	panelType = tree.DefineComponent("Panel", func() *panel { return &panel{} })
	groupType = tree.DefineFragment("Group", func() *tree.Fragment { return &tree.Fragment{} })
)

func newRegistry(t *testing.T) *tree.Registry {
	t.Helper()
	r, err := tree.NewRegistry(panelType, groupType)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestDecode(t *testing.T) {
	src := `
tag: ul
attrs:
  id: todo
  count: 2
children:
  - tag: li
    children: [Write the decoder, 42]
  - component: Panel
    attrs: {title: Done}
    children:
      - Nothing yet
  - fragment: Group
    children: [a, [b, ~]]
`
	n, err := Decode([]byte(src), nil, newRegistry(t))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	got, err := tree.Serialize(n)
	if err != nil {
		t.Fatal(err)
	}
	text := func(s string) *tree.Snapshot { return &tree.Snapshot{Type: tree.KindText, Content: s} }
	want := &tree.Snapshot{
		Type:       tree.KindElement,
		Name:       "ul",
		Attributes: tree.Attributes{"id": "todo", "count": 2},
		Children: []*tree.Snapshot{
			{
				Type:       tree.KindElement,
				Name:       "li",
				Attributes: tree.Attributes{},
				Children:   []*tree.Snapshot{text("Write the decoder"), text("42")},
			},
			{
				Type:       tree.KindComponent,
				Name:       "Panel",
				State:      tree.State{},
				Attributes: tree.Attributes{"title": "Done"},
				Children:   []*tree.Snapshot{text("Nothing yet")},
			},
			{
				Type:     tree.KindFragment,
				Name:     "Group",
				Children: []*tree.Snapshot{text("a"), text("b")},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSON(t *testing.T) {
	n, err := Decode([]byte(`{"tag": "p", "children": ["hi"]}`), nil, nil)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if n.String() != "Element<p>" || len(n.Children()) != 1 {
		t.Errorf("got %v with %d children", n, len(n.Children()))
	}
}

func TestDecodeScalarRoot(t *testing.T) {
	n, err := Decode([]byte(`hello`), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind() != tree.KindText {
		t.Errorf("Kind() = %v, want Text", n.Kind())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
		line int
	}{
		{"syntax", "tag: [", "E142", 0},
		{"empty", "", "E145", 0},
		{"sequence root", "- a\n- b\n", "E145", 1},
		{"unknown component", "tag: div\nchildren:\n  - component: Missing\n", "E143", 3},
		{"no source", "attrs: {id: x}\n", "E145", 1},
		{"two sources", "tag: div\ncomponent: Panel\n", "E145", 1},
		{"unknown key", "tag: div\nstyle: x\n", "E145", 2},
		{"bad attrs", "tag: div\nattrs: [1]\n", "E145", 2},
		{"bad children", "tag: div\nchildren: text\n", "E145", 2},
		{"fragment as component", "component: Group\n", "E145", 1},
		{"component as fragment", "fragment: Panel\n", "E145", 1},
		{"empty tag", "tag: ''\n", "E145", 1},
		{"recursive alias", "&a\ntag: div\nchildren: [*a]\n", "E145", 0},
		{"recursive nested alias", "&a\ntag: div\nchildren:\n  - tag: p\n    children: [*a]\n", "E145", 0},
		{"recursive sequence alias", "tag: div\nchildren: &s [p, *s]\n", "E145", 0},
		{"raw html attr", "tag: div\nattrs:\n  id: x\n  dangerouslySetInnerHTML: '<b>x</b>'\n", "E145", 4},
		{"raw html merged attr", "tag: div\nattrs:\n  <<: {dangerouslySetInnerHTML: x}\n", "E145", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src), nil, newRegistry(t))
			if !stderrors.Is(err, errors.New(tt.code)) {
				t.Fatalf("Decode error = %v, want %s", err, tt.code)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error %T is not *errors.Error", err)
			}
			if tt.line == 0 {
				return
			}
			if e.Location == nil || e.Location.Line != tt.line {
				t.Errorf("Location = %v, want line %d", e.Location, tt.line)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.yaml")
	if err := os.WriteFile(path, []byte("tag: div\nchildren:\n  - component: Nope\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path, nil, newRegistry(t))
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != "E143" {
		t.Fatalf("Load error = %v, want E143", err)
	}
	if e.Location == nil || e.Location.File != path {
		t.Errorf("Location = %v, want file %s", e.Location, path)
	}
	if len(e.Context) == 0 {
		t.Error("expected source context lines")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml"), nil, nil); !stderrors.Is(err, errors.New("E141")) {
		t.Errorf("Load missing error = %v, want E141", err)
	}
}

func TestDecodeAlias(t *testing.T) {
	src := `
tag: div
children:
  - &item {tag: span, children: [x]}
  - *item
`
	n, err := Decode([]byte(src), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Children()) != 2 || n.Children()[0] == n.Children()[1] {
		t.Errorf("alias should build a distinct node, got %v", n.Children())
	}
}

func TestDecodeAliasExpansionLimit(t *testing.T) {
	// Each level references the previous one ten times.
	var b strings.Builder
	b.WriteString("tag: div\nchildren:\n  - &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 5; i++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*l%d, ", i-1), 10), ", ")
		fmt.Fprintf(&b, "  - &l%d [%s]\n", i, refs)
	}

	_, err := Decode([]byte(b.String()), nil, nil)
	if !stderrors.Is(err, errors.New("E145")) {
		t.Fatalf("Decode error = %v, want E145", err)
	}
	if !strings.Contains(err.Error(), "too many alias expansions") {
		t.Errorf("error = %v, want alias expansion limit", err)
	}
}
