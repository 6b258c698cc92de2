package tree

import (
	"errors"
	"testing"
)

func TestNewNodeKind(t *testing.T) {
	log := []string{}
	tests := []struct {
		name       string
		attachment Attachment
		want       Kind
	}{
		{"fragment", &Fragment{}, KindFragment},
		{"typed fragment", groupType.New(), KindFragment},
		{"component", defineCounter(&log).New(), KindComponent},
		{"element", NewElement("div"), KindElement},
		{"text", NewText("hi"), KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNode(tt.attachment, nil, nil)
			if err != nil {
				t.Fatalf("NewNode error: %v", err)
			}
			if n.Kind() != tt.want {
				t.Errorf("Kind() = %v, want %v", n.Kind(), tt.want)
			}
			if n.Ready() {
				t.Error("new node should not be ready")
			}
			if n.Attachment().bound().Node() != n {
				t.Error("attachment is not bound to its node")
			}
		})
	}
}

func TestNewNodeNilAttachment(t *testing.T) {
	if _, err := NewNode(nil, nil, nil); !errors.Is(err, ErrUnsupportedAttachment) {
		t.Errorf("NewNode(nil) error = %v, want %v", err, ErrUnsupportedAttachment)
	}
}

func TestNewNodeCopiesAttributes(t *testing.T) {
	attrs := Attributes{"id": "a"}
	n, err := NewNode(NewElement("div"), attrs, nil)
	if err != nil {
		t.Fatal(err)
	}
	attrs["id"] = "b"
	if n.Attributes()["id"] != "a" {
		t.Errorf("attributes id = %v, want a", n.Attributes()["id"])
	}
}

func TestElementNodesAreChildren(t *testing.T) {
	f := newTestFactory()
	n := mustCreate(t, f, "ul", nil, mustCreate(t, f, "li", nil), mustCreate(t, f, "li", nil))

	if !sameSlice(n.Nodes(), n.Children()) {
		t.Fatal("element nodes and children differ before construct")
	}
	mustConstruct(t, n)

	next := mustCreate(t, f, "ul", nil, mustCreate(t, f, "li", nil))
	if _, err := n.Recycle(next); err != nil {
		t.Fatal(err)
	}
	if !sameSlice(n.Nodes(), n.Children()) {
		t.Error("element nodes and children differ after recycle")
	}
	if len(n.Nodes()) != 1 {
		t.Errorf("len(Nodes()) = %d, want 1", len(n.Nodes()))
	}
}

func TestConstructLifecycle(t *testing.T) {
	f := newTestFactory()
	root := mustCreate(t, f, "div", Attributes{"id": "root"}, mustCreate(t, f, "p", nil, "hello"))

	mustConstruct(t, root)
	if !root.Ready() {
		t.Fatal("root should be ready")
	}
	if r, ok := root.Reference().(*ref); !ok || r.tag != "div" {
		t.Errorf("Reference() = %v, want div ref", root.Reference())
	}

	p := root.Nodes()[0]
	if p.Parent() != root {
		t.Error("child parent is not root")
	}
	if !p.Ready() || !p.Nodes()[0].Ready() {
		t.Error("descendants should be constructed")
	}
	if p.Factory() != f {
		t.Error("child did not inherit the factory")
	}

	if err := root.Construct(); !errors.Is(err, ErrAlreadyConstructed) {
		t.Errorf("second Construct error = %v, want %v", err, ErrAlreadyConstructed)
	}

	if err := root.Destruct(); err != nil {
		t.Fatalf("Destruct error: %v", err)
	}
	if root.Ready() || p.Ready() {
		t.Error("tree should not be ready after destruct")
	}
	if p.Parent() != nil {
		t.Error("child should be detached after destruct")
	}
	if err := root.Destruct(); !errors.Is(err, ErrAlreadyDestroyed) {
		t.Errorf("second Destruct error = %v, want %v", err, ErrAlreadyDestroyed)
	}
	if err := root.Construct(); !errors.Is(err, ErrAlreadyConstructed) {
		t.Errorf("Construct after destruct error = %v, want %v", err, ErrAlreadyConstructed)
	}
}

func TestDestructUnconstructed(t *testing.T) {
	n := mustCreate(t, newTestFactory(), "div", nil)
	if err := n.Destruct(); !errors.Is(err, ErrAlreadyDestroyed) {
		t.Errorf("Destruct error = %v, want %v", err, ErrAlreadyDestroyed)
	}
}

func TestOwnershipErrors(t *testing.T) {
	f := newTestFactory()
	a := mustConstruct(t, mustCreate(t, f, "div", nil))
	b := mustConstruct(t, mustCreate(t, f, "div", nil))
	child := mustCreate(t, f, "span", nil)

	if _, err := a.Insert(child, nil); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if !child.Ready() {
		t.Error("inserted child should be constructed")
	}
	if _, err := b.Insert(child, nil); !errors.Is(err, ErrAlreadyAttached) {
		t.Errorf("Insert attached error = %v, want %v", err, ErrAlreadyAttached)
	}
	if _, err := b.Remove(child); !errors.Is(err, ErrWrongParent) {
		t.Errorf("Remove from wrong parent error = %v, want %v", err, ErrWrongParent)
	}
	if _, err := a.Remove(child); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if child.Ready() {
		t.Error("removed child should be destructed")
	}
	if _, err := a.Remove(child); !errors.Is(err, ErrAlreadyDetached) {
		t.Errorf("Remove detached error = %v, want %v", err, ErrAlreadyDetached)
	}
	if _, err := a.Insert(child, nil); !errors.Is(err, ErrAlreadyConstructed) {
		t.Errorf("Insert destructed error = %v, want %v", err, ErrAlreadyConstructed)
	}
}

func TestRenderNotImplemented(t *testing.T) {
	var f *Factory
	n := mustCreate(t, f, "div", nil)
	if err := n.Construct(); !errors.Is(err, ErrRenderNotImplemented) {
		t.Errorf("Construct error = %v, want %v", err, ErrRenderNotImplemented)
	}

	bare := DefineComponent("Bare", func() *Component { return &Component{} })
	c := mustCreate(t, newTestFactory(), bare, nil)
	if err := c.Construct(); !errors.Is(err, ErrRenderNotImplemented) {
		t.Errorf("component Construct error = %v, want %v", err, ErrRenderNotImplemented)
	}
}

func TestComponentHooks(t *testing.T) {
	var log []string
	f := newTestFactory()
	c := mustConstruct(t, mustCreate(t, f, defineCounter(&log), Attributes{"label": "a"}))

	if got := c.Nodes()[0].String(); got != "Element<span>" {
		t.Errorf("rendered %s, want Element<span>", got)
	}
	if err := c.Destruct(); err != nil {
		t.Fatal(err)
	}

	want := []string{"construct", "render", "destruct"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %s, want %s", i, log[i], want[i])
		}
	}
}

func TestComponentUpdate(t *testing.T) {
	var log []string
	f := newTestFactory()
	c := mustConstruct(t, mustCreate(t, f, defineCounter(&log), nil))
	span := c.Nodes()[0]
	if len(span.Nodes()) != 0 {
		t.Fatalf("span children = %d, want 0", len(span.Nodes()))
	}

	c.Attachment().(ComponentAttachment).Update(State{"count": 1})
	if err := c.Update(); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if c.Nodes()[0] != span {
		t.Error("span identity not preserved across update")
	}
	if len(span.Nodes()) != 1 || span.Nodes()[0].String() != `Text("1")` {
		t.Errorf("span nodes = %v, want [Text(\"1\")]", span.Nodes())
	}
	if !span.Nodes()[0].Ready() {
		t.Error("new text should be constructed")
	}
}

func TestComponentStateMerge(t *testing.T) {
	c := &Component{}
	c.Update(State{"a": 1, "b": 2})
	before := c.State()
	c.Update(State{"b": 3})

	if c.State()["a"] != 1 || c.State()["b"] != 3 {
		t.Errorf("State() = %v, want a=1 b=3", c.State())
	}
	if before["b"] != 2 {
		t.Error("previous state snapshot was mutated")
	}
}

func TestUpdateForwardsThroughElements(t *testing.T) {
	var log []string
	f := newTestFactory()
	c := mustCreate(t, f, defineCounter(&log), nil)
	root := mustConstruct(t, mustCreate(t, f, "div", nil, c))

	c.Attachment().(ComponentAttachment).Update(State{"count": 2})
	if err := root.Update(); err != nil {
		t.Fatal(err)
	}
	span := c.Nodes()[0]
	if len(span.Nodes()) != 1 {
		t.Errorf("span nodes = %d, want 1", len(span.Nodes()))
	}
}

func TestFragmentRendersChildren(t *testing.T) {
	f := newTestFactory()
	g := mustCreate(t, f, groupType, nil, "a", mustCreate(t, f, "b", nil))
	root := mustConstruct(t, mustCreate(t, f, "div", nil, g))

	if len(g.Nodes()) != 2 {
		t.Fatalf("fragment nodes = %d, want 2", len(g.Nodes()))
	}
	for _, n := range g.Nodes() {
		if n.Parent() != g {
			t.Errorf("%v parent = %v, want fragment", n, n.Parent())
		}
	}
	if root.Nodes()[0] != g {
		t.Error("fragment should be a realized child of root")
	}
}

func TestObserverEvents(t *testing.T) {
	f := newTestFactory()
	root := mustCreate(t, f, "div", nil, "x")
	rec := &recorder{}
	root.SetObserver(rec)
	mustConstruct(t, root)

	want := []string{
		`insert Text("x")`,
		`construct Text("x")`,
		`construct Element<div>`,
	}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, rec.events[i], want[i])
		}
	}
}

func TestNodeString(t *testing.T) {
	var log []string
	f := newTestFactory()
	tests := []struct {
		node *Node
		want string
	}{
		{mustCreate(t, f, "div", nil), "Element<div>"},
		{mustCreate(t, f, defineCounter(&log), nil), "Component<Counter>"},
		{mustCreate(t, f, groupType, nil), "Fragment<Group>"},
	}
	text, _ := f.Text(`say "hi"`)
	tests = append(tests, struct {
		node *Node
		want string
	}{text, `Text("say \"hi\"")`})

	for _, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}
