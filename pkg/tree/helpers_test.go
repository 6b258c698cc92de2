package tree

import "testing"

// ref is the reference produced by the test platform.
type ref struct {
	tag string
}

type testElement struct {
	Element
}

func (e *testElement) Render() (any, error) {
	return &ref{tag: e.Name()}, nil
}

type testText struct {
	Text
}

func (t *testText) Render() (any, error) {
	return &ref{tag: "#text"}, nil
}

var testModels = Models{
	Element: func(name string) ElementAttachment { return &testElement{Element{name: name}} },
	Text:    func(content string) TextAttachment { return &testText{Text{content: content}} },
}

func newTestFactory() *Factory {
	return NewFactory(testModels)
}

// mustCreate builds a node or fails the test.
func mustCreate(t *testing.T, f *Factory, source any, attributes Attributes, children ...any) *Node {
	t.Helper()
	n, err := f.Create(source, attributes, children...)
	if err != nil {
		t.Fatalf("Create(%v) error: %v", source, err)
	}
	return n
}

func mustConstruct(t *testing.T, n *Node) *Node {
	t.Helper()
	if err := n.Construct(); err != nil {
		t.Fatalf("Construct(%v) error: %v", n, err)
	}
	return n
}

// sameSlice reports whether a and b share a backing array and length.
func sameSlice(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// recorder collects observed events as "op node" strings.
type recorder struct {
	events []string
}

func (r *recorder) Observe(e Event) {
	r.events = append(r.events, e.Op.String()+" "+e.Node.String())
}

func (r *recorder) count(op Op) int {
	prefix := op.String() + " "
	n := 0
	for _, e := range r.events {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// counter is a component whose hooks append to a shared log.
type counter struct {
	Component
	log *[]string
}

func (c *counter) Construct() { *c.log = append(*c.log, "construct") }
func (c *counter) Refresh()   { *c.log = append(*c.log, "refresh") }
func (c *counter) Reassign()  { *c.log = append(*c.log, "reassign") }
func (c *counter) Destruct()  { *c.log = append(*c.log, "destruct") }

func (c *counter) Render() (any, error) {
	*c.log = append(*c.log, "render")
	return c.Factory().Create("span", nil, c.Attributes()["label"], c.State()["count"], c.Children())
}

func defineCounter(log *[]string) *Type {
	return DefineComponent("Counter", func() *counter { return &counter{log: log} })
}

type group struct {
	Fragment
}

var groupType = DefineFragment("Group", func() *group { return &group{} })
