package tree

import (
	"sort"
	"sync"

	"github.com/vango-dev/retree/internal/errors"
)

// Type identifies a component or fragment declaration. Two Fragment or
// Component nodes are reconciled in place only when they share a Type.
type Type struct {
	name   string
	kind   Kind
	create func() Attachment
}

// DefineComponent declares a component type. create must return a fresh
// attachment on every call.
func DefineComponent[T ComponentAttachment](name string, create func() T) *Type {
	return &Type{
		name:   name,
		kind:   KindComponent,
		create: func() Attachment { return create() },
	}
}

// DefineFragment declares a fragment type.
func DefineFragment[T FragmentAttachment](name string, create func() T) *Type {
	return &Type{
		name:   name,
		kind:   KindFragment,
		create: func() Attachment { return create() },
	}
}

// Name returns the display name given at declaration.
func (t *Type) Name() string {
	return t.name
}

// Kind returns KindComponent or KindFragment.
func (t *Type) Kind() Kind {
	return t.kind
}

// New returns a fresh attachment tagged with t.
func (t *Type) New() Attachment {
	a := t.create()
	a.bound().typ = t
	return a
}

// String implements fmt.Stringer.
func (t *Type) String() string {
	return t.kind.String() + "<" + t.name + ">"
}

// Registry resolves types by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewRegistry creates a registry holding the given types.
func NewRegistry(types ...*Type) (*Registry, error) {
	r := &Registry{types: make(map[string]*Type)}
	for _, t := range types {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds t. Names are unique within a registry.
func (r *Registry) Register(t *Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[t.name]; exists {
		return fail(errors.CodeDuplicateType, t.name)
	}
	r.types[t.name] = t
	return nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
