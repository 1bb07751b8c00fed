package scenedep

import (
	"reflect"
)

// AnyGroup is the group wildcard. On the query side it matches containers
// of any group; on the container side it means "no explicit group". An
// ungrouped container is never indexed in the registry's per-group lists.
const AnyGroup = 0

// Container holds the typed dependency bindings attached to a single
// hierarchy node. A container stores at most one value per distinct type;
// binding a second value of an already bound type silently overwrites the
// first. This is documented behavior, not an error.
//
// Value kinds (structs, numbers, strings, arrays) are stored as inline
// copies; reference kinds (pointers, interfaces, maps, slices, channels,
// functions) are stored as shared handles. Both sides expose the same
// bind/unbind/has/get contract.
//
// A container does nothing on its own until it is registered with a
// Registry, which makes it visible to resolution queries.
type Container struct {
	node  Node
	group int
	scene SceneID

	// values holds inline copies of value-kind bindings; refs holds the
	// shared handles of reference-kind bindings. present mirrors the union
	// of both key sets and is the only thing the presence check reads.
	values  map[TypeToken]any
	refs    map[TypeToken]any
	present map[TypeToken]struct{}
}

// ContainerOption is a functional option for configuring a new Container.
type ContainerOption func(*Container)

// WithGroup tags the container with an explicit group. Grouped containers
// are additionally indexed by group in the registry and only answer queries
// for their own group or for the AnyGroup wildcard.
func WithGroup(group int) ContainerOption {
	return func(c *Container) {
		c.group = group
	}
}

// NewContainer creates a container attached to the given hierarchy node.
// The node must not be nil.
func NewContainer(node Node, opts ...ContainerOption) *Container {
	if node == nil {
		panic("scenedep: container node must not be nil")
	}
	c := &Container{
		node:    node,
		group:   AnyGroup,
		scene:   node.Scene(),
		values:  map[TypeToken]any{},
		refs:    map[TypeToken]any{},
		present: map[TypeToken]struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Node returns the hierarchy node the container is attached to.
func (c *Container) Node() Node {
	return c.node
}

// Group returns the container's group tag, or AnyGroup if it has none.
func (c *Container) Group() int {
	return c.group
}

// Scene returns the scene the container was last indexed under.
func (c *Container) Scene() SceneID {
	return c.scene
}

// BindAny stores a value keyed by its runtime type, overwriting any prior
// binding of that exact type. Untyped nils and typed nil values are skipped
// without storing anything so the presence set stays accurate. Prefer the
// generic Bind helper, which keys by the static type and so can bind a
// concrete value under an interface type.
func (c *Container) BindAny(value any) {
	if value == nil {
		return
	}
	t := reflect.TypeOf(value)
	if isRefKind(t) && reflect.ValueOf(value).IsNil() {
		return
	}
	c.bind(tokenOf(t), value)
}

// bind stores the value under an already assigned token. The caller has
// done the nil screening.
func (c *Container) bind(tok TypeToken, value any) {
	info := infoOf(tok)
	if info.refLike {
		c.refs[tok] = value
	} else {
		c.values[tok] = value
	}
	c.present[tok] = struct{}{}
}

// Unbind removes the binding for the given token if present, and is a
// no-op otherwise.
func (c *Container) Unbind(tok TypeToken) {
	if _, ok := c.present[tok]; !ok {
		return
	}
	info := infoOf(tok)
	if info.refLike {
		delete(c.refs, tok)
	} else {
		delete(c.values, tok)
	}
	delete(c.present, tok)
}

// Has reports whether the container holds a binding for the given token.
// This only consults the presence set and never scans the storage tables.
func (c *Container) Has(tok TypeToken) bool {
	_, ok := c.present[tok]
	return ok
}

// GetAny returns the bound value for the given token. The second return
// value is false if no binding exists. This is the unchecked runtime-typed
// path; the generic Get and TryGet helpers are usually more convenient.
func (c *Container) GetAny(tok TypeToken) (any, bool) {
	info := infoOf(tok)
	if info == nil {
		return nil, false
	}
	if info.refLike {
		v, ok := c.refs[tok]
		return v, ok
	}
	v, ok := c.values[tok]
	return v, ok
}

// Len returns the number of distinct types bound in the container.
func (c *Container) Len() int {
	return len(c.present)
}
