package scenedep

import (
	"context"
	"fmt"

	"github.com/gburgyan/go-timing"
)

// matches is the full query predicate: the container answers for the
// requested group and holds the requested type.
func matches(c *Container, group int, tok TypeToken) bool {
	return matchesGroup(c, group) && c.Has(tok)
}

// matchesGroup reports whether the container answers queries for the given
// group. AnyGroup on the query side matches every container; a concrete
// group matches only containers tagged with exactly that group.
func matchesGroup(c *Container, group int) bool {
	return group == AnyGroup || c.group == group
}

// FindContext resolves the container that answers a query for the given
// dependency type, starting from a hierarchy node. Priority tiers are
// evaluated strictly in order, short-circuiting on the first match:
//
//  1. The query node and each ancestor in turn, nearest first.
//  2. The query scene's cached root container.
//  3. The topmost scene's cached root container, when the query scene is
//     not itself the topmost scene.
//  4. Any container in the requested group, root-first, regardless of scene.
//
// Every tier applies the same predicate: the candidate's group must equal
// the requested group (or the request must be AnyGroup) and the candidate
// must hold the requested type.
//
// On success the serving list is told which entry answered so it can nudge
// that entry toward the front; this only affects the speed of future scans,
// never which container wins. On failure a warning is logged and a
// *DependencyError is returned carrying the registry's Status dump.
//
// The context is used only for timing diagnostics when EnableTiming is set;
// resolution itself never blocks.
func (r *Registry) FindContext(ctx context.Context, node Node, tok TypeToken, group int) (*Container, error) {
	if EnableTiming == TimingResolution {
		_, complete := timing.Start(ctx, fmt.Sprintf("scenedep:%v", typeOfToken(tok)))
		defer complete()
	}

	if node == nil {
		return nil, &DependencyError{
			Message:        "dependency lookup from nil node",
			ReferencedType: typeOfToken(tok),
			Group:          group,
		}
	}

	scene := node.Scene()
	if list, ok := r.byScene[scene]; ok {
		for cur := node; cur != nil; cur = cur.Parent() {
			if c := list.ownedBy(cur); c != nil && matches(c, group, tok) {
				list.recordHit(list.indexOf(c))
				return c, nil
			}
		}
		if c := list.root; c != nil && matches(c, group, tok) {
			list.recordHit(list.indexOf(c))
			return c, nil
		}
	}

	if r.topmost != NoScene && r.topmost != scene {
		if list, ok := r.byScene[r.topmost]; ok {
			if c := list.root; c != nil && matches(c, group, tok) {
				list.recordHit(list.indexOf(c))
				return c, nil
			}
		}
	}

	if group != AnyGroup {
		if list, ok := r.byGroup[group]; ok {
			for i := 0; i < list.len(); i++ {
				if c := list.at(i); c.Has(tok) {
					list.recordHit(i)
					return c, nil
				}
			}
		}
	}

	err := &DependencyError{
		Message:        "dependency not found",
		ReferencedType: typeOfToken(tok),
		Group:          group,
		Status:         r.Status(),
	}
	warnf("scenedep: %s: %v", err.Message, err.ReferencedType)
	return nil, err
}

// FindNearestContext returns the best-matching container for a hierarchy
// position without regard to what types it holds. It walks the same tiers
// as FindContext with the group predicate only. It is used when the caller
// wants some container to bind into rather than a container holding a
// specific type.
//
// This call never fails: when no container matches, a new one is created at
// the query node (carrying the requested group, if any), registered, and
// returned, so the caller is never left without a container.
func (r *Registry) FindNearestContext(node Node, group int) *Container {
	if node == nil {
		return nil
	}

	scene := node.Scene()
	if list, ok := r.byScene[scene]; ok {
		for cur := node; cur != nil; cur = cur.Parent() {
			if c := list.ownedBy(cur); c != nil && matchesGroup(c, group) {
				return c
			}
		}
		if c := list.root; c != nil && matchesGroup(c, group) {
			return c
		}
	}

	if r.topmost != NoScene && r.topmost != scene {
		if list, ok := r.byScene[r.topmost]; ok {
			if c := list.root; c != nil && matchesGroup(c, group) {
				return c
			}
		}
	}

	if group != AnyGroup {
		if list, ok := r.byGroup[group]; ok && list.len() > 0 {
			if c := list.root; c != nil {
				return c
			}
			return list.at(0)
		}
	}

	var opts []ContainerOption
	if group != AnyGroup {
		opts = append(opts, WithGroup(group))
	}
	c := NewContainer(node, opts...)
	r.Register(c)
	return c
}
