package scenedep

// Registry is the index of all live containers, grouped by owning scene and
// by explicit group tag. It caches, per scene and per group, which container
// is the root (the member that answers fallback lookups) and tracks the
// topmost loaded scene that currently owns a container.
//
// The registry is an explicit object rather than a process-wide singleton:
// construct one with NewRegistry at application start and hand it to
// whatever resolves dependencies. Tests construct a fresh registry each.
//
// All mutations (Register, Unregister, SceneChanged) and all queries are
// expected on the same logical thread, driven by the host's lifecycle
// callbacks and per-frame updates. Root recomputation is synchronous: it
// completes before the mutating call returns, so a just-registered
// container is always visible to the next query.
type Registry struct {
	scenes SceneTable

	// byScene has an entry iff the scene owns at least one container;
	// removing the last container removes the entry. byGroup is the same
	// for explicit groups; AnyGroup is never indexed here since it means
	// "unfiltered" rather than naming a real group.
	byScene map[SceneID]*containerList
	byGroup map[int]*containerList

	// topmost is the first scene in load order that currently has a
	// non-empty per-scene list, or NoScene when no container is indexed.
	topmost SceneID
}

// NewRegistry creates an empty registry over the host's scene table.
func NewRegistry(scenes SceneTable) *Registry {
	if scenes == nil {
		panic("scenedep: registry scene table must not be nil")
	}
	return &Registry{
		scenes:  scenes,
		byScene: map[SceneID]*containerList{},
		byGroup: map[int]*containerList{},
	}
}

// Register adds the container to its scene's list and, if it carries an
// explicit group, to that group's list, then recomputes the cached roots
// and the topmost scene. A container whose node has no valid scene is not
// indexed at all; register it again (or report SceneChanged) once the node
// gains one.
//
// A node holds at most one container. Registering a second container on a
// node that already owns an indexed one is rejected entirely: the new
// container enters neither the scene list nor its group list.
func (r *Registry) Register(c *Container) {
	if c == nil {
		return
	}
	scene := c.node.Scene()
	if _, loaded := r.scenes.LoadOrder(scene); !loaded {
		c.scene = NoScene
		return
	}
	c.scene = scene

	if !r.sceneList(scene).add(c) {
		return
	}
	if c.group != AnyGroup {
		r.groupList(c.group).add(c)
	}
	r.recomputeRoots()
}

// Unregister removes the container from its scene and group lists, dropping
// either list entirely if it becomes empty. Roots are recomputed only if a
// removal actually happened, which makes double-unregister a harmless no-op.
func (r *Registry) Unregister(c *Container) {
	if c == nil {
		return
	}
	changed := false
	if list, ok := r.byScene[c.scene]; ok {
		if list.remove(c) {
			changed = true
			if list.len() == 0 {
				delete(r.byScene, c.scene)
			}
		}
	}
	if c.group != AnyGroup {
		if list, ok := r.byGroup[c.group]; ok {
			if list.remove(c) {
				changed = true
				if list.len() == 0 {
					delete(r.byGroup, c.group)
				}
			}
		}
	}
	if changed {
		r.recomputeRoots()
	}
}

// SceneChanged moves the container between per-scene lists after its node
// migrated to a different scene. Per-group membership is unaffected by a
// scene move, except when the move crosses the valid/invalid boundary: a
// container leaving every valid scene drops out of the index entirely, and
// one arriving from an invalid scene is indexed as if freshly registered.
func (r *Registry) SceneChanged(c *Container, previous SceneID) {
	if c == nil {
		return
	}
	changed := false
	if list, ok := r.byScene[previous]; ok {
		if list.remove(c) {
			changed = true
			if list.len() == 0 {
				delete(r.byScene, previous)
			}
		}
	}

	scene := c.node.Scene()
	if _, loaded := r.scenes.LoadOrder(scene); !loaded {
		c.scene = NoScene
		if c.group != AnyGroup {
			if list, ok := r.byGroup[c.group]; ok && list.remove(c) {
				changed = true
				if list.len() == 0 {
					delete(r.byGroup, c.group)
				}
			}
		}
		if changed {
			r.recomputeRoots()
		}
		return
	}

	c.scene = scene
	if !r.sceneList(scene).add(c) {
		// The destination node position is already taken; the container
		// stays unindexed, same as a rejected Register.
		if changed {
			r.recomputeRoots()
		}
		return
	}
	if c.group != AnyGroup {
		r.groupList(c.group).add(c)
	}
	r.recomputeRoots()
}

// TopmostScene returns the first loaded scene (in load order) that currently
// owns at least one container, or NoScene if the registry is empty.
func (r *Registry) TopmostScene() SceneID {
	return r.topmost
}

// Reset drops every indexed container and cached root. The containers
// themselves keep their bindings; they are simply no longer visible to
// resolution until re-registered. Intended for the host's run/stop
// boundaries and for tests.
func (r *Registry) Reset() {
	r.byScene = map[SceneID]*containerList{}
	r.byGroup = map[int]*containerList{}
	r.topmost = NoScene
}

func (r *Registry) sceneList(id SceneID) *containerList {
	list, ok := r.byScene[id]
	if !ok {
		list = newContainerList()
		r.byScene[id] = list
	}
	return list
}

func (r *Registry) groupList(group int) *containerList {
	list, ok := r.byGroup[group]
	if !ok {
		list = newContainerList()
		r.byGroup[group] = list
	}
	return list
}

// recomputeRoots refreshes every cached root pointer and the topmost scene.
// It runs after each structural change and walks each list once, computing
// hierarchy paths fresh from the current node state.
//
// Per-scene roots order members by hierarchy path alone. Per-group roots
// order members by scene load order first and hierarchy path second, so a
// group root in an earlier-loaded scene always beats a hierarchically
// shallower member of a later scene.
func (r *Registry) recomputeRoots() {
	topmost := NoScene
	topmostOrder := 0
	for id, list := range r.byScene {
		best := -1
		var bestPath []int
		for i := 0; i < list.len(); i++ {
			path := hierarchyPath(list.at(i).node)
			if best < 0 || comparePaths(path, bestPath) < 0 {
				best = i
				bestPath = path
			}
		}
		list.setRoot(best)

		order, ok := r.scenes.LoadOrder(id)
		if !ok {
			continue
		}
		if topmost == NoScene || order < topmostOrder {
			topmost = id
			topmostOrder = order
		}
	}
	r.topmost = topmost

	for _, list := range r.byGroup {
		best := -1
		bestOrder := 0
		var bestPath []int
		for i := 0; i < list.len(); i++ {
			c := list.at(i)
			order, ok := r.scenes.LoadOrder(c.scene)
			if !ok {
				continue
			}
			path := hierarchyPath(c.node)
			if best < 0 || order < bestOrder ||
				(order == bestOrder && comparePaths(path, bestPath) < 0) {
				best = i
				bestOrder = order
				bestPath = path
			}
		}
		list.setRoot(best)
	}
}
