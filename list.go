package scenedep

// containerList is an ordered collection of containers with an adaptive
// usage ordering and O(1) ownership checks by hierarchy node. The registry
// keeps one of these per scene and one per explicit group.
//
// Every entry carries a usage score. Scores are non-increasing from front
// to back: when a container serves a successful resolution the list is told
// via recordHit, which bumps that entry's score and bubbles it past
// neighbors with a lower score. This keeps the most frequently useful
// containers near the front without ever running a full sort. Reordering
// never changes set membership or which container a query returns; it only
// changes how quickly later scans find it.
type containerList struct {
	entries []listEntry

	// byNode answers "does this node own a container in this list" without
	// scanning the entries.
	byNode map[Node]*Container

	// root is the member with minimum hierarchy order (for per-scene lists)
	// or minimum scene-load-order-then-hierarchy-order (for per-group
	// lists). It is maintained by the registry's recompute pass, not by the
	// list itself.
	root *Container
}

type listEntry struct {
	container *Container
	score     int
}

func newContainerList() *containerList {
	return &containerList{
		byNode: map[Node]*Container{},
	}
}

func (l *containerList) len() int {
	return len(l.entries)
}

func (l *containerList) at(i int) *Container {
	return l.entries[i].container
}

// ownedBy returns the member attached to the given node, or nil.
func (l *containerList) ownedBy(node Node) *Container {
	return l.byNode[node]
}

// add appends the container with a zero score. Adding a container whose
// node already owns a member is ignored; a node holds at most one container
// per list.
func (l *containerList) add(c *Container) bool {
	if _, ok := l.byNode[c.node]; ok {
		return false
	}
	l.entries = append(l.entries, listEntry{container: c})
	l.byNode[c.node] = c
	return true
}

// remove deletes the container from the list, reporting whether it was a
// member. Relative order of the remaining entries is preserved so the score
// invariant survives removal.
func (l *containerList) remove(c *Container) bool {
	i := l.indexOf(c)
	if i < 0 {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	delete(l.byNode, c.node)
	if l.root == c {
		l.root = nil
	}
	return true
}

func (l *containerList) indexOf(c *Container) int {
	for i := range l.entries {
		if l.entries[i].container == c {
			return i
		}
	}
	return -1
}

// recordHit adds a usage point to the entry at index i and bubbles it
// toward the front past entries with a strictly lower score. This is the
// only way an entry moves earlier in the list between recompute passes.
func (l *containerList) recordHit(i int) {
	if i < 0 || i >= len(l.entries) {
		return
	}
	l.entries[i].score++
	for i > 0 && l.entries[i-1].score < l.entries[i].score {
		l.entries[i-1], l.entries[i] = l.entries[i], l.entries[i-1]
		i--
	}
}

// setRoot marks the entry at index i as the list's root and swaps it into
// the head position so scans encounter it first. The swap deliberately
// leaves scores alone; the adaptive ordering re-establishes itself through
// subsequent hits. A negative index clears the root.
func (l *containerList) setRoot(i int) {
	if i < 0 || i >= len(l.entries) {
		l.root = nil
		return
	}
	l.root = l.entries[i].container
	if i != 0 {
		l.entries[0], l.entries[i] = l.entries[i], l.entries[0]
	}
}
