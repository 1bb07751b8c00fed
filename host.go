package scenedep

// SceneID identifies a loaded scene in the host engine. The zero value is
// reserved for "no scene"; a node reporting it is treated as not belonging
// to any valid scene.
type SceneID int

// NoScene is the SceneID of a node that is not part of any loaded scene.
// Containers attached to such nodes are excluded from registry indexing
// until their node gains a valid scene.
const NoScene SceneID = 0

// Node is the hierarchy position a container can attach to. It is the only
// view of the host's transform hierarchy this package needs. Implementations
// must be comparable (a pointer type is typical) since nodes are used as map
// keys for ownership checks.
type Node interface {
	// Parent returns the parent node, or nil at a hierarchy root.
	Parent() Node

	// SiblingIndex returns the node's position among its parent's children.
	// A hierarchy root reports its position among the scene's root nodes.
	SiblingIndex() int

	// Scene returns the scene the node currently belongs to, or NoScene.
	Scene() SceneID
}

// SceneTable is the host's view of which scenes are loaded and in what
// order. Load order defines which scene is "topmost": the first-loaded
// scene that currently owns at least one container.
type SceneTable interface {
	// LoadOrder returns the position of the scene in the host's load order,
	// starting at 0 for the first-loaded scene. ok is false if the scene is
	// not currently loaded.
	LoadOrder(id SceneID) (order int, ok bool)
}

// hierarchyPath returns the chain of sibling indices from the hierarchy root
// down to n, most significant digit first. Paths compare lexicographically:
// the outermost ancestor's position always dominates, so a deep node under
// an early sibling still sorts before a shallow node under a late sibling.
// An ancestor is a strict prefix of its descendants and sorts before them,
// matching depth-first traversal order.
//
// The path is recomputed on every call rather than cached per container
// because ancestor sibling indices can change independently of container
// add/remove.
func hierarchyPath(n Node) []int {
	var path []int
	for cur := n; cur != nil; cur = cur.Parent() {
		path = append(path, cur.SiblingIndex())
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// comparePaths lexicographically orders two hierarchy paths. It returns a
// negative value if a sorts before b, zero if they are equal, and a positive
// value otherwise. A path that is a strict prefix of another sorts first.
func comparePaths(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}
