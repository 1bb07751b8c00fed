package scenedep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFindContext_NearestAncestorWins(t *testing.T) {
	reg := NewRegistry(&testSceneTable{order: []SceneID{1}})

	root := rootNode("root", 1, 0)
	a := child("a", root, 0)
	b := child("b", a, 0)
	c := child("c", b, 0)

	atRoot := NewContainer(root)
	Bind(atRoot, &testWidget{val: 1})
	atA := NewContainer(a)
	Bind(atA, &testWidget{val: 2})

	reg.Register(atRoot)
	reg.Register(atA)

	found, err := reg.FindContext(context.Background(), c, TokenFor[*testWidget](), AnyGroup)
	require.NoError(t, err)
	assert.Same(t, atA, found)
}

func TestFindContext_ExactNodeBeatsAncestors(t *testing.T) {
	reg := NewRegistry(&testSceneTable{order: []SceneID{1}})

	root := rootNode("root", 1, 0)
	leaf := child("leaf", root, 0)

	atRoot := NewContainer(root)
	Bind(atRoot, &testWidget{val: 1})
	atLeaf := NewContainer(leaf)
	Bind(atLeaf, &testWidget{val: 2})

	reg.Register(atRoot)
	reg.Register(atLeaf)

	found, err := reg.FindContext(context.Background(), leaf, TokenFor[*testWidget](), AnyGroup)
	require.NoError(t, err)
	assert.Same(t, atLeaf, found)
}

func TestFindContext_AncestorWithoutTypeIsSkipped(t *testing.T) {
	reg := NewRegistry(&testSceneTable{order: []SceneID{1}})

	root := rootNode("root", 1, 0)
	a := child("a", root, 0)
	b := child("b", a, 0)

	atRoot := NewContainer(root)
	Bind(atRoot, &testWidget{val: 1})
	atA := NewContainer(a)
	Bind(atA, &testDoodad{val: "other type only"})

	reg.Register(atRoot)
	reg.Register(atA)

	found, err := reg.FindContext(context.Background(), b, TokenFor[*testWidget](), AnyGroup)
	require.NoError(t, err)
	assert.Same(t, atRoot, found)
}

func TestFindContext_SceneRootFallback(t *testing.T) {
	reg := NewRegistry(&testSceneTable{order: []SceneID{1}})

	sceneRoot := rootNode("sceneRoot", 1, 0)
	subtreeA := child("subtreeA", rootNode("otherRoot", 1, 1), 0)
	subtreeB := child("subtreeB", rootNode("thirdRoot", 1, 2), 0)

	rootContainer := NewContainer(sceneRoot)
	Bind(rootContainer, &testWidget{val: 1})
	reg.Register(rootContainer)

	// Neither subtree has an ancestor container, so the scene's designated
	// root answers for both.
	foundA, err := reg.FindContext(context.Background(), subtreeA, TokenFor[*testWidget](), AnyGroup)
	require.NoError(t, err)
	assert.Same(t, rootContainer, foundA)

	foundB, err := reg.FindContext(context.Background(), subtreeB, TokenFor[*testWidget](), AnyGroup)
	require.NoError(t, err)
	assert.Same(t, rootContainer, foundB)
}

func TestFindContext_TopmostSceneFallback(t *testing.T) {
	reg := NewRegistry(&testSceneTable{order: []SceneID{1, 2}})

	firstSceneRoot := NewContainer(rootNode("r1", 1, 0))
	Bind(firstSceneRoot, &testWidget{val: 1})
	reg.Register(firstSceneRoot)

	// Scene 2 has a container so its scene list exists, but it holds a
	// different type; resolution falls through to scene 1's root.
	inSecond := NewContainer(rootNode("r2", 2, 0))
	Bind(inSecond, &testDoodad{val: "no widget here"})
	reg.Register(inSecond)

	queryNode := child("q", rootNode("r2b", 2, 1), 0)
	found, err := reg.FindContext(context.Background(), queryNode, TokenFor[*testWidget](), AnyGroup)
	require.NoError(t, err)
	assert.Same(t, firstSceneRoot, found)
}

func TestFindContext_GroupIsolation(t *testing.T) {
	EnableWarnings = false
	defer func() { EnableWarnings = true }()

	reg := NewRegistry(&testSceneTable{order: []SceneID{1}})

	root := rootNode("root", 1, 0)
	node := child("n", root, 0)

	grouped := NewContainer(root, WithGroup(5))
	Bind(grouped, &testWidget{val: 5})
	reg.Register(grouped)

	// A group-5 container never answers a group-3 query, even though it is
	// the nearest match and holds the type.
	_, err := reg.FindContext(context.Background(), node, TokenFor[*testWidget](), 3)
	assert.Error(t, err)

	// The wildcard query matches containers of any group.
	found, err := reg.FindContext(context.Background(), node, TokenFor[*testWidget](), AnyGroup)
	require.NoError(t, err)
	assert.Same(t, grouped, found)

	// An ungrouped container does not answer a concrete-group query either.
	ungrouped := NewContainer(node)
	Bind(ungrouped, &testWidget{val: 0})
	reg.Register(ungrouped)

	found, err = reg.FindContext(context.Background(), node, TokenFor[*testWidget](), 5)
	require.NoError(t, err)
	assert.Same(t, grouped, found)
}

func TestFindContext_AnyInGroupCrossScene(t *testing.T) {
	reg := NewRegistry(&testSceneTable{order: []SceneID{1, 2}})

	// The only holder of the type sits in another scene's subtree, far from
	// any ancestor or root path of the query. Only the group tier finds it.
	holder := NewContainer(child("holder", rootNode("r1", 1, 3), 2), WithGroup(9))
	Bind(holder, &testWidget{val: 1})
	reg.Register(holder)

	blocker := NewContainer(rootNode("r1", 1, 0))
	Bind(blocker, &testDoodad{val: "scene root without the widget"})
	reg.Register(blocker)

	queryNode := child("q", rootNode("r2", 2, 0), 0)
	found, err := reg.FindContext(context.Background(), queryNode, TokenFor[*testWidget](), 9)
	require.NoError(t, err)
	assert.Same(t, holder, found)
}

func TestFindContext_NotFound(t *testing.T) {
	EnableWarnings = false
	defer func() { EnableWarnings = true }()

	reg := NewRegistry(&testSceneTable{order: []SceneID{1}})
	node := rootNode("n", 1, 0)

	found, err := reg.FindContext(context.Background(), node, TokenFor[*testWidget](), AnyGroup)
	assert.Nil(t, found)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "dependency not found", depErr.Message)
	assert.Equal(t, "*scenedep.testWidget", depErr.ReferencedType.String())
	assert.Equal(t, "no containers registered", depErr.Status)
}

func TestFindContext_NilNode(t *testing.T) {
	reg := NewRegistry(&testSceneTable{order: []SceneID{1}})

	_, err := reg.FindContext(context.Background(), nil, TokenFor[*testWidget](), AnyGroup)
	assert.Error(t, err)
}

func TestFindContext_RegisterThenQueryImmediately(t *testing.T) {
	reg := NewRegistry(&testSceneTable{order: []SceneID{1}})

	c := NewContainer(rootNode("n", 1, 0))
	Bind(c, &testWidget{val: 1})
	reg.Register(c)

	// Recomputation is synchronous, so the container is visible to the very
	// next query with no other containers present.
	found, err := reg.FindContext(context.Background(), c.Node(), TokenFor[*testWidget](), AnyGroup)
	require.NoError(t, err)
	assert.Same(t, c, found)
}

func TestResolve(t *testing.T) {
	EnableWarnings = false
	defer func() { EnableWarnings = true }()

	reg := NewRegistry(&testSceneTable{order: []SceneID{1}})

	root := rootNode("root", 1, 0)
	leaf := child("leaf", root, 0)

	c := NewContainer(root)
	Bind(c, &testWidget{val: 42})
	reg.Register(c)

	w, ok := Resolve[*testWidget](context.Background(), reg, leaf, AnyGroup)
	assert.True(t, ok)
	assert.Equal(t, 42, w.val)

	_, ok = Resolve[*testDoodad](context.Background(), reg, leaf, AnyGroup)
	assert.False(t, ok)

	_, err := ResolveWithError[*testDoodad](context.Background(), reg, leaf, AnyGroup)
	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.NotEmpty(t, depErr.Status)
}

func TestFindNearestContext_PrefersAncestorIgnoringTypes(t *testing.T) {
	reg := NewRegistry(&testSceneTable{order: []SceneID{1}})

	root := rootNode("root", 1, 0)
	leaf := child("leaf", root, 0)

	empty := NewContainer(root)
	reg.Register(empty)

	assert.Same(t, empty, reg.FindNearestContext(leaf, AnyGroup))
}

func TestFindNearestContext_AutoProvisions(t *testing.T) {
	reg := NewRegistry(&testSceneTable{order: []SceneID{1}})
	node := rootNode("n", 1, 0)

	c := reg.FindNearestContext(node, 6)
	require.NotNil(t, c)
	assert.Same(t, node, c.Node().(*testNode))
	assert.Equal(t, 6, c.Group())

	// The provisioned container is registered, so the next call finds it
	// instead of provisioning another.
	assert.Same(t, c, reg.FindNearestContext(node, 6))
}

func TestFindNearestContext_NilNode(t *testing.T) {
	assert.Nil(t, NewRegistry(&testSceneTable{order: []SceneID{1}}).FindNearestContext(nil, AnyGroup))
}

// Repeating the same successful query must always return the same container
// no matter how the backing lists reorder themselves along the way.
func TestFindContext_AdaptiveOrderingNeverChangesWinner(t *testing.T) {
	EnableWarnings = false
	defer func() { EnableWarnings = true }()

	rapid.Check(t, func(t *rapid.T) {
		reg := NewRegistry(&testSceneTable{order: []SceneID{1}})

		sceneRoot := rootNode("sceneRoot", 1, 0)
		nodes := []*testNode{sceneRoot}
		extra := rapid.IntRange(1, 5).Draw(t, "extra")
		for i := 0; i < extra; i++ {
			parent := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "parent")]
			nodes = append(nodes, child("n", parent, i+1))
		}

		for _, n := range nodes {
			c := NewContainer(n)
			if rapid.Bool().Draw(t, "holds") {
				Bind(c, &testWidget{val: n.sibling})
			}
			Bind(c, &testDoodad{val: "filler"})
			reg.Register(c)
		}

		queryNode := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "query")]
		first, firstErr := reg.FindContext(context.Background(), queryNode, TokenFor[*testWidget](), AnyGroup)

		repeats := rapid.IntRange(1, 20).Draw(t, "repeats")
		for i := 0; i < repeats; i++ {
			got, err := reg.FindContext(context.Background(), queryNode, TokenFor[*testWidget](), AnyGroup)
			if (err == nil) != (firstErr == nil) || got != first {
				t.Fatalf("winner changed across repeats: first %v, got %v", first, got)
			}
		}
	})
}
