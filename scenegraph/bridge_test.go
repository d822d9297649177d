package scenegraph

import (
	stderrors "errors"
	"testing"

	"github.com/veldt-engine/scenehost/capability"
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/resource"
)

type recordingGraph struct {
	attached [][2]resource.ID
	detached [][2]resource.ID
}

func (g *recordingGraph) Attach(p, c resource.ID) { g.attached = append(g.attached, [2]resource.ID{p, c}) }
func (g *recordingGraph) Detach(p, c resource.ID) { g.detached = append(g.detached, [2]resource.ID{p, c}) }

type fixture struct {
	reg    *resource.Registry
	bridge *Bridge
	caps   *capability.Set
	graph  *recordingGraph
}

func newFixture() *fixture {
	reg := resource.NewRegistry()
	graph := &recordingGraph{}
	return &fixture{
		reg:    reg,
		bridge: NewBridge(reg, graph),
		caps:   capability.NewSet(),
		graph:  graph,
	}
}

func (f *fixture) ownedNode(t *testing.T, name string) resource.ID {
	t.Helper()
	id := f.reg.Register(&resource.Node{Named: resource.Named{Name: name}})
	f.caps.Adopt(id)
	return id
}

// foreignNode registers a node the fixture's script cannot see.
func (f *fixture) foreignNode(t *testing.T, name string) resource.ID {
	t.Helper()
	return f.reg.Register(&resource.Node{Named: resource.Named{Name: name}})
}

func TestAddChildLinksChain(t *testing.T) {
	f := newFixture()
	parent := f.ownedNode(t, "parent")
	a := f.ownedNode(t, "a")
	b := f.ownedNode(t, "b")

	if err := f.bridge.AddChild(f.caps, parent, a); err != nil {
		t.Fatalf("AddChild a: %v", err)
	}
	if err := f.bridge.AddChild(f.caps, parent, b); err != nil {
		t.Fatalf("AddChild b: %v", err)
	}

	kids, err := f.bridge.Children(f.caps, parent)
	if err != nil {
		t.Fatal(err)
	}
	if len(kids) != 2 || kids[0] != a || kids[1] != b {
		t.Fatalf("Children = %v, want [%d %d]", kids, a, b)
	}
	if len(f.graph.attached) != 2 {
		t.Fatalf("transform graph saw %d attaches, want 2", len(f.graph.attached))
	}
}

func TestAddChildRepairsDanglingSiblingLink(t *testing.T) {
	f := newFixture()
	parent := f.ownedNode(t, "parent")
	a := f.ownedNode(t, "a")
	b := f.ownedNode(t, "b")
	for _, id := range []resource.ID{a, b} {
		if err := f.bridge.AddChild(f.caps, parent, id); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	}

	// Yank b out from under the chain without going through the bridge,
	// leaving a's sibling link dangling.
	f.reg.Unregister(b)

	d := f.ownedNode(t, "d")
	if err := f.bridge.AddChild(f.caps, parent, d); err != nil {
		t.Fatalf("AddChild d: %v", err)
	}

	kids, err := f.bridge.Children(f.caps, parent)
	if err != nil {
		t.Fatal(err)
	}
	if len(kids) != 2 || kids[0] != a || kids[1] != d {
		t.Fatalf("Children = %v, want [%d %d]", kids, a, d)
	}
}

func TestAddChildRequiresBothCapabilities(t *testing.T) {
	f := newFixture()
	parent := f.ownedNode(t, "parent")
	foreign := f.foreignNode(t, "foreign")

	err := f.bridge.AddChild(f.caps, parent, foreign)
	if !stderrors.Is(err, errors.ErrNotAuthorized) {
		t.Fatalf("err = %v, want not_authorized", err)
	}
	err = f.bridge.AddChild(f.caps, foreign, parent)
	if !stderrors.Is(err, errors.ErrNotAuthorized) {
		t.Fatalf("err = %v, want not_authorized", err)
	}
	if len(f.graph.attached) != 0 {
		t.Fatal("denied AddChild mutated the transform graph")
	}
}

func TestAddChildRejectsCycle(t *testing.T) {
	f := newFixture()
	a := f.ownedNode(t, "a")
	b := f.ownedNode(t, "b")
	c := f.ownedNode(t, "c")

	if err := f.bridge.AddChild(f.caps, a, b); err != nil {
		t.Fatal(err)
	}
	if err := f.bridge.AddChild(f.caps, b, c); err != nil {
		t.Fatal(err)
	}

	if err := f.bridge.AddChild(f.caps, c, a); err == nil {
		t.Fatal("cycle accepted")
	}
	if err := f.bridge.AddChild(f.caps, a, a); err == nil {
		t.Fatal("self-parenting accepted")
	}
}

func TestReparentDetachesFirst(t *testing.T) {
	f := newFixture()
	p1 := f.ownedNode(t, "p1")
	p2 := f.ownedNode(t, "p2")
	child := f.ownedNode(t, "child")

	if err := f.bridge.AddChild(f.caps, p1, child); err != nil {
		t.Fatal(err)
	}
	if err := f.bridge.AddChild(f.caps, p2, child); err != nil {
		t.Fatal(err)
	}

	n1, err := f.bridge.ChildCount(f.caps, p1)
	if err != nil {
		t.Fatal(err)
	}
	if n1 != 0 {
		t.Fatalf("old parent still has %d children", n1)
	}
	got, err := f.bridge.Parent(f.caps, child)
	if err != nil {
		t.Fatal(err)
	}
	if got != p2 {
		t.Fatalf("Parent = %d, want %d", got, p2)
	}
}

func TestRemoveChildRepairsChain(t *testing.T) {
	f := newFixture()
	parent := f.ownedNode(t, "parent")
	ids := []resource.ID{
		f.ownedNode(t, "a"),
		f.ownedNode(t, "b"),
		f.ownedNode(t, "c"),
	}
	for _, id := range ids {
		if err := f.bridge.AddChild(f.caps, parent, id); err != nil {
			t.Fatal(err)
		}
	}

	// Remove the middle of the chain.
	if err := f.bridge.RemoveChild(f.caps, parent, ids[1]); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	kids, _ := f.bridge.Children(f.caps, parent)
	if len(kids) != 2 || kids[0] != ids[0] || kids[1] != ids[2] {
		t.Fatalf("Children after removal = %v", kids)
	}

	// Removing a non-child errors.
	if err := f.bridge.RemoveChild(f.caps, parent, ids[1]); err == nil {
		t.Fatal("removing a detached node succeeded")
	}
}

func TestTraversalFiltersForeignNodes(t *testing.T) {
	f := newFixture()
	scene := f.reg.Register(&resource.Scene{})
	f.caps.Adopt(scene)

	// Five root nodes, only three visible to the caller. Attach through
	// a host-side set that can see everything.
	hostCaps := capability.NewSet()
	hostCaps.Grant(scene)
	var all []resource.ID
	for i := 0; i < 5; i++ {
		var id resource.ID
		if i%2 == 0 {
			id = f.ownedNode(t, "mine")
		} else {
			id = f.foreignNode(t, "theirs")
		}
		hostCaps.Grant(id)
		all = append(all, id)
		if err := f.bridge.AddNodeToScene(hostCaps, scene, id); err != nil {
			t.Fatal(err)
		}
	}

	n, err := f.bridge.SceneNodeCount(f.caps, scene)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("SceneNodeCount = %d, want 3", n)
	}

	// Filtered index order follows raw chain order with foreign nodes
	// omitted, not renumbered.
	for i, want := range []resource.ID{all[0], all[2], all[4]} {
		got, err := f.bridge.SceneNodeAt(f.caps, scene, uint32(i))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("SceneNodeAt(%d) = %d, want %d", i, got, want)
		}
	}
	if got, _ := f.bridge.SceneNodeAt(f.caps, scene, 3); got != 0 {
		t.Fatalf("SceneNodeAt(3) = %d, want 0", got)
	}
}

func TestParentInvisibleWhenForeign(t *testing.T) {
	f := newFixture()
	child := f.ownedNode(t, "child")
	foreignParent := f.foreignNode(t, "host-root")

	hostCaps := capability.NewSet()
	hostCaps.Grant(child)
	hostCaps.Grant(foreignParent)
	if err := f.bridge.AddChild(hostCaps, foreignParent, child); err != nil {
		t.Fatal(err)
	}

	got, err := f.bridge.Parent(f.caps, child)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("Parent = %d, want 0 for a foreign parent", got)
	}
}

func TestDetachOwned(t *testing.T) {
	f := newFixture()
	parent := f.ownedNode(t, "parent")
	child := f.ownedNode(t, "child")
	if err := f.bridge.AddChild(f.caps, parent, child); err != nil {
		t.Fatal(err)
	}

	f.bridge.DetachOwned(child)
	if n, _ := f.bridge.ChildCount(f.caps, parent); n != 0 {
		t.Fatalf("ChildCount = %d after DetachOwned", n)
	}
	// Idempotent on already-detached nodes.
	f.bridge.DetachOwned(child)
}
