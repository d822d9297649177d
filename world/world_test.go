package world

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/manifest"
	"github.com/veldt-engine/scenehost/marshal"
	"github.com/veldt-engine/scenehost/resource"
)

// recordingPhysics counts collaborator calls so tests can assert
// teardown releases each body and collider exactly once.
type recordingPhysics struct {
	colliders map[resource.ID]int
	bodies    map[resource.ID]int
	failNext  bool
}

func newRecordingPhysics() *recordingPhysics {
	return &recordingPhysics{
		colliders: make(map[resource.ID]int),
		bodies:    make(map[resource.ID]int),
	}
}

func (p *recordingPhysics) CreateCollider(id resource.ID, _ *resource.Collider) error {
	if p.failNext {
		p.failNext = false
		return fmt.Errorf("physics rejected collider")
	}
	p.colliders[id]++
	return nil
}

func (p *recordingPhysics) RemoveCollider(id resource.ID) { p.colliders[id]-- }

func (p *recordingPhysics) CreateBody(id resource.ID, _ resource.PhysicsBodyType) error {
	if p.failNext {
		p.failNext = false
		return fmt.Errorf("physics rejected body")
	}
	p.bodies[id]++
	return nil
}

func (p *recordingPhysics) RemoveBody(id resource.ID) { p.bodies[id]-- }

type recordingInteraction struct {
	registered map[resource.ID]int
	failNext   bool
}

func newRecordingInteraction() *recordingInteraction {
	return &recordingInteraction{registered: make(map[resource.ID]int)}
}

func (i *recordingInteraction) Register(id resource.ID, _ resource.InteractableType, _ resource.ID) error {
	if i.failNext {
		i.failNext = false
		return fmt.Errorf("interaction rejected registration")
	}
	i.registered[id]++
	return nil
}

func (i *recordingInteraction) Unregister(id resource.ID) { i.registered[id]-- }

func (i *recordingInteraction) State(resource.ID) (bool, bool, bool) { return false, false, false }

func TestEnvIsolation(t *testing.T) {
	w := New()
	a := w.NewEnv("a")
	b := w.NewEnv("b")

	id, err := a.CreateNode(&resource.Node{Visible: true})
	if err != nil {
		t.Fatalf("create node: %v", err)
	}

	if _, err := a.Caps.Access(w.Reg, id, resource.KindNode); err != nil {
		t.Fatalf("owner denied its own node: %v", err)
	}
	_, err = b.Caps.Access(w.Reg, id, resource.KindNode)
	if !stderrors.Is(err, errors.ErrNotAuthorized) {
		t.Fatalf("foreign access error = %v, want not_authorized", err)
	}
}

func TestLoadEnvironmentGrantsByName(t *testing.T) {
	w := New()
	m := &manifest.Manifest{
		Name: "lobby",
		Scene: manifest.SceneDef{
			Name: "main",
			Nodes: []manifest.NodeDef{
				{Name: "door", Scale: [3]float32{1, 1, 1}, Rotation: [4]float32{0, 0, 0, 1}},
				{Name: "lamp", Scale: [3]float32{1, 1, 1}, Rotation: [4]float32{0, 0, 0, 1}},
			},
		},
		Scripts: []manifest.Script{
			{Name: "door-script", Module: "door.wasm", Grants: []manifest.Grant{
				{Resource: "door", Access: "write"},
			}},
		},
	}

	envs, err := w.LoadEnvironment(m)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(envs) != 1 {
		t.Fatalf("envs = %d, want 1", len(envs))
	}
	env := envs[0]

	doorID := w.Reg.FindByName(resource.KindNode, "door")
	if doorID == 0 {
		t.Fatal("door not provisioned")
	}
	lampID := w.Reg.FindByName(resource.KindNode, "lamp")
	if lampID == 0 {
		t.Fatal("lamp not provisioned")
	}

	if _, err := env.Caps.Access(w.Reg, doorID, resource.KindNode); err != nil {
		t.Fatalf("granted node denied: %v", err)
	}
	if _, err := env.Caps.Access(w.Reg, lampID, resource.KindNode); !stderrors.Is(err, errors.ErrNotAuthorized) {
		t.Fatalf("ungranted node error = %v, want not_authorized", err)
	}
	if w.EnvironmentScene == 0 {
		t.Fatal("environment scene not recorded")
	}
	if !env.Caps.Authorized(w.EnvironmentScene) {
		t.Fatal("script not granted the environment scene")
	}
}

func TestLoadEnvironmentUnknownGrant(t *testing.T) {
	w := New()
	m := &manifest.Manifest{
		Name:  "lobby",
		Scene: manifest.SceneDef{Name: "main"},
		Scripts: []manifest.Script{
			{Name: "s", Module: "s.wasm", Grants: []manifest.Grant{
				{Resource: "missing", Access: "read"},
			}},
		},
	}
	if _, err := w.LoadEnvironment(m); err == nil {
		t.Fatal("expected error for grant naming an unknown resource")
	}
}

func TestUnloadReleasesCollaboratorState(t *testing.T) {
	phys := newRecordingPhysics()
	inter := newRecordingInteraction()
	w := New(WithPhysics(phys), WithInteraction(inter))
	env := w.NewEnv("s")

	nodeID, err := env.CreateNode(&resource.Node{HasBody: true, BodyType: resource.BodyKinematic})
	if err != nil {
		t.Fatalf("create node: %v", err)
	}
	colID, err := env.CreateCollider(&resource.Collider{Type: resource.ColliderSphere, Radius: 1})
	if err != nil {
		t.Fatalf("create collider: %v", err)
	}
	intID, err := env.CreateInteractable(nodeID, resource.InteractableDefault)
	if err != nil {
		t.Fatalf("create interactable: %v", err)
	}

	w.UnloadEnvironment(env)

	if n := phys.bodies[nodeID]; n != 0 {
		t.Errorf("body release count off by %d", n)
	}
	if n := phys.colliders[colID]; n != 0 {
		t.Errorf("collider release count off by %d", n)
	}
	if n := inter.registered[intID]; n != 0 {
		t.Errorf("interactable release count off by %d", n)
	}
	if w.Reg.Len() != 0 {
		t.Errorf("registry still holds %d resources", w.Reg.Len())
	}

	// Second unload must not double-release.
	w.UnloadEnvironment(env)
	if n := phys.bodies[nodeID]; n != 0 {
		t.Errorf("double unload released body again (%d)", n)
	}
}

func TestUnloadKeepsGrantedHostResources(t *testing.T) {
	w := New()
	m := &manifest.Manifest{
		Name: "lobby",
		Scene: manifest.SceneDef{
			Name:  "main",
			Nodes: []manifest.NodeDef{{Name: "door", Scale: [3]float32{1, 1, 1}, Rotation: [4]float32{0, 0, 0, 1}}},
		},
		Scripts: []manifest.Script{
			{Name: "s", Module: "s.wasm", Grants: []manifest.Grant{{Resource: "door", Access: "write"}}},
		},
	}
	envs, err := w.LoadEnvironment(m)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	env := envs[0]
	if _, err := env.CreateNode(&resource.Node{}); err != nil {
		t.Fatalf("create node: %v", err)
	}
	before := w.Reg.Len()

	w.UnloadEnvironment(env)

	if w.Reg.Len() != before-1 {
		t.Fatalf("registry len = %d, want %d (only the script-owned node removed)", w.Reg.Len(), before-1)
	}
	if w.Reg.FindByName(resource.KindNode, "door") == 0 {
		t.Fatal("host-provisioned node was torn down with the script")
	}
}

func TestCreateMeshAllocatesPrimitives(t *testing.T) {
	w := New()
	env := w.NewEnv("s")

	rec := &marshal.MeshRecord{
		Name: "crate",
		Primitives: []marshal.PrimitiveRecord{
			{Mode: resource.ModeTriangles},
			{Mode: resource.ModeLines},
		},
	}
	id := env.CreateMesh(rec)

	res, err := env.Caps.Access(w.Reg, id, resource.KindMesh)
	if err != nil {
		t.Fatalf("access mesh: %v", err)
	}
	mesh := res.(*resource.Mesh)
	if len(mesh.Primitives) != 2 {
		t.Fatalf("primitives = %d, want 2", len(mesh.Primitives))
	}
	for i, pid := range mesh.Primitives {
		if _, err := env.Caps.Access(w.Reg, pid, resource.KindMeshPrimitive); err != nil {
			t.Fatalf("primitive %d not owned: %v", i, err)
		}
	}
}

func TestCreateUICanvasRollsBackOnColliderFailure(t *testing.T) {
	phys := newRecordingPhysics()
	w := New(WithPhysics(phys))
	env := w.NewEnv("s")
	phys.failNext = true

	_, err := env.CreateUICanvas(&resource.UICanvas{Size: [2]float32{1, 1}})
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindCollaborator}) {
		t.Fatalf("err = %v, want collaborator error", err)
	}
	if w.Reg.Len() != 0 {
		t.Fatalf("registry holds %d resources after rollback, want 0", w.Reg.Len())
	}
	if env.Caps.Len() != 0 {
		t.Fatalf("capability set holds %d entries after rollback, want 0", env.Caps.Len())
	}
}

func TestCreateUICanvasWiresCompoundResources(t *testing.T) {
	phys := newRecordingPhysics()
	inter := newRecordingInteraction()
	w := New(WithPhysics(phys), WithInteraction(inter))
	env := w.NewEnv("s")

	id, err := env.CreateUICanvas(&resource.UICanvas{Size: [2]float32{2, 1}})
	if err != nil {
		t.Fatalf("create canvas: %v", err)
	}
	res, err := env.Caps.Access(w.Reg, id, resource.KindUICanvas)
	if err != nil {
		t.Fatalf("access canvas: %v", err)
	}
	canvas := res.(*resource.UICanvas)
	if canvas.Collider == 0 || canvas.Interactable == 0 {
		t.Fatal("compound resources not wired")
	}
	if phys.colliders[canvas.Collider] != 1 {
		t.Error("collider not registered with physics")
	}
	if inter.registered[canvas.Interactable] != 1 {
		t.Error("interactable not registered with interaction")
	}
}

func TestCreateInteractableRejectsDuplicate(t *testing.T) {
	w := New()
	env := w.NewEnv("s")
	nodeID, err := env.CreateNode(&resource.Node{})
	if err != nil {
		t.Fatalf("create node: %v", err)
	}
	if _, err := env.CreateInteractable(nodeID, resource.InteractableDefault); err != nil {
		t.Fatalf("first interactable: %v", err)
	}
	if _, err := env.CreateInteractable(nodeID, resource.InteractableGrabbable); err == nil {
		t.Fatal("expected error for second interactable on same node")
	}
}

func TestUpdateAccessor(t *testing.T) {
	w := New()
	env := w.NewEnv("s")

	bufID := env.CreateBuffer("verts", make([]byte, 64))
	viewID, err := env.CreateBufferView(&resource.BufferView{Buffer: bufID, ByteOffset: 16, ByteLength: 48})
	if err != nil {
		t.Fatalf("create view: %v", err)
	}
	accID := env.CreateAccessor(&resource.Accessor{
		BufferView:    viewID,
		ComponentType: resource.ComponentFloat32,
		Type:          resource.AccessorVec3,
		Count:         4,
		Dynamic:       true,
	})

	payload := []byte{1, 2, 3, 4}
	if err := env.UpdateAccessor(accID, payload); err != nil {
		t.Fatalf("update: %v", err)
	}

	res, _ := w.Reg.LookupKind(accID, resource.KindAccessor)
	if v := res.(*resource.Accessor).Version; v != 1 {
		t.Fatalf("version = %d, want 1", v)
	}
	buf, _ := w.Reg.LookupKind(bufID, resource.KindBuffer)
	got := buf.(*resource.Buffer).Data[16:20]
	for i, b := range payload {
		if got[i] != b {
			t.Fatalf("buffer[%d] = %d, want %d", 16+i, got[i], b)
		}
	}

	// Static accessors reject updates.
	staticID := env.CreateAccessor(&resource.Accessor{BufferView: viewID})
	if err := env.UpdateAccessor(staticID, payload); err == nil {
		t.Fatal("expected error updating a static accessor")
	}
}

func TestUpdateAccessorBounds(t *testing.T) {
	w := New()
	env := w.NewEnv("s")

	bufID := env.CreateBuffer("verts", make([]byte, 8))
	viewID, err := env.CreateBufferView(&resource.BufferView{Buffer: bufID, ByteLength: 8})
	if err != nil {
		t.Fatalf("create view: %v", err)
	}
	accID := env.CreateAccessor(&resource.Accessor{BufferView: viewID, Dynamic: true})

	err = env.UpdateAccessor(accID, make([]byte, 16))
	if !stderrors.Is(err, errors.ErrOutOfBounds) {
		t.Fatalf("err = %v, want out_of_bounds", err)
	}
}

func TestUIChildChain(t *testing.T) {
	w := New()
	env := w.NewEnv("s")

	root, err := env.CreateUIElement(&resource.UIElement{})
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	var children [3]resource.ID
	for i := range children {
		children[i], err = env.CreateUIElement(&resource.UIElement{Parent: root})
		if err != nil {
			t.Fatalf("child %d: %v", i, err)
		}
	}

	got, err := env.UIChildren(root)
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("children = %d, want 3", len(got))
	}
	for i := range children {
		if got[i] != children[i] {
			t.Fatalf("child %d = %d, want %d (chain order)", i, got[i], children[i])
		}
	}

	if err := env.RemoveUIChild(root, children[1]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, _ = env.UIChildren(root)
	if len(got) != 2 || got[0] != children[0] || got[1] != children[2] {
		t.Fatalf("chain after removal = %v", got)
	}
}

func TestCreateNodeBodyFailureRollsBack(t *testing.T) {
	phys := newRecordingPhysics()
	w := New(WithPhysics(phys))
	env := w.NewEnv("s")
	phys.failNext = true

	_, err := env.CreateNode(&resource.Node{HasBody: true, BodyType: resource.BodyRigid})
	if err == nil {
		t.Fatal("expected collaborator error")
	}
	if w.Reg.Len() != 0 {
		t.Fatalf("registry holds %d resources after rollback, want 0", w.Reg.Len())
	}
}
