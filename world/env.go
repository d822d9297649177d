package world

import (
	"go.uber.org/zap"

	"github.com/veldt-engine/scenehost/capability"
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/marshal"
	"github.com/veldt-engine/scenehost/resource"
)

// Env is one script environment: the capability set scoping what the
// script can touch, plus the world it lives in. All construction
// operations adopt the new ids into the environment's set, so teardown
// can release exactly what the script created.
type Env struct {
	Name  string
	Caps  *capability.Set
	world *World
}

// World returns the world this environment belongs to.
func (e *Env) World() *World { return e.world }

// MarshalContext returns the decode context for this environment's ABI
// calls.
func (e *Env) MarshalContext() *marshal.Context {
	return &marshal.Context{Reg: e.world.Reg, Caps: e.Caps}
}

// adopt registers res and records this environment as owner.
func (e *Env) adopt(res resource.Resource) resource.ID {
	id := e.world.Reg.Register(res)
	e.Caps.Adopt(id)
	return id
}

// CreateNode registers a decoded node, attaches its physics body if the
// decode carried one, and returns the new id.
func (e *Env) CreateNode(n *resource.Node) (resource.ID, error) {
	id := e.adopt(n)
	if n.HasBody {
		if err := e.world.Physics.CreateBody(id, n.BodyType); err != nil {
			e.rollback(id)
			return 0, errors.Collaborator("world.create_node", err, "create physics body")
		}
	}
	return id, nil
}

// CreateScene registers a script-owned scene.
func (e *Env) CreateScene(s *resource.Scene) resource.ID {
	return e.adopt(s)
}

// CreateMesh allocates one MeshPrimitive resource per validated record
// part, then the mesh itself. The record is already fully validated, so
// no partial mesh can be observed: this either registers len(parts)+1
// resources or none.
func (e *Env) CreateMesh(rec *marshal.MeshRecord) resource.ID {
	primIDs := make([]resource.ID, len(rec.Primitives))
	for i, p := range rec.Primitives {
		primIDs[i] = e.adopt(&resource.MeshPrimitive{
			Mode:       p.Mode,
			Indices:    p.Indices,
			Material:   p.Material,
			Attributes: p.Attributes,
		})
	}
	return e.adopt(&resource.Mesh{
		Named:      resource.Named{Name: rec.Name},
		Primitives: primIDs,
	})
}

// CreateMaterial registers a decoded material.
func (e *Env) CreateMaterial(m *resource.Material) resource.ID {
	return e.adopt(m)
}

// CreateTexture registers a decoded texture.
func (e *Env) CreateTexture(t *resource.Texture) resource.ID {
	return e.adopt(t)
}

// CreateLight registers a decoded light.
func (e *Env) CreateLight(l *resource.Light) resource.ID {
	return e.adopt(l)
}

// CreateBuffer copies data out of guest memory into a host-owned
// buffer. The copy matters: guests keep write access to their linear
// memory, so sharing the backing bytes would let them mutate resources
// behind validation.
func (e *Env) CreateBuffer(name string, data []byte) resource.ID {
	owned := make([]byte, len(data))
	copy(owned, data)
	return e.adopt(&resource.Buffer{
		Named: resource.Named{Name: name},
		Data:  owned,
	})
}

// CreateBufferView registers a byte range over an accessible buffer.
func (e *Env) CreateBufferView(v *resource.BufferView) (resource.ID, error) {
	buf, err := e.Caps.Access(e.world.Reg, v.Buffer, resource.KindBuffer)
	if err != nil {
		return 0, err
	}
	end := uint64(v.ByteOffset) + uint64(v.ByteLength)
	if end > uint64(len(buf.(*resource.Buffer).Data)) {
		return 0, errors.OutOfBounds(errors.PhaseConstruct, v.ByteOffset, v.ByteLength,
			uint32(len(buf.(*resource.Buffer).Data)))
	}
	return e.adopt(v), nil
}

// CreateAccessor registers a decoded accessor.
func (e *Env) CreateAccessor(a *resource.Accessor) resource.ID {
	return e.adopt(a)
}

// UpdateAccessor overwrites the accessor's backing range with bytes the
// guest staged in shared memory, bumping the accessor version. Only
// accessors created dynamic accept updates.
func (e *Env) UpdateAccessor(id resource.ID, data []byte) error {
	res, err := e.Caps.Access(e.world.Reg, id, resource.KindAccessor)
	if err != nil {
		return err
	}
	acc := res.(*resource.Accessor)
	if !acc.Dynamic {
		return errors.InvalidInput(errors.PhaseConstruct, "accessor is not dynamic")
	}

	viewRes, err := e.Caps.Access(e.world.Reg, acc.BufferView, resource.KindBufferView)
	if err != nil {
		return err
	}
	view := viewRes.(*resource.BufferView)
	bufRes, ok := e.world.Reg.LookupKind(view.Buffer, resource.KindBuffer)
	if !ok {
		return errors.NotFound("world.update_accessor", uint32(view.Buffer))
	}
	buf := bufRes.(*resource.Buffer)

	start := uint64(view.ByteOffset) + uint64(acc.ByteOffset)
	if start+uint64(len(data)) > uint64(len(buf.Data)) {
		return errors.OutOfBounds(errors.PhaseConstruct,
			uint32(start), uint32(len(data)), uint32(len(buf.Data)))
	}
	copy(buf.Data[start:], data)
	acc.Version++
	return nil
}

// CreateCollider registers a decoded collider and mirrors it into the
// physics collaborator. The registration is rolled back if physics
// rejects the shape, so no half-wired collider survives.
func (e *Env) CreateCollider(col *resource.Collider) (resource.ID, error) {
	id := e.adopt(col)
	if err := e.world.Physics.CreateCollider(id, col); err != nil {
		e.rollback(id)
		return 0, errors.Collaborator("world.create_collider", err, "create physics collider")
	}
	return id, nil
}

// CreateInteractable marks an accessible node as interactable.
func (e *Env) CreateInteractable(nodeID resource.ID, typ resource.InteractableType) (resource.ID, error) {
	res, err := e.Caps.Access(e.world.Reg, nodeID, resource.KindNode)
	if err != nil {
		return 0, err
	}
	node := res.(*resource.Node)
	if node.Interactable != 0 {
		return 0, errors.InvalidInput(errors.PhaseConstruct, "node already has an interactable")
	}

	id := e.adopt(&resource.Interactable{Type: typ, Node: nodeID})
	if err := e.world.Interaction.Register(id, typ, nodeID); err != nil {
		e.rollback(id)
		return 0, errors.Collaborator("world.create_interactable", err, "register interactable")
	}
	node.Interactable = id
	return id, nil
}

// CreateUIElement registers a decoded UI element and links it under its
// parent if the decode carried one.
func (e *Env) CreateUIElement(el *resource.UIElement) (resource.ID, error) {
	parentID := el.Parent
	el.Parent = 0
	id := e.adopt(el)
	if parentID != 0 {
		if err := e.AddUIChild(parentID, id); err != nil {
			e.rollback(id)
			return 0, err
		}
	}
	return id, nil
}

// CreateUIText registers a decoded text element.
func (e *Env) CreateUIText(t *resource.UIText) resource.ID {
	return e.adopt(t)
}

// CreateUIButton registers a decoded button and wires its interactable
// marker. Compound side effects commit atomically: a collaborator
// failure rolls the button registration back.
func (e *Env) CreateUIButton(b *resource.UIButton) (resource.ID, error) {
	id := e.adopt(b)
	interactableID := e.adopt(&resource.Interactable{
		Type: resource.InteractableDefault,
	})
	if err := e.world.Interaction.Register(interactableID, resource.InteractableDefault, 0); err != nil {
		e.rollback(interactableID)
		e.rollback(id)
		return 0, errors.Collaborator("world.create_ui_button", err, "register interactable")
	}
	b.Interactable = interactableID
	return id, nil
}

// CreateUICanvas registers a decoded canvas plus its compound side
// effects: a physics collider sized to the canvas quad and an
// interactable marker so rays can hit it. All three registrations
// commit or none do.
func (e *Env) CreateUICanvas(canvas *resource.UICanvas) (resource.ID, error) {
	id := e.adopt(canvas)

	col := &resource.Collider{
		Type:      resource.ColliderBox,
		IsTrigger: true,
		Size:      [3]float32{canvas.Size[0] / 2, canvas.Size[1] / 2, 0.01},
	}
	colID := e.adopt(col)
	if err := e.world.Physics.CreateCollider(colID, col); err != nil {
		e.rollback(colID)
		e.rollback(id)
		return 0, errors.Collaborator("world.create_ui_canvas", err, "create canvas collider")
	}

	interactableID := e.adopt(&resource.Interactable{Type: resource.InteractableDefault})
	if err := e.world.Interaction.Register(interactableID, resource.InteractableDefault, 0); err != nil {
		e.world.Physics.RemoveCollider(colID)
		e.rollback(interactableID)
		e.rollback(colID)
		e.rollback(id)
		return 0, errors.Collaborator("world.create_ui_canvas", err, "register canvas interactable")
	}

	canvas.Collider = colID
	canvas.Interactable = interactableID
	return id, nil
}

// AddUIChild appends child to parent's UI sibling chain. UI elements
// keep the same intrusive chain shape as scene nodes.
func (e *Env) AddUIChild(parentID, childID resource.ID) error {
	parent, err := e.uiElement(parentID)
	if err != nil {
		return err
	}
	child, err := e.uiElement(childID)
	if err != nil {
		return err
	}
	if parentID == childID {
		return errors.InvalidInput(errors.PhaseConstruct, "element cannot parent itself")
	}
	if child.Parent != 0 {
		if err := e.RemoveUIChild(child.Parent, childID); err != nil {
			return err
		}
	}

	if parent.FirstChild == 0 {
		parent.FirstChild = childID
	} else {
		cur := parent.FirstChild
		for {
			n, err := e.uiElement(cur)
			if err != nil {
				return err
			}
			if n.NextSibling == 0 {
				n.NextSibling = childID
				break
			}
			cur = n.NextSibling
		}
	}
	child.Parent = parentID
	return nil
}

// RemoveUIChild unlinks child from parent's UI sibling chain.
func (e *Env) RemoveUIChild(parentID, childID resource.ID) error {
	parent, err := e.uiElement(parentID)
	if err != nil {
		return err
	}
	child, err := e.uiElement(childID)
	if err != nil {
		return err
	}
	if child.Parent != parentID {
		return errors.InvalidInput(errors.PhaseConstruct, "element is not a child of the given parent")
	}

	if parent.FirstChild == childID {
		parent.FirstChild = child.NextSibling
	} else {
		cur := parent.FirstChild
		for cur != 0 {
			n, err := e.uiElement(cur)
			if err != nil {
				return err
			}
			if n.NextSibling == childID {
				n.NextSibling = child.NextSibling
				break
			}
			cur = n.NextSibling
		}
	}
	child.Parent = 0
	child.NextSibling = 0
	return nil
}

// UIChildren returns child's visible UI children in chain order.
func (e *Env) UIChildren(parentID resource.ID) ([]resource.ID, error) {
	parent, err := e.uiElement(parentID)
	if err != nil {
		return nil, err
	}
	var out []resource.ID
	for cur := parent.FirstChild; cur != 0; {
		n, err := e.uiElement(cur)
		if err != nil {
			return nil, err
		}
		if e.Caps.Authorized(cur) {
			out = append(out, cur)
		}
		cur = n.NextSibling
	}
	return out, nil
}

// uiElement resolves any of the three UI element kinds into its shared
// element core. Buttons and text embed UIElement, so the chain links
// live in one place.
func (e *Env) uiElement(id resource.ID) (*resource.UIElement, error) {
	if !e.Caps.Authorized(id) {
		return nil, errors.NotAuthorized("world.ui", uint32(id))
	}
	res, ok := e.world.Reg.Lookup(id)
	if !ok {
		return nil, errors.NotFound("world.ui", uint32(id))
	}
	switch el := res.(type) {
	case *resource.UIElement:
		return el, nil
	case *resource.UIButton:
		return &el.UIElement, nil
	case *resource.UIText:
		return &el.UIElement, nil
	default:
		return nil, errors.TypeMismatch("world.ui", uint32(id), "UIElement", res.Kind().String())
	}
}

// InteractableState polls the interaction collaborator for an
// interactable the script can see.
func (e *Env) InteractableState(id resource.ID) (pressed, held, released bool, err error) {
	if _, err = e.Caps.Access(e.world.Reg, id, resource.KindInteractable); err != nil {
		return false, false, false, err
	}
	pressed, held, released = e.world.Interaction.State(id)
	return pressed, held, released, nil
}

// rollback removes a just-adopted resource after a later construction
// step failed.
func (e *Env) rollback(id resource.ID) {
	e.Caps.Revoke(id)
	if _, ok := e.world.Reg.Unregister(id); !ok {
		e.world.log.Warn("rollback of unknown resource",
			zap.String("script", e.Name),
			zap.Uint32("id", uint32(id)))
	}
}
