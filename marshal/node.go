package marshal

import (
	"github.com/veldt-engine/scenehost/memview"
	"github.com/veldt-engine/scenehost/resource"
)

// DecodeNode reads a node parameter block:
//
//	f32[3] translation
//	f32[4] rotation (quaternion xyzw)
//	f32[3] scale
//	u32    mesh handle      (0 = absent)
//	u32    light handle     (0 = absent)
//	u32    collider handle  (0 = absent)
//	u32    isStatic
//	u32    visible
//	u32,u32 name (ptr, byteLength)
//	u32,u32 extensions (itemsPtr, count)
//	8 bytes extras (skipped)
func DecodeNode(ctx *Context, c *memview.Cursor) (*resource.Node, error) {
	n := &resource.Node{}
	var err error

	if n.Translation, err = readVec3(c); err != nil {
		return nil, err
	}
	if n.Rotation, err = readVec4(c); err != nil {
		return nil, err
	}
	if n.Scale, err = readVec3(c); err != nil {
		return nil, err
	}
	if n.Mesh, err = ctx.Handle(c, resource.KindMesh, "node.mesh"); err != nil {
		return nil, err
	}
	if n.Light, err = ctx.Handle(c, resource.KindLight, "node.light"); err != nil {
		return nil, err
	}
	if n.Collider, err = ctx.Handle(c, resource.KindCollider, "node.collider"); err != nil {
		return nil, err
	}
	if n.IsStatic, err = readBool(c); err != nil {
		return nil, err
	}
	if n.Visible, err = readBool(c); err != nil {
		return nil, err
	}
	if n.Name, err = ctx.Name(c); err != nil {
		return nil, err
	}

	exts, err := ctx.Extensions(c)
	if err != nil {
		return nil, err
	}
	for _, ext := range exts {
		if ref, ok := ext.(ColliderRef); ok && n.Collider == 0 {
			n.Collider = ref.Collider
		}
	}

	if err := c.Skip(extrasSize); err != nil {
		return nil, err
	}
	return n, nil
}
