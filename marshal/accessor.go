package marshal

import (
	"github.com/veldt-engine/scenehost/memview"
	"github.com/veldt-engine/scenehost/resource"
)

// DecodeAccessor reads an accessor parameter block:
//
//	u32 buffer-view handle (required)
//	u32 componentType enum (glTF codes)
//	u32 count
//	u32 type enum (SCALAR..MAT4)
//	u32 normalized
//	u32 byteOffset
//	u32 dynamic
//	u32,u32 name
//	u32,u32 extensions
//	8 bytes extras
func DecodeAccessor(ctx *Context, c *memview.Cursor) (*resource.Accessor, error) {
	a := &resource.Accessor{}
	var err error

	if a.BufferView, err = ctx.Handle(c, resource.KindBufferView, "accessor.bufferView"); err != nil {
		return nil, err
	}

	ct, err := enumU32(c, "componentType", "ComponentType", func(v uint32) bool {
		return resource.ComponentType(v).Valid()
	})
	if err != nil {
		return nil, err
	}
	a.ComponentType = resource.ComponentType(ct)

	if a.Count, err = c.ReadU32(); err != nil {
		return nil, err
	}

	at, err := enumU32(c, "type", "AccessorType", func(v uint32) bool {
		return resource.AccessorType(v).Valid()
	})
	if err != nil {
		return nil, err
	}
	a.Type = resource.AccessorType(at)

	if a.Normalized, err = readBool(c); err != nil {
		return nil, err
	}
	if a.ByteOffset, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if a.Dynamic, err = readBool(c); err != nil {
		return nil, err
	}
	if a.Name, err = ctx.Name(c); err != nil {
		return nil, err
	}
	if _, err := ctx.Extensions(c); err != nil {
		return nil, err
	}
	if err := c.Skip(extrasSize); err != nil {
		return nil, err
	}
	return a, nil
}

// DecodeCollider reads a collider parameter block:
//
//	u32    type enum
//	u32    isTrigger
//	f32[3] size (box half extents)
//	f32    radius
//	f32    height
//	u32    mesh handle (hull/trimesh source, 0 = absent)
//	u32,u32 name
//	u32,u32 extensions
//	8 bytes extras
func DecodeCollider(ctx *Context, c *memview.Cursor) (*resource.Collider, error) {
	col := &resource.Collider{}

	ct, err := enumU32(c, "type", "ColliderType", func(v uint32) bool {
		return resource.ColliderType(v).Valid()
	})
	if err != nil {
		return nil, err
	}
	col.Type = resource.ColliderType(ct)

	if col.IsTrigger, err = readBool(c); err != nil {
		return nil, err
	}
	if col.Size, err = readVec3(c); err != nil {
		return nil, err
	}
	if col.Radius, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if col.Height, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if col.Mesh, err = ctx.Handle(c, resource.KindMesh, "collider.mesh"); err != nil {
		return nil, err
	}
	if col.Name, err = ctx.Name(c); err != nil {
		return nil, err
	}
	if _, err := ctx.Extensions(c); err != nil {
		return nil, err
	}
	if err := c.Skip(extrasSize); err != nil {
		return nil, err
	}
	return col, nil
}

// DecodeLight reads a light parameter block:
//
//	u32    type enum (directional/point/spot)
//	f32[3] color
//	f32    intensity
//	f32    range
//	f32    innerConeAngle
//	f32    outerConeAngle
//	u32,u32 name
//	u32,u32 extensions
//	8 bytes extras
func DecodeLight(ctx *Context, c *memview.Cursor) (*resource.Light, error) {
	l := &resource.Light{}

	lt, err := enumU32(c, "type", "LightType", func(v uint32) bool {
		return resource.LightType(v).Valid()
	})
	if err != nil {
		return nil, err
	}
	l.Type = resource.LightType(lt)

	if l.Color, err = readVec3(c); err != nil {
		return nil, err
	}
	if l.Intensity, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if l.Range, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if l.InnerConeAngle, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if l.OuterConeAngle, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if l.Name, err = ctx.Name(c); err != nil {
		return nil, err
	}
	if _, err := ctx.Extensions(c); err != nil {
		return nil, err
	}
	if err := c.Skip(extrasSize); err != nil {
		return nil, err
	}
	return l, nil
}
