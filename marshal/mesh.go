package marshal

import (
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/memview"
	"github.com/veldt-engine/scenehost/resource"
)

// Per-item strides of the variable-length mesh substructures.
const (
	primitiveStride = 20 // mode, indices, material, attributesPtr, attributeCount
	attributeStride = 8  // key, accessor
)

// PrimitiveRecord is one fully validated mesh primitive, not yet
// allocated as an engine resource.
type PrimitiveRecord struct {
	Mode       resource.MeshPrimitiveMode
	Indices    resource.ID
	Material   resource.ID
	Attributes []resource.Attribute
}

// MeshRecord is a fully validated mesh construction record. The split
// between decode and allocation exists so a failure on primitive N
// leaves zero resources registered.
type MeshRecord struct {
	Name       string
	Primitives []PrimitiveRecord
}

// DecodeMesh reads a mesh parameter block:
//
//	u32,u32 primitives (itemsPtr, count), stride 20:
//	    u32 mode enum
//	    u32 indices accessor handle (0 = absent)
//	    u32 material handle         (0 = absent)
//	    u32,u32 attributes (itemsPtr, count), stride 8:
//	        u32 attribute key enum
//	        u32 accessor handle (required)
//	u32,u32 name
//	u32,u32 extensions
//	8 bytes extras
//
// Every primitive and attribute is validated before the record is
// returned; callers allocate only on success.
func DecodeMesh(ctx *Context, c *memview.Cursor) (*MeshRecord, error) {
	itemsPtr, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	count, err := c.ReadU32()
	if err != nil {
		return nil, err
	}

	rec := &MeshRecord{Primitives: make([]PrimitiveRecord, 0, count)}

	if rec.Name, err = ctx.Name(c); err != nil {
		return nil, err
	}
	if _, err := ctx.Extensions(c); err != nil {
		return nil, err
	}
	if err := c.Skip(extrasSize); err != nil {
		return nil, err
	}

	for i := uint32(0); i < count; i++ {
		if err := c.MoveTo(itemsPtr + i*primitiveStride); err != nil {
			return nil, err
		}
		prim, err := decodePrimitive(ctx, c)
		if err != nil {
			return nil, err
		}
		rec.Primitives = append(rec.Primitives, prim)
	}
	return rec, nil
}

func decodePrimitive(ctx *Context, c *memview.Cursor) (PrimitiveRecord, error) {
	var rec PrimitiveRecord

	mode, err := enumU32(c, "mode", "MeshPrimitiveMode", func(v uint32) bool {
		return resource.MeshPrimitiveMode(v).Valid()
	})
	if err != nil {
		return rec, err
	}
	rec.Mode = resource.MeshPrimitiveMode(mode)

	if rec.Indices, err = ctx.Handle(c, resource.KindAccessor, "primitive.indices"); err != nil {
		return rec, err
	}
	if rec.Material, err = ctx.Handle(c, resource.KindMaterial, "primitive.material"); err != nil {
		return rec, err
	}

	attrPtr, err := c.ReadU32()
	if err != nil {
		return rec, err
	}
	attrCount, err := c.ReadU32()
	if err != nil {
		return rec, err
	}

	rec.Attributes = make([]resource.Attribute, 0, attrCount)
	for i := uint32(0); i < attrCount; i++ {
		if err := c.MoveTo(attrPtr + i*attributeStride); err != nil {
			return rec, err
		}
		key, err := enumU32(c, "attributes.key", "AttributeKey", func(v uint32) bool {
			return resource.AttributeKey(v).Valid()
		})
		if err != nil {
			return rec, err
		}
		accessor, err := ctx.Handle(c, resource.KindAccessor, "attributes.accessor")
		if err != nil {
			return rec, err
		}
		if accessor == 0 {
			return rec, errors.Truncated([]string{"attributes", "accessor"}, "required accessor handle is zero")
		}
		rec.Attributes = append(rec.Attributes, resource.Attribute{
			Key:      resource.AttributeKey(key),
			Accessor: accessor,
		})
	}
	return rec, nil
}
