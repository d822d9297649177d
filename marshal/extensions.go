package marshal

import (
	"github.com/veldt-engine/scenehost/memview"
	"github.com/veldt-engine/scenehost/resource"
)

// Extension is a decoded extension record attached to a parameter
// block. Unknown extension names decode to Empty so newer guests keep
// working against older hosts.
type Extension interface {
	ExtensionName() string
}

// Empty is the record for an extension this host does not understand.
type Empty struct {
	Name string
}

func (e Empty) ExtensionName() string { return e.Name }

// Unlit is the KHR_materials_unlit flag extension; it carries no data.
type Unlit struct{}

func (Unlit) ExtensionName() string { return "KHR_materials_unlit" }

// ColliderRef is the OMI_collider extension: a capability-checked
// reference to a collider resource.
type ColliderRef struct {
	Collider resource.ID
}

func (ColliderRef) ExtensionName() string { return "OMI_collider" }

// extensionDecoder parses one named extension's value, with the cursor
// positioned at the item's value offset.
type extensionDecoder func(ctx *Context, c *memview.Cursor) (Extension, error)

// extensionDecoders is the string-keyed dispatch table. Lookup misses
// fall through to Empty rather than erroring.
var extensionDecoders = map[string]extensionDecoder{
	"KHR_materials_unlit": func(*Context, *memview.Cursor) (Extension, error) {
		return Unlit{}, nil
	},
	"OMI_collider": func(ctx *Context, c *memview.Cursor) (Extension, error) {
		id, err := ctx.Handle(c, resource.KindCollider, "OMI_collider.collider")
		if err != nil {
			return nil, err
		}
		return ColliderRef{Collider: id}, nil
	},
}

// extensionItemStride is (namePtr, nameByteLength, valueOffset).
const extensionItemStride = 12

// Extensions reads the trailing (itemsPtr, count) extensions block from
// the cursor's current position, then decodes each item through the
// dispatch table. Item order is preserved.
func (ctx *Context) Extensions(c *memview.Cursor) ([]Extension, error) {
	itemsPtr, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	count, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	// Items live elsewhere in guest memory; restore the cursor to the
	// end of the (itemsPtr, count) header so the caller can keep reading
	// the fixed block (the extras placeholder follows).
	after := c.Offset()
	defer func() { _ = c.MoveTo(after) }()

	out := make([]Extension, 0, count)
	for i := uint32(0); i < count; i++ {
		if err := c.MoveTo(itemsPtr + i*extensionItemStride); err != nil {
			return nil, err
		}
		namePtr, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		nameLen, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		valueOffset, err := c.ReadU32()
		if err != nil {
			return nil, err
		}

		name, err := c.ReadStringAt(namePtr, nameLen)
		if err != nil {
			return nil, err
		}

		dec, known := extensionDecoders[name]
		if !known {
			out = append(out, Empty{Name: name})
			continue
		}
		if err := c.MoveTo(valueOffset); err != nil {
			return nil, err
		}
		ext, err := dec(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, ext)
	}
	return out, nil
}
