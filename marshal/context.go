package marshal

import (
	"github.com/veldt-engine/scenehost/capability"
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/memview"
	"github.com/veldt-engine/scenehost/resource"
)

// extrasSize is the trailing placeholder every parameter block carries.
// It is always present and currently unparsed.
const extrasSize = 8

// Context carries what a decode needs to validate handles: the engine
// registry and the calling script's capability set. Decoders construct
// nothing; they only read, validate, and return records.
type Context struct {
	Reg  *resource.Registry
	Caps *capability.Set
}

// Handle reads a u32 handle field. Zero means absent and skips lookup;
// any nonzero value must resolve through the capability set with the
// expected kind or the whole decode aborts.
func (ctx *Context) Handle(c *memview.Cursor, kind resource.Kind, path string) (resource.ID, error) {
	raw, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	if raw == 0 {
		return 0, nil
	}
	id := resource.ID(raw)
	if _, err := ctx.Caps.Access(ctx.Reg, id, kind); err != nil {
		return 0, errors.Wrap(errors.PhaseDecode, errors.KindDecode, err, "handle field "+path)
	}
	return id, nil
}

// Name reads the (pointer, byteLength) string pair every named block
// ends its fixed section with. A zero pointer means unnamed.
func (ctx *Context) Name(c *memview.Cursor) (string, error) {
	ptr, err := c.ReadU32()
	if err != nil {
		return "", err
	}
	length, err := c.ReadU32()
	if err != nil {
		return "", err
	}
	if ptr == 0 {
		return "", nil
	}
	return c.ReadStringAt(ptr, length)
}

// enumU32 reads a u32 and validates it through ok; unrecognized values
// are decode errors, never substituted with a default.
func enumU32(c *memview.Cursor, path, enumType string, ok func(uint32) bool) (uint32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	if !ok(v) {
		return 0, errors.InvalidEnum([]string{path}, v, enumType)
	}
	return v, nil
}

func readBool(c *memview.Cursor) (bool, error) {
	v, err := c.ReadU32()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func readVec3(c *memview.Cursor) ([3]float32, error) {
	var out [3]float32
	vs, err := c.ReadF32Array(3)
	if err != nil {
		return out, err
	}
	copy(out[:], vs)
	return out, nil
}

func readVec4(c *memview.Cursor) ([4]float32, error) {
	var out [4]float32
	vs, err := c.ReadF32Array(4)
	if err != nil {
		return out, err
	}
	copy(out[:], vs)
	return out, nil
}

func readVec2(c *memview.Cursor) ([2]float32, error) {
	var out [2]float32
	vs, err := c.ReadF32Array(2)
	if err != nil {
		return out, err
	}
	copy(out[:], vs)
	return out, nil
}
