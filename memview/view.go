package memview

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/veldt-engine/scenehost"
	"github.com/veldt-engine/scenehost/errors"
)

// Cursor is a movable read/write position over a shared memory store.
// Every access is bounds-checked against the store size before any byte
// is touched; on failure the cursor position is unchanged and a
// structured out-of-bounds or decode error is returned. Reads and writes
// advance the cursor by the exact byte width of the value, with no
// implicit padding. All multi-byte values are little-endian.
type Cursor struct {
	mem scenehost.Memory
	off uint32
}

// NewCursor returns a cursor positioned at offset 0 of mem.
func NewCursor(mem scenehost.Memory) *Cursor {
	return &Cursor{mem: mem}
}

// Offset returns the current cursor position.
func (c *Cursor) Offset() uint32 { return c.off }

// MoveTo repositions the cursor. The offset may equal the store size
// (one past the last byte); anything further is rejected.
func (c *Cursor) MoveTo(offset uint32) error {
	if offset > c.mem.Size() {
		return errors.OutOfBounds(errors.PhaseDecode, offset, 0, c.mem.Size())
	}
	c.off = offset
	return nil
}

// Skip advances the cursor by n bytes without reading them.
func (c *Cursor) Skip(n uint32) error {
	if uint64(c.off)+uint64(n) > uint64(c.mem.Size()) {
		return errors.OutOfBounds(errors.PhaseDecode, c.off, n, c.mem.Size())
	}
	c.off += n
	return nil
}

func (c *Cursor) read(n uint32) ([]byte, error) {
	b, ok := c.mem.Read(c.off, n)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseDecode, c.off, n, c.mem.Size())
	}
	c.off += n
	return b, nil
}

func (c *Cursor) write(data []byte) error {
	if !c.mem.Write(c.off, data) {
		return errors.OutOfBounds(errors.PhaseEncode, c.off, uint32(len(data)), c.mem.Size())
	}
	c.off += uint32(len(data))
	return nil
}

// ReadU32 reads a little-endian uint32 and advances by 4.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a little-endian int32 and advances by 4.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadF32 reads a little-endian float32 and advances by 4.
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// elemCount rejects counts whose byte width cannot fit the store. This
// also guards the n*4 multiplication against uint32 wraparound, which a
// hostile guest can trigger with a huge count field.
func (c *Cursor) elemCount(n uint32) error {
	if n > c.mem.Size()/4 {
		return errors.OutOfBounds(errors.PhaseDecode, c.off, n, c.mem.Size())
	}
	return nil
}

// ReadU32Array reads n consecutive uint32 values.
func (c *Cursor) ReadU32Array(n uint32) ([]uint32, error) {
	if err := c.elemCount(n); err != nil {
		return nil, err
	}
	b, err := c.read(n * 4)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out, nil
}

// ReadF32Array reads n consecutive float32 values.
func (c *Cursor) ReadF32Array(n uint32) ([]float32, error) {
	if err := c.elemCount(n); err != nil {
		return nil, err
	}
	b, err := c.read(n * 4)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

// ReadBytes reads n raw bytes. The returned slice may alias the
// underlying store; callers that retain it must copy.
func (c *Cursor) ReadBytes(n uint32) ([]byte, error) {
	return c.read(n)
}

// WriteU32 writes a little-endian uint32 and advances by 4.
func (c *Cursor) WriteU32(v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return c.write(b[:])
}

// WriteI32 writes a little-endian int32 and advances by 4.
func (c *Cursor) WriteI32(v int32) error {
	return c.WriteU32(uint32(v))
}

// WriteF32 writes a little-endian float32 and advances by 4.
func (c *Cursor) WriteF32(v float32) error {
	return c.WriteU32(math.Float32bits(v))
}

// WriteF32Array writes all values consecutively. The whole write is
// bounds-checked up front so a partial vector is never visible to the
// guest.
func (c *Cursor) WriteF32Array(vs []float32) error {
	b := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return c.write(b)
}

// WriteU32Array writes all values consecutively with a single up-front
// bounds check.
func (c *Cursor) WriteU32Array(vs []uint32) error {
	b := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
	return c.write(b)
}

// WriteBytes writes raw bytes and advances past them.
func (c *Cursor) WriteBytes(data []byte) error {
	return c.write(data)
}

// ReadStringAt decodes a (pointer, byteLength) string argument without
// moving the cursor. The bytes must be valid UTF-8.
func (c *Cursor) ReadStringAt(ptr, byteLen uint32) (string, error) {
	b, ok := c.mem.Read(ptr, byteLen)
	if !ok {
		return "", errors.OutOfBounds(errors.PhaseDecode, ptr, byteLen, c.mem.Size())
	}
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(nil, b)
	}
	return string(b), nil
}
