package scenehost

// Memory is the flat byte store shared between a guest script and the
// host. Implementations must bounds-check every access: an offset/length
// pair that does not fit inside the store fails with ok=false and leaves
// the store untouched.
type Memory interface {
	Read(offset, length uint32) ([]byte, bool)
	Write(offset uint32, data []byte) bool
	Size() uint32
}

// ByteMemory is an in-process Memory over a plain byte slice. It is the
// backing store used by tests and by host-side environment provisioning;
// sandboxed guests use the instance's linear memory instead.
type ByteMemory []byte

func (m ByteMemory) Size() uint32 { return uint32(len(m)) }

func (m ByteMemory) Read(offset, length uint32) ([]byte, bool) {
	if uint64(offset)+uint64(length) > uint64(len(m)) {
		return nil, false
	}
	return m[offset : offset+length], true
}

func (m ByteMemory) Write(offset uint32, data []byte) bool {
	if uint64(offset)+uint64(len(data)) > uint64(len(m)) {
		return false
	}
	copy(m[offset:], data)
	return true
}
