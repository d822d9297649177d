package sandbox

import (
	"github.com/tetratelabs/wazero/api"
)

// guestMemory adapts a wazero instance memory to the host's Memory
// interface. Reads alias the live linear memory, so callers must copy
// anything they keep past the host call.
type guestMemory struct {
	mem api.Memory
}

func (g guestMemory) Read(offset, length uint32) ([]byte, bool) {
	if g.mem == nil {
		return nil, false
	}
	return g.mem.Read(offset, length)
}

func (g guestMemory) Write(offset uint32, data []byte) bool {
	if g.mem == nil {
		return false
	}
	return g.mem.Write(offset, data)
}

func (g guestMemory) Size() uint32 {
	if g.mem == nil {
		return 0
	}
	return g.mem.Size()
}
