package abi

import (
	"github.com/veldt-engine/scenehost/marshal"
	"github.com/veldt-engine/scenehost/resource"
)

func (t *Table) registerMeshOps() {
	t.opID("world_create_mesh", 1, func(c *Call) (int32, error) {
		cur, err := c.Cursor(0)
		if err != nil {
			return 0, err
		}
		rec, err := marshal.DecodeMesh(c.decodeCtx(), cur)
		if err != nil {
			return 0, err
		}
		return int32(c.Env.CreateMesh(rec)), nil
	})
	t.opID("mesh_find_by_name", 2, func(c *Call) (int32, error) {
		return findByNameOp(c, resource.KindMesh)
	})

	// world_create_accessor_from(dataPtr, byteLength, propsPtr): copies
	// the staged bytes into a host buffer, wraps them in a view, and
	// binds the decoded accessor to it. A props block naming its own
	// buffer view wins over the staged data.
	t.opID("world_create_accessor_from", 3, func(c *Call) (int32, error) {
		cur, err := c.Cursor(2)
		if err != nil {
			return 0, err
		}
		acc, err := marshal.DecodeAccessor(c.decodeCtx(), cur)
		if err != nil {
			return 0, err
		}

		if acc.BufferView == 0 {
			data, err := c.Cursor(0)
			if err != nil {
				return 0, err
			}
			raw, err := data.ReadBytes(c.Arg(1))
			if err != nil {
				return 0, err
			}
			bufID := c.Env.CreateBuffer(acc.Name, raw)
			viewID, err := c.Env.CreateBufferView(&resource.BufferView{
				Buffer:     bufID,
				ByteLength: c.Arg(1),
			})
			if err != nil {
				return 0, err
			}
			acc.BufferView = viewID
		}
		return int32(c.Env.CreateAccessor(acc)), nil
	})

	t.opStatus("accessor_update_with", 3, func(c *Call) (int32, error) {
		cur, err := c.Cursor(1)
		if err != nil {
			return 0, err
		}
		data, err := cur.ReadBytes(c.Arg(2))
		if err != nil {
			return 0, err
		}
		if err := c.Env.UpdateAccessor(c.ID(0), data); err != nil {
			return 0, err
		}
		return StatusOK, nil
	})
}
