package abi

import (
	"github.com/veldt-engine/scenehost/marshal"
	"github.com/veldt-engine/scenehost/resource"
)

func (t *Table) registerNodeOps() {
	t.opID("world_create_node", 1, createNode)
	t.opID("node_find_by_name", 2, func(c *Call) (int32, error) {
		return findByNameOp(c, resource.KindNode)
	})

	t.opStatus("node_add_child", 2, func(c *Call) (int32, error) {
		w := c.Env.World()
		if err := w.Bridge.AddChild(c.Env.Caps, c.ID(0), c.ID(1)); err != nil {
			return 0, err
		}
		return StatusOK, nil
	})
	t.opStatus("node_remove_child", 2, func(c *Call) (int32, error) {
		w := c.Env.World()
		if err := w.Bridge.RemoveChild(c.Env.Caps, c.ID(0), c.ID(1)); err != nil {
			return 0, err
		}
		return StatusOK, nil
	})
	t.opStatus("node_get_child_count", 1, func(c *Call) (int32, error) {
		n, err := c.Env.World().Bridge.ChildCount(c.Env.Caps, c.ID(0))
		if err != nil {
			return 0, err
		}
		return int32(n), nil
	})
	t.opStatus("node_get_children", 3, func(c *Call) (int32, error) {
		ids, err := c.Env.World().Bridge.Children(c.Env.Caps, c.ID(0))
		if err != nil {
			return 0, err
		}
		return writeIDs(c, 1, ids, c.Arg(2))
	})
	t.opID("node_get_child_at", 2, func(c *Call) (int32, error) {
		id, err := c.Env.World().Bridge.ChildAt(c.Env.Caps, c.ID(0), c.Arg(1))
		if err != nil {
			return 0, err
		}
		return int32(id), nil
	})
	t.opID("node_get_parent", 1, func(c *Call) (int32, error) {
		id, err := c.Env.World().Bridge.Parent(c.Env.Caps, c.ID(0))
		if err != nil {
			return 0, err
		}
		return int32(id), nil
	})

	t.opStatus("node_get_translation", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, n.Translation[:])
	})
	t.opStatus("node_set_translation", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		n.HasMatrix = false
		return readF32s(c, 1, n.Translation[:])
	})
	t.opStatus("node_get_rotation", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, n.Rotation[:])
	})
	t.opStatus("node_set_rotation", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		n.HasMatrix = false
		return readF32s(c, 1, n.Rotation[:])
	})
	t.opStatus("node_get_scale", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, n.Scale[:])
	})
	t.opStatus("node_set_scale", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		n.HasMatrix = false
		return readF32s(c, 1, n.Scale[:])
	})
	t.opStatus("node_get_matrix", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		if n.HasMatrix {
			return writeF32s(c, 1, n.Matrix[:])
		}
		m := composeMatrix(n.Translation, n.Rotation, n.Scale)
		return writeF32s(c, 1, m[:])
	})
	t.opStatus("node_set_matrix", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		if st, err := readF32s(c, 1, n.Matrix[:]); err != nil || st != StatusOK {
			return st, err
		}
		n.HasMatrix = true
		return StatusOK, nil
	})

	t.opStatus("node_get_visible", 1, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		return boolStatus(n.Visible), nil
	})
	t.opStatus("node_set_visible", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		n.Visible = c.Arg(1) != 0
		return StatusOK, nil
	})
	t.opStatus("node_get_is_static", 1, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		return boolStatus(n.IsStatic), nil
	})
	t.opStatus("node_set_is_static", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		n.IsStatic = c.Arg(1) != 0
		return StatusOK, nil
	})

	t.opID("node_get_mesh", 1, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		return int32(n.Mesh), nil
	})
	t.opStatus("node_set_mesh", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		if c.ID(1) != 0 {
			if _, err := c.access(1, resource.KindMesh); err != nil {
				return 0, err
			}
		}
		n.Mesh = c.ID(1)
		return StatusOK, nil
	})
	t.opStatus("node_set_collider", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		if c.ID(1) != 0 {
			if _, err := c.access(1, resource.KindCollider); err != nil {
				return 0, err
			}
		}
		n.Collider = c.ID(1)
		return StatusOK, nil
	})
	t.opStatus("node_set_light", 2, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		if c.ID(1) != 0 {
			if _, err := c.access(1, resource.KindLight); err != nil {
				return 0, err
			}
		}
		n.Light = c.ID(1)
		return StatusOK, nil
	})
	t.opID("node_get_interactable", 1, func(c *Call) (int32, error) {
		n, err := c.node(0)
		if err != nil {
			return 0, err
		}
		return int32(n.Interactable), nil
	})
}

func createNode(c *Call) (int32, error) {
	cur, err := c.Cursor(0)
	if err != nil {
		return 0, err
	}
	n, err := marshal.DecodeNode(c.decodeCtx(), cur)
	if err != nil {
		return 0, err
	}
	id, err := c.Env.CreateNode(n)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

// composeMatrix builds the column-major local TRS matrix from
// translation, rotation quaternion (xyzw), and scale.
func composeMatrix(t [3]float32, q [4]float32, s [3]float32) [16]float32 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	return [16]float32{
		(1 - (yy + zz)) * s[0], (xy + wz) * s[0], (xz - wy) * s[0], 0,
		(xy - wz) * s[1], (1 - (xx + zz)) * s[1], (yz + wx) * s[1], 0,
		(xz + wy) * s[2], (yz - wx) * s[2], (1 - (xx + yy)) * s[2], 0,
		t[0], t[1], t[2], 1,
	}
}
