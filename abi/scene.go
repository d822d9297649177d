package abi

func (t *Table) registerWorldOps() {
	t.opID("world_get_environment_scene", 0, func(c *Call) (int32, error) {
		id := c.Env.World().EnvironmentScene
		if !c.Env.Caps.Authorized(id) {
			return 0, nil
		}
		return int32(id), nil
	})
}

func (t *Table) registerSceneOps() {
	t.opStatus("scene_add_node", 2, func(c *Call) (int32, error) {
		w := c.Env.World()
		if err := w.Bridge.AddNodeToScene(c.Env.Caps, c.ID(0), c.ID(1)); err != nil {
			return 0, err
		}
		return StatusOK, nil
	})
	t.opStatus("scene_remove_node", 2, func(c *Call) (int32, error) {
		w := c.Env.World()
		if err := w.Bridge.RemoveNodeFromScene(c.Env.Caps, c.ID(0), c.ID(1)); err != nil {
			return 0, err
		}
		return StatusOK, nil
	})
	t.opStatus("scene_get_node_count", 1, func(c *Call) (int32, error) {
		n, err := c.Env.World().Bridge.SceneNodeCount(c.Env.Caps, c.ID(0))
		if err != nil {
			return 0, err
		}
		return int32(n), nil
	})
	t.opStatus("scene_get_nodes", 3, func(c *Call) (int32, error) {
		ids, err := c.Env.World().Bridge.SceneNodes(c.Env.Caps, c.ID(0))
		if err != nil {
			return 0, err
		}
		return writeIDs(c, 1, ids, c.Arg(2))
	})
	t.opID("scene_get_node_at", 2, func(c *Call) (int32, error) {
		id, err := c.Env.World().Bridge.SceneNodeAt(c.Env.Caps, c.ID(0), c.Arg(1))
		if err != nil {
			return 0, err
		}
		return int32(id), nil
	})
}
