package abi

import (
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/marshal"
	"github.com/veldt-engine/scenehost/resource"
)

func (t *Table) registerColliderOps() {
	t.opID("world_create_collider", 1, func(c *Call) (int32, error) {
		cur, err := c.Cursor(0)
		if err != nil {
			return 0, err
		}
		col, err := marshal.DecodeCollider(c.decodeCtx(), cur)
		if err != nil {
			return 0, err
		}
		id, err := c.Env.CreateCollider(col)
		if err != nil {
			return 0, err
		}
		return int32(id), nil
	})

	t.opID("world_create_interactable", 2, func(c *Call) (int32, error) {
		typ := resource.InteractableType(c.Arg(1))
		if !typ.Valid() {
			return 0, errors.InvalidEnum([]string{"interactable.type"}, c.Arg(1), "InteractableType")
		}
		id, err := c.Env.CreateInteractable(c.ID(0), typ)
		if err != nil {
			return 0, err
		}
		return int32(id), nil
	})

	t.opStatus("interactable_get_pressed", 1, interactableFlag(0))
	t.opStatus("interactable_get_held", 1, interactableFlag(1))
	t.opStatus("interactable_get_released", 1, interactableFlag(2))
}

// interactableFlag builds a handler polling one of the three
// interaction flags through the collaborator.
func interactableFlag(flag int) Handler {
	return func(c *Call) (int32, error) {
		pressed, held, released, err := c.Env.InteractableState(c.ID(0))
		if err != nil {
			return 0, err
		}
		switch flag {
		case 0:
			return boolStatus(pressed), nil
		case 1:
			return boolStatus(held), nil
		default:
			return boolStatus(released), nil
		}
	}
}
