package abi

import (
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/marshal"
	"github.com/veldt-engine/scenehost/resource"
)

func (t *Table) registerUIOps() {
	t.opID("world_create_ui_canvas", 1, func(c *Call) (int32, error) {
		cur, err := c.Cursor(0)
		if err != nil {
			return 0, err
		}
		canvas, err := marshal.DecodeUICanvas(c.decodeCtx(), cur)
		if err != nil {
			return 0, err
		}
		id, err := c.Env.CreateUICanvas(canvas)
		if err != nil {
			return 0, err
		}
		return int32(id), nil
	})

	t.opID("ui_canvas_get_root", 1, func(c *Call) (int32, error) {
		canvas, err := c.canvas(0)
		if err != nil {
			return 0, err
		}
		return int32(canvas.Root), nil
	})
	t.opStatus("ui_canvas_set_root", 2, func(c *Call) (int32, error) {
		canvas, err := c.canvas(0)
		if err != nil {
			return 0, err
		}
		if c.ID(1) != 0 {
			if _, err := c.uiElement(1); err != nil {
				return 0, err
			}
		}
		canvas.Root = c.ID(1)
		canvas.Redraw++
		return StatusOK, nil
	})
	t.opStatus("ui_canvas_get_size", 2, func(c *Call) (int32, error) {
		canvas, err := c.canvas(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, canvas.Size[:])
	})
	t.opStatus("ui_canvas_set_size", 2, func(c *Call) (int32, error) {
		canvas, err := c.canvas(0)
		if err != nil {
			return 0, err
		}
		return readF32s(c, 1, canvas.Size[:])
	})
	t.opStatus("ui_canvas_get_width", 2, func(c *Call) (int32, error) {
		canvas, err := c.canvas(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, []float32{canvas.Width})
	})
	t.opStatus("ui_canvas_set_width", 2, func(c *Call) (int32, error) {
		canvas, err := c.canvas(0)
		if err != nil {
			return 0, err
		}
		canvas.Width = c.F32(1)
		return StatusOK, nil
	})
	t.opStatus("ui_canvas_get_height", 2, func(c *Call) (int32, error) {
		canvas, err := c.canvas(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, []float32{canvas.Height})
	})
	t.opStatus("ui_canvas_set_height", 2, func(c *Call) (int32, error) {
		canvas, err := c.canvas(0)
		if err != nil {
			return 0, err
		}
		canvas.Height = c.F32(1)
		return StatusOK, nil
	})
	t.opStatus("ui_canvas_redraw", 1, func(c *Call) (int32, error) {
		canvas, err := c.canvas(0)
		if err != nil {
			return 0, err
		}
		canvas.Redraw++
		return StatusOK, nil
	})

	t.opID("world_create_ui_element", 1, func(c *Call) (int32, error) {
		cur, err := c.Cursor(0)
		if err != nil {
			return 0, err
		}
		el, err := marshal.DecodeUIElement(c.decodeCtx(), cur)
		if err != nil {
			return 0, err
		}
		id, err := c.Env.CreateUIElement(el)
		if err != nil {
			return 0, err
		}
		return int32(id), nil
	})
	t.opID("world_create_ui_button", 1, func(c *Call) (int32, error) {
		cur, err := c.Cursor(0)
		if err != nil {
			return 0, err
		}
		b, err := marshal.DecodeUIButton(c.decodeCtx(), cur)
		if err != nil {
			return 0, err
		}
		id, err := c.Env.CreateUIButton(b)
		if err != nil {
			return 0, err
		}
		return int32(id), nil
	})
	t.opID("world_create_ui_text", 1, func(c *Call) (int32, error) {
		cur, err := c.Cursor(0)
		if err != nil {
			return 0, err
		}
		txt, err := marshal.DecodeUIText(c.decodeCtx(), cur)
		if err != nil {
			return 0, err
		}
		return int32(c.Env.CreateUIText(txt)), nil
	})

	t.opStatus("ui_button_get_pressed", 1, buttonFlag(0))
	t.opStatus("ui_button_get_held", 1, buttonFlag(1))
	t.opStatus("ui_button_get_released", 1, buttonFlag(2))

	t.opStatus("ui_element_add_child", 2, func(c *Call) (int32, error) {
		if err := c.Env.AddUIChild(c.ID(0), c.ID(1)); err != nil {
			return 0, err
		}
		return StatusOK, nil
	})
	t.opStatus("ui_element_remove_child", 2, func(c *Call) (int32, error) {
		if err := c.Env.RemoveUIChild(c.ID(0), c.ID(1)); err != nil {
			return 0, err
		}
		return StatusOK, nil
	})
	t.opStatus("ui_element_get_child_count", 1, func(c *Call) (int32, error) {
		ids, err := c.Env.UIChildren(c.ID(0))
		if err != nil {
			return 0, err
		}
		return int32(len(ids)), nil
	})
	t.opID("ui_element_get_child_at", 2, func(c *Call) (int32, error) {
		ids, err := c.Env.UIChildren(c.ID(0))
		if err != nil {
			return 0, err
		}
		idx := c.Arg(1)
		if idx >= uint32(len(ids)) {
			return 0, nil
		}
		return int32(ids[idx]), nil
	})

	t.opStatus("ui_element_get_background_color", 2, func(c *Call) (int32, error) {
		props, err := c.uiProps(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, props.BackgroundColor[:])
	})
	t.opStatus("ui_element_set_background_color", 2, func(c *Call) (int32, error) {
		props, err := c.uiProps(0)
		if err != nil {
			return 0, err
		}
		return readF32s(c, 1, props.BackgroundColor[:])
	})
	t.opStatus("ui_element_get_border_color", 2, func(c *Call) (int32, error) {
		props, err := c.uiProps(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, props.BorderColor[:])
	})
	t.opStatus("ui_element_set_border_color", 2, func(c *Call) (int32, error) {
		props, err := c.uiProps(0)
		if err != nil {
			return 0, err
		}
		return readF32s(c, 1, props.BorderColor[:])
	})

	t.opStatus("ui_text_set_value", 3, func(c *Call) (int32, error) {
		res, err := c.access(0, resource.KindUIText)
		if err != nil {
			return 0, err
		}
		value, err := c.String(1)
		if err != nil {
			return 0, err
		}
		res.(*resource.UIText).Value = value
		return StatusOK, nil
	})
}

func (c *Call) canvas(i int) (*resource.UICanvas, error) {
	res, err := c.access(i, resource.KindUICanvas)
	if err != nil {
		return nil, err
	}
	return res.(*resource.UICanvas), nil
}

// uiElement resolves an argument to any of the three UI element kinds.
func (c *Call) uiElement(i int) (resource.Resource, error) {
	id := c.ID(i)
	if id == 0 {
		return nil, errors.NotFound("abi.ui", 0)
	}
	if !c.Env.Caps.Authorized(id) {
		return nil, errors.NotAuthorized("abi.ui", uint32(id))
	}
	res, ok := c.Env.World().Reg.Lookup(id)
	if !ok {
		return nil, errors.NotFound("abi.ui", uint32(id))
	}
	switch res.(type) {
	case *resource.UIElement, *resource.UIButton, *resource.UIText:
		return res, nil
	}
	return nil, errors.TypeMismatch("abi.ui", uint32(id), "UIElement", res.Kind().String())
}

func (c *Call) uiProps(i int) (*resource.UIElementProps, error) {
	res, err := c.uiElement(i)
	if err != nil {
		return nil, err
	}
	switch el := res.(type) {
	case *resource.UIElement:
		return &el.UIElementProps, nil
	case *resource.UIButton:
		return &el.UIElementProps, nil
	default:
		return &res.(*resource.UIText).UIElementProps, nil
	}
}

// buttonFlag polls one interaction flag through the button's
// interactable.
func buttonFlag(flag int) Handler {
	return func(c *Call) (int32, error) {
		res, err := c.access(0, resource.KindUIButton)
		if err != nil {
			return 0, err
		}
		b := res.(*resource.UIButton)
		pressed, held, released := c.Env.World().Interaction.State(b.Interactable)
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
