package marshal

import (
	"github.com/veldt-engine/scenehost/memview"
	"github.com/veldt-engine/scenehost/resource"
)

// DecodeUICanvas reads a UI canvas parameter block:
//
//	u32    root UI element handle (0 = absent)
//	f32[2] size (world units)
//	f32    width  (pixels)
//	f32    height (pixels)
//	u32,u32 extensions
//	8 bytes extras
func DecodeUICanvas(ctx *Context, c *memview.Cursor) (*resource.UICanvas, error) {
	canvas := &resource.UICanvas{}
	var err error

	if canvas.Root, err = ctx.Handle(c, resource.KindUIElement, "uiCanvas.root"); err != nil {
		return nil, err
	}
	if canvas.Size, err = readVec2(c); err != nil {
		return nil, err
	}
	if canvas.Width, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if canvas.Height, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if _, err := ctx.Extensions(c); err != nil {
		return nil, err
	}
	if err := c.Skip(extrasSize); err != nil {
		return nil, err
	}
	return canvas, nil
}

// decodeElementProps reads the flexbox layout fields shared by all UI
// element subtypes:
//
//	u32    positionType
//	f32[4] position (top/right/bottom/left)
//	u32    alignItems
//	u32    alignSelf
//	u32    alignContent
//	u32    justifyContent
//	u32    flexDirection enum
//	f32    width, height, flexBasis, flexGrow, flexShrink
//	f32[4] backgroundColor, borderColor, padding, margin
func decodeElementProps(c *memview.Cursor) (resource.UIElementProps, error) {
	var p resource.UIElementProps
	var err error

	if p.PositionType, err = c.ReadU32(); err != nil {
		return p, err
	}
	if p.Position, err = readVec4(c); err != nil {
		return p, err
	}
	if p.AlignItems, err = c.ReadU32(); err != nil {
		return p, err
	}
	if p.AlignSelf, err = c.ReadU32(); err != nil {
		return p, err
	}
	if p.AlignContent, err = c.ReadU32(); err != nil {
		return p, err
	}
	if p.JustifyContent, err = c.ReadU32(); err != nil {
		return p, err
	}

	dir, err := enumU32(c, "flexDirection", "FlexDirection", func(v uint32) bool {
		return resource.FlexDirection(v).Valid()
	})
	if err != nil {
		return p, err
	}
	p.FlexDirection = resource.FlexDirection(dir)

	for _, dst := range []*float32{&p.Width, &p.Height, &p.FlexBasis, &p.FlexGrow, &p.FlexShrink} {
		if *dst, err = c.ReadF32(); err != nil {
			return p, err
		}
	}
	for _, dst := range []*[4]float32{&p.BackgroundColor, &p.BorderColor, &p.Padding, &p.Margin} {
		if *dst, err = readVec4(c); err != nil {
			return p, err
		}
	}
	return p, nil
}

// DecodeUIElement reads a UI element parameter block:
//
//	u32 element type enum (flex/text/button)
//	u32 parent UI element handle (0 = absent)
//	element props (see decodeElementProps)
//	u32,u32 extensions
//	8 bytes extras
func DecodeUIElement(ctx *Context, c *memview.Cursor) (*resource.UIElement, error) {
	el := &resource.UIElement{}

	et, err := enumU32(c, "type", "ElementType", func(v uint32) bool {
		return resource.ElementType(v).Valid()
	})
	if err != nil {
		return nil, err
	}
	el.Type = resource.ElementType(et)

	if el.Parent, err = ctx.Handle(c, resource.KindUIElement, "uiElement.parent"); err != nil {
		return nil, err
	}
	if el.UIElementProps, err = decodeElementProps(c); err != nil {
		return nil, err
	}
	if _, err := ctx.Extensions(c); err != nil {
		return nil, err
	}
	if err := c.Skip(extrasSize); err != nil {
		return nil, err
	}
	return el, nil
}

// DecodeUIButton reads a UI button parameter block: element props
// followed by a (ptr, byteLength) label, then extensions and extras.
func DecodeUIButton(ctx *Context, c *memview.Cursor) (*resource.UIButton, error) {
	b := &resource.UIButton{}
	b.Type = resource.ElementButton

	var err error
	if b.UIElementProps, err = decodeElementProps(c); err != nil {
		return nil, err
	}
	if b.Text, err = ctx.Name(c); err != nil {
		return nil, err
	}
	if _, err := ctx.Extensions(c); err != nil {
		return nil, err
	}
	if err := c.Skip(extrasSize); err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeUIText reads a UI text parameter block: element props, a
// (ptr, byteLength) value string, font size, color, extensions, extras.
func DecodeUIText(ctx *Context, c *memview.Cursor) (*resource.UIText, error) {
	t := &resource.UIText{}
	t.Type = resource.ElementText

	var err error
	if t.UIElementProps, err = decodeElementProps(c); err != nil {
		return nil, err
	}
	if t.Value, err = ctx.Name(c); err != nil {
		return nil, err
	}
	if t.FontSize, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if t.Color, err = readVec4(c); err != nil {
		return nil, err
	}
	if _, err := ctx.Extensions(c); err != nil {
		return nil, err
	}
	if err := c.Skip(extrasSize); err != nil {
		return nil, err
	}
	return t, nil
}
