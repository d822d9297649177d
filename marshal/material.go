package marshal

import (
	"github.com/veldt-engine/scenehost/memview"
	"github.com/veldt-engine/scenehost/resource"
)

// DecodeMaterial reads a material parameter block:
//
//	f32[4] baseColorFactor
//	f32    metallicFactor
//	f32    roughnessFactor
//	f32[3] emissiveFactor
//	u32    alphaMode enum
//	f32    alphaCutoff
//	u32    doubleSided
//	u32 x5 texture handles: baseColor, metallicRoughness, normal,
//	       occlusion, emissive (0 = absent)
//	u32,u32 name
//	u32,u32 extensions
//	8 bytes extras
func DecodeMaterial(ctx *Context, c *memview.Cursor) (*resource.Material, error) {
	m := &resource.Material{}
	var err error

	if m.BaseColorFactor, err = readVec4(c); err != nil {
		return nil, err
	}
	if m.MetallicFactor, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if m.RoughnessFactor, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if m.EmissiveFactor, err = readVec3(c); err != nil {
		return nil, err
	}

	mode, err := enumU32(c, "alphaMode", "AlphaMode", func(v uint32) bool {
		return resource.AlphaMode(v).Valid()
	})
	if err != nil {
		return nil, err
	}
	m.AlphaMode = resource.AlphaMode(mode)

	if m.AlphaCutoff, err = c.ReadF32(); err != nil {
		return nil, err
	}
	if m.DoubleSided, err = readBool(c); err != nil {
		return nil, err
	}

	texFields := []struct {
		dst  *resource.ID
		path string
	}{
		{&m.BaseColorTexture, "material.baseColorTexture"},
		{&m.MetallicRoughnessTexture, "material.metallicRoughnessTexture"},
		{&m.NormalTexture, "material.normalTexture"},
		{&m.OcclusionTexture, "material.occlusionTexture"},
		{&m.EmissiveTexture, "material.emissiveTexture"},
	}
	for _, f := range texFields {
		if *f.dst, err = ctx.Handle(c, resource.KindTexture, f.path); err != nil {
			return nil, err
		}
	}

	if m.Name, err = ctx.Name(c); err != nil {
		return nil, err
	}

	exts, err := ctx.Extensions(c)
	if err != nil {
		return nil, err
	}
	for _, ext := range exts {
		if _, ok := ext.(Unlit); ok {
			m.Unlit = true
		}
	}

	if err := c.Skip(extrasSize); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeTexture reads a texture parameter block:
//
//	u32 source buffer-view handle (required)
//	u32 wrapS, u32 wrapT          (glTF wrap codes)
//	u32 magFilter, u32 minFilter  (glTF filter codes)
//	u32,u32 name
//	u32,u32 extensions
//	8 bytes extras
func DecodeTexture(ctx *Context, c *memview.Cursor) (*resource.Texture, error) {
	t := &resource.Texture{}
	var err error

	if t.Source, err = ctx.Handle(c, resource.KindBufferView, "texture.source"); err != nil {
		return nil, err
	}

	wrapS, err := enumU32(c, "wrapS", "TextureWrap", func(v uint32) bool {
		return resource.TextureWrap(v).Valid()
	})
	if err != nil {
		return nil, err
	}
	t.WrapS = resource.TextureWrap(wrapS)

	wrapT, err := enumU32(c, "wrapT", "TextureWrap", func(v uint32) bool {
		return resource.TextureWrap(v).Valid()
	})
	if err != nil {
		return nil, err
	}
	t.WrapT = resource.TextureWrap(wrapT)

	mag, err := enumU32(c, "magFilter", "MagFilter", func(v uint32) bool {
		return resource.MagFilter(v).Valid()
	})
	if err != nil {
		return nil, err
	}
	t.MagFilter = resource.MagFilter(mag)

	min, err := enumU32(c, "minFilter", "MinFilter", func(v uint32) bool {
		return resource.MinFilter(v).Valid()
	})
	if err != nil {
		return nil, err
	}
	t.MinFilter = resource.MinFilter(min)

	if t.Name, err = ctx.Name(c); err != nil {
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
