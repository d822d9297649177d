package abi

import (
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/marshal"
	"github.com/veldt-engine/scenehost/resource"
)

// Texture slot indices accepted by material_set_texture.
const (
	slotBaseColor uint32 = iota
	slotMetallicRoughness
	slotNormal
	slotOcclusion
	slotEmissive
)

func (t *Table) registerMaterialOps() {
	t.opID("world_create_material", 1, func(c *Call) (int32, error) {
		cur, err := c.Cursor(0)
		if err != nil {
			return 0, err
		}
		m, err := marshal.DecodeMaterial(c.decodeCtx(), cur)
		if err != nil {
			return 0, err
		}
		return int32(c.Env.CreateMaterial(m)), nil
	})
	t.opID("material_find_by_name", 2, func(c *Call) (int32, error) {
		return findByNameOp(c, resource.KindMaterial)
	})

	t.opStatus("material_get_base_color_factor", 2, func(c *Call) (int32, error) {
		m, err := c.material(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, m.BaseColorFactor[:])
	})
	t.opStatus("material_set_base_color_factor", 2, func(c *Call) (int32, error) {
		m, err := c.material(0)
		if err != nil {
			return 0, err
		}
		return readF32s(c, 1, m.BaseColorFactor[:])
	})
	t.opStatus("material_get_metallic_factor", 2, func(c *Call) (int32, error) {
		m, err := c.material(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, []float32{m.MetallicFactor})
	})
	t.opStatus("material_set_metallic_factor", 2, func(c *Call) (int32, error) {
		m, err := c.material(0)
		if err != nil {
			return 0, err
		}
		m.MetallicFactor = c.F32(1)
		return StatusOK, nil
	})
	t.opStatus("material_get_roughness_factor", 2, func(c *Call) (int32, error) {
		m, err := c.material(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, []float32{m.RoughnessFactor})
	})
	t.opStatus("material_set_roughness_factor", 2, func(c *Call) (int32, error) {
		m, err := c.material(0)
		if err != nil {
			return 0, err
		}
		m.RoughnessFactor = c.F32(1)
		return StatusOK, nil
	})
	t.opStatus("material_get_emissive_factor", 2, func(c *Call) (int32, error) {
		m, err := c.material(0)
		if err != nil {
			return 0, err
		}
		return writeF32s(c, 1, m.EmissiveFactor[:])
	})
	t.opStatus("material_set_emissive_factor", 2, func(c *Call) (int32, error) {
		m, err := c.material(0)
		if err != nil {
			return 0, err
		}
		return readF32s(c, 1, m.EmissiveFactor[:])
	})

	t.opStatus("material_set_texture", 3, func(c *Call) (int32, error) {
		m, err := c.material(0)
		if err != nil {
			return 0, err
		}
		texID := c.ID(2)
		if texID != 0 {
			if _, err := c.access(2, resource.KindTexture); err != nil {
				return 0, err
			}
		}
		switch c.Arg(1) {
		case slotBaseColor:
			m.BaseColorTexture = texID
		case slotMetallicRoughness:
			m.MetallicRoughnessTexture = texID
		case slotNormal:
			m.NormalTexture = texID
		case slotOcclusion:
			m.OcclusionTexture = texID
		case slotEmissive:
			m.EmissiveTexture = texID
		default:
			return 0, errors.InvalidEnum([]string{"material.textureSlot"}, c.Arg(1), "TextureSlot")
		}
		return StatusOK, nil
	})

	t.opID("world_create_texture", 1, func(c *Call) (int32, error) {
		cur, err := c.Cursor(0)
		if err != nil {
			return 0, err
		}
		tex, err := marshal.DecodeTexture(c.decodeCtx(), cur)
		if err != nil {
			return 0, err
		}
		return int32(c.Env.CreateTexture(tex)), nil
	})
	t.opID("world_create_light", 1, func(c *Call) (int32, error) {
		cur, err := c.Cursor(0)
		if err != nil {
			return 0, err
		}
		l, err := marshal.DecodeLight(c.decodeCtx(), cur)
		if err != nil {
			return 0, err
		}
		return int32(c.Env.CreateLight(l)), nil
	})
}

func (c *Call) material(i int) (*resource.Material, error) {
	res, err := c.access(i, resource.KindMaterial)
	if err != nil {
		return nil, err
	}
	return res.(*resource.Material), nil
}
