package resource

// ID is an opaque reference to a live resource in a Registry.
// ID 0 is reserved and always invalid.
type ID uint32

// Kind tags each resource with its variant. The set is closed: every
// switch over Kind in this module covers all variants so the compiler
// and vet keep the taxonomy honest.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNode
	KindScene
	KindMesh
	KindMeshPrimitive
	KindAccessor
	KindBuffer
	KindBufferView
	KindMaterial
	KindTexture
	KindLight
	KindCollider
	KindInteractable
	KindUICanvas
	KindUIElement
	KindUIButton
	KindUIText
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "Node"
	case KindScene:
		return "Scene"
	case KindMesh:
		return "Mesh"
	case KindMeshPrimitive:
		return "MeshPrimitive"
	case KindAccessor:
		return "Accessor"
	case KindBuffer:
		return "Buffer"
	case KindBufferView:
		return "BufferView"
	case KindMaterial:
		return "Material"
	case KindTexture:
		return "Texture"
	case KindLight:
		return "Light"
	case KindCollider:
		return "Collider"
	case KindInteractable:
		return "Interactable"
	case KindUICanvas:
		return "UICanvas"
	case KindUIElement:
		return "UIElement"
	case KindUIButton:
		return "UIButton"
	case KindUIText:
		return "UIText"
	default:
		return "Invalid"
	}
}
