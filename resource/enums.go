package resource

// Enumerated field values carried by resource variants. Numeric codes
// follow glTF where glTF defines them (texture wrap/filter, accessor
// component types); everything else is a small dense enum starting at 0.
// Each enum has a Valid method the marshaling layer uses to reject
// unknown codes instead of substituting defaults.

// MeshPrimitiveMode is the glTF primitive topology.
type MeshPrimitiveMode uint32

const (
	ModePoints MeshPrimitiveMode = iota
	ModeLines
	ModeLineLoop
	ModeLineStrip
	ModeTriangles
	ModeTriangleStrip
	ModeTriangleFan
)

func (m MeshPrimitiveMode) Valid() bool { return m <= ModeTriangleFan }

// AttributeKey identifies a vertex attribute slot on a mesh primitive.
type AttributeKey uint32

const (
	AttributePosition AttributeKey = iota
	AttributeNormal
	AttributeTangent
	AttributeTexCoord0
	AttributeTexCoord1
	AttributeColor0
	AttributeJoints0
	AttributeWeights0
)

func (a AttributeKey) Valid() bool { return a <= AttributeWeights0 }

// AlphaMode selects material alpha handling.
type AlphaMode uint32

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

func (a AlphaMode) Valid() bool { return a <= AlphaBlend }

// TextureWrap is a glTF sampler wrap code.
type TextureWrap uint32

const (
	WrapClampToEdge    TextureWrap = 33071
	WrapMirroredRepeat TextureWrap = 33648
	WrapRepeat         TextureWrap = 10497
)

func (w TextureWrap) Valid() bool {
	return w == WrapClampToEdge || w == WrapMirroredRepeat || w == WrapRepeat
}

// MagFilter is a glTF magnification filter code.
type MagFilter uint32

const (
	MagNearest MagFilter = 9728
	MagLinear  MagFilter = 9729
)

func (f MagFilter) Valid() bool { return f == MagNearest || f == MagLinear }

// MinFilter is a glTF minification filter code.
type MinFilter uint32

const (
	MinNearest              MinFilter = 9728
	MinLinear               MinFilter = 9729
	MinNearestMipmapNearest MinFilter = 9984
	MinLinearMipmapNearest  MinFilter = 9985
	MinNearestMipmapLinear  MinFilter = 9986
	MinLinearMipmapLinear   MinFilter = 9987
)

func (f MinFilter) Valid() bool {
	switch f {
	case MinNearest, MinLinear, MinNearestMipmapNearest,
		MinLinearMipmapNearest, MinNearestMipmapLinear, MinLinearMipmapLinear:
		return true
	}
	return false
}

// AccessorType is the element shape of an accessor.
type AccessorType uint32

const (
	AccessorScalar AccessorType = iota
	AccessorVec2
	AccessorVec3
	AccessorVec4
	AccessorMat2
	AccessorMat3
	AccessorMat4
)

func (t AccessorType) Valid() bool { return t <= AccessorMat4 }

// ElementCount returns the number of components per element.
func (t AccessorType) ElementCount() uint32 {
	switch t {
	case AccessorScalar:
		return 1
	case AccessorVec2:
		return 2
	case AccessorVec3:
		return 3
	case AccessorVec4:
		return 4
	case AccessorMat2:
		return 4
	case AccessorMat3:
		return 9
	case AccessorMat4:
		return 16
	default:
		return 0
	}
}

// ComponentType is a glTF accessor component type code.
type ComponentType uint32

const (
	ComponentInt8    ComponentType = 5120
	ComponentUint8   ComponentType = 5121
	ComponentInt16   ComponentType = 5122
	ComponentUint16  ComponentType = 5123
	ComponentUint32  ComponentType = 5125
	ComponentFloat32 ComponentType = 5126
)

func (t ComponentType) Valid() bool {
	switch t {
	case ComponentInt8, ComponentUint8, ComponentInt16,
		ComponentUint16, ComponentUint32, ComponentFloat32:
		return true
	}
	return false
}

// ColliderType selects the physics collider shape.
type ColliderType uint32

const (
	ColliderBox ColliderType = iota
	ColliderSphere
	ColliderCapsule
	ColliderCylinder
	ColliderHull
	ColliderTrimesh
)

func (t ColliderType) Valid() bool { return t <= ColliderTrimesh }

// PhysicsBodyType selects how the physics world simulates a node's body.
type PhysicsBodyType uint32

const (
	BodyStatic PhysicsBodyType = iota
	BodyKinematic
	BodyRigid
)

func (t PhysicsBodyType) Valid() bool { return t <= BodyRigid }

// InteractableType marks how a node participates in interaction events.
// 0 is not a variant: the original ABI reserves it so an absent field is
// distinguishable from a valid type.
type InteractableType uint32

const (
	InteractableDefault   InteractableType = 1
	InteractableGrabbable InteractableType = 2
	InteractablePlayer    InteractableType = 3
	InteractablePortal    InteractableType = 4
)

func (t InteractableType) Valid() bool {
	return t >= InteractableDefault && t <= InteractablePortal
}

// ElementType is the UI element subtype.
type ElementType uint32

const (
	ElementFlex ElementType = iota
	ElementText
	ElementButton
)

func (t ElementType) Valid() bool { return t <= ElementButton }

// FlexDirection is the UI layout main axis, yoga ordering.
type FlexDirection uint32

const (
	FlexColumn FlexDirection = iota
	FlexColumnReverse
	FlexRow
	FlexRowReverse
)

func (d FlexDirection) Valid() bool { return d <= FlexRowReverse }

// LightType selects the light variant.
type LightType uint32

const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

func (t LightType) Valid() bool { return t <= LightSpot }
