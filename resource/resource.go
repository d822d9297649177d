package resource

// Resource is the closed tagged union of everything a script can hold a
// handle to. The marker method restricts implementations to this
// package, so a switch over the concrete types is exhaustive by
// construction.
//
// Resources are owned by the Registry; scripts only ever hold IDs.
// Hierarchy links (Parent, FirstChild, NextSibling) are IDs rather than
// pointers so stale links fail lookups instead of pinning memory.
type Resource interface {
	Kind() Kind
	Label() string
	resource()
}

// Named is embedded by variants that carry an optional, non-unique name.
type Named struct {
	Name string
}

func (n Named) Label() string { return n.Name }

// Node is a transformable member of the scene hierarchy.
type Node struct {
	Named
	Translation  [3]float32
	Rotation     [4]float32 // quaternion, xyzw
	Scale        [3]float32
	Matrix       [16]float32 // column-major, valid only when HasMatrix
	HasMatrix    bool
	Parent       ID // Node or Scene
	FirstChild   ID
	NextSibling  ID
	Mesh         ID
	Light        ID
	Collider     ID
	Interactable ID
	BodyType     PhysicsBodyType
	HasBody      bool
	IsStatic     bool
	Visible      bool
}

func (*Node) Kind() Kind { return KindNode }
func (*Node) resource()  {}

// Scene is a hierarchy root; its children are Nodes.
type Scene struct {
	Named
	FirstNode ID
}

func (*Scene) Kind() Kind { return KindScene }
func (*Scene) resource()  {}

// Mesh groups primitives; the primitives are resources of their own so
// scripts can share them between meshes.
type Mesh struct {
	Named
	Primitives []ID
}

func (*Mesh) Kind() Kind { return KindMesh }
func (*Mesh) resource()  {}

// Attribute binds one vertex attribute slot to an accessor.
type Attribute struct {
	Key      AttributeKey
	Accessor ID
}

// MeshPrimitive is a single drawable unit of a mesh.
type MeshPrimitive struct {
	Named
	Mode       MeshPrimitiveMode
	Indices    ID // Accessor, optional
	Material   ID // optional
	Attributes []Attribute
}

func (*MeshPrimitive) Kind() Kind { return KindMeshPrimitive }
func (*MeshPrimitive) resource()  {}

// Accessor is a typed view over a buffer view. Version increments on
// every guest update so consumers can detect dynamic data changes.
type Accessor struct {
	Named
	BufferView    ID
	ComponentType ComponentType
	Type          AccessorType
	Count         uint32
	ByteOffset    uint32
	Normalized    bool
	Dynamic       bool
	Version       uint32
}

func (*Accessor) Kind() Kind { return KindAccessor }
func (*Accessor) resource()  {}

// Buffer owns raw bytes copied out of guest memory at creation time.
type Buffer struct {
	Named
	Data []byte
}

func (*Buffer) Kind() Kind { return KindBuffer }
func (*Buffer) resource()  {}

// BufferView is a byte range inside a Buffer.
type BufferView struct {
	Named
	Buffer     ID
	ByteOffset uint32
	ByteLength uint32
	ByteStride uint32
}

func (*BufferView) Kind() Kind { return KindBufferView }
func (*BufferView) resource()  {}

// Material holds metallic-roughness PBR parameters.
type Material struct {
	Named
	BaseColorFactor          [4]float32
	MetallicFactor           float32
	RoughnessFactor          float32
	EmissiveFactor           [3]float32
	AlphaMode                AlphaMode
	AlphaCutoff              float32
	DoubleSided              bool
	Unlit                    bool
	BaseColorTexture         ID
	MetallicRoughnessTexture ID
	NormalTexture            ID
	OcclusionTexture         ID
	EmissiveTexture          ID
}

func (*Material) Kind() Kind { return KindMaterial }
func (*Material) resource()  {}

// Texture samples image data held in a buffer view.
type Texture struct {
	Named
	Source    ID // BufferView with encoded image data
	WrapS     TextureWrap
	WrapT     TextureWrap
	MagFilter MagFilter
	MinFilter MinFilter
}

func (*Texture) Kind() Kind { return KindTexture }
func (*Texture) resource()  {}

// Light is attached to nodes via Node.Light.
type Light struct {
	Named
	Type           LightType
	Color          [3]float32
	Intensity      float32
	Range          float32
	InnerConeAngle float32
	OuterConeAngle float32
}

func (*Light) Kind() Kind { return KindLight }
func (*Light) resource()  {}

// Collider is a physics shape; simulation happens in the physics
// collaborator, this resource only records the shape parameters.
type Collider struct {
	Named
	Type      ColliderType
	IsTrigger bool
	Size      [3]float32 // box half extents
	Radius    float32    // sphere/capsule/cylinder
	Height    float32    // capsule/cylinder
	Mesh      ID         // hull/trimesh source, optional
}

func (*Collider) Kind() Kind { return KindCollider }
func (*Collider) resource()  {}

// Interactable marks a node as a source of interaction events. The
// pressed/held/released flags are updated by the interaction
// collaborator each tick and read by scripts.
type Interactable struct {
	Named
	Type     InteractableType
	Node     ID
	Pressed  bool
	Held     bool
	Released bool
}

func (*Interactable) Kind() Kind { return KindInteractable }
func (*Interactable) resource()  {}

// UICanvas projects a UI element tree onto a quad in the scene.
type UICanvas struct {
	Named
	Root         ID // UIElement, optional
	Size         [2]float32
	Width        float32
	Height       float32
	Collider     ID // allocated with the canvas
	Interactable ID
	Redraw       uint32 // bumped by ui_canvas_redraw
}

func (*UICanvas) Kind() Kind { return KindUICanvas }
func (*UICanvas) resource()  {}

// UIElementProps are the flexbox layout fields shared by all UI
// element subtypes.
type UIElementProps struct {
	PositionType    uint32
	Position        [4]float32 // top/right/bottom/left
	AlignItems      uint32
	AlignSelf       uint32
	AlignContent    uint32
	JustifyContent  uint32
	FlexDirection   FlexDirection
	Width           float32
	Height          float32
	FlexBasis       float32
	FlexGrow        float32
	FlexShrink      float32
	BackgroundColor [4]float32
	BorderColor     [4]float32
	Padding         [4]float32
	Margin          [4]float32
}

// UIElement is a flex container in a canvas tree.
type UIElement struct {
	Named
	UIElementProps
	Type        ElementType
	Parent      ID
	FirstChild  ID
	NextSibling ID
}

func (*UIElement) Kind() Kind { return KindUIElement }
func (*UIElement) resource()  {}

// UIButton is a UI element with a label and interaction state.
type UIButton struct {
	UIElement
	Text         string
	Interactable ID
}

func (*UIButton) Kind() Kind { return KindUIButton }
func (*UIButton) resource()  {}

// UIText is a UI element that renders text.
type UIText struct {
	UIElement
	Value    string
	FontSize float32
	Color    [4]float32
}

func (*UIText) Kind() Kind { return KindUIText }
func (*UIText) resource()  {}
