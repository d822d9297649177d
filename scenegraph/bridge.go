package scenegraph

import (
	"github.com/veldt-engine/scenehost/capability"
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/resource"
)

// TransformGraph is the engine's hierarchical transform system. The
// bridge keeps the id-level sibling chains itself and mirrors every
// attach/detach into the collaborator so world matrices stay in sync.
type TransformGraph interface {
	Attach(parent, child resource.ID)
	Detach(parent, child resource.ID)
}

// NopTransform is a TransformGraph that does nothing; used in tests and
// headless hosts.
type NopTransform struct{}

func (NopTransform) Attach(parent, child resource.ID) {}
func (NopTransform) Detach(parent, child resource.ID) {}

// Bridge translates handle-level hierarchy operations into mutations on
// the intrusive sibling-chain forest, filtered through the calling
// script's capability set. The true engine hierarchy may contain nodes
// owned by other scripts or the host; those are invisible to the
// caller: counts exclude them and indexed lookups skip over them. The
// filtered index follows raw sibling-chain order with invisible nodes
// omitted, recomputed on every call.
type Bridge struct {
	Reg   *resource.Registry
	Graph TransformGraph
}

// NewBridge creates a bridge over reg. A nil graph gets NopTransform.
func NewBridge(reg *resource.Registry, graph TransformGraph) *Bridge {
	if graph == nil {
		graph = NopTransform{}
	}
	return &Bridge{Reg: reg, Graph: graph}
}

func (b *Bridge) node(caps *capability.Set, id resource.ID) (*resource.Node, error) {
	res, err := caps.Access(b.Reg, id, resource.KindNode)
	if err != nil {
		return nil, err
	}
	return res.(*resource.Node), nil
}

func (b *Bridge) scene(caps *capability.Set, id resource.ID) (*resource.Scene, error) {
	res, err := caps.Access(b.Reg, id, resource.KindScene)
	if err != nil {
		return nil, err
	}
	return res.(*resource.Scene), nil
}

// isAncestor walks the parent chain from id looking for candidate.
func (b *Bridge) isAncestor(candidate, id resource.ID) bool {
	for id != 0 {
		if id == candidate {
			return true
		}
		res, ok := b.Reg.LookupKind(id, resource.KindNode)
		if !ok {
			return false
		}
		id = res.(*resource.Node).Parent
	}
	return false
}

// AddChild appends child to parent's sibling chain. Both handles must
// pass capability checks. A child that already has a parent is detached
// from it first; attaching a node under its own descendant is rejected.
func (b *Bridge) AddChild(caps *capability.Set, parentID, childID resource.ID) error {
	parent, err := b.node(caps, parentID)
	if err != nil {
		return err
	}
	child, err := b.node(caps, childID)
	if err != nil {
		return err
	}
	if parentID == childID || b.isAncestor(childID, parent.Parent) {
		return errors.New(errors.PhaseConstruct, errors.KindCycle).
			Component("scenegraph.add_child").
			Handle(uint32(childID)).
			Detail("child is an ancestor of parent").
			Build()
	}

	if child.Parent != 0 {
		if err := b.detach(child.Parent, childID, child); err != nil {
			return err
		}
	}

	b.appendToChain(&parent.FirstChild, childID)
	child.Parent = parentID
	b.Graph.Attach(parentID, childID)
	return nil
}

// RemoveChild unlinks child from parent. It is an error if child is not
// currently a child of parent.
func (b *Bridge) RemoveChild(caps *capability.Set, parentID, childID resource.ID) error {
	if _, err := b.node(caps, parentID); err != nil {
		return err
	}
	child, err := b.node(caps, childID)
	if err != nil {
		return err
	}
	if child.Parent != parentID {
		return errors.InvalidInput(errors.PhaseConstruct, "node is not a child of the given parent")
	}
	return b.detach(parentID, childID, child)
}

func (b *Bridge) detach(parentID, childID resource.ID, child *resource.Node) error {
	res, ok := b.Reg.Lookup(parentID)
	if !ok {
		return errors.NotFound("scenegraph.detach", uint32(parentID))
	}
	var head *resource.ID
	switch p := res.(type) {
	case *resource.Node:
		head = &p.FirstChild
	case *resource.Scene:
		head = &p.FirstNode
	default:
		return errors.TypeMismatch("scenegraph.detach", uint32(parentID), "Node", res.Kind().String())
	}

	if !b.unlinkFromChain(head, childID) {
		return errors.InvalidInput(errors.PhaseConstruct, "child not present in parent chain")
	}
	child.Parent = 0
	child.NextSibling = 0
	b.Graph.Detach(parentID, childID)
	return nil
}

// appendToChain walks to the chain tail and links id there, keeping raw
// sibling order stable for filtered indexing.
func (b *Bridge) appendToChain(head *resource.ID, id resource.ID) {
	if *head == 0 {
		*head = id
		return
	}
	cur := *head
	var prev *resource.Node
	for {
		res, ok := b.Reg.LookupKind(cur, resource.KindNode)
		if !ok {
			// Dangling link; truncate at the last live node so
			// earlier siblings survive the repair.
			if prev == nil {
				*head = id
				return
			}
			prev.NextSibling = id
			return
		}
		n := res.(*resource.Node)
		if n.NextSibling == 0 {
			n.NextSibling = id
			return
		}
		prev = n
		cur = n.NextSibling
	}
}

func (b *Bridge) unlinkFromChain(head *resource.ID, id resource.ID) bool {
	if *head == id {
		if res, ok := b.Reg.LookupKind(id, resource.KindNode); ok {
			*head = res.(*resource.Node).NextSibling
		} else {
			*head = 0
		}
		return true
	}
	cur := *head
	for cur != 0 {
		res, ok := b.Reg.LookupKind(cur, resource.KindNode)
		if !ok {
			return false
		}
		n := res.(*resource.Node)
		if n.NextSibling == id {
			if next, ok := b.Reg.LookupKind(id, resource.KindNode); ok {
				n.NextSibling = next.(*resource.Node).NextSibling
			} else {
				n.NextSibling = 0
			}
			return true
		}
		cur = n.NextSibling
	}
	return false
}

// visibleChildren walks the raw sibling chain from head, yielding only
// ids the caller is authorized to see.
func (b *Bridge) visibleChildren(caps *capability.Set, head resource.ID, fn func(resource.ID) bool) {
	for cur := head; cur != 0; {
		res, ok := b.Reg.LookupKind(cur, resource.KindNode)
		if !ok {
			return
		}
		if caps.Authorized(cur) {
			if !fn(cur) {
				return
			}
		}
		cur = res.(*resource.Node).NextSibling
	}
}

// ChildCount reports how many of parent's children are visible to the
// caller.
func (b *Bridge) ChildCount(caps *capability.Set, parentID resource.ID) (uint32, error) {
	parent, err := b.node(caps, parentID)
	if err != nil {
		return 0, err
	}
	var n uint32
	b.visibleChildren(caps, parent.FirstChild, func(resource.ID) bool {
		n++
		return true
	})
	return n, nil
}

// Children returns the caller-visible children in raw sibling order.
func (b *Bridge) Children(caps *capability.Set, parentID resource.ID) ([]resource.ID, error) {
	parent, err := b.node(caps, parentID)
	if err != nil {
		return nil, err
	}
	var out []resource.ID
	b.visibleChildren(caps, parent.FirstChild, func(id resource.ID) bool {
		out = append(out, id)
		return true
	})
	return out, nil
}

// ChildAt returns the index'th caller-visible child, or 0 when the
// filtered index is out of range.
func (b *Bridge) ChildAt(caps *capability.Set, parentID resource.ID, index uint32) (resource.ID, error) {
	parent, err := b.node(caps, parentID)
	if err != nil {
		return 0, err
	}
	var i uint32
	var found resource.ID
	b.visibleChildren(caps, parent.FirstChild, func(id resource.ID) bool {
		if i == index {
			found = id
			return false
		}
		i++
		return true
	})
	return found, nil
}

// Parent returns child's parent id, or 0 when the parent exists but is
// not visible to the caller.
func (b *Bridge) Parent(caps *capability.Set, childID resource.ID) (resource.ID, error) {
	child, err := b.node(caps, childID)
	if err != nil {
		return 0, err
	}
	if child.Parent == 0 || !caps.Authorized(child.Parent) {
		return 0, nil
	}
	return child.Parent, nil
}

// AddNodeToScene appends node to the scene's root chain.
func (b *Bridge) AddNodeToScene(caps *capability.Set, sceneID, nodeID resource.ID) error {
	scene, err := b.scene(caps, sceneID)
	if err != nil {
		return err
	}
	node, err := b.node(caps, nodeID)
	if err != nil {
		return err
	}
	if node.Parent != 0 {
		if err := b.detach(node.Parent, nodeID, node); err != nil {
			return err
		}
	}
	b.appendToChain(&scene.FirstNode, nodeID)
	node.Parent = sceneID
	b.Graph.Attach(sceneID, nodeID)
	return nil
}

// RemoveNodeFromScene unlinks node from the scene's root chain.
func (b *Bridge) RemoveNodeFromScene(caps *capability.Set, sceneID, nodeID resource.ID) error {
	if _, err := b.scene(caps, sceneID); err != nil {
		return err
	}
	node, err := b.node(caps, nodeID)
	if err != nil {
		return err
	}
	if node.Parent != sceneID {
		return errors.InvalidInput(errors.PhaseConstruct, "node is not in the given scene")
	}
	return b.detach(sceneID, nodeID, node)
}

// SceneNodeCount reports the caller-visible root node count.
func (b *Bridge) SceneNodeCount(caps *capability.Set, sceneID resource.ID) (uint32, error) {
	scene, err := b.scene(caps, sceneID)
	if err != nil {
		return 0, err
	}
	var n uint32
	b.visibleChildren(caps, scene.FirstNode, func(resource.ID) bool {
		n++
		return true
	})
	return n, nil
}

// SceneNodes returns the caller-visible root nodes in raw chain order.
func (b *Bridge) SceneNodes(caps *capability.Set, sceneID resource.ID) ([]resource.ID, error) {
	scene, err := b.scene(caps, sceneID)
	if err != nil {
		return nil, err
	}
	var out []resource.ID
	b.visibleChildren(caps, scene.FirstNode, func(id resource.ID) bool {
		out = append(out, id)
		return true
	})
	return out, nil
}

// SceneNodeAt returns the index'th caller-visible root node, or 0.
func (b *Bridge) SceneNodeAt(caps *capability.Set, sceneID resource.ID, index uint32) (resource.ID, error) {
	scene, err := b.scene(caps, sceneID)
	if err != nil {
		return 0, err
	}
	var i uint32
	var found resource.ID
	b.visibleChildren(caps, scene.FirstNode, func(id resource.ID) bool {
		if i == index {
			found = id
			return false
		}
		i++
		return true
	})
	return found, nil
}

// DetachOwned force-detaches a node from whatever parent it has,
// repairing the chain. Used by environment teardown, which bypasses
// capability checks because the world owns the operation.
func (b *Bridge) DetachOwned(nodeID resource.ID) {
	res, ok := b.Reg.LookupKind(nodeID, resource.KindNode)
	if !ok {
		return
	}
	node := res.(*resource.Node)
	if node.Parent == 0 {
		return
	}
	_ = b.detach(node.Parent, nodeID, node)
}
