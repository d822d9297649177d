package world

import (
	"github.com/veldt-engine/scenehost/resource"
)

// PhysicsWorld is the physics collaborator. Simulation stays outside
// this module; the world only tells the collaborator which colliders and
// bodies exist.
type PhysicsWorld interface {
	CreateCollider(id resource.ID, col *resource.Collider) error
	RemoveCollider(id resource.ID)
	CreateBody(node resource.ID, body resource.PhysicsBodyType) error
	RemoveBody(node resource.ID)
}

// Interaction is the input/interaction collaborator. It drives the
// pressed/held/released state scripts poll each tick.
type Interaction interface {
	Register(id resource.ID, typ resource.InteractableType, node resource.ID) error
	Unregister(id resource.ID)
	State(id resource.ID) (pressed, held, released bool)
}

// NopPhysics is a PhysicsWorld that accepts everything and simulates
// nothing. Default for headless hosts and tests.
type NopPhysics struct{}

func (NopPhysics) CreateCollider(resource.ID, *resource.Collider) error { return nil }

func (NopPhysics) RemoveCollider(resource.ID) {}

func (NopPhysics) CreateBody(resource.ID, resource.PhysicsBodyType) error { return nil }

func (NopPhysics) RemoveBody(resource.ID) {}

// NopInteraction is an Interaction with no input source; every state
// poll reports idle.
type NopInteraction struct{}

func (NopInteraction) Register(resource.ID, resource.InteractableType, resource.ID) error {
	return nil
}

func (NopInteraction) Unregister(resource.ID) {}

func (NopInteraction) State(resource.ID) (bool, bool, bool) { return false, false, false }
