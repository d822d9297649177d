package world

import (
	"go.uber.org/zap"

	"github.com/veldt-engine/scenehost/capability"
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/manifest"
	"github.com/veldt-engine/scenehost/resource"
	"github.com/veldt-engine/scenehost/scenegraph"
)

// World ties the registry, the scene-graph bridge, and the engine
// collaborators into one explicit context object. There is no hidden
// process-wide state: every operation reaches its dependencies through
// the World it was given.
type World struct {
	Reg         *resource.Registry
	Bridge      *scenegraph.Bridge
	Physics     PhysicsWorld
	Interaction Interaction

	// EnvironmentScene is the host-provisioned active scene, set by
	// LoadEnvironment. Scripts reach it through
	// world_get_environment_scene if granted.
	EnvironmentScene resource.ID

	envs map[string]*Env
	log  *zap.Logger
}

// Option configures a World.
type Option func(*World)

// WithPhysics installs a physics collaborator.
func WithPhysics(p PhysicsWorld) Option {
	return func(w *World) { w.Physics = p }
}

// WithInteraction installs an interaction collaborator.
func WithInteraction(i Interaction) Option {
	return func(w *World) { w.Interaction = i }
}

// WithTransformGraph installs the transform collaborator backing the
// scene-graph bridge.
func WithTransformGraph(g scenegraph.TransformGraph) Option {
	return func(w *World) { w.Bridge.Graph = g }
}

// WithLogger installs a logger for this world's diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) { w.log = l }
}

// New creates an empty world with no-op collaborators.
func New(opts ...Option) *World {
	reg := resource.NewRegistry()
	w := &World{
		Reg:         reg,
		Bridge:      scenegraph.NewBridge(reg, nil),
		Physics:     NopPhysics{},
		Interaction: NopInteraction{},
		envs:        make(map[string]*Env),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = Logger()
	}
	return w
}

// Log returns the world's logger.
func (w *World) Log() *zap.Logger { return w.log }

// Env returns a loaded script environment by name.
func (w *World) Env(name string) (*Env, bool) {
	e, ok := w.envs[name]
	return e, ok
}

// NewEnv creates an empty script environment with no grants. Most
// callers go through LoadEnvironment instead; this exists for tests and
// hosts that provision programmatically.
func (w *World) NewEnv(name string) *Env {
	e := &Env{
		Name:  name,
		Caps:  capability.NewSet(),
		world: w,
	}
	w.envs[name] = e
	return e
}

// LoadEnvironment provisions the manifest's scene and nodes as
// host-owned resources, then creates one Env per script with the
// declared grants resolved by name. The provisioned resources stay
// alive until the whole world shuts down; script teardown never touches
// them.
func (w *World) LoadEnvironment(m *manifest.Manifest) ([]*Env, error) {
	scene := &resource.Scene{Named: resource.Named{Name: m.Scene.Name}}
	sceneID := w.Reg.Register(scene)
	w.EnvironmentScene = sceneID

	hostCaps := capability.NewSet()
	hostCaps.Grant(sceneID)

	byName := make(map[string]resource.ID, len(m.Scene.Nodes))
	for _, def := range m.Scene.Nodes {
		node := &resource.Node{
			Named:       resource.Named{Name: def.Name},
			Translation: def.Translation,
			Rotation:    def.Rotation,
			Scale:       def.Scale,
			IsStatic:    def.Static,
			Visible:     !def.Hidden,
		}
		id := w.Reg.Register(node)
		hostCaps.Grant(id)
		if err := w.Bridge.AddNodeToScene(hostCaps, sceneID, id); err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err,
				"provision node "+def.Name)
		}
		byName[def.Name] = id
	}

	envs := make([]*Env, 0, len(m.Scripts))
	for _, script := range m.Scripts {
		env := w.NewEnv(script.Name)
		env.Caps.Grant(sceneID)
		for _, grant := range script.Grants {
			id, ok := byName[grant.Resource]
			if !ok {
				return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
					Component("world.load").
					Detail("grant names unknown resource %q", grant.Resource).
					Build()
			}
			env.Caps.Grant(id)
		}
		w.log.Info("environment script loaded",
			zap.String("environment", m.Name),
			zap.String("script", script.Name),
			zap.Int("grants", env.Caps.Len()))
		envs = append(envs, env)
	}
	return envs, nil
}

// UnloadEnvironment atomically tears down one script environment:
// every exclusively-owned resource is detached from the hierarchy,
// released from its collaborators, and unregistered, then the
// capability set is emptied. Granted host resources are only forgotten.
// Unloading an already-unloaded environment is a no-op.
func (w *World) UnloadEnvironment(env *Env) {
	if env == nil {
		return
	}

	// Release collaborator state before the registry entries vanish.
	env.Caps.EachOwned(func(id resource.ID) bool {
		res, ok := w.Reg.Lookup(id)
		if !ok {
			return true
		}
		switch r := res.(type) {
		case *resource.Node:
			w.Bridge.DetachOwned(id)
			if r.HasBody {
				w.Physics.RemoveBody(id)
			}
		case *resource.Collider:
			w.Physics.RemoveCollider(id)
		case *resource.Interactable:
			// Covers canvas- and button-allocated interactables too:
			// compound construction adopts them into the same set.
			w.Interaction.Unregister(id)
		}
		return true
	})

	released := env.Caps.RevokeAll(w.Reg)
	delete(w.envs, env.Name)
	w.log.Info("environment unloaded",
		zap.String("script", env.Name),
		zap.Int("released", released))
}
