// Package world ties the resource registry, capability sets, and
// engine collaborators together into a running scene world.
//
// A World holds the shared registry and one Env per loaded script
// environment. Env is where construction operations live: each create
// call adopts the new ids into the environment's capability set, and
// compound constructions (canvases, buttons, bodied nodes) either
// commit every side effect or roll all of them back.
//
// UnloadEnvironment is the teardown path: it walks the environment's
// owned ids, releases collaborator state (physics bodies, colliders,
// interaction registrations), then revokes the whole set in one pass.
// Unloading twice is a no-op.
package world
