package capability

import (
	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/resource"
)

// Set is the per-script-environment capability set: the ids one script
// is permitted to reference through the ABI. Every handle a guest
// supplies must pass Access before the resource is touched; anything
// else fails closed.
//
// The set distinguishes owned ids (created by this environment, released
// at teardown) from granted ids (host-owned, access only). Grants never
// transfer ownership.
type Set struct {
	authorized map[resource.ID]struct{}
	owned      map[resource.ID]struct{}
}

// NewSet creates an empty capability set.
func NewSet() *Set {
	return &Set{
		authorized: make(map[resource.ID]struct{}),
		owned:      make(map[resource.ID]struct{}),
	}
}

// Adopt authorizes id and records this environment as its exclusive
// owner. Called when a script creates a resource.
func (s *Set) Adopt(id resource.ID) {
	if id == 0 {
		return
	}
	s.authorized[id] = struct{}{}
	s.owned[id] = struct{}{}
}

// Grant authorizes id without transferring ownership. Used for
// host-provisioned resources shared into the environment.
func (s *Set) Grant(id resource.ID) {
	if id == 0 {
		return
	}
	s.authorized[id] = struct{}{}
}

// Authorized reports whether the script may reference id.
func (s *Set) Authorized(id resource.ID) bool {
	_, ok := s.authorized[id]
	return ok
}

// Owned reports whether this environment exclusively owns id.
func (s *Set) Owned(id resource.ID) bool {
	_, ok := s.owned[id]
	return ok
}

// Access resolves a guest-supplied handle into a live resource of the
// expected kind. The three failure modes are distinguished for
// diagnostics but all deny access:
//
//   - not in this set           -> not_authorized
//   - not in the registry       -> not_found
//   - wrong resource kind       -> type_mismatch
func (s *Set) Access(reg *resource.Registry, id resource.ID, kind resource.Kind) (resource.Resource, error) {
	if id == 0 {
		return nil, errors.NotFound("capability", 0)
	}
	if !s.Authorized(id) {
		return nil, errors.NotAuthorized("capability", uint32(id))
	}
	res, ok := reg.Lookup(id)
	if !ok {
		return nil, errors.NotFound("capability", uint32(id))
	}
	if res.Kind() != kind {
		return nil, errors.TypeMismatch("capability", uint32(id), kind.String(), res.Kind().String())
	}
	return res, nil
}

// Revoke removes a single id from the set without touching the
// registry. Used when a script drops a grant.
func (s *Set) Revoke(id resource.ID) {
	delete(s.authorized, id)
	delete(s.owned, id)
}

// RevokeAll empties the set and unregisters every id this environment
// owns. Granted (host-owned) ids are only forgotten, never released.
// Returns the number of resources unregistered.
//
// The walk completes before the caller regains control and runs on the
// single owner goroutine, so no lookup can observe a half-revoked set.
// Calling RevokeAll on an already-revoked set is a no-op.
func (s *Set) RevokeAll(reg *resource.Registry) int {
	released := 0
	for id := range s.owned {
		if _, ok := reg.Unregister(id); ok {
			released++
		}
	}
	clear(s.owned)
	clear(s.authorized)
	return released
}

// Len returns the number of authorized ids.
func (s *Set) Len() int { return len(s.authorized) }

// Each iterates authorized ids in unspecified order until fn returns
// false.
func (s *Set) Each(fn func(resource.ID) bool) {
	for id := range s.authorized {
		if !fn(id) {
			return
		}
	}
}

// EachOwned iterates owned ids in unspecified order until fn returns
// false. Teardown uses this to release collaborator state before the
// registry entries go away.
func (s *Set) EachOwned(fn func(resource.ID) bool) {
	for id := range s.owned {
		if !fn(id) {
			return
		}
	}
}
