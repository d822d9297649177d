package capability

import (
	stderrors "errors"
	"testing"

	"github.com/veldt-engine/scenehost/errors"
	"github.com/veldt-engine/scenehost/resource"
)

func TestAccessThreeWayTaxonomy(t *testing.T) {
	reg := resource.NewRegistry()
	set := NewSet()

	nodeID := reg.Register(&resource.Node{})
	set.Adopt(nodeID)

	foreignID := reg.Register(&resource.Node{}) // another script's node

	staleID := reg.Register(&resource.Mesh{})
	set.Adopt(staleID)
	reg.Unregister(staleID)

	tests := []struct {
		name string
		id   resource.ID
		kind resource.Kind
		want error
	}{
		{"authorized and live", nodeID, resource.KindNode, nil},
		{"not in set", foreignID, resource.KindNode, errors.ErrNotAuthorized},
		{"stale id", staleID, resource.KindMesh, errors.ErrNotFound},
		{"wrong kind", nodeID, resource.KindMaterial, errors.ErrTypeMismatch},
		{"null id", 0, resource.KindNode, errors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := set.Access(reg, tt.id, tt.kind)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Access: %v", err)
				}
				if res == nil {
					t.Fatal("Access returned nil resource")
				}
				return
			}
			if !stderrors.Is(err, tt.want) {
				t.Fatalf("Access err = %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Fatal("failed Access must not return a resource")
			}
		})
	}
}

func TestRevokeAllReleasesOnlyOwned(t *testing.T) {
	reg := resource.NewRegistry()
	set := NewSet()

	owned := reg.Register(&resource.Node{})
	set.Adopt(owned)
	granted := reg.Register(&resource.Scene{}) // host-owned
	set.Grant(granted)

	if n := set.RevokeAll(reg); n != 1 {
		t.Fatalf("RevokeAll released %d, want 1", n)
	}

	if _, ok := reg.Lookup(owned); ok {
		t.Fatal("owned resource survived RevokeAll")
	}
	if _, ok := reg.Lookup(granted); !ok {
		t.Fatal("granted host resource was released by RevokeAll")
	}
	if set.Authorized(granted) {
		t.Fatal("grant survived RevokeAll")
	}
}

func TestRevokeAllIdempotent(t *testing.T) {
	reg := resource.NewRegistry()
	set := NewSet()
	set.Adopt(reg.Register(&resource.Node{}))

	if n := set.RevokeAll(reg); n != 1 {
		t.Fatalf("first RevokeAll = %d, want 1", n)
	}
	if n := set.RevokeAll(reg); n != 0 {
		t.Fatalf("second RevokeAll = %d, want 0", n)
	}
	if set.Len() != 0 {
		t.Fatalf("Len = %d after revocation", set.Len())
	}
}

func TestZeroIDNeverAuthorized(t *testing.T) {
	set := NewSet()
	set.Adopt(0)
	set.Grant(0)
	if set.Authorized(0) || set.Len() != 0 {
		t.Fatal("id 0 must never enter a capability set")
	}
}

func TestRevokeSingle(t *testing.T) {
	reg := resource.NewRegistry()
	set := NewSet()
	id := reg.Register(&resource.Light{})
	set.Adopt(id)

	set.Revoke(id)
	if set.Authorized(id) {
		t.Fatal("id authorized after Revoke")
	}
	// Revoke never releases; the resource is still registered.
	if _, ok := reg.Lookup(id); !ok {
		t.Fatal("Revoke must not unregister")
	}
}
