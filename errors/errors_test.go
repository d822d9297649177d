package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(PhaseDecode, KindInvalidEnum).
		Component("marshal.material").
		Path("alphaMode").
		Detail("value 99 has no AlphaMode variant").
		Build()

	s := err.Error()
	for _, want := range []string{"[decode]", "invalid_enum", "marshal.material", "alphaMode", "99"} {
		if !strings.Contains(s, want) {
			t.Errorf("Error() = %q, missing %q", s, want)
		}
	}
}

func TestErrorStringIncludesHandle(t *testing.T) {
	err := NotAuthorized("abi.node_set_visible", 7)
	if !strings.Contains(err.Error(), "handle 7") {
		t.Errorf("Error() = %q, missing handle", err.Error())
	}
}

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not_authorized", NotAuthorized("c", 1), ErrNotAuthorized},
		{"not_found", NotFound("c", 2), ErrNotFound},
		{"type_mismatch", TypeMismatch("c", 3, "Node", "Mesh"), ErrTypeMismatch},
		{"invalid_enum", InvalidEnum([]string{"mode"}, 42, "MeshPrimitiveMode"), ErrInvalidEnum},
		{"out_of_bounds", OutOfBounds(PhaseDecode, 10, 4, 8), ErrOutOfBounds},
		{"decode", Truncated([]string{"primitives"}, "short block"), ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !stderrors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", tt.err)
			}
			for _, other := range tests {
				if other.sentinel == tt.sentinel {
					continue
				}
				if stderrors.Is(tt.err, other.sentinel) {
					t.Errorf("errors.Is(%v, %v) = true, want false", tt.err, other.sentinel)
				}
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("collider allocation failed")
	err := Collaborator("world.ui_canvas", cause, "create collider")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap did not return cause")
	}
}

func TestIsMatchesPhaseWhenSet(t *testing.T) {
	a := New(PhaseDecode, KindDecode).Build()
	b := New(PhaseEncode, KindDecode).Build()

	if stderrors.Is(a, b) {
		t.Error("errors with different phases matched")
	}
	if !stderrors.Is(a, ErrDecode) {
		t.Error("kind-only sentinel should match any phase")
	}
}
