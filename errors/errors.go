package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in ABI-call processing the error occurred
type Phase string

const (
	PhaseDecode    Phase = "decode"    // reading a parameter block from guest memory
	PhaseEncode    Phase = "encode"    // writing resource state back to guest memory
	PhaseAccess    Phase = "access"    // handle validation against registry/capability set
	PhaseConstruct Phase = "construct" // allocating engine resources and side effects
	PhaseDispatch  Phase = "dispatch"  // ABI table lookup and argument handling
	PhaseLoad      Phase = "load"      // environment/manifest loading
	PhaseTeardown  Phase = "teardown"  // environment unload
)

// Kind categorizes the error
type Kind string

const (
	KindNotAuthorized Kind = "not_authorized" // handle exists but is outside the caller's capability set
	KindNotFound      Kind = "not_found"      // handle absent from the registry (stale or never allocated)
	KindTypeMismatch  Kind = "type_mismatch"  // handle resolves to a different resource kind
	KindInvalidEnum   Kind = "invalid_enum"   // enumerated field value has no known variant
	KindDecode        Kind = "decode"         // malformed or truncated parameter block
	KindOutOfBounds   Kind = "out_of_bounds"  // offset/length outside the shared memory view
	KindInvalidUTF8   Kind = "invalid_utf8"
	KindInvalidInput  Kind = "invalid_input"
	KindUnsupported   Kind = "unsupported"
	KindCycle         Kind = "cycle"         // hierarchy mutation would create a cycle
	KindCollaborator  Kind = "collaborator"  // physics/interaction/transform collaborator failure
)

// Error is the structured error type used throughout the host. It is
// diagnostic context only: guests never see it, only the opaque sentinel.
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	Component string // package or operation that raised the error
	Resource  string // resource kind name involved, if any
	Handle    uint32 // offending handle, 0 when not handle related
	Detail    string
	Path      []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Component != "" {
		b.WriteString(" in ")
		b.WriteString(e.Component)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Handle != 0 {
		fmt.Fprintf(&b, " (handle %d)", e.Handle)
	}

	if e.Resource != "" {
		b.WriteString(": ")
		b.WriteString(e.Resource)
	}

	if e.Detail != "" {
		if e.Resource != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match when
// phase and kind agree; a zero phase on the target matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && e.Phase != t.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel values for errors.Is checks on the access taxonomy. Phase is
// left empty so they match regardless of where the failure surfaced.
var (
	ErrNotAuthorized = &Error{Kind: KindNotAuthorized}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrTypeMismatch  = &Error{Kind: KindTypeMismatch}
	ErrInvalidEnum   = &Error{Kind: KindInvalidEnum}
	ErrDecode        = &Error{Kind: KindDecode}
	ErrOutOfBounds   = &Error{Kind: KindOutOfBounds}
)

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Component sets the package or operation name
func (b *Builder) Component(c string) *Builder {
	b.err.Component = c
	return b
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Handle sets the offending handle
func (b *Builder) Handle(h uint32) *Builder {
	b.err.Handle = h
	return b
}

// Resource sets the resource kind name
func (b *Builder) Resource(r string) *Builder {
	b.err.Resource = r
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotAuthorized creates an error for a handle outside the caller's set
func NotAuthorized(component string, handle uint32) *Error {
	return &Error{
		Phase:     PhaseAccess,
		Kind:      KindNotAuthorized,
		Component: component,
		Handle:    handle,
		Detail:    "handle not in caller's capability set",
	}
}

// NotFound creates an error for a handle absent from the registry
func NotFound(component string, handle uint32) *Error {
	return &Error{
		Phase:     PhaseAccess,
		Kind:      KindNotFound,
		Component: component,
		Handle:    handle,
		Detail:    "handle not registered",
	}
}

// TypeMismatch creates an error for a handle of the wrong resource kind
func TypeMismatch(component string, handle uint32, want, got string) *Error {
	return &Error{
		Phase:     PhaseAccess,
		Kind:      KindTypeMismatch,
		Component: component,
		Handle:    handle,
		Resource:  want,
		Detail:    fmt.Sprintf("expected %s, handle refers to %s", want, got),
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(path []string, value uint32, enumType string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindInvalidEnum,
		Path:     path,
		Resource: enumType,
		Detail:   fmt.Sprintf("value %d has no %s variant", value, enumType),
	}
}

// OutOfBounds creates an out of bounds error for a memory access
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access [%d, %d) outside memory of %d bytes", offset, uint64(offset)+uint64(length), size),
	}
}

// Truncated creates a decode error for a short parameter block
func Truncated(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindDecode,
		Path:   path,
		Detail: detail,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Collaborator wraps a failure from an engine collaborator
func Collaborator(component string, cause error, detail string) *Error {
	return &Error{
		Phase:     PhaseConstruct,
		Kind:      KindCollaborator,
		Component: component,
		Detail:    detail,
		Cause:     cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
