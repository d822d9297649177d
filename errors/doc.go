// Package errors provides structured error types for the scene host.
//
// Errors are categorized by Phase (where in ABI-call processing the
// error occurred) and Kind (error category). The Error type carries the
// offending handle, the resource kind involved, and a cause chain. None
// of this context ever crosses the guest boundary: guests observe only
// the opaque sentinel (0 or -1) while the structured error is logged
// host-side.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidEnum).
//		Component("marshal.material").
//		Path("alphaMode").
//		Detail("value 99 has no AlphaMode variant").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotAuthorized("abi.node_set_visible", handle)
//	err := errors.OutOfBounds(errors.PhaseDecode, off, n, size)
//
// All errors implement the standard error interface and support
// errors.Is/As; the exported Err* sentinels match by Kind alone:
//
//	if errors.Is(err, errors.ErrNotAuthorized) { ... }
package errors
