// Package memview provides a bounds-checked cursor over the flat memory
// shared between a guest script and the host.
//
// Guest scripts pass raw offsets and lengths across the ABI; none of
// them can be trusted. Every Cursor operation validates the access
// against the store size before touching a byte, so an out-of-range
// offset is rejected up front rather than performed partially. The
// cursor never moves on a failed access.
package memview
