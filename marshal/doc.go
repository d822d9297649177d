// Package marshal decodes fixed-layout parameter blocks from guest
// memory into validated construction records, and nothing else: no
// decoder allocates an engine resource or mutates host state.
//
// # Block shape
//
// Every block is a fixed byte-stride struct, little-endian, no implicit
// padding: scalar fields in declared order, then u32 handle fields, then
// variable-length substructures referenced by (pointer, count) pairs,
// then a trailing extensions block (itemsPtr, count) whose items are
// (namePtr, nameByteLength, valueOffset) triples, then a fixed 8-byte
// extras placeholder that is always present and currently skipped.
//
// # Validation rules, applied uniformly
//
//   - A handle field of 0 means absent; lookup is skipped.
//   - A nonzero handle must resolve through the caller's capability set
//     with the expected kind; any failure aborts the whole decode.
//   - Enumerated fields are checked against their closed sets; an
//     unknown value is a decode error, never a default substitution.
//   - Multi-part records (a mesh with N primitives) are validated in
//     full before the caller allocates anything, so a bad part N leaks
//     zero resources.
//   - Unknown extension names decode to an Empty record rather than
//     erroring, for forward compatibility.
package marshal
