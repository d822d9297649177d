// Package resource defines the closed set of engine resource variants
// and the engine-wide registry that maps opaque uint32 ids to them.
//
// # Handle model
//
// Scripts never hold references to resources, only IDs. ID 0 is
// reserved as null/invalid. An id stays unique for as long as its
// resource is alive; once unregistered the integer may be reused for an
// unrelated resource, so holders of stale ids get "not found" (or, after
// reuse, a kind mismatch) rather than the old object back:
//
//	reg := resource.NewRegistry()
//	id := reg.Register(&resource.Node{Visible: true})
//
//	res, ok := reg.Lookup(id)                       // ok
//	res, ok = reg.LookupKind(id, resource.KindNode) // kind-checked
//	reg.Unregister(id)
//	_, ok = reg.Lookup(id)                          // !ok, immediately
//
// # Variants
//
// Resource is a marker interface implemented only inside this package,
// so the variant set is closed and switches over the concrete types are
// exhaustive. Each variant carries only the fields relevant to its kind.
//
// # Concurrency
//
// The registry is intentionally lock-free: all mutation is performed by
// the single logical goroutine that drives the simulation tick. The
// surrounding host serializes ABI calls onto that goroutine.
package resource
