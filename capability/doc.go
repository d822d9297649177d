// Package capability enforces per-script access isolation over the
// resource registry.
//
// The true engine registry holds resources from every loaded script
// environment plus the host itself. A Set scopes one script to the ids
// it created (owned) or was explicitly granted; every ABI handle is
// resolved through Set.Access, which fails closed on unknown, stale, or
// wrongly-typed handles. Environment teardown calls RevokeAll, which
// atomically forgets every grant and releases every owned resource.
package capability
