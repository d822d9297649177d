// Package manifest loads and validates environment manifests: JSON
// documents naming the resources the host provisions at environment
// load and the per-script access grants over them.
package manifest
