// Package scenehost implements the host side of a sandboxed scene-graph
// scripting ABI: untrusted guest scripts reference engine resources only
// through opaque uint32 ids and marshal structured records through a
// bounds-checked view over shared linear memory.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	scenehost/           Root package with the shared Memory interface
//	├── memview/         Bounds-checked cursor over guest memory
//	├── resource/        Engine-wide id -> resource registry
//	├── capability/      Per-script capability sets (access control)
//	├── marshal/         Parameter-block decode/encode per resource kind
//	├── scenegraph/      Capability-filtered hierarchy operations
//	├── abi/             Name -> handler dispatch table, int-only surface
//	├── world/           Context object tying registry, sets, collaborators
//	├── sandbox/         wazero guest instantiation and host binding
//	├── manifest/        Environment manifest loading and validation
//	└── errors/          Structured error types for host diagnostics
//
// # Access model
//
// Every handle a guest supplies is validated three ways before any
// resource is touched: it must exist in the registry, it must carry the
// resource kind the call expects, and it must be present in the calling
// script's capability set. Any failure aborts the call and surfaces to
// the guest as an opaque sentinel (0 for id-returning calls, -1 for
// status calls); the structured cause is logged host-side only.
package scenehost
