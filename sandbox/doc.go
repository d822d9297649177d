// Package sandbox runs guest scripts under wazero with the host call
// surface bound as the "websg" import module.
//
// The trust boundary is here: guests only ever see their own linear
// memory and the int-only results the abi package hands back. The
// calling environment travels through the context, so every host call
// is dispatched against the capability set of the instance that made
// it.
package sandbox
