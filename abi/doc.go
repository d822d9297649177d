// Package abi is the int-only host call surface exposed to guest
// scripts. Every operation takes flat u32 arguments (handles, guest
// pointers, float bit patterns) and returns a single i32: ids with 0 as
// the failure value, statuses with -1.
//
// The Table maps export names to handlers. Dispatch resolves every
// handle through the calling environment's capability set, logs
// failures host-side with zap, and converts them to the guest-visible
// sentinel. Nothing diagnostic crosses the boundary: a guest cannot
// distinguish a denied handle from a missing one.
package abi
