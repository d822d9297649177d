// Package scenegraph bridges handle-level hierarchy calls onto the
// intrusive sibling-chain forest shared by all scripts.
//
// The engine keeps one true hierarchy; scripts see a filtered view of
// it. Traversal operations report only nodes present in the calling
// script's capability set, so a scene with five children where the
// caller owns three has a visible child count of three, and the visible
// index of a node can differ from its raw chain position. Filtering is
// recomputed per call; nothing is renumbered persistently.
package scenegraph
