// Package id provides the opaque identifier types shared by every entity in
// the graph model, plus the generator that mints them.
//
// All ids are UUID v4 textual form, wrapped in distinct string newtypes so
// the compiler keeps a NodeID from being passed where an EdgeID is expected.
// Ids are never reused after deletion; Fresh re-rolls New on the rare
// collision a caller reports through its membership-test callback.
package id

import (
	"github.com/google/uuid"
)

// NodeID identifies a Node within a Graph.
type NodeID string

// PortID identifies a Port within a Graph.
type PortID string

// EdgeID identifies an Edge within a Graph.
type EdgeID string

// GroupID identifies a NodeGroup within a Graph.
type GroupID string

// FrameID identifies a SubGraphFrame within a Graph.
type FrameID string

// CommentID identifies a GraphComment within a Graph.
type CommentID string

// GraphID identifies a Graph itself (for multi-graph hosts and export headers).
type GraphID string

// New mints a fresh opaque id in UUID v4 textual form.
// Complexity: O(1).
func New() string {
	return uuid.NewString()
}

// Exists reports whether a candidate string collides with any value already
// produced by a caller-supplied membership test. Callers use this to re-roll
// New() on the (astronomically rare) collision, per the collision-check-on-
// insert invariant described for every entity kind.
func Exists(candidate string, taken func(string) bool) bool {
	return taken(candidate)
}

// Fresh returns a new id that does not collide with taken, re-rolling New()
// until taken reports false. Every direct-insert path in graph uses this
// instead of a bare New() call.
func Fresh(taken func(string) bool) string {
	for {
		candidate := New()
		if !taken(candidate) {
			return candidate
		}
	}
}
