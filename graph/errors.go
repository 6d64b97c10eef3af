// Package graph is the aggregate root of the node-graph editing core: it
// owns every entity (Node, Port, Edge, NodeGroup, SubGraphFrame,
// GraphComment), maintains the four secondary indices that keep
// port/edge lookups O(1) under high-churn editing, and emits lifecycle
// events so downstream layers (frame builders, command history) can
// react without re-deriving state.
//
// The Graph is not safe for concurrent mutation from multiple goroutines;
// the single-threaded-cooperative model (one host editor loop) is the
// supported usage. muEntities/muEdges guard individual index reads and
// writes; events are emitted outside those locks, so a listener that
// re-enters the Graph from inside an event callback is not detected.
//
// Errors: lookups and mutators given the id of an entity that does not
// exist (RemoveNode, Disconnect, the dynamic-port methods, the container
// removals) fail with a sentinel from this file. The Direct insertion
// methods do not validate their input, and empty ids are not rejected.
// Duplicate TypeId registration is reported by the catalog package's own
// sentinel. Policy rejections are not errors — see ConnectionResult.
package graph

import "errors"

// Sentinel errors for Graph API misuse. Callers branch with errors.Is.
var (
	// ErrEmptyID indicates an operation received an empty id where one is required.
	ErrEmptyID = errors.New("graph: id is empty")

	// ErrNodeNotFound indicates a reference to a node id absent from the Graph.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrPortNotFound indicates a reference to a port id absent from the Graph.
	ErrPortNotFound = errors.New("graph: port not found")

	// ErrEdgeNotFound indicates a reference to an edge id absent from the Graph.
	ErrEdgeNotFound = errors.New("graph: edge not found")

	// ErrGroupNotFound indicates a reference to a group id absent from the Graph.
	ErrGroupNotFound = errors.New("graph: group not found")

	// ErrFrameNotFound indicates a reference to a subgraph frame id absent from the Graph.
	ErrFrameNotFound = errors.New("graph: subgraph frame not found")

	// ErrCommentNotFound indicates a reference to a comment id absent from the Graph.
	ErrCommentNotFound = errors.New("graph: comment not found")

	// ErrUnknownNodeType indicates the NodeTypeCatalog has no definition for the requested TypeId.
	ErrUnknownNodeType = errors.New("graph: unknown node type")

	// ErrDynamicPortsDisallowed indicates a dynamic AddPort/RemovePort call on a
	// node whose AllowDynamicPorts flag is false.
	ErrDynamicPortsDisallowed = errors.New("graph: node does not allow dynamic ports")

	// ErrNotBoundaryNode indicates an operation required a __SubGraphBoundary
	// node but was given one of a different TypeId.
	ErrNotBoundaryNode = errors.New("graph: node is not a subgraph boundary")
)
