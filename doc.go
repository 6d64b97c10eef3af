// Package nodegraph (arborist) is your in-memory model for building and
// editing visual node graphs in Go.
//
// 🌳 What is arborist/nodegraph?
//
//	A modern, single-owner-thread library that brings together:
//
//	  • Core primitives: opaque-id nodes, ports, and edges, with O(1) indexed lookups
//	  • Connection policy: pluggable validators deciding what may wire to what
//	  • Topology queries: cycle detection, topological order, reachability, components
//	  • Sub-graphs: copy a source graph into a frame fronted by a single boundary node
//	  • Commands: every mutation wrapped in an undoable, redoable, composable step
//	  • Export: flatten a graph into the entry/exit shape a downstream runtime expects
//
// ✨ Why choose nodegraph?
//
//   - Beginner-friendly    — minimal API, clear, intuitive naming
//   - Rock-solid           — indices stay consistent after every mutation
//   - Extensible           — attach event listeners or ConnectionPolicy validators
//   - Undoable             — every built-in command reverses cleanly
//
// Under the hood, everything is organized under subpackages:
//
//	id/         — opaque, type-separated identifiers for every entity kind
//	geom/       — Vec2/Rect primitives shared by node placement and bounds
//	graph/      — the Graph aggregate: nodes, ports, edges, groups, frames, comments
//	catalog/    — registered node types and data-type compatibility rules
//	connection/ — the default scope-aware ConnectionPolicy
//	topology/   — Kahn's-algorithm sort, cycle detection, reachability, components
//	subgraph/   — instantiating a source graph as a boundary-ported frame
//	command/    — undo/redo history and the built-in command set
//	export/     — flattening and validating a graph for execution
//	serialize/  — JSON/YAML wire codecs for graphs and settings
//
// Quick ASCII example:
//
//	  ┌────────┐      ┌────────┐
//	  │ Source │──out→│ Sink   │
//	  └────────┘      └────────┘
//
//	a two-node graph with one data edge.
package nodegraph
