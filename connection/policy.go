// Package connection implements the default multi-scope connection
// policy: a pure function from (graph snapshot, source port, target port)
// to a graph.ConnectionResult, plus the Validator extension chain run
// after the default policy returns Success. Policy is never
// mutated by Graph.Connect; it classifies but does not connect.
package connection

import (
	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/topology"
)

// TopLevelScope is the distinguished scope sentinel for a node that
// belongs to no SubGraphFrame.
const TopLevelScope = "__top_level__"

// Validator is the extension point run, in registration order, after the
// default policy returns Success; a non-Success return aborts the chain
// with that result.
type Validator interface {
	Validate(g *graph.Graph, source, target *graph.Port) graph.ConnectionResult
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(g *graph.Graph, source, target *graph.Port) graph.ConnectionResult

// Validate implements Validator.
func (f ValidatorFunc) Validate(g *graph.Graph, source, target *graph.Port) graph.ConnectionResult {
	return f(g, source, target)
}

// PolicyOption configures a DefaultPolicy.
type PolicyOption func(*DefaultPolicy)

// WithDistinctCrossScopeCode makes plain cross-scope connection attempts
// return graph.CrossScopeRejected instead of the overloaded
// graph.SameDirection. Off by default, so literal scenario 6 in
// SPEC_FULL.md (which asserts SameDirection) keeps passing unless a
// caller explicitly opts into the clearer code.
func WithDistinctCrossScopeCode() PolicyOption {
	return func(p *DefaultPolicy) { p.distinctCrossScopeCode = true }
}

// WithValidators appends validators to the chain run after Success.
func WithValidators(vs ...Validator) PolicyOption {
	return func(p *DefaultPolicy) { p.validators = append(p.validators, vs...) }
}

// DefaultPolicy is the multi-scope connection policy described in
// SPEC_FULL.md §4.3. It implements graph.ConnectionPolicy.
type DefaultPolicy struct {
	distinctCrossScopeCode bool
	validators             []Validator
}

// NewDefaultPolicy returns a DefaultPolicy configured by opts.
func NewDefaultPolicy(opts ...PolicyOption) *DefaultPolicy {
	p := &DefaultPolicy{}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// AddValidator appends a validator to the chain at runtime.
func (p *DefaultPolicy) AddValidator(v Validator) {
	p.validators = append(p.validators, v)
}

// CanConnect implements graph.ConnectionPolicy.
func (p *DefaultPolicy) CanConnect(g *graph.Graph, source, target *graph.Port) graph.ConnectionResult {
	result := p.classify(g, source, target)
	if result != graph.Success {
		return result
	}
	for _, v := range p.validators {
		if r := v.Validate(g, source, target); r != graph.Success {
			return r
		}
	}

	return graph.Success
}

func (p *DefaultPolicy) classify(g *graph.Graph, source, target *graph.Port) graph.ConnectionResult {
	srcNode, ok := g.FindNode(source.NodeID)
	if !ok {
		return graph.CustomRejected
	}
	tgtNode, ok := g.FindNode(target.NodeID)
	if !ok {
		return graph.CustomRejected
	}

	srcBoundary := srcNode.IsBoundary()
	tgtBoundary := tgtNode.IsBoundary()

	switch {
	case srcBoundary != tgtBoundary:
		// Exactly one endpoint is a boundary port: scope A (internal
		// bridge) if the other endpoint's node lives inside that
		// boundary's own frame, else scope B (external-to-boundary).
		boundaryNode, otherNode := srcNode, tgtNode
		if !srcBoundary {
			boundaryNode, otherNode = tgtNode, srcNode
		}
		frame, hasFrame := g.BoundaryFrame(boundaryNode.ID)
		if hasFrame {
			if _, inFrame := frame.ContainedNodeIds[otherNode.ID]; inFrame {
				return p.checkBridge(g, source, target)
			}
		}
		return p.checkExternalToBoundary(g, source, target)
	case srcBoundary && tgtBoundary:
		// Boundary-to-boundary: treat as a plain connection between two
		// representative nodes; scope equality is evaluated the same way.
		return p.checkPlain(g, source, target, srcNode, tgtNode)
	default:
		return p.checkPlain(g, source, target, srcNode, tgtNode)
	}
}

// checkBridge applies scope A: direction and capacity checks are waived;
// only Kind, DataType compatibility, and symmetric duplicate-edge checks
// apply.
func (p *DefaultPolicy) checkBridge(g *graph.Graph, source, target *graph.Port) graph.ConnectionResult {
	if source.Kind != target.Kind {
		return graph.KindMismatch
	}
	if !p.compatible(g, source, target) {
		return graph.DataTypeMismatch
	}
	if p.duplicateSymmetric(g, source, target) {
		return graph.DuplicateEdge
	}

	return graph.Success
}

// checkExternalToBoundary applies scope B: the full check set, but
// capacity enforcement is skipped on both endpoints and no cycle check
// runs.
func (p *DefaultPolicy) checkExternalToBoundary(g *graph.Graph, source, target *graph.Port) graph.ConnectionResult {
	return p.checkFull(g, source, target, false, false)
}

// checkPlain applies scope C: cross-scope non-bridge connections are
// rejected (SameDirection by default, CrossScopeRejected when opted in),
// then the full check set including capacity and cycle detection.
func (p *DefaultPolicy) checkPlain(g *graph.Graph, source, target *graph.Port, srcNode, tgtNode *graph.Node) graph.ConnectionResult {
	if p.scopeOf(g, srcNode) != p.scopeOf(g, tgtNode) {
		if p.distinctCrossScopeCode {
			return graph.CrossScopeRejected
		}
		return graph.SameDirection
	}

	return p.checkFull(g, source, target, true, true)
}

// checkFull runs the ordered check set common to scopes B and C.
// enforceCapacity/enforceCycle gate the two checks that scope B skips.
func (p *DefaultPolicy) checkFull(g *graph.Graph, source, target *graph.Port, enforceCapacity, enforceCycle bool) graph.ConnectionResult {
	if source.NodeID == target.NodeID {
		return graph.SameNode
	}
	if source.Direction == target.Direction {
		return graph.SameDirection
	}
	out, in := source, target
	if out.Direction != graph.DirectionOutput {
		out, in = target, source
	}
	if out.Kind != in.Kind {
		return graph.KindMismatch
	}
	if !p.compatible(g, out, in) {
		return graph.DataTypeMismatch
	}
	if p.duplicateOrdered(g, out, in) {
		return graph.DuplicateEdge
	}
	// Only the source (output) side can be CapacityExceeded: a Single-capacity
	// target that already carries an edge is displaced by Graph.Connect
	// rather than rejected here.
	if enforceCapacity && out.Capacity == graph.CapacitySingle && g.GetEdgeCountForPort(out.ID) > 0 {
		return graph.CapacityExceeded
	}
	if enforceCycle && g.Settings.Topology == graph.TopologyDAG {
		if topology.WouldCreateCycle(g, out.NodeID, in.NodeID) {
			return graph.CycleDetected
		}
	}

	return graph.Success
}

func (p *DefaultPolicy) compatible(g *graph.Graph, out, in *graph.Port) bool {
	if g.Settings.TypeCompatibility == nil {
		return out.DataType == in.DataType
	}

	return g.Settings.TypeCompatibility.IsCompatible(out.DataType, in.DataType)
}

// duplicateOrdered reports whether an edge already exists with the exact
// (out, in) ordered pair.
func (p *DefaultPolicy) duplicateOrdered(g *graph.Graph, out, in *graph.Port) bool {
	for _, e := range g.EdgesForPort(out.ID) {
		if e.SourcePortID == out.ID && e.TargetPortID == in.ID {
			return true
		}
	}

	return false
}

// duplicateSymmetric reports whether an edge already exists between
// source and target in either endpoint order, as required for bridge
// edges where direction is not normalized.
func (p *DefaultPolicy) duplicateSymmetric(g *graph.Graph, source, target *graph.Port) bool {
	for _, e := range g.EdgesForPort(source.ID) {
		if (e.SourcePortID == source.ID && e.TargetPortID == target.ID) ||
			(e.SourcePortID == target.ID && e.TargetPortID == source.ID) {
			return true
		}
	}

	return false
}

// scopeOf returns the id of n's containing SubGraphFrame, or
// TopLevelScope when n belongs to no frame.
func (p *DefaultPolicy) scopeOf(g *graph.Graph, n *graph.Node) string {
	if frame, ok := g.FrameContaining(n.ID); ok {
		return string(frame.ID)
	}

	return TopLevelScope
}
