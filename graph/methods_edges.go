package graph

import "github.com/arborist-editor/nodegraph/id"

// normalizeEndpoints swaps (source, target) when the caller handed them in
// reversed direction (Input, Output), so the returned pair always reads
// (candidate-output, candidate-input) when exactly one direction mismatch
// of that specific shape exists. Any other same-direction combination is
// passed through unchanged so the policy's SameDirection check can reject it.
func normalizeEndpoints(source, target *Port) (*Port, *Port) {
	if source.Direction == DirectionInput && target.Direction == DirectionOutput {
		return target, source
	}

	return source, target
}

// isInternalBridge reports whether exactly one of source/target is a
// boundary port (on a __SubGraphBoundary representative node) and the
// other endpoint's node belongs to that boundary's own frame.
func (g *Graph) isInternalBridge(source, target *Port) bool {
	srcNode, ok := g.FindNode(source.NodeID)
	if !ok {
		return false
	}
	tgtNode, ok := g.FindNode(target.NodeID)
	if !ok {
		return false
	}
	if srcNode.IsBoundary() == tgtNode.IsBoundary() {
		return false // need exactly one boundary endpoint
	}
	boundaryNode, otherNode := srcNode, tgtNode
	if !srcNode.IsBoundary() {
		boundaryNode, otherNode = tgtNode, srcNode
	}
	frame, ok := g.BoundaryFrame(boundaryNode.ID)
	if !ok {
		return false
	}
	_, inFrame := frame.ContainedNodeIds[otherNode.ID]

	return inFrame
}

// Connect attempts to join source to target per the configured
// ConnectionPolicy. Endpoints are normalized to (Output, Input) order
// unless the attempt is an internal bridge, in which case direction is
// preserved exactly as drawn. On Success, if the (normalized) target is a
// Single-capacity non-boundary port already carrying an edge, that edge is
// displaced (removed and returned as ConnectResult.DisplacedEdge) before
// the new edge is created.
func (g *Graph) Connect(sourcePortID, targetPortID id.PortID) ConnectResult {
	source, ok := g.FindPort(sourcePortID)
	if !ok {
		return ConnectResult{Rejected: true, Reason: CustomRejected}
	}
	target, ok := g.FindPort(targetPortID)
	if !ok {
		return ConnectResult{Rejected: true, Reason: CustomRejected}
	}

	bridge := g.isInternalBridge(source, target)
	src, tgt := source, target
	if !bridge {
		src, tgt = normalizeEndpoints(source, target)
	}

	if g.Settings.ConnectionPolicy == nil {
		return ConnectResult{Rejected: true, Reason: CustomRejected}
	}
	result := g.Settings.ConnectionPolicy.CanConnect(g, src, tgt)
	if result != Success {
		return ConnectResult{Rejected: true, Reason: result}
	}

	var displaced *Edge
	tgtNode, _ := g.FindNode(tgt.NodeID)
	if tgt.Capacity == CapacitySingle && !tgtNode.IsBoundary() {
		if existing := g.EdgesForPort(tgt.ID); len(existing) > 0 {
			displaced = existing[0]
			_ = g.removeEdgeInternal(displaced.ID)
		}
	}

	eid := id.EdgeID(id.Fresh(func(c string) bool {
		_, exists := g.FindEdge(id.EdgeID(c))
		return exists
	}))
	e := &Edge{ID: eid, SourcePortID: src.ID, TargetPortID: tgt.ID}
	g.registerEdge(e)
	g.log.Debug().Str("edge", string(e.ID)).Msg("edge added")
	g.Events.emitEdgeAdded(EdgeAddedEvent{Edge: e})

	return ConnectResult{CreatedEdge: e, DisplacedEdge: displaced}
}

// AddEdgeDirect inserts a fully-formed edge (deserialization/command-replay
// only); it bypasses policy evaluation entirely.
func (g *Graph) AddEdgeDirect(e *Edge) {
	g.registerEdge(e)
	g.Events.emitEdgeAdded(EdgeAddedEvent{Edge: e})
}

func (g *Graph) registerEdge(e *Edge) {
	g.muEdges.Lock()
	g.Edges = append(g.Edges, e)
	g.edgeByID[e.ID] = e
	if g.edgesByPort[e.SourcePortID] == nil {
		g.edgesByPort[e.SourcePortID] = make(map[id.EdgeID]struct{})
	}
	g.edgesByPort[e.SourcePortID][e.ID] = struct{}{}
	if g.edgesByPort[e.TargetPortID] == nil {
		g.edgesByPort[e.TargetPortID] = make(map[id.EdgeID]struct{})
	}
	g.edgesByPort[e.TargetPortID][e.ID] = struct{}{}
	g.muEdges.Unlock()
}

// Disconnect removes the edge with the given id. EdgeRemoved is emitted
// before the structural removal, so listeners can still resolve its
// endpoints.
func (g *Graph) Disconnect(edgeID id.EdgeID) error {
	if _, ok := g.FindEdge(edgeID); !ok {
		return ErrEdgeNotFound
	}

	return g.removeEdgeInternal(edgeID)
}

func (g *Graph) removeEdgeInternal(edgeID id.EdgeID) error {
	e, ok := g.FindEdge(edgeID)
	if !ok {
		return ErrEdgeNotFound
	}
	g.Events.emitEdgeRemoved(EdgeRemovedEvent{Edge: e})

	g.muEdges.Lock()
	delete(g.edgeByID, edgeID)
	if m := g.edgesByPort[e.SourcePortID]; m != nil {
		delete(m, edgeID)
		if len(m) == 0 {
			delete(g.edgesByPort, e.SourcePortID)
		}
	}
	if m := g.edgesByPort[e.TargetPortID]; m != nil {
		delete(m, edgeID)
		if len(m) == 0 {
			delete(g.edgesByPort, e.TargetPortID)
		}
	}
	for i, cand := range g.Edges {
		if cand.ID == edgeID {
			g.Edges = append(g.Edges[:i], g.Edges[i+1:]...)
			break
		}
	}
	g.muEdges.Unlock()
	g.log.Debug().Str("edge", string(edgeID)).Msg("edge removed")

	return nil
}
