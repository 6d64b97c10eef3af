// Package subgraph implements the single-orchestrator instantiation entry
// point that deep-copies a source graph into a destination graph, wraps
// the copies in a SubGraphFrame, and synthesizes (or accepts explicit)
// boundary ports on a representative node. Mirrors the teacher's
// one-orchestrator-plus-internal-helpers composition shape.
package subgraph

import (
	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
)

// boundaryPadding/boundaryTitleBar are the padding and title-bar height of
// an instantiated frame's initial bounds. The title bar matches the one
// graph.AutoFitFrame reserves, so a later AutoFitFrame call with padding
// 30 over the same non-empty contained set yields the same bounds.
const (
	boundaryPadding  = 30.0
	boundaryTitleBar = 24.0
)

// Instantiate deep-copies every node and fully-mapped edge of src into dst
// at insertion offset, synthesizes a __SubGraphBoundary representative
// node (using explicitBoundaryPorts verbatim if non-empty, otherwise
// inferring one boundary port per source port left unconnected on its
// own side), and wraps the copies in a new SubGraphFrame. Returns the new
// frame; dst is mutated via AddNodeDirect/AddEdgeDirect/
// AddSubGraphFrameDirect so no connection policy or catalog lookup runs
// against the copies.
func Instantiate(
	dst, src *graph.Graph,
	title string,
	offset geom.Vec2,
	explicitBoundaryPorts []graph.PortDefinition,
	sourceAssetID string,
) (*graph.SubGraphFrame, error) {
	nodeIDMap := make(map[id.NodeID]id.NodeID)
	portIDMap := make(map[id.PortID]id.PortID)
	contained := make(map[id.NodeID]struct{})

	srcNodes := src.AllNodes()
	copies := make([]*graph.Node, 0, len(srcNodes))
	for _, sn := range srcNodes {
		newID := id.NodeID(id.Fresh(func(c string) bool {
			_, exists := dst.FindNode(id.NodeID(c))
			return exists
		}))
		cp := &graph.Node{
			ID:                newID,
			TypeId:            sn.TypeId,
			Position:          geom.Vec2{X: sn.Position.X + offset.X, Y: sn.Position.Y + offset.Y},
			Size:              sn.Size,
			DisplayMode:       sn.DisplayMode,
			State:             graph.StateNormal,
			AllowDynamicPorts: sn.AllowDynamicPorts,
			UserData:          sn.UserData,
		}
		for _, sp := range sn.Ports {
			newPortID := id.PortID(id.Fresh(func(c string) bool {
				_, exists := dst.FindPort(id.PortID(c))
				return exists
			}))
			cp.AddPort(newPortID, graph.PortDefinition{
				Name:       sp.Name,
				SemanticId: sp.SemanticId,
				Direction:  sp.Direction,
				Kind:       sp.Kind,
				DataType:   sp.DataType,
				Capacity:   sp.Capacity,
				SortOrder:  sp.SortOrder,
			})
			portIDMap[sp.ID] = cp.Ports[len(cp.Ports)-1].ID
		}
		nodeIDMap[sn.ID] = newID
		contained[newID] = struct{}{}
		dst.AddNodeDirect(cp)
		copies = append(copies, cp)
	}

	incomingCount := make(map[id.PortID]int)
	outgoingCount := make(map[id.PortID]int)
	for _, se := range src.AllEdges() {
		newSource, okS := portIDMap[se.SourcePortID]
		newTarget, okT := portIDMap[se.TargetPortID]
		outgoingCount[se.SourcePortID]++
		incomingCount[se.TargetPortID]++
		if !okS || !okT {
			continue
		}
		newEdgeID := id.EdgeID(id.Fresh(func(c string) bool {
			_, exists := dst.FindEdge(id.EdgeID(c))
			return exists
		}))
		dst.AddEdgeDirect(&graph.Edge{ID: newEdgeID, SourcePortID: newSource, TargetPortID: newTarget})
	}

	repID := id.NodeID(id.Fresh(func(c string) bool {
		_, exists := dst.FindNode(id.NodeID(c))
		return exists
	}))
	rep := &graph.Node{
		ID:          repID,
		TypeId:      graph.BoundaryTypeID,
		Position:    offset,
		DisplayMode: graph.DisplayExpanded,
		State:       graph.StateNormal,
	}

	boundaryDefs := explicitBoundaryPorts
	if len(boundaryDefs) == 0 {
		boundaryDefs = inferBoundaryPorts(srcNodes, incomingCount, outgoingCount)
	}
	for _, def := range boundaryDefs {
		newPortID := id.PortID(id.Fresh(func(c string) bool {
			_, exists := dst.FindPort(id.PortID(c))
			return exists
		}))
		rep.AddPort(newPortID, def)
	}
	dst.AddNodeDirect(rep)

	rects := make([]geom.Rect, 0, len(copies))
	for _, cp := range copies {
		rects = append(rects, cp.GetBounds())
	}
	bounds := containerBounds(rects, offset)

	frame := &graph.SubGraphFrame{
		ID:                   id.FrameID(id.Fresh(func(c string) bool { _, exists := dst.FindFrame(id.FrameID(c)); return exists })),
		Bounds:               bounds,
		Title:                title,
		ContainedNodeIds:     contained,
		IsCollapsed:          false,
		RepresentativeNodeId: repID,
		SourceAssetId:        sourceAssetID,
	}
	dst.AddSubGraphFrameDirect(frame)

	return frame, nil
}

// inferBoundaryPorts synthesizes one boundary Input (Single) per source
// input port never fed by an incoming edge, and one boundary Output
// (Multiple) per source output port never driving an outgoing edge,
// discovery order per direction giving SortOrder.
func inferBoundaryPorts(srcNodes []*graph.Node, incoming, outgoing map[id.PortID]int) []graph.PortDefinition {
	var defs []graph.PortDefinition
	inputOrder, outputOrder := 0, 0
	for _, n := range srcNodes {
		for _, p := range n.Ports {
			switch p.Direction {
			case graph.DirectionInput:
				if incoming[p.ID] == 0 {
					defs = append(defs, graph.PortDefinition{
						Name: p.Name, SemanticId: p.SemanticId, Direction: graph.DirectionInput,
						Kind: p.Kind, DataType: p.DataType, Capacity: graph.CapacitySingle, SortOrder: inputOrder,
					})
					inputOrder++
				}
			case graph.DirectionOutput:
				if outgoing[p.ID] == 0 {
					defs = append(defs, graph.PortDefinition{
						Name: p.Name, SemanticId: p.SemanticId, Direction: graph.DirectionOutput,
						Kind: p.Kind, DataType: p.DataType, Capacity: graph.CapacityMultiple, SortOrder: outputOrder,
					})
					outputOrder++
				}
			}
		}
	}

	return defs
}

func containerBounds(rects []geom.Rect, origin geom.Vec2) geom.Rect {
	if len(rects) == 0 {
		return geom.Rect{X: origin.X, Y: origin.Y, W: 200, H: 150}
	}
	acc := rects[0]
	for _, r := range rects[1:] {
		acc = acc.Union(r)
	}

	return acc.Inflate(boundaryPadding, boundaryTitleBar)
}

