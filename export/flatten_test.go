package export_test

import (
	"testing"

	"github.com/arborist-editor/nodegraph/export"
	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
)

func dataPort(name string, dir graph.Direction) graph.PortDefinition {
	return graph.PortDefinition{Name: name, Direction: dir, Kind: graph.KindData, DataType: "int"}
}

func newBareNode(g *graph.Graph, nodeID id.NodeID, typeID string) *graph.Node {
	n := &graph.Node{ID: nodeID, TypeId: typeID, Position: geom.Vec2{}}
	g.AddNodeDirect(n)

	return n
}

// TestFlatten_ManyToManyBridge reproduces a frame F with representative R
// bridging two external nodes A, B into internal node X, and internal node
// X driving external node Y through R's second port pair.
func TestFlatten_ManyToManyBridge(t *testing.T) {
	g := graph.NewGraph(graph.GraphSettings{})

	a := newBareNode(g, "A", "T")
	a.AddPort("a-out", dataPort("Out", graph.DirectionOutput))
	b := newBareNode(g, "B", "T")
	b.AddPort("b-out", dataPort("Out", graph.DirectionOutput))
	x := newBareNode(g, "X", "T")
	x.AddPort("x-in", dataPort("In", graph.DirectionInput))
	x.AddPort("x-out", dataPort("Out", graph.DirectionOutput))
	y := newBareNode(g, "Y", "T")
	y.AddPort("y-in", dataPort("In", graph.DirectionInput))

	rep := newBareNode(g, "R", graph.BoundaryTypeID)
	rep.AddPort("r-in", dataPort("RIn", graph.DirectionInput))
	rep.AddPort("r-out", dataPort("ROut", graph.DirectionOutput))

	g.AddEdgeDirect(&graph.Edge{ID: "e1", SourcePortID: "a-out", TargetPortID: "r-in"})
	g.AddEdgeDirect(&graph.Edge{ID: "e2", SourcePortID: "b-out", TargetPortID: "r-in"})
	g.AddEdgeDirect(&graph.Edge{ID: "e3", SourcePortID: "r-in", TargetPortID: "x-in"})
	g.AddEdgeDirect(&graph.Edge{ID: "e4", SourcePortID: "x-out", TargetPortID: "r-out"})
	g.AddEdgeDirect(&graph.Edge{ID: "e5", SourcePortID: "r-out", TargetPortID: "y-in"})

	bp, _ := export.Flatten(g, "bp1", "Test", 1)

	if len(bp.Transitions) != 3 {
		t.Fatalf("Transitions = %+v, want exactly 3", bp.Transitions)
	}
	want := map[string]bool{"A->X": false, "B->X": false, "X->Y": false}
	for _, tr := range bp.Transitions {
		key := string(tr.FromNodeId) + "->" + string(tr.ToNodeId)
		if _, ok := want[key]; !ok {
			t.Fatalf("unexpected transition %+v", tr)
		}
		if tr.FromNodeId == rep.ID || tr.ToNodeId == rep.ID {
			t.Fatalf("transition references boundary node R: %+v", tr)
		}
		want[key] = true
	}
	for k, seen := range want {
		if !seen {
			t.Fatalf("missing expected transition %s", k)
		}
	}

	for _, ac := range bp.Actions {
		if ac.Id == rep.ID {
			t.Fatalf("boundary node should not appear as an action")
		}
	}
}

func TestFlatten_StructuralValidation(t *testing.T) {
	g := graph.NewGraph(graph.GraphSettings{})
	lonely := newBareNode(g, "L", "Flow.Start")

	bp, msgs := export.Flatten(g, "bp2", "Test", 1, export.WithEntryType("Flow.Start"))
	if len(bp.Actions) != 1 || bp.Actions[0].Id != lonely.ID {
		t.Fatalf("Actions = %+v", bp.Actions)
	}

	foundIncident := false
	for _, m := range msgs {
		if m.Severity == export.Warning {
			foundIncident = true
		}
	}
	if !foundIncident {
		t.Fatalf("expected a Warning for the node with no incident edge, got %+v", msgs)
	}
}

func TestFlatten_EntryTypeMissingIsError(t *testing.T) {
	g := graph.NewGraph(graph.GraphSettings{})
	newBareNode(g, "N", "T")

	_, msgs := export.Flatten(g, "bp3", "Test", 1, export.WithEntryType("Flow.Start"))
	foundError := false
	for _, m := range msgs {
		if m.Severity == export.Error {
			foundError = true
		}
	}
	if !foundError {
		t.Fatalf("expected an Error for missing entry type, got %+v", msgs)
	}
}
