package subgraph_test

import (
	"testing"

	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
	"github.com/arborist-editor/nodegraph/subgraph"
)

func TestInstantiate_BoundaryInference(t *testing.T) {
	src := graph.NewGraph(graph.GraphSettings{})
	n := &graph.Node{ID: "N", TypeId: "Task", Position: geom.Vec2{X: 0, Y: 0}}
	n.AddPort("p-in", graph.PortDefinition{Name: "In", Direction: graph.DirectionInput, Kind: graph.KindData, DataType: "int"})
	n.AddPort("p-out", graph.PortDefinition{Name: "Out", Direction: graph.DirectionOutput, Kind: graph.KindData, DataType: "int"})
	src.AddNodeDirect(n)

	dst := graph.NewGraph(graph.GraphSettings{})
	frame, err := subgraph.Instantiate(dst, src, "Asset", geom.Vec2{X: 50, Y: 50}, nil, "")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	if len(frame.ContainedNodeIds) != 1 {
		t.Fatalf("ContainedNodeIds = %v, want exactly 1 entry", frame.ContainedNodeIds)
	}
	var copiedID id.NodeID
	for k := range frame.ContainedNodeIds {
		copiedID = k
	}
	copied, ok := dst.FindNode(copiedID)
	if !ok {
		t.Fatalf("copied node %q not found in destination", copiedID)
	}
	if copied.Position.X != 50 || copied.Position.Y != 50 {
		t.Fatalf("copied node position = %+v, want (50,50)", copied.Position)
	}

	rep, ok := dst.FindNode(frame.RepresentativeNodeId)
	if !ok {
		t.Fatalf("representative node not found")
	}
	if rep.TypeId != graph.BoundaryTypeID {
		t.Fatalf("representative TypeId = %q, want %q", rep.TypeId, graph.BoundaryTypeID)
	}
	if rep.Position.X != 50 || rep.Position.Y != 50 {
		t.Fatalf("representative position = %+v, want (50,50)", rep.Position)
	}
	if len(rep.Ports) != 2 {
		t.Fatalf("representative ports = %v, want 2", rep.Ports)
	}
	inPorts := rep.GetInputPorts()
	outPorts := rep.GetOutputPorts()
	if len(inPorts) != 1 || inPorts[0].Name != "In" || inPorts[0].Capacity != graph.CapacitySingle {
		t.Fatalf("inferred input port = %+v, want Single In", inPorts)
	}
	if len(outPorts) != 1 || outPorts[0].Name != "Out" || outPorts[0].Capacity != graph.CapacityMultiple {
		t.Fatalf("inferred output port = %+v, want Multiple Out", outPorts)
	}
}
