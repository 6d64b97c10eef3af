package connection_test

import (
	"testing"

	"github.com/arborist-editor/nodegraph/connection"
	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
)

type stubCatalog struct{ defs map[string]graph.NodeTypeDefinition }

func (s stubCatalog) GetNodeType(typeID string) (graph.NodeTypeDefinition, bool) {
	d, ok := s.defs[typeID]
	return d, ok
}
func (s stubCatalog) GetAll() []graph.NodeTypeDefinition       { return nil }
func (s stubCatalog) Search(string) []graph.NodeTypeDefinition { return nil }
func (s stubCatalog) GetCategories() []string                  { return nil }

func dataPort(name string, dir graph.Direction, cap graph.Capacity) graph.PortDefinition {
	return graph.PortDefinition{Name: name, Kind: graph.KindData, DataType: "int", Direction: dir, Capacity: cap}
}

func newTestGraph(t *testing.T, opts ...func(*graph.GraphSettings)) *graph.Graph {
	t.Helper()
	settings := graph.GraphSettings{
		Topology: graph.TopologyDAG,
		NodeTypeCatalog: stubCatalog{defs: map[string]graph.NodeTypeDefinition{
			"T": {TypeId: "T", DefaultPorts: []graph.PortDefinition{
				dataPort("in", graph.DirectionInput, graph.CapacitySingle),
				dataPort("out", graph.DirectionOutput, graph.CapacityMultiple),
			}},
		}},
		ConnectionPolicy: connection.NewDefaultPolicy(),
	}
	for _, o := range opts {
		o(&settings)
	}

	return graph.NewGraph(settings)
}

func TestDefaultPolicy_BasicSuccess(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	b, _ := g.AddNode("T", geom.Vec2{})
	res := g.Connect(a.Ports[1].ID, b.Ports[0].ID)
	if res.Rejected {
		t.Fatalf("expected success, got %v", res.Reason)
	}
}

func TestDefaultPolicy_SameNode(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	res := g.Connect(a.Ports[1].ID, a.Ports[0].ID)
	if !res.Rejected || res.Reason != graph.SameNode {
		t.Fatalf("Connect(self) = %+v, want SameNode", res)
	}
}

func TestDefaultPolicy_SameDirection(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	b, _ := g.AddNode("T", geom.Vec2{})
	res := g.Connect(a.Ports[1].ID, b.Ports[1].ID) // out -> out
	if !res.Rejected || res.Reason != graph.SameDirection {
		t.Fatalf("Connect(out,out) = %+v, want SameDirection", res)
	}
}

func TestDefaultPolicy_DataTypeMismatch(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	bNode := &graph.Node{ID: id.NodeID(id.New())}
	bNode.AddPort(id.PortID(id.New()), dataPort("in2", graph.DirectionInput, graph.CapacitySingle))
	bNode.Ports[0].DataType = "string"
	g.AddNodeDirect(bNode)
	res := g.Connect(a.Ports[1].ID, bNode.Ports[0].ID)
	if !res.Rejected || res.Reason != graph.DataTypeMismatch {
		t.Fatalf("Connect(int,string) = %+v, want DataTypeMismatch", res)
	}
}

func TestDefaultPolicy_CapacityDisplaces(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	b, _ := g.AddNode("T", geom.Vec2{})
	c, _ := g.AddNode("T", geom.Vec2{})
	first := g.Connect(a.Ports[1].ID, b.Ports[0].ID)
	if first.Rejected {
		t.Fatalf("first connect rejected: %v", first.Reason)
	}
	second := g.Connect(c.Ports[1].ID, b.Ports[0].ID)
	if second.Rejected {
		t.Fatalf("second connect rejected: %v", second.Reason)
	}
	if second.DisplacedEdge == nil || second.DisplacedEdge.ID != first.CreatedEdge.ID {
		t.Fatalf("expected first edge to be displaced, got %+v", second)
	}
}

func TestDefaultPolicy_CycleRejected(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	b, _ := g.AddNode("T", geom.Vec2{})
	if res := g.Connect(a.Ports[1].ID, b.Ports[0].ID); res.Rejected {
		t.Fatalf("a->b rejected: %v", res.Reason)
	}
	res := g.Connect(b.Ports[1].ID, a.Ports[0].ID)
	if !res.Rejected || res.Reason != graph.CycleDetected {
		t.Fatalf("b->a (closing cycle) = %+v, want CycleDetected", res)
	}
}

func TestDefaultPolicy_CrossScopeRejected(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	b, _ := g.AddNode("T", geom.Vec2{})
	frame := &graph.SubGraphFrame{
		ID:               id.FrameID(id.New()),
		ContainedNodeIds: map[id.NodeID]struct{}{a.ID: {}},
	}
	g.AddSubGraphFrameDirect(frame)

	res := g.Connect(a.Ports[1].ID, b.Ports[0].ID)
	if !res.Rejected || res.Reason != graph.SameDirection {
		t.Fatalf("default policy cross-scope = %+v, want SameDirection", res)
	}
}

func TestDefaultPolicy_DistinctCrossScopeCode(t *testing.T) {
	g := newTestGraph(t, func(s *graph.GraphSettings) {
		s.ConnectionPolicy = connection.NewDefaultPolicy(connection.WithDistinctCrossScopeCode())
	})
	a, _ := g.AddNode("T", geom.Vec2{})
	b, _ := g.AddNode("T", geom.Vec2{})
	frame := &graph.SubGraphFrame{
		ID:               id.FrameID(id.New()),
		ContainedNodeIds: map[id.NodeID]struct{}{a.ID: {}},
	}
	g.AddSubGraphFrameDirect(frame)

	res := g.Connect(a.Ports[1].ID, b.Ports[0].ID)
	if !res.Rejected || res.Reason != graph.CrossScopeRejected {
		t.Fatalf("opted-in policy cross-scope = %+v, want CrossScopeRejected", res)
	}
}
