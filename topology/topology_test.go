package topology_test

import (
	"sort"
	"testing"

	"github.com/arborist-editor/nodegraph/connection"
	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
	"github.com/arborist-editor/nodegraph/topology"
)

func execPort(name string, dir graph.Direction) graph.PortDefinition {
	return graph.PortDefinition{Name: name, Kind: graph.KindData, DataType: "int", Direction: dir, Capacity: graph.CapacityMultiple}
}

func buildChain(t *testing.T, n int) (*graph.Graph, []id.NodeID) {
	t.Helper()
	catalogDef := graph.NodeTypeDefinition{
		TypeId: "T",
		DefaultPorts: []graph.PortDefinition{
			execPort("in", graph.DirectionInput),
			execPort("out", graph.DirectionOutput),
		},
	}
	g := graph.NewGraph(graph.GraphSettings{
		NodeTypeCatalog:  stubCatalog{def: catalogDef},
		Topology:         graph.TopologyDAG,
		ConnectionPolicy: connection.NewDefaultPolicy(),
	})
	ids := make([]id.NodeID, n)
	for i := 0; i < n; i++ {
		node, err := g.AddNode("T", geom.Vec2{})
		if err != nil {
			t.Fatalf("AddNode: %v", err)
		}
		ids[i] = node.ID
	}
	for i := 0; i < n-1; i++ {
		from, _ := g.FindNode(ids[i])
		to, _ := g.FindNode(ids[i+1])
		res := g.Connect(from.Ports[1].ID, to.Ports[0].ID)
		if res.Rejected {
			t.Fatalf("Connect(%d->%d) rejected: %v", i, i+1, res.Reason)
		}
	}

	return g, ids
}

type stubCatalog struct{ def graph.NodeTypeDefinition }

func (s stubCatalog) GetNodeType(typeID string) (graph.NodeTypeDefinition, bool) {
	if typeID == s.def.TypeId {
		return s.def, true
	}
	return graph.NodeTypeDefinition{}, false
}
func (s stubCatalog) GetAll() []graph.NodeTypeDefinition       { return []graph.NodeTypeDefinition{s.def} }
func (s stubCatalog) Search(string) []graph.NodeTypeDefinition { return nil }
func (s stubCatalog) GetCategories() []string                 { return nil }

func TestTopologicalSort_LinearChain(t *testing.T) {
	g, ids := buildChain(t, 4)
	order, err := topology.TopologicalSort(g)
	if err != nil {
		t.Fatalf("TopologicalSort: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("order = %v, want 4 entries", order)
	}
	pos := make(map[id.NodeID]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	for i := 0; i < 3; i++ {
		if pos[ids[i]] >= pos[ids[i+1]] {
			t.Fatalf("node %d must precede node %d in %v", i, i+1, order)
		}
	}
}

func TestWouldCreateCycle(t *testing.T) {
	g, ids := buildChain(t, 3)
	if !topology.WouldCreateCycle(g, ids[2], ids[0]) {
		t.Fatalf("closing the chain back to the root must be reported as a cycle")
	}
	if topology.WouldCreateCycle(g, ids[0], ids[2]) {
		t.Fatalf("a forward edge that already exists transitively must not be flagged")
	}
}

func TestGetRootAndLeafNodes(t *testing.T) {
	g, ids := buildChain(t, 3)
	roots := topology.GetRootNodes(g)
	leaves := topology.GetLeafNodes(g)
	if len(roots) != 1 || roots[0] != ids[0] {
		t.Fatalf("GetRootNodes = %v, want [%v]", roots, ids[0])
	}
	if len(leaves) != 1 || leaves[0] != ids[2] {
		t.Fatalf("GetLeafNodes = %v, want [%v]", leaves, ids[2])
	}
}

func TestGetReachableNodes(t *testing.T) {
	g, ids := buildChain(t, 3)
	reachable := topology.GetReachableNodes(g, ids[0])
	want := []id.NodeID{ids[1], ids[2]}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	if len(reachable) != 2 || reachable[0] != want[0] || reachable[1] != want[1] {
		t.Fatalf("GetReachableNodes(root) = %v, want %v", reachable, want)
	}
	if len(topology.GetReachableNodes(g, ids[2])) != 0 {
		t.Fatalf("leaf node must reach nothing")
	}
}

func TestGetConnectedComponents(t *testing.T) {
	g, ids := buildChain(t, 2)
	isolated, err := g.AddNode("T", geom.Vec2{})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	components := topology.GetConnectedComponents(g)
	if len(components) != 2 {
		t.Fatalf("GetConnectedComponents = %v, want 2 components", components)
	}
	pair := []id.NodeID{ids[0], ids[1]}
	sort.Slice(pair, func(i, j int) bool { return pair[i] < pair[j] })
	pairIdx, isolatedIdx := 0, 1
	if isolated.ID < pair[0] {
		pairIdx, isolatedIdx = 1, 0
	}
	if len(components[pairIdx]) != 2 || components[pairIdx][0] != pair[0] || components[pairIdx][1] != pair[1] {
		t.Fatalf("chain component = %v, want %v", components[pairIdx], pair)
	}
	if len(components[isolatedIdx]) != 1 || components[isolatedIdx][0] != isolated.ID {
		t.Fatalf("isolated component = %v, want [%v]", components[isolatedIdx], isolated.ID)
	}
}
