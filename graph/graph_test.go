package graph_test

import (
	"testing"

	"github.com/arborist-editor/nodegraph/connection"
	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
	"github.com/stretchr/testify/require"
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

func newTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return graph.NewGraph(graph.GraphSettings{
		Topology: graph.TopologyDAG,
		NodeTypeCatalog: stubCatalog{defs: map[string]graph.NodeTypeDefinition{
			"T": {TypeId: "T", DefaultPorts: []graph.PortDefinition{
				dataPort("in", graph.DirectionInput, graph.CapacitySingle),
				dataPort("out", graph.DirectionOutput, graph.CapacityMultiple),
			}},
		}},
		ConnectionPolicy: connection.NewDefaultPolicy(),
	})
}

func TestAddNode_UnknownType(t *testing.T) {
	g := newTestGraph(t)
	_, err := g.AddNode("NoSuchType", geom.Vec2{})
	require.ErrorIs(t, err, graph.ErrUnknownNodeType)
}

func TestAddNode_EmitsEvent(t *testing.T) {
	g := newTestGraph(t)
	var got *graph.Node
	g.Events.OnNodeAdded(func(ev graph.NodeAddedEvent) { got = ev.Node })

	n, err := g.AddNode("T", geom.Vec2{X: 5, Y: 6})
	require.NoError(t, err)
	require.Same(t, n, got)
	require.Len(t, n.Ports, 2)
}

func TestRemoveNode_CascadesEdgesAndContainment(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	b, _ := g.AddNode("T", geom.Vec2{})
	res := g.Connect(a.Ports[1].ID, b.Ports[0].ID)
	require.False(t, res.Rejected)

	grp := &graph.NodeGroup{ID: id.GroupID(id.New()), ContainedNodeIds: map[id.NodeID]struct{}{a.ID: {}, b.ID: {}}}
	g.AddGroupDirect(grp)

	require.NoError(t, g.RemoveNode(a.ID))

	_, ok := g.FindNode(a.ID)
	require.False(t, ok, "removed node still findable")
	_, ok = g.FindEdge(res.CreatedEdge.ID)
	require.False(t, ok, "edge touching removed node should cascade-delete")
	_, stillContained := grp.ContainedNodeIds[a.ID]
	require.False(t, stillContained, "removed node id should drop from group containment")
}

func TestRemoveNode_NotFound(t *testing.T) {
	g := newTestGraph(t)
	err := g.RemoveNode("missing")
	require.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestMoveNode_NoEventEmitted(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	fired := false
	g.Events.OnNodeMoved(func(graph.NodeMovedEvent) { fired = true })

	require.NoError(t, g.MoveNode(a.ID, geom.Vec2{X: 1, Y: 1}))
	require.False(t, fired, "MoveNode must not itself emit NodeMoved; that is the command layer's job")
	require.Equal(t, geom.Vec2{X: 1, Y: 1}, a.Position)
}

func TestConnect_DisplacesSingleCapacityTarget(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	b, _ := g.AddNode("T", geom.Vec2{})
	c, _ := g.AddNode("T", geom.Vec2{})

	first := g.Connect(a.Ports[1].ID, b.Ports[0].ID)
	require.False(t, first.Rejected)

	second := g.Connect(c.Ports[1].ID, b.Ports[0].ID)
	require.False(t, second.Rejected)
	require.NotNil(t, second.DisplacedEdge)
	require.Equal(t, first.CreatedEdge.ID, second.DisplacedEdge.ID)

	_, ok := g.FindEdge(first.CreatedEdge.ID)
	require.False(t, ok, "displaced edge should be removed from the index")
}

func TestDisconnect_RemovesEdge(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	b, _ := g.AddNode("T", geom.Vec2{})
	res := g.Connect(a.Ports[1].ID, b.Ports[0].ID)
	require.False(t, res.Rejected)

	require.NoError(t, g.Disconnect(res.CreatedEdge.ID))
	_, ok := g.FindEdge(res.CreatedEdge.ID)
	require.False(t, ok)
	require.Equal(t, 0, g.GetEdgeCountForPort(a.Ports[1].ID))
}

func TestDisconnect_NotFound(t *testing.T) {
	g := newTestGraph(t)
	err := g.Disconnect("missing")
	require.ErrorIs(t, err, graph.ErrEdgeNotFound)
}

func TestAddRemoveDynamicPort(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})
	a.AllowDynamicPorts = true

	p, err := g.AddDynamicPort(a.ID, dataPort("extra", graph.DirectionInput, graph.CapacityMultiple))
	require.NoError(t, err)
	_, ok := g.FindPort(p.ID)
	require.True(t, ok)

	removed, err := g.RemoveDynamicPort(a.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, removed.ID)
	_, ok = g.FindPort(p.ID)
	require.False(t, ok)
}

func TestAddDynamicPort_Disallowed(t *testing.T) {
	g := newTestGraph(t)
	a, _ := g.AddNode("T", geom.Vec2{})

	_, err := g.AddDynamicPort(a.ID, dataPort("extra", graph.DirectionInput, graph.CapacityMultiple))
	require.ErrorIs(t, err, graph.ErrDynamicPortsDisallowed)
}
