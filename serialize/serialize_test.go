package serialize_test

import (
	"testing"

	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
	"github.com/arborist-editor/nodegraph/serialize"
	"github.com/stretchr/testify/require"
)

type widgetData struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

func buildSampleGraph() *graph.Graph {
	g := graph.NewGraph(graph.GraphSettings{Topology: graph.TopologyDAG})

	a := &graph.Node{ID: "A", TypeId: "T", Position: geom.Vec2{X: 1, Y: 2}, UserData: widgetData{Label: "a", Count: 3}}
	a.AddPort("a-out", graph.PortDefinition{Name: "Out", Direction: graph.DirectionOutput, Kind: graph.KindData, DataType: "int"})
	g.AddNodeDirect(a)

	b := &graph.Node{ID: "B", TypeId: "T", Position: geom.Vec2{X: 10, Y: 20}}
	b.AddPort("b-in", graph.PortDefinition{Name: "In", Direction: graph.DirectionInput, Kind: graph.KindData, DataType: "int"})
	g.AddNodeDirect(b)

	g.AddEdgeDirect(&graph.Edge{ID: "e1", SourcePortID: "a-out", TargetPortID: "b-in", UserData: map[string]interface{}{"note": "hi"}})

	g.AddGroupDirect(&graph.NodeGroup{ID: "g1", Title: "Group", ContainedNodeIds: map[id.NodeID]struct{}{"A": {}}})

	return g
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	uds := serialize.JSONUserDataSerializer{
		NewNodeData: map[string]func() interface{}{
			"T": func() interface{} { return widgetData{} },
		},
	}

	g := buildSampleGraph()
	data, err := serialize.Marshal(g, uds)
	require.NoError(t, err)

	g2, err := serialize.Unmarshal(data, graph.GraphSettings{Topology: graph.TopologyDAG}, uds)
	require.NoError(t, err)

	require.Len(t, g2.AllNodes(), 2)
	require.Len(t, g2.AllEdges(), 1)

	a2, ok := g2.FindNode("A")
	require.True(t, ok, "node A missing after round-trip")
	wd, ok := a2.UserData.(widgetData)
	require.True(t, ok, "UserData type = %T, want widgetData", a2.UserData)
	require.Equal(t, widgetData{Label: "a", Count: 3}, wd)
	require.Equal(t, geom.Vec2{X: 1, Y: 2}, a2.Position)

	e2, ok := g2.FindEdge("e1")
	require.True(t, ok, "edge e1 missing after round-trip")
	edgeData, ok := e2.UserData.(map[string]interface{})
	require.True(t, ok, "edge UserData type = %T, want map[string]interface{}", e2.UserData)
	require.Equal(t, "hi", edgeData["note"])
}

func TestJSONUserDataSerializer_RepairsMalformedJSON(t *testing.T) {
	uds := serialize.JSONUserDataSerializer{}
	// unquoted keys, a single-quoted value and a trailing comma: not valid JSON.
	malformed := `{label: 'broken', count: 5,}`

	v, ok := uds.DeserializeNodeData("T", malformed)
	require.True(t, ok, "expected jsonrepair fallback to succeed")
	m, ok := v.(map[string]interface{})
	require.True(t, ok, "repaired value type = %T, want map[string]interface{}", v)
	require.Equal(t, "broken", m["label"])
}

func TestSettingsYAML_RoundTrip(t *testing.T) {
	data, err := serialize.MarshalSettingsYAML(graph.TopologyDAG, "default", "strict", "builtin")
	require.NoError(t, err)

	topology, policy, compat, catalog, err := serialize.UnmarshalSettingsYAML(data)
	require.NoError(t, err)
	require.Equal(t, graph.TopologyDAG, topology)
	require.Equal(t, "default", policy)
	require.Equal(t, "strict", compat)
	require.Equal(t, "builtin", catalog)
}
