// Package serialize implements the JSON wire format for a Graph, a YAML
// codec for GraphSettings, and the best-effort, jsonrepair-backed
// UserData serializer. Grounded on the teacher's converters-package shape
// (two-way adapters at a package boundary) generalized from
// matrix-representation conversion to wire-format conversion.
package serialize

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
	"github.com/kaptinlin/jsonrepair"
)

// UserDataSerializer is the consumed capability a caller supplies to
// (de)serialize opaque Node/Edge UserData payloads; the core never
// interprets UserData itself. Symmetric across nodes and edges per the
// wire format's uniform `userData` field.
type UserDataSerializer interface {
	SerializeNodeData(typeId string, data interface{}) (string, error)
	DeserializeNodeData(typeId, s string) (interface{}, bool)
	SerializeEdgeData(data interface{}) (string, error)
	DeserializeEdgeData(s string) (interface{}, bool)
}

// JSONUserDataSerializer marshals UserData with encoding/json. A failing
// Deserialize first retries after running the input through jsonrepair,
// since hand-edited or externally-produced payloads are not guaranteed to
// be strict JSON; a still-unparseable payload returns ok=false rather than
// an error, per the malformed-input error-handling rule (the target Graph
// must never end up partially mutated from a bad userData blob).
type JSONUserDataSerializer struct {
	// NewNodeData, keyed by TypeId, returns a fresh zero value to decode
	// into; nil falls back to map[string]interface{}.
	NewNodeData map[string]func() interface{}
	// NewEdgeData returns a fresh zero value for edge UserData; nil falls
	// back to map[string]interface{}.
	NewEdgeData func() interface{}
}

func (s JSONUserDataSerializer) SerializeNodeData(typeId string, data interface{}) (string, error) {
	return marshalUserData(data)
}

func (s JSONUserDataSerializer) DeserializeNodeData(typeId, raw string) (interface{}, bool) {
	var factory func() interface{}
	if s.NewNodeData != nil {
		factory = s.NewNodeData[typeId]
	}

	return unmarshalUserData(raw, factory)
}

func (s JSONUserDataSerializer) SerializeEdgeData(data interface{}) (string, error) {
	return marshalUserData(data)
}

func (s JSONUserDataSerializer) DeserializeEdgeData(raw string) (interface{}, bool) {
	return unmarshalUserData(raw, s.NewEdgeData)
}

func marshalUserData(data interface{}) (string, error) {
	if data == nil {
		return "", nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("serialize: marshal userData: %w", err)
	}

	return string(b), nil
}

func unmarshalUserData(raw string, factory func() interface{}) (interface{}, bool) {
	if raw == "" {
		return nil, false
	}
	target := newUserDataTarget(factory)
	if err := json.Unmarshal([]byte(raw), target); err == nil {
		return derefUserDataTarget(target, factory), true
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, false
	}
	target = newUserDataTarget(factory)
	if err := json.Unmarshal([]byte(repaired), target); err != nil {
		return nil, false
	}

	return derefUserDataTarget(target, factory), true
}

func newUserDataTarget(factory func() interface{}) interface{} {
	if factory != nil {
		proto := factory()
		return reflect.New(reflect.TypeOf(proto)).Interface()
	}

	return &map[string]interface{}{}
}

func derefUserDataTarget(target interface{}, factory func() interface{}) interface{} {
	if factory != nil {
		return reflect.ValueOf(target).Elem().Interface()
	}

	return *(target.(*map[string]interface{}))
}

// --- wire DTOs ---------------------------------------------------------

type graphDoc struct {
	ID             string         `json:"id"`
	Settings       settingsDoc    `json:"settings"`
	Nodes          []nodeDoc      `json:"nodes"`
	Edges          []edgeDoc      `json:"edges"`
	Groups         []groupDoc     `json:"groups"`
	SubGraphFrames []frameDoc     `json:"subGraphFrames"`
	Comments       []commentDoc   `json:"comments"`
}

type settingsDoc struct {
	Topology string `json:"topology"`
}

type portDoc struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SemanticID string `json:"semanticId"`
	Direction  string `json:"direction"`
	Kind       string `json:"kind"`
	DataType   string `json:"dataType"`
	Capacity   string `json:"capacity"`
	SortOrder  int    `json:"sortOrder"`
}

type vecDoc struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type rectDoc struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type rgbaDoc struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

type nodeDoc struct {
	ID          string    `json:"id"`
	TypeID      string    `json:"typeId"`
	Position    vecDoc    `json:"position"`
	DisplayMode string    `json:"displayMode"`
	Ports       []portDoc `json:"ports"`
	UserData    string    `json:"userData,omitempty"`
}

type edgeDoc struct {
	ID           string `json:"id"`
	SourcePortID string `json:"sourcePortId"`
	TargetPortID string `json:"targetPortId"`
	UserData     string `json:"userData,omitempty"`
}

type containerDoc struct {
	ID               string   `json:"id"`
	Bounds           rectDoc  `json:"bounds"`
	Title            string   `json:"title"`
	Color            *rgbaDoc `json:"color,omitempty"`
	ContainedNodeIDs []string `json:"containedNodeIds"`
}

type groupDoc struct {
	containerDoc
}

type frameDoc struct {
	containerDoc
	IsCollapsed          bool   `json:"isCollapsed"`
	RepresentativeNodeID string `json:"representativeNodeId"`
	SourceAssetID        string `json:"sourceAssetId,omitempty"`
}

type commentDoc struct {
	ID              string  `json:"id"`
	Bounds          rectDoc `json:"bounds"`
	Text            string  `json:"text"`
	FontSize        float64 `json:"fontSize"`
	TextColor       rgbaDoc `json:"textColor"`
	BackgroundColor rgbaDoc `json:"backgroundColor"`
}

// Marshal encodes g as the portable JSON exchange format, using uds to
// flatten every node/edge UserData payload.
func Marshal(g *graph.Graph, uds UserDataSerializer) ([]byte, error) {
	doc := graphDoc{
		ID:       string(g.ID),
		Settings: settingsDoc{Topology: string(g.Settings.Topology)},
	}

	for _, n := range g.AllNodes() {
		nd := nodeDoc{
			ID:          string(n.ID),
			TypeID:      n.TypeId,
			Position:    vecDoc{X: n.Position.X, Y: n.Position.Y},
			DisplayMode: string(n.DisplayMode),
		}
		for _, p := range n.Ports {
			nd.Ports = append(nd.Ports, portDoc{
				ID: string(p.ID), Name: p.Name, SemanticID: p.SemanticId,
				Direction: string(p.Direction), Kind: string(p.Kind),
				DataType: p.DataType, Capacity: string(p.Capacity), SortOrder: p.SortOrder,
			})
		}
		if uds != nil && n.UserData != nil {
			raw, err := uds.SerializeNodeData(n.TypeId, n.UserData)
			if err != nil {
				return nil, fmt.Errorf("serialize: node %s: %w", n.ID, err)
			}
			nd.UserData = raw
		}
		doc.Nodes = append(doc.Nodes, nd)
	}

	for _, e := range g.AllEdges() {
		ed := edgeDoc{ID: string(e.ID), SourcePortID: string(e.SourcePortID), TargetPortID: string(e.TargetPortID)}
		if uds != nil && e.UserData != nil {
			raw, err := uds.SerializeEdgeData(e.UserData)
			if err != nil {
				return nil, fmt.Errorf("serialize: edge %s: %w", e.ID, err)
			}
			ed.UserData = raw
		}
		doc.Edges = append(doc.Edges, ed)
	}

	for _, grp := range g.Groups {
		color := toRGBADoc(grp.Color)
		doc.Groups = append(doc.Groups, groupDoc{containerDoc: toContainerDoc(string(grp.ID), grp.Bounds, grp.Title, &color, grp.ContainedNodeIds)})
	}
	for _, f := range g.SubGraphFrames {
		doc.SubGraphFrames = append(doc.SubGraphFrames, frameDoc{
			containerDoc:         toContainerDoc(string(f.ID), f.Bounds, f.Title, nil, f.ContainedNodeIds),
			IsCollapsed:          f.IsCollapsed,
			RepresentativeNodeID: string(f.RepresentativeNodeId),
			SourceAssetID:        f.SourceAssetId,
		})
	}
	for _, c := range g.Comments {
		doc.Comments = append(doc.Comments, commentDoc{
			ID: string(c.ID), Bounds: toRectDoc(c.Bounds), Text: c.Text, FontSize: c.FontSize,
			TextColor: toRGBADoc(c.TextColor), BackgroundColor: toRGBADoc(c.BackgroundColor),
		})
	}

	return json.Marshal(doc)
}

func toContainerDoc(idStr string, bounds geom.Rect, title string, color *rgbaDoc, contained map[id.NodeID]struct{}) containerDoc {
	ids := make([]string, 0, len(contained))
	for nid := range contained {
		ids = append(ids, string(nid))
	}
	sort.Strings(ids)

	return containerDoc{ID: idStr, Bounds: toRectDoc(bounds), Title: title, Color: color, ContainedNodeIDs: ids}
}

func toRectDoc(r geom.Rect) rectDoc { return rectDoc{X: r.X, Y: r.Y, W: r.W, H: r.H} }
func toRGBADoc(c geom.RGBA) rgbaDoc { return rgbaDoc{R: c.R, G: c.G, B: c.B, A: c.A} }
func fromRectDoc(r rectDoc) geom.Rect { return geom.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H} }
func fromRGBADoc(c rgbaDoc) geom.RGBA { return geom.RGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

// Unmarshal decodes the portable JSON exchange format into a new Graph
// built with settings, using uds to reconstruct every node/edge UserData
// payload. All ids are preserved exactly as encoded, so the result is
// structurally identical to whatever produced data, modulo UserData
// round-tripping through uds.
func Unmarshal(data []byte, settings graph.GraphSettings, uds UserDataSerializer) (*graph.Graph, error) {
	var doc graphDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("serialize: unmarshal graph: %w", err)
	}

	g := graph.NewGraph(settings)
	g.ID = id.GraphID(doc.ID)

	for _, nd := range doc.Nodes {
		n := &graph.Node{
			ID:          id.NodeID(nd.ID),
			TypeId:      nd.TypeID,
			Position:    geom.Vec2{X: nd.Position.X, Y: nd.Position.Y},
			DisplayMode: graph.DisplayMode(nd.DisplayMode),
			State:       graph.StateNormal,
		}
		if uds != nil && nd.UserData != "" {
			if ud, ok := uds.DeserializeNodeData(nd.TypeID, nd.UserData); ok {
				n.UserData = ud
			}
		}
		for _, pd := range nd.Ports {
			n.AddPort(id.PortID(pd.ID), graph.PortDefinition{
				Name: pd.Name, SemanticId: pd.SemanticID,
				Direction: graph.Direction(pd.Direction), Kind: graph.PortKind(pd.Kind),
				DataType: pd.DataType, Capacity: graph.Capacity(pd.Capacity), SortOrder: pd.SortOrder,
			})
		}
		g.AddNodeDirect(n)
	}

	for _, ed := range doc.Edges {
		e := &graph.Edge{ID: id.EdgeID(ed.ID), SourcePortID: id.PortID(ed.SourcePortID), TargetPortID: id.PortID(ed.TargetPortID)}
		if uds != nil && ed.UserData != "" {
			if ud, ok := uds.DeserializeEdgeData(ed.UserData); ok {
				e.UserData = ud
			}
		}
		g.AddEdgeDirect(e)
	}

	for _, gd := range doc.Groups {
		grp := &graph.NodeGroup{
			ID: id.GroupID(gd.ID), Bounds: fromRectDoc(gd.Bounds), Title: gd.Title,
			ContainedNodeIds: toNodeIDSet(gd.ContainedNodeIDs),
		}
		if gd.Color != nil {
			grp.Color = fromRGBADoc(*gd.Color)
		}
		g.AddGroupDirect(grp)
	}

	for _, fd := range doc.SubGraphFrames {
		g.AddSubGraphFrameDirect(&graph.SubGraphFrame{
			ID: id.FrameID(fd.ID), Bounds: fromRectDoc(fd.Bounds), Title: fd.Title,
			ContainedNodeIds:     toNodeIDSet(fd.ContainedNodeIDs),
			IsCollapsed:          fd.IsCollapsed,
			RepresentativeNodeId: id.NodeID(fd.RepresentativeNodeID),
			SourceAssetId:        fd.SourceAssetID,
		})
	}

	for _, cd := range doc.Comments {
		g.AddCommentDirect(&graph.GraphComment{
			ID: id.CommentID(cd.ID), Bounds: fromRectDoc(cd.Bounds), Text: cd.Text, FontSize: cd.FontSize,
			TextColor: fromRGBADoc(cd.TextColor), BackgroundColor: fromRGBADoc(cd.BackgroundColor),
		})
	}

	return g, nil
}

func toNodeIDSet(ids []string) map[id.NodeID]struct{} {
	out := make(map[id.NodeID]struct{}, len(ids))
	for _, s := range ids {
		out[id.NodeID(s)] = struct{}{}
	}

	return out
}
