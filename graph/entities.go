package graph

import (
	"sort"

	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/id"
)

// PortDefinition is an immutable template describing how to construct a
// Port. It is the only way external code (node type catalogs, boundary
// inference, Paste) should describe a port; a Port is always built from
// one via newPort.
type PortDefinition struct {
	Name       string
	SemanticId string
	Direction  Direction
	Kind       PortKind
	DataType   string
	Capacity   Capacity
	SortOrder  int
}

// Port is a directed connection endpoint on a Node.
type Port struct {
	ID         id.PortID
	NodeID     id.NodeID // back-reference, never ownership
	Name       string
	SemanticId string
	Direction  Direction
	Kind       PortKind
	DataType   string
	Capacity   Capacity
	SortOrder  int
}

// newPort builds a Port from a definition, defaulting SemanticId to Name
// when the definition left it blank. SemanticId is immutable thereafter.
func newPort(portID id.PortID, nodeID id.NodeID, def PortDefinition) *Port {
	semantic := def.SemanticId
	if semantic == "" {
		semantic = def.Name
	}

	return &Port{
		ID:         portID,
		NodeID:     nodeID,
		Name:       def.Name,
		SemanticId: semantic,
		Direction:  def.Direction,
		Kind:       def.Kind,
		DataType:   def.DataType,
		Capacity:   def.Capacity,
		SortOrder:  def.SortOrder,
	}
}

// Node owns its Ports exclusively; removing a Node removes all its Ports.
// PortAdded/PortRemoved hooks are wired by the owning Graph at AddNode time
// so dynamic port churn on AllowDynamicPorts nodes keeps the Graph's
// portByID / edgesByPort indices current.
type Node struct {
	ID                id.NodeID
	TypeId            string
	Position          geom.Vec2
	Size              geom.Vec2
	DisplayMode       DisplayMode
	State             NodeState
	AllowDynamicPorts bool
	UserData          interface{}
	Ports             []*Port

	onPortAdded   func(*Port)
	onPortRemoved func(*Port)
}

// AddPort appends a Port built from def under portID to n, then notifies
// the owning Graph via the PortAdded hook.
func (n *Node) AddPort(portID id.PortID, def PortDefinition) *Port {
	p := newPort(portID, n.ID, def)
	n.Ports = append(n.Ports, p)
	if n.onPortAdded != nil {
		n.onPortAdded(p)
	}

	return p
}

// RemovePort removes the Port with the given id from n, notifying the
// owning Graph via the PortRemoved hook. Reports false if no such port
// exists on n.
func (n *Node) RemovePort(portID id.PortID) (*Port, bool) {
	for i, p := range n.Ports {
		if p.ID == portID {
			n.Ports = append(n.Ports[:i], n.Ports[i+1:]...)
			if n.onPortRemoved != nil {
				n.onPortRemoved(p)
			}
			return p, true
		}
	}

	return nil, false
}

// FindPort returns the Port with the given id on n, if any.
func (n *Node) FindPort(portID id.PortID) (*Port, bool) {
	for _, p := range n.Ports {
		if p.ID == portID {
			return p, true
		}
	}

	return nil, false
}

// GetInputPorts returns n's ports with Direction == Input, in declared order.
func (n *Node) GetInputPorts() []*Port {
	out := make([]*Port, 0, len(n.Ports))
	for _, p := range n.Ports {
		if p.Direction == DirectionInput {
			out = append(out, p)
		}
	}

	return out
}

// GetOutputPorts returns n's ports with Direction == Output, in declared order.
func (n *Node) GetOutputPorts() []*Port {
	out := make([]*Port, 0, len(n.Ports))
	for _, p := range n.Ports {
		if p.Direction == DirectionOutput {
			out = append(out, p)
		}
	}

	return out
}

// GetBounds returns n's axis-aligned rectangle at its current Position/Size.
func (n *Node) GetBounds() geom.Rect {
	return geom.Rect{X: n.Position.X, Y: n.Position.Y, W: n.Size.X, H: n.Size.Y}
}

// IsBoundary reports whether n is a SubGraphFrame's representative node.
func (n *Node) IsBoundary() bool {
	return n.TypeId == BoundaryTypeID
}

// Edge is a directed connection between a source Output port and a target
// Input port, except for internal-bridge edges to a SubGraphFrame
// boundary, where direction is preserved as drawn.
type Edge struct {
	ID           id.EdgeID
	SourcePortID id.PortID
	TargetPortID id.PortID
	UserData     interface{}
}

// NodeGroup is a pure visual container: it does not partition nodes, and a
// node id may belong to any number of groups.
type NodeGroup struct {
	ID               id.GroupID
	Bounds           geom.Rect
	Title            string
	Color            geom.RGBA
	ContainedNodeIds map[id.NodeID]struct{}
}

// SubGraphFrame is a container plus boundary: it partitions node ids (a
// node belongs to at most one frame) and carries a representative node
// that holds its boundary ports.
type SubGraphFrame struct {
	ID                   id.FrameID
	Bounds               geom.Rect
	Title                string
	ContainedNodeIds     map[id.NodeID]struct{}
	IsCollapsed          bool
	RepresentativeNodeId id.NodeID
	SourceAssetId        string
}

// GraphComment is a free-floating annotation with no containment semantics.
type GraphComment struct {
	ID              id.CommentID
	Bounds          geom.Rect
	Text            string
	FontSize        float64
	TextColor       geom.RGBA
	BackgroundColor geom.RGBA
}

// containerBoundsOf computes the encapsulating rectangle of nodeRects,
// expanded by padding on every side plus a titleBar reservation at the
// top. Falls back to a 200x150 rectangle at origin when nodeRects is
// empty, matching the subgraph instantiator's fallback constant.
func containerBoundsOf(nodeRects []geom.Rect, origin geom.Vec2, padding, titleBar float64) geom.Rect {
	if len(nodeRects) == 0 {
		return geom.Rect{X: origin.X, Y: origin.Y, W: 200, H: 150}
	}
	acc := nodeRects[0]
	for _, r := range nodeRects[1:] {
		acc = acc.Union(r)
	}

	return acc.Inflate(padding, titleBar)
}

// sortedNodeIDs returns the keys of a containment set in a deterministic,
// sorted order, mirroring the teacher's sort-before-return convention for
// every map-backed query result.
func sortedNodeIDs(set map[id.NodeID]struct{}) []id.NodeID {
	out := make([]id.NodeID, 0, len(set))
	for nid := range set {
		out = append(out, nid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
