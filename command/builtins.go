package command

import (
	"fmt"

	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
	"github.com/arborist-editor/nodegraph/subgraph"
)

// AddNodeCommand creates a node of TypeId at Position on Execute, and
// removes it on Undo.
type AddNodeCommand struct {
	TypeId   string
	Position geom.Vec2

	created *graph.Node
}

func (c *AddNodeCommand) Description() string { return fmt.Sprintf("Add %s", c.TypeId) }

func (c *AddNodeCommand) Execute(g *graph.Graph) error {
	n, err := g.AddNode(c.TypeId, c.Position)
	if err != nil {
		return err
	}
	c.created = n

	return nil
}

func (c *AddNodeCommand) Undo(g *graph.Graph) error {
	return g.RemoveNode(c.created.ID)
}

// RemoveNodeCommand snapshots the target node's state (ports, user-data,
// position, and every touching edge) before deleting it, so Undo can
// re-insert the node and those edges under their original ids. Undo does
// not re-add the node id to the groups and frames whose containment sets
// Graph.RemoveNode dropped it from.
type RemoveNodeCommand struct {
	NodeID id.NodeID

	snapshotNode  *graph.Node
	snapshotEdges []*graph.Edge
}

func (c *RemoveNodeCommand) Description() string { return "Remove node" }

func (c *RemoveNodeCommand) Execute(g *graph.Graph) error {
	n, ok := g.FindNode(c.NodeID)
	if !ok {
		return graph.ErrNodeNotFound
	}
	c.snapshotNode = cloneNode(n)
	seen := make(map[id.EdgeID]struct{})
	c.snapshotEdges = nil
	for _, p := range n.Ports {
		for _, e := range g.EdgesForPort(p.ID) {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			c.snapshotEdges = append(c.snapshotEdges, cloneEdge(e))
		}
	}

	return g.RemoveNode(c.NodeID)
}

func (c *RemoveNodeCommand) Undo(g *graph.Graph) error {
	g.AddNodeDirect(cloneNode(c.snapshotNode))
	for _, e := range c.snapshotEdges {
		g.AddEdgeDirect(cloneEdge(e))
	}

	return nil
}

func cloneNode(n *graph.Node) *graph.Node {
	cp := &graph.Node{
		ID:                n.ID,
		TypeId:            n.TypeId,
		Position:          n.Position,
		Size:              n.Size,
		DisplayMode:       n.DisplayMode,
		State:             n.State,
		AllowDynamicPorts: n.AllowDynamicPorts,
		UserData:          n.UserData,
	}
	for _, p := range n.Ports {
		cp.AddPort(p.ID, graph.PortDefinition{
			Name: p.Name, SemanticId: p.SemanticId, Direction: p.Direction,
			Kind: p.Kind, DataType: p.DataType, Capacity: p.Capacity, SortOrder: p.SortOrder,
		})
	}

	return cp
}

func cloneEdge(e *graph.Edge) *graph.Edge {
	return &graph.Edge{ID: e.ID, SourcePortID: e.SourcePortID, TargetPortID: e.TargetPortID, UserData: e.UserData}
}

// MoveNodeCommand records the old/new position of a node move and is the
// single place that raises NodeMoved: the low-level Graph.MoveNode stays
// signal-free.
type MoveNodeCommand struct {
	NodeID id.NodeID
	To     geom.Vec2

	from geom.Vec2
}

func (c *MoveNodeCommand) Description() string { return "Move node" }

func (c *MoveNodeCommand) Execute(g *graph.Graph) error {
	n, ok := g.FindNode(c.NodeID)
	if !ok {
		return graph.ErrNodeNotFound
	}
	c.from = n.Position
	if err := g.MoveNode(c.NodeID, c.To); err != nil {
		return err
	}
	g.Events.EmitNodeMoved(graph.NodeMovedEvent{Node: n, From: c.from, To: c.To})

	return nil
}

func (c *MoveNodeCommand) Undo(g *graph.Graph) error {
	n, ok := g.FindNode(c.NodeID)
	if !ok {
		return graph.ErrNodeNotFound
	}
	if err := g.MoveNode(c.NodeID, c.from); err != nil {
		return err
	}
	g.Events.EmitNodeMoved(graph.NodeMovedEvent{Node: n, From: c.To, To: c.from})

	return nil
}

// ConnectCommand records the created edge and any displaced edge, so Undo
// removes the new one and re-creates the displaced one.
type ConnectCommand struct {
	SourcePortID id.PortID
	TargetPortID id.PortID

	created   *graph.Edge
	displaced *graph.Edge
}

func (c *ConnectCommand) Description() string { return "Connect" }

func (c *ConnectCommand) Execute(g *graph.Graph) error {
	res := g.Connect(c.SourcePortID, c.TargetPortID)
	if res.Rejected {
		return fmt.Errorf("command: connect rejected: %s", res.Reason)
	}
	c.created = res.CreatedEdge
	c.displaced = res.DisplacedEdge

	return nil
}

func (c *ConnectCommand) Undo(g *graph.Graph) error {
	if err := g.Disconnect(c.created.ID); err != nil {
		return err
	}
	if c.displaced != nil {
		g.AddEdgeDirect(cloneEdge(c.displaced))
	}

	return nil
}

// DisconnectCommand snapshots the removed edge so Undo can recreate it.
type DisconnectCommand struct {
	EdgeID id.EdgeID

	snapshot *graph.Edge
}

func (c *DisconnectCommand) Description() string { return "Disconnect" }

func (c *DisconnectCommand) Execute(g *graph.Graph) error {
	e, ok := g.FindEdge(c.EdgeID)
	if !ok {
		return graph.ErrEdgeNotFound
	}
	c.snapshot = cloneEdge(e)

	return g.Disconnect(c.EdgeID)
}

func (c *DisconnectCommand) Undo(g *graph.Graph) error {
	g.AddEdgeDirect(cloneEdge(c.snapshot))

	return nil
}

// AddPortCommand adds a dynamic port to a node and removes it on Undo.
type AddPortCommand struct {
	NodeID id.NodeID
	Def    graph.PortDefinition

	created *graph.Port
}

func (c *AddPortCommand) Description() string { return fmt.Sprintf("Add port %s", c.Def.Name) }

func (c *AddPortCommand) Execute(g *graph.Graph) error {
	p, err := g.AddDynamicPort(c.NodeID, c.Def)
	if err != nil {
		return err
	}
	c.created = p

	return nil
}

func (c *AddPortCommand) Undo(g *graph.Graph) error {
	_, err := g.RemoveDynamicPort(c.NodeID, c.created.ID)

	return err
}

// RemovePortCommand snapshots the removed port (and every edge touching
// it) so Undo can restore both.
type RemovePortCommand struct {
	NodeID id.NodeID
	PortID id.PortID

	snapshotDef   graph.PortDefinition
	snapshotEdges []*graph.Edge
}

func (c *RemovePortCommand) Description() string { return "Remove port" }

func (c *RemovePortCommand) Execute(g *graph.Graph) error {
	n, ok := g.FindNode(c.NodeID)
	if !ok {
		return graph.ErrNodeNotFound
	}
	p, ok := n.FindPort(c.PortID)
	if !ok {
		return graph.ErrPortNotFound
	}
	c.snapshotDef = graph.PortDefinition{
		Name: p.Name, SemanticId: p.SemanticId, Direction: p.Direction,
		Kind: p.Kind, DataType: p.DataType, Capacity: p.Capacity, SortOrder: p.SortOrder,
	}
	c.snapshotEdges = nil
	for _, e := range g.EdgesForPort(c.PortID) {
		c.snapshotEdges = append(c.snapshotEdges, cloneEdge(e))
	}
	_, err := g.RemoveDynamicPort(c.NodeID, c.PortID)

	return err
}

func (c *RemovePortCommand) Undo(g *graph.Graph) error {
	_, err := g.AddPortDirect(c.NodeID, c.PortID, c.snapshotDef)
	if err != nil {
		return err
	}
	for _, e := range c.snapshotEdges {
		g.AddEdgeDirect(cloneEdge(e))
	}

	return nil
}

// ChangeNodeDataCommand swaps a node's UserData payload.
type ChangeNodeDataCommand struct {
	NodeID  id.NodeID
	NewData interface{}

	oldData interface{}
}

func (c *ChangeNodeDataCommand) Description() string { return "Change node data" }

func (c *ChangeNodeDataCommand) Execute(g *graph.Graph) error {
	n, ok := g.FindNode(c.NodeID)
	if !ok {
		return graph.ErrNodeNotFound
	}
	c.oldData = n.UserData
	n.UserData = c.NewData

	return nil
}

func (c *ChangeNodeDataCommand) Undo(g *graph.Graph) error {
	n, ok := g.FindNode(c.NodeID)
	if !ok {
		return graph.ErrNodeNotFound
	}
	n.UserData = c.oldData

	return nil
}

// ChangeEdgeDataCommand swaps an edge's UserData payload.
type ChangeEdgeDataCommand struct {
	EdgeID  id.EdgeID
	NewData interface{}

	oldData interface{}
}

func (c *ChangeEdgeDataCommand) Description() string { return "Change edge data" }

func (c *ChangeEdgeDataCommand) Execute(g *graph.Graph) error {
	e, ok := g.FindEdge(c.EdgeID)
	if !ok {
		return graph.ErrEdgeNotFound
	}
	c.oldData = e.UserData
	e.UserData = c.NewData

	return nil
}

func (c *ChangeEdgeDataCommand) Undo(g *graph.Graph) error {
	e, ok := g.FindEdge(c.EdgeID)
	if !ok {
		return graph.ErrEdgeNotFound
	}
	e.UserData = c.oldData

	return nil
}

// CreateGroupCommand adds a purely-visual NodeGroup and removes it on Undo.
type CreateGroupCommand struct {
	Group *graph.NodeGroup
}

func (c *CreateGroupCommand) Description() string { return "Create group" }

func (c *CreateGroupCommand) Execute(g *graph.Graph) error {
	g.AddGroupDirect(c.Group)

	return nil
}

func (c *CreateGroupCommand) Undo(g *graph.Graph) error {
	return g.RemoveGroup(c.Group.ID)
}

// CreateCommentCommand adds a GraphComment and removes it on Undo.
type CreateCommentCommand struct {
	Comment *graph.GraphComment
}

func (c *CreateCommentCommand) Description() string { return "Create comment" }

func (c *CreateCommentCommand) Execute(g *graph.Graph) error {
	g.AddCommentDirect(c.Comment)

	return nil
}

func (c *CreateCommentCommand) Undo(g *graph.Graph) error {
	return g.RemoveComment(c.Comment.ID)
}

// ChangeDisplayModeCommand swaps a node's DisplayMode.
type ChangeDisplayModeCommand struct {
	NodeID id.NodeID
	Mode   graph.DisplayMode

	old graph.DisplayMode
}

func (c *ChangeDisplayModeCommand) Description() string { return "Change display mode" }

func (c *ChangeDisplayModeCommand) Execute(g *graph.Graph) error {
	n, ok := g.FindNode(c.NodeID)
	if !ok {
		return graph.ErrNodeNotFound
	}
	c.old = n.DisplayMode
	n.DisplayMode = c.Mode

	return nil
}

func (c *ChangeDisplayModeCommand) Undo(g *graph.Graph) error {
	n, ok := g.FindNode(c.NodeID)
	if !ok {
		return graph.ErrNodeNotFound
	}
	n.DisplayMode = c.old

	return nil
}

// ToggleSubGraphCollapseCommand flips a SubGraphFrame's IsCollapsed flag.
type ToggleSubGraphCollapseCommand struct {
	FrameID id.FrameID
}

func (c *ToggleSubGraphCollapseCommand) Description() string { return "Toggle subgraph collapse" }

func (c *ToggleSubGraphCollapseCommand) Execute(g *graph.Graph) error {
	f, ok := g.FindFrame(c.FrameID)
	if !ok {
		return graph.ErrFrameNotFound
	}
	f.IsCollapsed = !f.IsCollapsed

	return nil
}

func (c *ToggleSubGraphCollapseCommand) Undo(g *graph.Graph) error {
	return c.Execute(g)
}

// CreateSubGraphCommand delegates to the subgraph instantiator, recording
// every new id so Undo can tear the whole instantiation back down.
type CreateSubGraphCommand struct {
	Src                   *graph.Graph
	Title                 string
	Offset                geom.Vec2
	ExplicitBoundaryPorts []graph.PortDefinition
	SourceAssetId         string

	createdFrame *graph.SubGraphFrame
}

func (c *CreateSubGraphCommand) Description() string { return fmt.Sprintf("Create subgraph %s", c.Title) }

func (c *CreateSubGraphCommand) Execute(g *graph.Graph) error {
	frame, err := subgraph.Instantiate(g, c.Src, c.Title, c.Offset, c.ExplicitBoundaryPorts, c.SourceAssetId)
	if err != nil {
		return err
	}
	c.createdFrame = frame

	return nil
}

func (c *CreateSubGraphCommand) Undo(g *graph.Graph) error {
	for nodeID := range c.createdFrame.ContainedNodeIds {
		_ = g.RemoveNode(nodeID)
	}
	_ = g.RemoveNode(c.createdFrame.RepresentativeNodeId)
	_ = g.RemoveSubGraphFrame(c.createdFrame.ID)

	return nil
}

// PasteCommand delegates to the subgraph instantiator using an
// already-deserialized clipboard graph as its source (deserialization
// itself is the serialize package's responsibility).
type PasteCommand struct {
	Clipboard *graph.Graph
	Offset    geom.Vec2

	createdFrame *graph.SubGraphFrame
}

func (c *PasteCommand) Description() string { return "Paste" }

func (c *PasteCommand) Execute(g *graph.Graph) error {
	frame, err := subgraph.Instantiate(g, c.Clipboard, "Pasted", c.Offset, nil, "")
	if err != nil {
		return err
	}
	c.createdFrame = frame

	return nil
}

func (c *PasteCommand) Undo(g *graph.Graph) error {
	for nodeID := range c.createdFrame.ContainedNodeIds {
		_ = g.RemoveNode(nodeID)
	}
	_ = g.RemoveNode(c.createdFrame.RepresentativeNodeId)
	_ = g.RemoveSubGraphFrame(c.createdFrame.ID)

	return nil
}
