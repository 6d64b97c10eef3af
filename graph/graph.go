package graph

import (
	"sort"
	"sync"

	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/id"
	"github.com/rs/zerolog"
)

// Graph is the aggregate root: it owns every entity list, maintains the
// four secondary indices (nodeByID, edgeByID, portByID, edgesByPort), and
// emits lifecycle events so listeners can react to index-consistent
// state. muEntities guards Nodes/Groups/SubGraphFrames/Comments; muEdges
// guards Edges and the port/edge indices — mirroring the teacher's
// two-lock split for vertices vs. edges+adjacency.
type Graph struct {
	muEntities sync.Mutex
	muEdges    sync.Mutex

	ID       id.GraphID
	Settings GraphSettings
	Events   *Events

	Nodes          []*Node
	Edges          []*Edge
	Groups         []*NodeGroup
	SubGraphFrames []*SubGraphFrame
	Comments       []*GraphComment

	log zerolog.Logger

	nodeByID    map[id.NodeID]*Node
	edgeByID    map[id.EdgeID]*Edge
	portByID    map[id.PortID]*Port
	edgesByPort map[id.PortID]map[id.EdgeID]struct{}
}

// GraphOption configures a Graph at construction time.
type GraphOption func(*Graph)

// WithLogger attaches a structured logger; the zero value disables logging.
func WithLogger(l zerolog.Logger) GraphOption {
	return func(g *Graph) { g.log = l }
}

// NewGraph constructs an empty Graph with the given settings and options.
// Complexity: O(1).
func NewGraph(settings GraphSettings, opts ...GraphOption) *Graph {
	g := &Graph{
		ID:          id.GraphID(id.New()),
		Settings:    settings,
		Events:      NewEvents(),
		nodeByID:    make(map[id.NodeID]*Node),
		edgeByID:    make(map[id.EdgeID]*Edge),
		portByID:    make(map[id.PortID]*Port),
		edgesByPort: make(map[id.PortID]map[id.EdgeID]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// --- lookups ---------------------------------------------------------------

// FindNode returns the node with the given id, if present.
func (g *Graph) FindNode(nodeID id.NodeID) (*Node, bool) {
	g.muEntities.Lock()
	defer g.muEntities.Unlock()
	n, ok := g.nodeByID[nodeID]

	return n, ok
}

// FindPort returns the port with the given id, if present.
func (g *Graph) FindPort(portID id.PortID) (*Port, bool) {
	g.muEntities.Lock()
	defer g.muEntities.Unlock()
	p, ok := g.portByID[portID]

	return p, ok
}

// FindEdge returns the edge with the given id, if present.
func (g *Graph) FindEdge(edgeID id.EdgeID) (*Edge, bool) {
	g.muEdges.Lock()
	defer g.muEdges.Unlock()
	e, ok := g.edgeByID[edgeID]

	return e, ok
}

// GetEdgeCountForPort returns the number of edges currently touching portID.
func (g *Graph) GetEdgeCountForPort(portID id.PortID) int {
	g.muEdges.Lock()
	defer g.muEdges.Unlock()

	return len(g.edgesByPort[portID])
}

// EdgesForPort returns the edges currently touching portID, sorted by id
// for determinism.
func (g *Graph) EdgesForPort(portID id.PortID) []*Edge {
	g.muEdges.Lock()
	defer g.muEdges.Unlock()
	out := make([]*Edge, 0, len(g.edgesByPort[portID]))
	for eid := range g.edgesByPort[portID] {
		out = append(out, g.edgeByID[eid])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// AllNodes returns every node currently in g, sorted by id for
// deterministic iteration.
func (g *Graph) AllNodes() []*Node {
	g.muEntities.Lock()
	defer g.muEntities.Unlock()
	out := make([]*Node, len(g.Nodes))
	copy(out, g.Nodes)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// AllEdges returns every edge currently in g, sorted by id for
// deterministic iteration.
func (g *Graph) AllEdges() []*Edge {
	g.muEdges.Lock()
	defer g.muEdges.Unlock()
	out := make([]*Edge, len(g.Edges))
	copy(out, g.Edges)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// --- node lifecycle ----------------------------------------------------

// AddNode creates a Node of typeId at position, synthesizing its default
// ports and UserData from the configured NodeTypeCatalog. Returns
// ErrUnknownNodeType if typeId is not registered (unless typeId is the
// reserved boundary type, which has no catalog entry by design).
func (g *Graph) AddNode(typeId string, position geom.Vec2) (*Node, error) {
	var def NodeTypeDefinition
	if typeId != BoundaryTypeID {
		var ok bool
		if g.Settings.NodeTypeCatalog == nil {
			return nil, ErrUnknownNodeType
		}
		def, ok = g.Settings.NodeTypeCatalog.GetNodeType(typeId)
		if !ok {
			return nil, ErrUnknownNodeType
		}
	}

	n := g.buildNode(typeId, position, def)
	g.registerNode(n)
	g.log.Debug().Str("node", string(n.ID)).Str("type", typeId).Msg("node added")
	g.Events.emitNodeAdded(NodeAddedEvent{Node: n})

	return n, nil
}

// AddNodeDirect inserts a fully-formed node (e.g. from deserialization or a
// command replaying a snapshot) bypassing catalog synthesis. It is
// command-internal/deserialization-internal; callers must ensure all port
// ids are already globally unique.
func (g *Graph) AddNodeDirect(n *Node) {
	g.wireNodeHooks(n)
	g.registerNode(n)
	g.Events.emitNodeAdded(NodeAddedEvent{Node: n})
}

func (g *Graph) buildNode(typeId string, position geom.Vec2, def NodeTypeDefinition) *Node {
	nodeID := id.NodeID(id.Fresh(func(c string) bool {
		_, exists := g.FindNode(id.NodeID(c))
		return exists
	}))
	n := &Node{
		ID:          nodeID,
		TypeId:      typeId,
		Position:    position,
		DisplayMode: DisplayExpanded,
		State:       StateNormal,
	}
	if def.NewUserData != nil {
		n.UserData = def.NewUserData()
	}
	g.wireNodeHooks(n)
	for _, pd := range def.DefaultPorts {
		portID := id.PortID(id.Fresh(func(c string) bool {
			_, exists := g.FindPort(id.PortID(c))
			return exists
		}))
		n.AddPort(portID, pd)
	}

	return n
}

// wireNodeHooks connects a Node's PortAdded/PortRemoved hooks to this
// Graph's index-maintenance callbacks, per the node→graph private channel
// design note: dynamic port churn on a node flows into the Graph's
// portByID/edgesByPort indices exclusively through these hooks.
func (g *Graph) wireNodeHooks(n *Node) {
	n.onPortAdded = func(p *Port) {
		g.muEntities.Lock()
		g.portByID[p.ID] = p
		g.muEntities.Unlock()
		g.Events.emitPortAdded(PortAddedEvent{Node: n, Port: p})
	}
	n.onPortRemoved = func(p *Port) {
		g.muEntities.Lock()
		delete(g.portByID, p.ID)
		g.muEntities.Unlock()
		g.muEdges.Lock()
		delete(g.edgesByPort, p.ID)
		g.muEdges.Unlock()
		g.Events.emitPortRemoved(PortRemovedEvent{Node: n, Port: p})
	}
}

func (g *Graph) registerNode(n *Node) {
	g.muEntities.Lock()
	g.Nodes = append(g.Nodes, n)
	g.nodeByID[n.ID] = n
	for _, p := range n.Ports {
		g.portByID[p.ID] = p
	}
	g.muEntities.Unlock()
}

// RemoveNode deletes node, cascading: every edge touching any of its
// ports is removed first (NodeRemoved is emitted before this structural
// work so listeners can still resolve the node's ports), then the node id
// is dropped from every group's and frame's containment set, then the
// node and its ports are unregistered from every index.
func (g *Graph) RemoveNode(nodeID id.NodeID) error {
	n, ok := g.FindNode(nodeID)
	if !ok {
		return ErrNodeNotFound
	}

	g.Events.emitNodeRemoved(NodeRemovedEvent{Node: n})

	seen := make(map[id.EdgeID]struct{})
	for _, p := range n.Ports {
		for _, e := range g.EdgesForPort(p.ID) {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			_ = g.removeEdgeInternal(e.ID)
		}
	}

	g.muEntities.Lock()
	for _, grp := range g.Groups {
		delete(grp.ContainedNodeIds, nodeID)
	}
	for _, frame := range g.SubGraphFrames {
		delete(frame.ContainedNodeIds, nodeID)
	}
	for _, p := range n.Ports {
		delete(g.portByID, p.ID)
	}
	delete(g.nodeByID, nodeID)
	for i, cand := range g.Nodes {
		if cand.ID == nodeID {
			g.Nodes = append(g.Nodes[:i], g.Nodes[i+1:]...)
			break
		}
	}
	g.muEntities.Unlock()
	g.log.Debug().Str("node", string(nodeID)).Msg("node removed")

	return nil
}

// MoveNode updates a node's position directly. This is the low-level path
// and intentionally emits no event: NodeMoved is raised by MoveNodeCommand,
// not here, so a command can batch a move with other changes under one
// undo step.
func (g *Graph) MoveNode(nodeID id.NodeID, position geom.Vec2) error {
	n, ok := g.FindNode(nodeID)
	if !ok {
		return ErrNodeNotFound
	}
	g.muEntities.Lock()
	n.Position = position
	g.muEntities.Unlock()

	return nil
}
