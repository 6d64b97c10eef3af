package graph

import "github.com/arborist-editor/nodegraph/id"

// AddDynamicPort adds a port built from def to the node with nodeID.
// Returns ErrNodeNotFound / ErrDynamicPortsDisallowed. The node's own
// PortAdded hook (wired at registration time) keeps portByID current.
func (g *Graph) AddDynamicPort(nodeID id.NodeID, def PortDefinition) (*Port, error) {
	n, ok := g.FindNode(nodeID)
	if !ok {
		return nil, ErrNodeNotFound
	}
	if !n.AllowDynamicPorts {
		return nil, ErrDynamicPortsDisallowed
	}
	portID := id.PortID(id.Fresh(func(c string) bool {
		_, exists := g.FindPort(id.PortID(c))
		return exists
	}))

	return n.AddPort(portID, def), nil
}

// AddPortDirect adds a port built from def under the given portID
// (command-undo/deserialization internal use only — callers must ensure
// portID is not already registered). Unlike AddDynamicPort it bypasses the
// AllowDynamicPorts gate and fresh-id allocation, so a command's Undo can
// restore a previously removed port under its original id rather than a
// newly generated one.
func (g *Graph) AddPortDirect(nodeID id.NodeID, portID id.PortID, def PortDefinition) (*Port, error) {
	n, ok := g.FindNode(nodeID)
	if !ok {
		return nil, ErrNodeNotFound
	}

	return n.AddPort(portID, def), nil
}

// RemoveDynamicPort removes the port with portID from the node with
// nodeID, cascading removal of every edge touching it first. Returns
// ErrNodeNotFound / ErrDynamicPortsDisallowed / ErrPortNotFound.
func (g *Graph) RemoveDynamicPort(nodeID id.NodeID, portID id.PortID) (*Port, error) {
	n, ok := g.FindNode(nodeID)
	if !ok {
		return nil, ErrNodeNotFound
	}
	if !n.AllowDynamicPorts {
		return nil, ErrDynamicPortsDisallowed
	}
	if _, ok := n.FindPort(portID); !ok {
		return nil, ErrPortNotFound
	}
	for _, e := range g.EdgesForPort(portID) {
		_ = g.removeEdgeInternal(e.ID)
	}
	p, _ := n.RemovePort(portID)

	return p, nil
}
