package graph

import "github.com/arborist-editor/nodegraph/geom"

// Event payloads are borrowed references valid only for the duration of
// the callback that receives them; listeners must not retain pointers
// past their callback nor mutate the Graph from inside it (they may
// queue a follow-up command instead). The Graph never re-enters itself
// from a listener.

// NodeAddedEvent is emitted after a Node and its default ports are fully
// registered in every index.
type NodeAddedEvent struct{ Node *Node }

// NodeRemovedEvent is emitted BEFORE structural removal, so listeners can
// still resolve the node's ports and containment.
type NodeRemovedEvent struct{ Node *Node }

// NodeMovedEvent is emitted by MoveNodeCommand, not by the low-level
// Graph.MoveNode, so a command can batch a move with other mutations
// under one notification.
type NodeMovedEvent struct {
	Node *Node
	From geom.Vec2
	To   geom.Vec2
}

// EdgeAddedEvent is emitted after an Edge is fully registered in every index.
type EdgeAddedEvent struct{ Edge *Edge }

// EdgeRemovedEvent is emitted BEFORE structural removal, so listeners can
// still resolve the edge's endpoints.
type EdgeRemovedEvent struct{ Edge *Edge }

// PortAddedEvent is emitted when a dynamic port is added to a node.
type PortAddedEvent struct {
	Node *Node
	Port *Port
}

// PortRemovedEvent is emitted when a dynamic port is removed from a node.
type PortRemovedEvent struct {
	Node *Node
	Port *Port
}

// Unsubscribe removes a previously registered listener.
type Unsubscribe func()

// Events is the Graph's signal-registration hub. Listeners are invoked
// synchronously, in registration order.
type Events struct {
	onNodeAdded   []func(NodeAddedEvent)
	onNodeRemoved []func(NodeRemovedEvent)
	onNodeMoved   []func(NodeMovedEvent)
	onEdgeAdded   []func(EdgeAddedEvent)
	onEdgeRemoved []func(EdgeRemovedEvent)
	onPortAdded   []func(PortAddedEvent)
	onPortRemoved []func(PortRemovedEvent)
}

// NewEvents returns an empty signal hub.
func NewEvents() *Events {
	return &Events{}
}

func (e *Events) OnNodeAdded(fn func(NodeAddedEvent)) Unsubscribe {
	e.onNodeAdded = append(e.onNodeAdded, fn)
	idx := len(e.onNodeAdded) - 1
	return func() { e.onNodeAdded[idx] = nil }
}

func (e *Events) OnNodeRemoved(fn func(NodeRemovedEvent)) Unsubscribe {
	e.onNodeRemoved = append(e.onNodeRemoved, fn)
	idx := len(e.onNodeRemoved) - 1
	return func() { e.onNodeRemoved[idx] = nil }
}

func (e *Events) OnNodeMoved(fn func(NodeMovedEvent)) Unsubscribe {
	e.onNodeMoved = append(e.onNodeMoved, fn)
	idx := len(e.onNodeMoved) - 1
	return func() { e.onNodeMoved[idx] = nil }
}

func (e *Events) OnEdgeAdded(fn func(EdgeAddedEvent)) Unsubscribe {
	e.onEdgeAdded = append(e.onEdgeAdded, fn)
	idx := len(e.onEdgeAdded) - 1
	return func() { e.onEdgeAdded[idx] = nil }
}

func (e *Events) OnEdgeRemoved(fn func(EdgeRemovedEvent)) Unsubscribe {
	e.onEdgeRemoved = append(e.onEdgeRemoved, fn)
	idx := len(e.onEdgeRemoved) - 1
	return func() { e.onEdgeRemoved[idx] = nil }
}

func (e *Events) OnPortAdded(fn func(PortAddedEvent)) Unsubscribe {
	e.onPortAdded = append(e.onPortAdded, fn)
	idx := len(e.onPortAdded) - 1
	return func() { e.onPortAdded[idx] = nil }
}

func (e *Events) OnPortRemoved(fn func(PortRemovedEvent)) Unsubscribe {
	e.onPortRemoved = append(e.onPortRemoved, fn)
	idx := len(e.onPortRemoved) - 1
	return func() { e.onPortRemoved[idx] = nil }
}

func (e *Events) emitNodeAdded(ev NodeAddedEvent) {
	for _, fn := range e.onNodeAdded {
		if fn != nil {
			fn(ev)
		}
	}
}

func (e *Events) emitNodeRemoved(ev NodeRemovedEvent) {
	for _, fn := range e.onNodeRemoved {
		if fn != nil {
			fn(ev)
		}
	}
}

// EmitNodeMoved raises NodeMoved. Exported because, unlike every other
// event, NodeMoved is raised by the command layer rather than by Graph's
// own low-level mutation method.
func (e *Events) EmitNodeMoved(ev NodeMovedEvent) {
	e.emitNodeMoved(ev)
}

func (e *Events) emitNodeMoved(ev NodeMovedEvent) {
	for _, fn := range e.onNodeMoved {
		if fn != nil {
			fn(ev)
		}
	}
}

func (e *Events) emitEdgeAdded(ev EdgeAddedEvent) {
	for _, fn := range e.onEdgeAdded {
		if fn != nil {
			fn(ev)
		}
	}
}

func (e *Events) emitEdgeRemoved(ev EdgeRemovedEvent) {
	for _, fn := range e.onEdgeRemoved {
		if fn != nil {
			fn(ev)
		}
	}
}

func (e *Events) emitPortAdded(ev PortAddedEvent) {
	for _, fn := range e.onPortAdded {
		if fn != nil {
			fn(ev)
		}
	}
}

func (e *Events) emitPortRemoved(ev PortRemovedEvent) {
	for _, fn := range e.onPortRemoved {
		if fn != nil {
			fn(ev)
		}
	}
}
