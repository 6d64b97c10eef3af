package graph

import (
	"github.com/arborist-editor/nodegraph/geom"
	"github.com/arborist-editor/nodegraph/id"
)

// FindGroup returns the group with the given id, if present.
func (g *Graph) FindGroup(groupID id.GroupID) (*NodeGroup, bool) {
	g.muEntities.Lock()
	defer g.muEntities.Unlock()
	for _, grp := range g.Groups {
		if grp.ID == groupID {
			return grp, true
		}
	}

	return nil, false
}

// FindFrame returns the subgraph frame with the given id, if present.
func (g *Graph) FindFrame(frameID id.FrameID) (*SubGraphFrame, bool) {
	g.muEntities.Lock()
	defer g.muEntities.Unlock()
	for _, f := range g.SubGraphFrames {
		if f.ID == frameID {
			return f, true
		}
	}

	return nil, false
}

// FindComment returns the comment with the given id, if present.
func (g *Graph) FindComment(commentID id.CommentID) (*GraphComment, bool) {
	g.muEntities.Lock()
	defer g.muEntities.Unlock()
	for _, c := range g.Comments {
		if c.ID == commentID {
			return c, true
		}
	}

	return nil, false
}

// FrameContaining returns the SubGraphFrame whose ContainedNodeIds
// includes nodeID, if any. A node id appears in at most one frame.
func (g *Graph) FrameContaining(nodeID id.NodeID) (*SubGraphFrame, bool) {
	g.muEntities.Lock()
	defer g.muEntities.Unlock()
	for _, f := range g.SubGraphFrames {
		if _, ok := f.ContainedNodeIds[nodeID]; ok {
			return f, true
		}
	}

	return nil, false
}

// BoundaryFrame returns the SubGraphFrame whose RepresentativeNodeId is
// nodeID, if any.
func (g *Graph) BoundaryFrame(nodeID id.NodeID) (*SubGraphFrame, bool) {
	g.muEntities.Lock()
	defer g.muEntities.Unlock()
	for _, f := range g.SubGraphFrames {
		if f.RepresentativeNodeId == nodeID {
			return f, true
		}
	}

	return nil, false
}

// AddGroupDirect inserts a fully-formed group (command/deserialization
// internal use only).
func (g *Graph) AddGroupDirect(grp *NodeGroup) {
	g.muEntities.Lock()
	if grp.ContainedNodeIds == nil {
		grp.ContainedNodeIds = make(map[id.NodeID]struct{})
	}
	g.Groups = append(g.Groups, grp)
	g.muEntities.Unlock()
}

// AddCommentDirect inserts a fully-formed comment (command/deserialization
// internal use only).
func (g *Graph) AddCommentDirect(c *GraphComment) {
	g.muEntities.Lock()
	g.Comments = append(g.Comments, c)
	g.muEntities.Unlock()
}

// AddSubGraphFrameDirect inserts a fully-formed frame (command/subgraph-
// instantiator/deserialization internal use only).
func (g *Graph) AddSubGraphFrameDirect(f *SubGraphFrame) {
	g.muEntities.Lock()
	if f.ContainedNodeIds == nil {
		f.ContainedNodeIds = make(map[id.NodeID]struct{})
	}
	g.SubGraphFrames = append(g.SubGraphFrames, f)
	g.muEntities.Unlock()
}

// RemoveGroup deletes the purely-visual group with the given id. It does
// not affect any node (groups never partition).
func (g *Graph) RemoveGroup(groupID id.GroupID) error {
	g.muEntities.Lock()
	defer g.muEntities.Unlock()
	for i, grp := range g.Groups {
		if grp.ID == groupID {
			g.Groups = append(g.Groups[:i], g.Groups[i+1:]...)
			return nil
		}
	}

	return ErrGroupNotFound
}

// RemoveSubGraphFrame deletes the subgraph frame with the given id. It does
// not touch any node; callers must first remove the contained nodes and the
// representative node themselves (the instantiate/command layers own that
// ordering).
func (g *Graph) RemoveSubGraphFrame(frameID id.FrameID) error {
	g.muEntities.Lock()
	defer g.muEntities.Unlock()
	for i, f := range g.SubGraphFrames {
		if f.ID == frameID {
			g.SubGraphFrames = append(g.SubGraphFrames[:i], g.SubGraphFrames[i+1:]...)
			return nil
		}
	}

	return ErrFrameNotFound
}

// RemoveComment deletes the comment with the given id.
func (g *Graph) RemoveComment(commentID id.CommentID) error {
	g.muEntities.Lock()
	defer g.muEntities.Unlock()
	for i, c := range g.Comments {
		if c.ID == commentID {
			g.Comments = append(g.Comments[:i], g.Comments[i+1:]...)
			return nil
		}
	}

	return ErrCommentNotFound
}

// containerTitleBarHeight is the reserved title-bar height added on top of
// padding when auto-fitting a container to its contained nodes.
const containerTitleBarHeight = 24

// AutoFitGroup computes grp's encapsulating rectangle over its contained
// nodes' current bounds, expanded by padding plus the title-bar
// reservation, and assigns it to grp.Bounds.
func (g *Graph) AutoFitGroup(grp *NodeGroup, padding float64) {
	grp.Bounds = g.autoFitBounds(grp.ContainedNodeIds, grp.Bounds.X, grp.Bounds.Y, padding)
}

// AutoFitFrame computes f's encapsulating rectangle over its contained
// nodes' current bounds, expanded by padding plus the title-bar
// reservation, and assigns it to f.Bounds.
func (g *Graph) AutoFitFrame(f *SubGraphFrame, padding float64) {
	f.Bounds = g.autoFitBounds(f.ContainedNodeIds, f.Bounds.X, f.Bounds.Y, padding)
}

func (g *Graph) autoFitBounds(contained map[id.NodeID]struct{}, originX, originY, padding float64) geom.Rect {
	ids := sortedNodeIDs(contained)
	rects := make([]geom.Rect, 0, len(ids))
	for _, nid := range ids {
		n, ok := g.FindNode(nid)
		if !ok {
			continue
		}
		rects = append(rects, n.GetBounds())
	}

	return containerBoundsOf(rects, geom.Vec2{X: originX, Y: originY}, padding, containerTitleBarHeight)
}
