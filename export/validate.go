package export

import (
	"fmt"

	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
)

// Validator inspects a flattened Blueprint (and, where a check needs
// context Blueprint doesn't carry, the source Graph) and returns any
// findings. Validators run as a slice in sequence, with all results
// concatenated (unlike connection.Validator, whose chain stops at the
// first non-Success result).
type Validator func(g *graph.Graph, bp *Blueprint) []Message

// structuralValidate runs the four checks spec.md mandates unconditionally:
// exactly one action of the designated entry type (when one is
// configured), every action's TypeId registered, every action touched by
// at least one edge, and every non-bridge edge running Output→Input.
func structuralValidate(g *graph.Graph, bp *Blueprint, cfg *Config, boundary map[id.NodeID]bool) []Message {
	var msgs []Message

	if cfg.entryType != "" {
		count := 0
		for _, a := range bp.Actions {
			if a.TypeId == cfg.entryType {
				count++
			}
		}
		switch {
		case count == 0:
			msgs = append(msgs, Message{Error, fmt.Sprintf("no action of entry type %q", cfg.entryType)})
		case count > 1:
			msgs = append(msgs, Message{Error, fmt.Sprintf("%d actions of entry type %q, want exactly 1", count, cfg.entryType)})
		}
	}

	for _, a := range bp.Actions {
		if g.Settings.NodeTypeCatalog != nil {
			if _, ok := g.Settings.NodeTypeCatalog.GetNodeType(a.TypeId); !ok {
				msgs = append(msgs, Message{Error, fmt.Sprintf("action %s has unregistered type %q", a.Id, a.TypeId)})
			}
		}
		if !hasIncidentEdge(g, a.Id) {
			msgs = append(msgs, Message{Warning, fmt.Sprintf("action %s (%s) has no incident edge", a.Id, a.TypeId)})
		}
	}

	msgs = append(msgs, checkNonBridgeDirection(g, boundary)...)

	return msgs
}

func hasIncidentEdge(g *graph.Graph, nodeID id.NodeID) bool {
	n, ok := g.FindNode(nodeID)
	if !ok {
		return false
	}
	for _, p := range n.Ports {
		if g.GetEdgeCountForPort(p.ID) > 0 {
			return true
		}
	}

	return false
}

// checkNonBridgeDirection flags any edge with neither endpoint boundary
// that does not run Output→Input; edges touching a boundary port are
// exempt, since the boundary-bridge scope waives direction by design.
func checkNonBridgeDirection(g *graph.Graph, boundary map[id.NodeID]bool) []Message {
	var msgs []Message
	for _, e := range g.AllEdges() {
		sp, okS := g.FindPort(e.SourcePortID)
		tp, okT := g.FindPort(e.TargetPortID)
		if !okS || !okT {
			continue
		}
		if boundary[sp.NodeID] || boundary[tp.NodeID] {
			continue
		}
		if sp.Direction != graph.DirectionOutput || tp.Direction != graph.DirectionInput {
			msgs = append(msgs, Message{Error, fmt.Sprintf("edge %s is not Output→Input", e.ID)})
		}
	}

	return msgs
}

// PropertyRequired flags every action of typeID missing key among its
// flattened properties.
func PropertyRequired(typeID, key string) Validator {
	return func(g *graph.Graph, bp *Blueprint) []Message {
		var msgs []Message
		for _, a := range bp.Actions {
			if a.TypeId != typeID {
				continue
			}
			found := false
			for _, p := range a.Properties {
				if p.Key == key {
					found = true
					break
				}
			}
			if !found {
				msgs = append(msgs, Message{Error, fmt.Sprintf("action %s (%s) missing required property %q", a.Id, a.TypeId, key)})
			}
		}

		return msgs
	}
}

// BindingRequired flags every action of typeID with no scene bindings.
func BindingRequired(typeID string) Validator {
	return func(g *graph.Graph, bp *Blueprint) []Message {
		var msgs []Message
		for _, a := range bp.Actions {
			if a.TypeId != typeID {
				continue
			}
			if len(a.Bindings) == 0 {
				msgs = append(msgs, Message{Error, fmt.Sprintf("action %s (%s) missing required scene binding", a.Id, a.TypeId)})
			}
		}

		return msgs
	}
}

// MinNodesInSubGraph flags frameID if it contains fewer than min nodes.
func MinNodesInSubGraph(frameID id.FrameID, min int) Validator {
	return func(g *graph.Graph, bp *Blueprint) []Message {
		f, ok := g.FindFrame(frameID)
		if !ok {
			return []Message{{Warning, fmt.Sprintf("subgraph frame %s not found", frameID)}}
		}
		if len(f.ContainedNodeIds) < min {
			return []Message{{Error, fmt.Sprintf("subgraph frame %s has %d nodes, want at least %d", frameID, len(f.ContainedNodeIds), min)}}
		}

		return nil
	}
}
