// Package topology implements the structural queries and algorithms that
// run over a *graph.Graph's current edge set: cycle prediction, Kahn's
// topological sort, reachability, and connected-component partitioning.
// Every function here is a pure read over the graph; none of them mutate
// it or raise signals.
package topology

import (
	"errors"
	"sort"

	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
)

// ErrCycleDetected is returned by TopologicalSort when the current edge
// set is not a DAG.
var ErrCycleDetected = errors.New("topology: cycle detected")

// adjacency builds an outgoing-neighbor map over every node currently in
// g, keyed by NodeID, values sorted for deterministic traversal order.
func adjacency(g *graph.Graph) map[id.NodeID][]id.NodeID {
	nodes := g.AllNodes()
	out := make(map[id.NodeID][]id.NodeID, len(nodes))
	for _, n := range nodes {
		out[n.ID] = nil
	}
	for _, e := range g.AllEdges() {
		src, ok1 := g.FindPort(e.SourcePortID)
		tgt, ok2 := g.FindPort(e.TargetPortID)
		if !ok1 || !ok2 {
			continue
		}
		out[src.NodeID] = append(out[src.NodeID], tgt.NodeID)
	}
	for k := range out {
		sort.Slice(out[k], func(i, j int) bool { return out[k][i] < out[k][j] })
	}

	return out
}

// WouldCreateCycle reports whether adding a directed edge from->to would
// introduce a cycle into g's current edge set, without mutating g. Used
// by the connection policy before an edge is actually created.
func WouldCreateCycle(g *graph.Graph, from, to id.NodeID) bool {
	if from == to {
		return true
	}
	adj := adjacency(g)
	// A new from->to edge closes a cycle iff to can already reach from.
	visited := map[id.NodeID]bool{to: true}
	stack := []id.NodeID{to}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == from {
			return true
		}
		for _, nbr := range adj[n] {
			if !visited[nbr] {
				visited[nbr] = true
				stack = append(stack, nbr)
			}
		}
	}

	return false
}

// HasCycle reports whether g's current edge set contains any cycle.
func HasCycle(g *graph.Graph) bool {
	_, err := TopologicalSort(g)

	return errors.Is(err, ErrCycleDetected)
}

// TopologicalSort returns a linear ordering of every node in g such that
// for every edge source->target, source precedes target, computed via
// Kahn's algorithm (repeatedly peel off zero-indegree nodes). Returns
// ErrCycleDetected if the current edge set is not a DAG. Ties among
// available roots at each step are broken by NodeID for determinism.
func TopologicalSort(g *graph.Graph) ([]id.NodeID, error) {
	adj := adjacency(g)
	indegree := make(map[id.NodeID]int, len(adj))
	for n := range adj {
		indegree[n] = 0
	}
	for _, nbrs := range adj {
		for _, nbr := range nbrs {
			indegree[nbr]++
		}
	}

	var ready []id.NodeID
	for n, d := range indegree {
		if d == 0 {
			ready = append(ready, n)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	order := make([]id.NodeID, 0, len(adj))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, nbr := range adj[n] {
			indegree[nbr]--
			if indegree[nbr] == 0 {
				ready = append(ready, nbr)
			}
		}
	}

	if len(order) != len(adj) {
		return nil, ErrCycleDetected
	}

	return order, nil
}

// GetRootNodes returns the NodeIDs of every node with no incoming edges,
// sorted for determinism.
func GetRootNodes(g *graph.Graph) []id.NodeID {
	hasIncoming := make(map[id.NodeID]bool)
	for to, froms := range reverseAdjacency(g) {
		if len(froms) > 0 {
			hasIncoming[to] = true
		}
	}

	return filterSorted(g, func(n id.NodeID) bool { return !hasIncoming[n] })
}

// GetLeafNodes returns the NodeIDs of every node with no outgoing edges,
// sorted for determinism.
func GetLeafNodes(g *graph.Graph) []id.NodeID {
	adj := adjacency(g)

	return filterSorted(g, func(n id.NodeID) bool { return len(adj[n]) == 0 })
}

func filterSorted(g *graph.Graph, keep func(id.NodeID) bool) []id.NodeID {
	var out []id.NodeID
	for _, n := range g.AllNodes() {
		if keep(n.ID) {
			out = append(out, n.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

func reverseAdjacency(g *graph.Graph) map[id.NodeID][]id.NodeID {
	fwd := adjacency(g)
	rev := make(map[id.NodeID][]id.NodeID, len(fwd))
	for n := range fwd {
		rev[n] = nil
	}
	for n, nbrs := range fwd {
		for _, nbr := range nbrs {
			rev[nbr] = append(rev[nbr], n)
		}
	}

	return rev
}

// GetReachableNodes returns every node reachable from start by following
// outgoing edges, via breadth-first traversal, not including start
// itself, sorted for determinism.
func GetReachableNodes(g *graph.Graph, start id.NodeID) []id.NodeID {
	adj := adjacency(g)
	visited := map[id.NodeID]bool{start: true}
	queue := []id.NodeID{start}
	var out []id.NodeID
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, nbr := range adj[n] {
			if !visited[nbr] {
				visited[nbr] = true
				out = append(out, nbr)
				queue = append(queue, nbr)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// GetConnectedComponents partitions every node in g into weakly
// connected components (edge direction ignored), each sorted by NodeID,
// components themselves ordered by their first (smallest) member.
func GetConnectedComponents(g *graph.Graph) [][]id.NodeID {
	fwd := adjacency(g)
	undirected := make(map[id.NodeID][]id.NodeID, len(fwd))
	for n := range fwd {
		undirected[n] = nil
	}
	for n, nbrs := range fwd {
		for _, nbr := range nbrs {
			undirected[n] = append(undirected[n], nbr)
			undirected[nbr] = append(undirected[nbr], n)
		}
	}

	visited := make(map[id.NodeID]bool, len(undirected))
	ids := make([]id.NodeID, 0, len(undirected))
	for n := range undirected {
		ids = append(ids, n)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var components [][]id.NodeID
	for _, start := range ids {
		if visited[start] {
			continue
		}
		var comp []id.NodeID
		queue := []id.NodeID{start}
		visited[start] = true
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			comp = append(comp, n)
			for _, nbr := range undirected[n] {
				if !visited[nbr] {
					visited[nbr] = true
					queue = append(queue, nbr)
				}
			}
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		components = append(components, comp)
	}

	return components
}
