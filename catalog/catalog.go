// Package catalog implements the two consumed capabilities a Graph's
// GraphSettings holds but never mutates: a NodeTypeCatalog mapping TypeId
// to its NodeTypeDefinition, and a TypeCompatibilityRegistry deciding
// which DataTypes may implicitly convert into which others. Both satisfy
// the graph package's interfaces so a Graph stays decoupled from any one
// registry implementation.
package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/arborist-editor/nodegraph/graph"
)

// ErrDuplicateTypeId indicates Register was called twice for the same
// TypeId, or for the reserved boundary type id.
var ErrDuplicateTypeId = errors.New("catalog: duplicate TypeId")

// Catalog is a mutable, thread-unsafe-by-convention (single-owner-thread,
// like the Graph it serves) registry of NodeTypeDefinitions. It implements
// graph.NodeTypeCatalog.
type Catalog struct {
	mu    sync.Mutex
	byID  map[string]graph.NodeTypeDefinition
	order []string // registration order, for GetAll determinism fallback
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]graph.NodeTypeDefinition)}
}

// Register adds def under def.TypeId. Returns ErrDuplicateTypeId if the id
// is already registered or equals the reserved boundary type id — the
// catalog never silently overwrites a registration.
func (c *Catalog) Register(def graph.NodeTypeDefinition) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if def.TypeId == graph.BoundaryTypeID {
		return ErrDuplicateTypeId
	}
	if _, exists := c.byID[def.TypeId]; exists {
		return ErrDuplicateTypeId
	}
	c.byID[def.TypeId] = def
	c.order = append(c.order, def.TypeId)

	return nil
}

// GetNodeType implements graph.NodeTypeCatalog.
func (c *Catalog) GetNodeType(typeID string) (graph.NodeTypeDefinition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	def, ok := c.byID[typeID]

	return def, ok
}

// GetAll implements graph.NodeTypeCatalog, sorted by TypeId for
// deterministic iteration order.
func (c *Catalog) GetAll() []graph.NodeTypeDefinition {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]graph.NodeTypeDefinition, 0, len(c.byID))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeId < out[j].TypeId })

	return out
}

// Search implements graph.NodeTypeCatalog: case-insensitive substring match
// against TypeId and DisplayName, sorted by TypeId.
func (c *Catalog) Search(keyword string) []graph.NodeTypeDefinition {
	needle := strings.ToLower(keyword)
	all := c.GetAll()
	out := make([]graph.NodeTypeDefinition, 0, len(all))
	for _, def := range all {
		if strings.Contains(strings.ToLower(def.TypeId), needle) ||
			strings.Contains(strings.ToLower(def.DisplayName), needle) {
			out = append(out, def)
		}
	}

	return out
}

// GetCategories implements graph.NodeTypeCatalog: deduplicated, sorted
// category names across all registered definitions.
func (c *Catalog) GetCategories() []string {
	all := c.GetAll()
	seen := make(map[string]struct{}, len(all))
	out := make([]string, 0, len(all))
	for _, def := range all {
		if def.Category == "" {
			continue
		}
		if _, dup := seen[def.Category]; dup {
			continue
		}
		seen[def.Category] = struct{}{}
		out = append(out, def.Category)
	}
	sort.Strings(out)

	return out
}
