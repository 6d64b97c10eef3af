package catalog_test

import (
	"errors"
	"testing"

	"github.com/arborist-editor/nodegraph/catalog"
	"github.com/arborist-editor/nodegraph/graph"
)

func TestCatalog_RegisterAndLookup(t *testing.T) {
	c := catalog.NewCatalog()
	def := graph.NodeTypeDefinition{TypeId: "T", DisplayName: "Task", Category: "Flow"}
	if err := c.Register(def); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, ok := c.GetNodeType("T")
	if !ok || got.DisplayName != "Task" {
		t.Fatalf("GetNodeType = %+v, %v", got, ok)
	}
}

func TestCatalog_DuplicateRejected(t *testing.T) {
	c := catalog.NewCatalog()
	def := graph.NodeTypeDefinition{TypeId: "T"}
	if err := c.Register(def); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	err := c.Register(def)
	if !errors.Is(err, catalog.ErrDuplicateTypeId) {
		t.Fatalf("expected ErrDuplicateTypeId, got %v", err)
	}
}

func TestCatalog_BoundaryTypeRejected(t *testing.T) {
	c := catalog.NewCatalog()
	err := c.Register(graph.NodeTypeDefinition{TypeId: graph.BoundaryTypeID})
	if !errors.Is(err, catalog.ErrDuplicateTypeId) {
		t.Fatalf("expected ErrDuplicateTypeId for boundary type, got %v", err)
	}
}

func TestCatalog_SearchAndCategories(t *testing.T) {
	c := catalog.NewCatalog()
	_ = c.Register(graph.NodeTypeDefinition{TypeId: "Flow.Start", DisplayName: "Start", Category: "Flow"})
	_ = c.Register(graph.NodeTypeDefinition{TypeId: "Flow.End", DisplayName: "End", Category: "Flow"})
	_ = c.Register(graph.NodeTypeDefinition{TypeId: "Math.Add", DisplayName: "Add", Category: "Math"})

	found := c.Search("flow")
	if len(found) != 2 {
		t.Fatalf("Search(flow) = %d results, want 2", len(found))
	}

	cats := c.GetCategories()
	if len(cats) != 2 || cats[0] != "Flow" || cats[1] != "Math" {
		t.Fatalf("GetCategories = %v, want [Flow Math]", cats)
	}
}
