package graph

// NodeTypeDefinition describes a registered node type: its default ports,
// display theme, and a factory for fresh UserData. The catalog never
// mutates a definition once registered.
type NodeTypeDefinition struct {
	TypeId       string
	DisplayName  string
	Category     string
	DefaultPorts []PortDefinition
	Theme        NodeTheme
	NewUserData  func() interface{}
}

// NodeTheme is the small styling payload a catalog associates with a type,
// consumed by the (out-of-scope) frame builder.
type NodeTheme struct {
	Icon            string
	Color           [4]uint8
	HeaderTextColor [4]uint8
}

// NodeTypeCatalog is the consumed capability mapping a TypeId to its
// NodeTypeDefinition. It never mutates. Concrete catalogs live in the
// catalog package; Graph only depends on this interface to stay
// decoupled from any one registry implementation.
type NodeTypeCatalog interface {
	GetNodeType(typeID string) (NodeTypeDefinition, bool)
	GetAll() []NodeTypeDefinition
	Search(keyword string) []NodeTypeDefinition
	GetCategories() []string
}

// TypeCompatibility is the consumed capability deciding whether a source
// DataType may connect to a target DataType. Concrete registries live in
// the catalog package.
type TypeCompatibility interface {
	IsCompatible(sourceType, targetType string) bool
	GetCompatibleTypes(dataType string) []string
}

// ConnectionPolicy is the consumed capability classifying a connection
// attempt. Concrete policies live in the connection package; Graph.Connect
// calls CanConnect and acts on the result without knowing which policy
// (default multi-scope, or a custom one) produced it.
type ConnectionPolicy interface {
	CanConnect(g *Graph, source, target *Port) ConnectionResult
}

// GraphSettings configures a Graph's topology policy and its three
// consumed-capability collaborators.
type GraphSettings struct {
	Topology          Topology
	ConnectionPolicy  ConnectionPolicy
	TypeCompatibility TypeCompatibility
	NodeTypeCatalog   NodeTypeCatalog
}

// ConnectResult is the outcome of Graph.Connect: on success it carries the
// newly created edge and, when a single-capacity target edge was
// displaced, the displaced edge (the mechanism a ConnectCommand uses to
// implement undo: remove the new edge, then restore the displaced one).
type ConnectResult struct {
	Rejected      bool
	Reason        ConnectionResult
	CreatedEdge   *Edge
	DisplacedEdge *Edge
}
