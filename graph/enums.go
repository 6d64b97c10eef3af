package graph

// BoundaryTypeID is the reserved NodeTypeCatalog TypeId carried by every
// SubGraphFrame's representative node. No real, user-registered node type
// may use this id; the catalog rejects registration attempts for it.
const BoundaryTypeID = "__SubGraphBoundary"

// DisplayMode controls how much of a Node's body an editor renders.
type DisplayMode string

const (
	DisplayExpanded  DisplayMode = "Expanded"
	DisplayCollapsed DisplayMode = "Collapsed"
	DisplayMinimized DisplayMode = "Minimized"
)

// NodeState is the visual/selection state of a Node.
type NodeState string

const (
	StateNormal      NodeState = "Normal"
	StateSelected    NodeState = "Selected"
	StateHighlighted NodeState = "Highlighted"
	StateError       NodeState = "Error"
	StateRunning     NodeState = "Running"
)

// Direction is a Port's data-flow direction.
type Direction string

const (
	DirectionInput  Direction = "Input"
	DirectionOutput Direction = "Output"
)

// PortKind classifies what a Port carries.
type PortKind string

const (
	KindControl PortKind = "Control"
	KindData    PortKind = "Data"
	KindEvent   PortKind = "Event"
)

// Capacity bounds how many edges a Port may carry.
type Capacity string

const (
	// CapacitySingle means at most one edge; a new edge displaces the existing one.
	CapacitySingle Capacity = "Single"
	// CapacityMultiple means unbounded edges.
	CapacityMultiple Capacity = "Multiple"
)

// Topology is the graph-wide cycle policy.
type Topology string

const (
	TopologyDAG        Topology = "DAG"
	TopologyDirected   Topology = "DirectedGraph"
	TopologyUndirected Topology = "Undirected"
)

// ConnectionResult classifies the outcome of a connection attempt.
type ConnectionResult string

const (
	Success            ConnectionResult = "Success"
	SameNode           ConnectionResult = "SameNode"
	SameDirection      ConnectionResult = "SameDirection"
	KindMismatch       ConnectionResult = "KindMismatch"
	DataTypeMismatch   ConnectionResult = "DataTypeMismatch"
	CapacityExceeded   ConnectionResult = "CapacityExceeded"
	CycleDetected      ConnectionResult = "CycleDetected"
	DuplicateEdge      ConnectionResult = "DuplicateEdge"
	CustomRejected     ConnectionResult = "CustomRejected"
	// CrossScopeRejected distinguishes a plain cross-scope connection attempt
	// from other SameDirection rejections; opt-in via
	// connection.WithDistinctCrossScopeCode. The default policy still
	// returns SameDirection for this case.
	CrossScopeRejected ConnectionResult = "CrossScopeRejected"
)
