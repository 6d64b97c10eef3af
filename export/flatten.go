// Package export implements the flattening procedure that turns a Graph's
// nested boundary-node structure into a flat action/transition listing a
// downstream runtime can execute directly, plus a pluggable validation
// pass over the result. Mirrors the teacher's converterts adapter-package
// shape: one exported entry point, a config built from functional
// options, internal helpers doing the actual translation.
package export

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/arborist-editor/nodegraph/graph"
	"github.com/arborist-editor/nodegraph/id"
)

// Severity categorizes a validation Message.
type Severity string

const (
	Info    Severity = "Info"
	Warning Severity = "Warning"
	Error   Severity = "Error"
)

// Message is one validation finding produced during or after flattening.
type Message struct {
	Severity Severity
	Text     string
}

// PropertyEntry is one flattened key/value/type triple pulled from a
// node's UserData.
type PropertyEntry struct {
	Key       string
	Value     interface{}
	ValueType string
}

// ActionEntry is one non-boundary node, exported for execution.
type ActionEntry struct {
	Id         id.NodeID
	TypeId     string
	Properties []PropertyEntry
	Bindings   []string
}

// TransitionEntry is one stitched edge between two real (non-boundary)
// ports, addressed by SemanticId rather than by live port id.
type TransitionEntry struct {
	FromNodeId id.NodeID
	FromPort   string
	ToNodeId   id.NodeID
	ToPort     string
}

// Blueprint is the flat export model: actions and the transitions
// stitching them together. Validation messages are not stored on it;
// Flatten returns them alongside.
type Blueprint struct {
	BlueprintId   string
	BlueprintName string
	Version       int
	Actions       []ActionEntry
	Transitions   []TransitionEntry
}

// SceneBindingSource lets a node's UserData declare references to external
// scene objects the export should carry along; UserData itself is opaque
// to the core, so this is the only channel through which it can.
type SceneBindingSource interface {
	SceneBindings() []string
}

// Config accumulates Flatten's functional options.
type Config struct {
	entryType  string
	validators []Validator
}

// Option configures a Flatten call.
type Option func(*Config)

// WithEntryType designates the TypeId exactly one exported action must
// carry (spec's "a designated entry type"); the engine-specific vocabulary
// is supplied by the caller rather than hard-coded into the core.
func WithEntryType(typeID string) Option {
	return func(c *Config) { c.entryType = typeID }
}

// WithValidators appends pluggable validators run after the structural ones.
func WithValidators(vs ...Validator) Option {
	return func(c *Config) { c.validators = append(c.validators, vs...) }
}

// Flatten collapses g's boundary nodes, stitching edges through them
// (many-to-many), and runs the structural validators plus any configured
// via WithValidators. The returned Blueprint is produced even when
// messages carry Error severity; the caller inspects messages before
// consuming it.
func Flatten(g *graph.Graph, blueprintID, blueprintName string, version int, opts ...Option) (*Blueprint, []Message) {
	cfg := &Config{}
	for _, o := range opts {
		o(cfg)
	}

	bp := &Blueprint{BlueprintId: blueprintID, BlueprintName: blueprintName, Version: version}

	nodes := g.AllNodes()
	boundary := make(map[id.NodeID]bool, len(nodes))
	for _, n := range nodes {
		boundary[n.ID] = n.IsBoundary()
	}

	for _, n := range nodes {
		if n.IsBoundary() {
			continue
		}
		bp.Actions = append(bp.Actions, buildAction(n))
	}

	bp.Transitions = stitchTransitions(g, boundary)

	var messages []Message
	messages = append(messages, structuralValidate(g, bp, cfg, boundary)...)
	for _, v := range cfg.validators {
		messages = append(messages, v(g, bp)...)
	}

	return bp, messages
}

func buildAction(n *graph.Node) ActionEntry {
	return ActionEntry{
		Id:         n.ID,
		TypeId:     n.TypeId,
		Properties: flattenProperties(n.UserData),
		Bindings:   bindingsOf(n.UserData),
	}
}

// stitchTransitions implements steps 3-5 of the flattening procedure: edges
// with exactly one boundary endpoint are stitched through the boundary
// port's accumulated counterpart edges on the opposite side, edges with
// neither endpoint boundary pass through directly, and both-boundary edges
// are skipped. The same real connection can be reachable by stitching from
// either side of a boundary port pair, so results are deduplicated.
func stitchTransitions(g *graph.Graph, boundary map[id.NodeID]bool) []TransitionEntry {
	edges := g.AllEdges()

	incomingToBoundaryPort := make(map[id.PortID][]*graph.Port)
	outgoingFromBoundaryPort := make(map[id.PortID][]*graph.Port)
	srcPorts := make(map[id.EdgeID]*graph.Port, len(edges))
	tgtPorts := make(map[id.EdgeID]*graph.Port, len(edges))

	for _, e := range edges {
		sp, ok := g.FindPort(e.SourcePortID)
		if !ok {
			continue
		}
		tp, ok := g.FindPort(e.TargetPortID)
		if !ok {
			continue
		}
		srcPorts[e.ID], tgtPorts[e.ID] = sp, tp
		srcBoundary, tgtBoundary := boundary[sp.NodeID], boundary[tp.NodeID]
		if tgtBoundary && !srcBoundary {
			incomingToBoundaryPort[e.TargetPortID] = append(incomingToBoundaryPort[e.TargetPortID], sp)
		}
		if srcBoundary && !tgtBoundary {
			outgoingFromBoundaryPort[e.SourcePortID] = append(outgoingFromBoundaryPort[e.SourcePortID], tp)
		}
	}

	seen := make(map[TransitionEntry]struct{})
	var out []TransitionEntry
	add := func(sp, tp *graph.Port) {
		entry := TransitionEntry{
			FromNodeId: sp.NodeID,
			FromPort:   resolveSemanticId(g, sp),
			ToNodeId:   tp.NodeID,
			ToPort:     resolveSemanticId(g, tp),
		}
		if _, dup := seen[entry]; dup {
			return
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}

	for _, e := range edges {
		sp, okS := srcPorts[e.ID]
		tp, okT := tgtPorts[e.ID]
		if !okS || !okT {
			continue
		}
		srcBoundary, tgtBoundary := boundary[sp.NodeID], boundary[tp.NodeID]
		switch {
		case !srcBoundary && !tgtBoundary:
			add(sp, tp)
		case srcBoundary && !tgtBoundary:
			for _, s := range incomingToBoundaryPort[e.SourcePortID] {
				add(s, tp)
			}
		case !srcBoundary && tgtBoundary:
			for _, t := range outgoingFromBoundaryPort[e.TargetPortID] {
				add(sp, t)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].FromNodeId != out[j].FromNodeId {
			return out[i].FromNodeId < out[j].FromNodeId
		}
		if out[i].FromPort != out[j].FromPort {
			return out[i].FromPort < out[j].FromPort
		}
		if out[i].ToNodeId != out[j].ToNodeId {
			return out[i].ToNodeId < out[j].ToNodeId
		}
		return out[i].ToPort < out[j].ToPort
	})

	return out
}

// resolveSemanticId uses the port's own SemanticId, which is immutable
// post-construction and defaults to Name, except for legacy ports
// deserialized before SemanticId existed: when it is empty, the owning
// node's declared NodeTypeDefinition is consulted by matching
// (Name, Direction).
func resolveSemanticId(g *graph.Graph, p *graph.Port) string {
	if p.SemanticId != "" {
		return p.SemanticId
	}
	n, ok := g.FindNode(p.NodeID)
	if !ok || g.Settings.NodeTypeCatalog == nil {
		return p.Name
	}
	def, ok := g.Settings.NodeTypeCatalog.GetNodeType(n.TypeId)
	if !ok {
		return p.Name
	}
	for _, pd := range def.DefaultPorts {
		if pd.Name == p.Name && pd.Direction == p.Direction {
			if pd.SemanticId != "" {
				return pd.SemanticId
			}
			return pd.Name
		}
	}

	return p.Name
}

// flattenProperties walks an opaque UserData payload into key/value/type
// triples. Structs contribute their exported fields; maps contribute their
// entries, sorted by key for determinism; anything else yields no
// properties.
func flattenProperties(data interface{}) []PropertyEntry {
	if data == nil {
		return nil
	}
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		out := make([]PropertyEntry, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue
			}
			out = append(out, PropertyEntry{Key: f.Name, Value: v.Field(i).Interface(), ValueType: f.Type.String()})
		}
		return out
	case reflect.Map:
		keys := v.MapKeys()
		names := make([]string, 0, len(keys))
		byName := make(map[string]reflect.Value, len(keys))
		for _, k := range keys {
			name := fmt.Sprint(k.Interface())
			names = append(names, name)
			byName[name] = v.MapIndex(k)
		}
		sort.Strings(names)
		out := make([]PropertyEntry, 0, len(names))
		for _, name := range names {
			mv := byName[name]
			out = append(out, PropertyEntry{Key: name, Value: mv.Interface(), ValueType: mv.Type().String()})
		}
		return out
	default:
		return nil
	}
}

func bindingsOf(data interface{}) []string {
	if sb, ok := data.(SceneBindingSource); ok {
		return sb.SceneBindings()
	}

	return nil
}
