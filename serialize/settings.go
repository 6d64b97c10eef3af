package serialize

import (
	"fmt"

	"github.com/arborist-editor/nodegraph/graph"
	"gopkg.in/yaml.v3"
)

// settingsYAML is the host-editor-facing config file shape: the portable
// JSON wire format carries only Topology (§6), but an on-disk settings
// file also needs to name which catalog/policy/compatibility
// implementation to wire up, which the core cannot itself decide.
type settingsYAML struct {
	Topology          string `yaml:"topology"`
	ConnectionPolicy  string `yaml:"connectionPolicy,omitempty"`
	TypeCompatibility string `yaml:"typeCompatibility,omitempty"`
	NodeTypeCatalog   string `yaml:"nodeTypeCatalog,omitempty"`
}

// MarshalSettingsYAML encodes topology plus the named collaborator
// implementations a host config selects; the collaborators themselves
// (being interfaces) are wired up by the caller at load time, not decoded
// from YAML.
func MarshalSettingsYAML(topology graph.Topology, connectionPolicyName, typeCompatibilityName, nodeTypeCatalogName string) ([]byte, error) {
	doc := settingsYAML{
		Topology:          string(topology),
		ConnectionPolicy:  connectionPolicyName,
		TypeCompatibility: typeCompatibilityName,
		NodeTypeCatalog:   nodeTypeCatalogName,
	}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize: marshal settings yaml: %w", err)
	}

	return b, nil
}

// UnmarshalSettingsYAML decodes a settings file's Topology and the three
// named collaborator selections; the caller resolves those names to
// concrete graph.NodeTypeCatalog/ConnectionPolicy/TypeCompatibility values.
func UnmarshalSettingsYAML(data []byte) (topology graph.Topology, connectionPolicyName, typeCompatibilityName, nodeTypeCatalogName string, err error) {
	var doc settingsYAML
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return "", "", "", "", fmt.Errorf("serialize: unmarshal settings yaml: %w", err)
	}

	return graph.Topology(doc.Topology), doc.ConnectionPolicy, doc.TypeCompatibility, doc.NodeTypeCatalog, nil
}
