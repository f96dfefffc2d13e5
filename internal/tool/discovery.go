package tool

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
)

// DiscoveryToolName is the reserved, argument-less tool that enumerates
// every registered descriptor. Both transports expose it.
const DiscoveryToolName = "list_tools"

// ToolInfo is one entry of the discovery payload.
type ToolInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
	Returns     string             `json:"returns,omitempty"`
}

// Describe renders every registered descriptor, in registration order.
func Describe(registry *Registry) []ToolInfo {
	out := make([]ToolInfo, 0, registry.Len())
	for descriptor := range registry.List() {
		out = append(out, ToolInfo{
			Name:        descriptor.Name,
			Description: descriptor.Description,
			InputSchema: descriptor.InputSchema(),
			Returns:     string(descriptor.Returns),
		})
	}
	return out
}

// RegisterDiscovery registers the reserved discovery tool. Called last so
// the listing covers the full registry, itself included, by the time any
// transport starts.
func RegisterDiscovery(registry *Registry) error {
	return registry.Register(Descriptor{
		Name:        DiscoveryToolName,
		Description: "List every registered tool with its parameter schema.",
		Returns:     TypeArray,
	}, ExecutorFunc(func(_ context.Context, _ Args) (any, error) {
		return Describe(registry), nil
	}))
}
