package tool

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// InputSchema renders a descriptor's parameter list as a JSON Schema object.
// Used by the discovery call so callers can type-check arguments before
// invoking a tool. The schema is closed, mirroring the validator's policy;
// {"not":{}} under additionalProperties is the schema that matches nothing.
func (d *Descriptor) InputSchema() *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(d.Params))
	var required []string

	for _, p := range d.Params {
		prop := &jsonschema.Schema{
			Type:        string(p.Type),
			Description: p.Description,
		}
		if p.Default != nil {
			if raw, err := json.Marshal(p.Default); err == nil {
				prop.Default = json.RawMessage(raw)
			}
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           properties,
		Required:             required,
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}
