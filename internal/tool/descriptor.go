package tool

import (
	"context"
	"fmt"
	"strings"
)

// ParamType is the declared type of a tool parameter or return value.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
)

func (t ParamType) valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeArray, TypeObject:
		return true
	}
	return false
}

// Param declares one parameter of a tool: its name, type, whether the caller
// must supply it, and the default applied when an optional parameter is
// absent.
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Default     any
	Description string
}

// Descriptor is the immutable schema of one registered tool. Owned by the
// Registry; never mutated after registration.
type Descriptor struct {
	Name        string
	Description string
	Params      []Param
	Returns     ParamType
}

// Args is the validated, coerced argument mapping handed to an executor.
// It exists only when validation fully succeeded.
type Args map[string]any

// String returns the string value for name. The zero value is returned when
// the argument is absent or not a string; validation guarantees declared
// string parameters arrive as strings.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Number returns the float64 value for name.
func (a Args) Number(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

// Int returns the integer value for name.
func (a Args) Int(name string) int {
	switch v := a[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns the boolean value for name.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// StringSlice returns the []string value for name. Array arguments arrive as
// []any; elements that are not strings are skipped.
func (a Args) StringSlice(name string) []string {
	arr, ok := a[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Object returns the map value for name.
func (a Args) Object(name string) map[string]any {
	v, _ := a[name].(map[string]any)
	return v
}

// Executor is the runtime contract a tool body satisfies. The payload must
// be JSON-serializable; failures should be *ToolError so the subkind
// survives normalization. Executors never see unvalidated arguments and
// perform no framing or transport work.
type Executor interface {
	Execute(ctx context.Context, args Args) (any, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, args Args) (any, error)

func (f ExecutorFunc) Execute(ctx context.Context, args Args) (any, error) {
	return f(ctx, args)
}

// validate checks descriptor well-formedness at registration time: non-empty
// unique names, known types, and defaults that match their declared type.
// A bad default fails startup rather than the first call that relies on it.
func (d *Descriptor) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("descriptor name is required")
	}
	if d.Returns != "" && !d.Returns.valid() {
		return fmt.Errorf("tool %q: unknown return type %q", d.Name, d.Returns)
	}

	seen := make(map[string]struct{}, len(d.Params))
	for _, p := range d.Params {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("tool %q: parameter name is required", d.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("tool %q: duplicate parameter %q", d.Name, p.Name)
		}
		seen[p.Name] = struct{}{}

		if !p.Type.valid() {
			return fmt.Errorf("tool %q: parameter %q has unknown type %q", d.Name, p.Name, p.Type)
		}
		if p.Required && p.Default != nil {
			return fmt.Errorf("tool %q: required parameter %q cannot carry a default", d.Name, p.Name)
		}
		if p.Default != nil {
			if _, err := coerceValue(p.Type, p.Default); err != nil {
				return fmt.Errorf("tool %q: default for %q does not match type %s", d.Name, p.Name, p.Type)
			}
		}
	}
	return nil
}
