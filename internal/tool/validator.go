package tool

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// TypeMismatch records one argument whose supplied value could not be
// coerced to the declared parameter type.
type TypeMismatch struct {
	Param    string `json:"param"`
	Expected string `json:"expected"`
	Received string `json:"received"`
}

// ValidationError reports every offending parameter of a Call, not just the
// first: unexpected names, missing required names, and type mismatches.
type ValidationError struct {
	Tool       string
	Unexpected []string
	Missing    []string
	Mismatches []TypeMismatch
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected arguments: "+strings.Join(e.Unexpected, ", "))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required arguments: "+strings.Join(e.Missing, ", "))
	}
	for _, m := range e.Mismatches {
		parts = append(parts, fmt.Sprintf("argument %q: expected %s, got %s", m.Param, m.Expected, m.Received))
	}
	return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, strings.Join(parts, "; "))
}

func (e *ValidationError) empty() bool {
	return len(e.Unexpected) == 0 && len(e.Missing) == 0 && len(e.Mismatches) == 0
}

// Detail renders the machine-readable payload carried by the normalized
// StructuredError.
func (e *ValidationError) Detail() map[string]any {
	detail := make(map[string]any, 3)
	if len(e.Unexpected) > 0 {
		detail["unexpected"] = e.Unexpected
	}
	if len(e.Missing) > 0 {
		detail["missing"] = e.Missing
	}
	if len(e.Mismatches) > 0 {
		detail["mismatches"] = e.Mismatches
	}
	return detail
}

// ValidateArgs checks a raw argument mapping against a descriptor and
// produces the coerced Args consumed by the executor. The schema is closed:
// names absent from the descriptor are rejected. Validation is total — every
// problem is collected before any result is returned, and callers never see
// a partially validated mapping.
func ValidateArgs(descriptor *Descriptor, raw map[string]any) (Args, error) {
	verr := &ValidationError{Tool: descriptor.Name}

	declared := make(map[string]struct{}, len(descriptor.Params))
	for _, p := range descriptor.Params {
		declared[p.Name] = struct{}{}
	}
	for name := range raw {
		if _, ok := declared[name]; !ok {
			verr.Unexpected = append(verr.Unexpected, name)
		}
	}
	sort.Strings(verr.Unexpected)

	out := make(Args, len(descriptor.Params))
	for _, p := range descriptor.Params {
		supplied, present := raw[p.Name]
		if !present {
			if p.Required {
				verr.Missing = append(verr.Missing, p.Name)
				continue
			}
			if p.Default != nil {
				coerced, _ := coerceValue(p.Type, p.Default)
				out[p.Name] = coerced
			}
			continue
		}

		coerced, err := coerceValue(p.Type, supplied)
		if err != nil {
			verr.Mismatches = append(verr.Mismatches, TypeMismatch{
				Param:    p.Name,
				Expected: string(p.Type),
				Received: typeName(supplied),
			})
			continue
		}
		out[p.Name] = coerced
	}

	if !verr.empty() {
		return nil, verr
	}
	return out, nil
}

// coerceValue converts a supplied value to the declared type, applying only
// unambiguous scalar coercions: numeric strings become numbers, the strings
// "true"/"false" become booleans, and integral floats become integers.
// Lossy conversions — truncating 3.5 to an integer — are rejected, never
// silently rounded.
func coerceValue(t ParamType, v any) (any, error) {
	switch t {
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TypeNumber:
		switch n := v.(type) {
		case float64:
			if finite(n) {
				return n, nil
			}
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case string:
			// ParseFloat accepts "Inf", "Infinity", and "NaN"; none of
			// those survive json.Marshal, so they never validate.
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil && finite(f) {
				return f, nil
			}
		}
	case TypeInteger:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if finite(n) && n == math.Trunc(n) {
				return int(n), nil
			}
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
				return i, nil
			}
		}
	case TypeBoolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			switch strings.TrimSpace(b) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
	case TypeArray:
		if arr, ok := v.([]any); ok {
			return arr, nil
		}
		if arr, ok := v.([]string); ok {
			out := make([]any, len(arr))
			for i, s := range arr {
				out[i] = s
			}
			return out, nil
		}
	case TypeObject:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %s to %s", typeName(v), t)
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
