package tool

import "fmt"

// Validate checks raw against the descriptor's schema and returns the
// validated argument set.
//
// Checks are deliberately shallow: every required field must be present, and
// every present declared field must match its declared kind. Fields present
// in raw but absent from the schema are ignored so older callers keep
// working when a tool grows optional fields. No value is defaulted, coerced,
// or range-checked; semantic checks belong to the policy gate.
func Validate(desc *Descriptor, raw map[string]any) (Args, error) {
	for _, f := range desc.Schema {
		v, present := raw[f.Name]

		if !present {
			if f.Required {
				return nil, Errorf(KindValidation, "missing required argument %q", f.Name)
			}
			continue
		}

		if !kindMatches(f.Kind, v) {
			return nil, Errorf(KindValidation,
				"argument %q must be a %s, got %s", f.Name, f.Kind, dynamicKind(v))
		}
	}

	args := make(Args, len(raw))
	for k, v := range raw {
		args[k] = v
	}
	return args, nil
}

// kindMatches reports whether the dynamic type of v satisfies the declared
// kind. JSON decoding yields float64 for every number, but int is accepted
// too for callers that build argument maps in Go.
func kindMatches(kind Kind, v any) bool {
	switch kind {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindNumber:
		switch v.(type) {
		case float64, int:
			return true
		}
		return false
	case KindObject:
		_, ok := v.(map[string]any)
		return ok
	}
	return false
}

// dynamicKind names the dynamic type of v in schema vocabulary for error
// messages.
func dynamicKind(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64, int:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
