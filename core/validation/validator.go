// Package validation validates untyped input against record schemas.
// Validation runs before any storage operation; no partially validated
// record ever reaches the store.
package validation

import (
	"fmt"
	"time"

	"github.com/shopstream/shopstream/core/schema"
)

// Validate checks raw input against a record schema for a create operation.
//
// On success it returns a clean record holding only the declared fields,
// with values coerced to their canonical Go representation. Unknown input
// keys are dropped, not errored, including a client-supplied identifier.
// On failure it returns the violations in field declaration order and a
// nil record.
func Validate(rec schema.Record, data map[string]any) (map[string]any, schema.ValidationResult) {
	result := schema.ValidationResult{Valid: true}
	clean := make(map[string]any, len(rec.Fields))

	for _, field := range rec.Fields {
		value, hasValue := data[field.Name]

		if !hasValue || value == nil {
			if field.Required {
				result.AddError(field.Name, "required", nil, "field is required")
			}
			continue
		}

		coerced, ok := coerceFieldType(&result, field, value)
		if !ok {
			continue
		}

		for _, c := range field.Constraints {
			if v := schema.ValidateConstraint(field.Name, coerced, c); v != nil {
				result.Errors = append(result.Errors, *v)
				result.Valid = false
			}
		}

		clean[field.Name] = coerced
	}

	if !result.Valid {
		return nil, result
	}
	return clean, result
}

// coerceFieldType checks the value against the field type and returns its
// canonical representation. A false return means a violation was recorded.
func coerceFieldType(result *schema.ValidationResult, field schema.Field, value any) (any, bool) {
	switch field.Type {
	case schema.FieldTypeString:
		str, ok := value.(string)
		if !ok {
			result.AddError(field.Name, "type", value, "must be a string")
			return nil, false
		}
		return str, true

	case schema.FieldTypeInt:
		switch v := value.(type) {
		case int:
			return int64(v), true
		case int32:
			return int64(v), true
		case int64:
			return v, true
		case float64:
			if v != float64(int64(v)) {
				result.AddError(field.Name, "type", value, "must be an integer")
				return nil, false
			}
			return int64(v), true
		default:
			result.AddError(field.Name, "type", value, "must be an integer")
			return nil, false
		}

	case schema.FieldTypeFloat:
		switch v := value.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case int32:
			return float64(v), true
		case int64:
			return float64(v), true
		default:
			result.AddError(field.Name, "type", value, "must be a number")
			return nil, false
		}

	case schema.FieldTypeBool:
		b, ok := value.(bool)
		if !ok {
			result.AddError(field.Name, "type", value, "must be a boolean")
			return nil, false
		}
		return b, true

	case schema.FieldTypeTimestamp:
		switch v := value.(type) {
		case time.Time:
			return v.UTC().Format(time.RFC3339Nano), true
		case string:
			t, err := parseTimestamp(v)
			if err != nil {
				result.AddError(field.Name, "type", value, "must be an RFC 3339 timestamp")
				return nil, false
			}
			return t.UTC().Format(time.RFC3339Nano), true
		default:
			result.AddError(field.Name, "type", value, "must be an RFC 3339 timestamp")
			return nil, false
		}

	case schema.FieldTypeMap:
		m, ok := value.(map[string]any)
		if !ok {
			result.AddError(field.Name, "type", value, "must be an object")
			return nil, false
		}
		return m, true

	case schema.FieldTypeStrings, schema.FieldTypeIDs:
		strs, err := toStringSlice(value)
		if err != nil {
			result.AddError(field.Name, "type", value, "must be an array of strings")
			return nil, false
		}
		return strs, true

	default:
		return value, true
	}
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// toStringSlice accepts []string directly or the []any produced by JSON
// decoding, as long as every element is a string.
func toStringSlice(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %T is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%T is not an array", value)
	}
}
