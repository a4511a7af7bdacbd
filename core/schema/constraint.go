// Package schema provides declarative record descriptors for validation.
// A Record lists its fields and their constraints; validation enforces them
// at runtime before any storage operation.
package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Constraint defines a refinement rule for a field.
type Constraint struct {
	// Type is the constraint type (min, gt, min_length, ...).
	Type ConstraintType `json:"type"`

	// Value is the constraint parameter (number, regex pattern, etc.).
	Value any `json:"value"`

	// Message is the custom error message (optional).
	Message string `json:"message,omitempty"`
}

// ConstraintType identifies the type of constraint.
type ConstraintType string

const (
	// Numeric constraints
	ConstraintMin         ConstraintType = "min" // Minimum numeric value (inclusive)
	ConstraintMax         ConstraintType = "max" // Maximum numeric value (inclusive)
	ConstraintGreaterThan ConstraintType = "gt"  // Strictly above a bound

	// String constraints
	ConstraintMinLength ConstraintType = "min_length"
	ConstraintMaxLength ConstraintType = "max_length"
	ConstraintPattern   ConstraintType = "pattern"
	ConstraintNotEmpty  ConstraintType = "not_empty"
)

// Violation represents a single validation failure.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Value      any    `json:"value,omitempty"`
	Message    string `json:"message"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidationResult holds all violations for one input.
type ValidationResult struct {
	Valid  bool        `json:"valid"`
	Errors []Violation `json:"errors,omitempty"`
}

// AddError records a violation.
func (r *ValidationResult) AddError(field, constraint string, value any, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, Violation{
		Field:      field,
		Constraint: constraint,
		Value:      value,
		Message:    message,
	})
}

// Error returns a combined error message.
func (r ValidationResult) Error() string {
	if r.Valid {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateConstraint validates a value against a single constraint.
// This is a pure function.
func ValidateConstraint(fieldName string, value any, c Constraint) *Violation {
	switch c.Type {
	case ConstraintMin:
		return validateMin(fieldName, value, c)
	case ConstraintMax:
		return validateMax(fieldName, value, c)
	case ConstraintGreaterThan:
		return validateGreaterThan(fieldName, value, c)
	case ConstraintMinLength:
		return validateMinLength(fieldName, value, c)
	case ConstraintMaxLength:
		return validateMaxLength(fieldName, value, c)
	case ConstraintPattern:
		return validatePattern(fieldName, value, c)
	case ConstraintNotEmpty:
		return validateNotEmpty(fieldName, value, c)
	default:
		return nil
	}
}

func validateMin(field string, value any, c Constraint) *Violation {
	bound, ok := toFloat64(c.Value)
	if !ok {
		return nil // Invalid constraint config, skip
	}
	val, ok := toFloat64(value)
	if !ok {
		return nil // Can't validate non-numeric, type check handles it
	}
	if val < bound {
		msg := c.Message
		if msg == "" {
			msg = fmt.Sprintf("must be at least %v", bound)
		}
		return &Violation{Field: field, Constraint: "min", Value: value, Message: msg}
	}
	return nil
}

func validateMax(field string, value any, c Constraint) *Violation {
	bound, ok := toFloat64(c.Value)
	if !ok {
		return nil
	}
	val, ok := toFloat64(value)
	if !ok {
		return nil
	}
	if val > bound {
		msg := c.Message
		if msg == "" {
			msg = fmt.Sprintf("must be at most %v", bound)
		}
		return &Violation{Field: field, Constraint: "max", Value: value, Message: msg}
	}
	return nil
}

func validateGreaterThan(field string, value any, c Constraint) *Violation {
	bound, ok := toFloat64(c.Value)
	if !ok {
		return nil
	}
	val, ok := toFloat64(value)
	if !ok {
		return nil
	}
	if val <= bound {
		msg := c.Message
		if msg == "" {
			msg = fmt.Sprintf("must be greater than %v", bound)
		}
		return &Violation{Field: field, Constraint: "gt", Value: value, Message: msg}
	}
	return nil
}

func validateMinLength(field string, value any, c Constraint) *Violation {
	minLen, ok := toInt(c.Value)
	if !ok {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		return nil
	}
	if len(str) < minLen {
		msg := c.Message
		if msg == "" {
			msg = fmt.Sprintf("must be at least %d characters", minLen)
		}
		return &Violation{Field: field, Constraint: "min_length", Value: len(str), Message: msg}
	}
	return nil
}

func validateMaxLength(field string, value any, c Constraint) *Violation {
	maxLen, ok := toInt(c.Value)
	if !ok {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		return nil
	}
	if len(str) > maxLen {
		msg := c.Message
		if msg == "" {
			msg = fmt.Sprintf("must be at most %d characters", maxLen)
		}
		return &Violation{Field: field, Constraint: "max_length", Value: len(str), Message: msg}
	}
	return nil
}

func validatePattern(field string, value any, c Constraint) *Violation {
	pattern, ok := c.Value.(string)
	if !ok {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil // Invalid regex, skip
	}
	if !re.MatchString(str) {
		msg := c.Message
		if msg == "" {
			msg = "does not match required pattern"
		}
		return &Violation{Field: field, Constraint: "pattern", Value: value, Message: msg}
	}
	return nil
}

func validateNotEmpty(field string, value any, c Constraint) *Violation {
	str, ok := value.(string)
	if !ok {
		return nil
	}
	if strings.TrimSpace(str) == "" {
		msg := c.Message
		if msg == "" {
			msg = "must not be empty"
		}
		return &Violation{Field: field, Constraint: "not_empty", Value: value, Message: msg}
	}
	return nil
}

// toFloat64 converts the numeric types JSON decoding can produce.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toInt converts various numeric types to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
