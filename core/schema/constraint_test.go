package schema

import (
	"strings"
	"testing"
)

func TestValidateConstraintMin(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		bound   any
		wantErr bool
	}{
		{"above bound", 10.0, 5, false},
		{"at bound", 5.0, 5, false},
		{"below bound", 3.0, 5, true},
		{"int value", 3, 5, true},
		{"non-numeric value skipped", "abc", 5, false},
		{"invalid bound skipped", 3.0, "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateConstraint("f", tt.value, Constraint{Type: ConstraintMin, Value: tt.bound})
			if (v != nil) != tt.wantErr {
				t.Errorf("got violation %v, wantErr %v", v, tt.wantErr)
			}
		})
	}
}

func TestValidateConstraintGreaterThan(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"positive", 0.01, false},
		{"zero", 0.0, true},
		{"negative", -5.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateConstraint("price", tt.value, Constraint{Type: ConstraintGreaterThan, Value: 0})
			if (v != nil) != tt.wantErr {
				t.Errorf("got violation %v, wantErr %v", v, tt.wantErr)
			}
			if v != nil {
				if v.Field != "price" {
					t.Errorf("violation field = %q, want price", v.Field)
				}
				if v.Constraint != "gt" {
					t.Errorf("violation constraint = %q, want gt", v.Constraint)
				}
			}
		})
	}
}

func TestValidateConstraintMax(t *testing.T) {
	if v := ValidateConstraint("f", 11.0, Constraint{Type: ConstraintMax, Value: 10}); v == nil {
		t.Error("expected violation above max")
	}
	if v := ValidateConstraint("f", 10.0, Constraint{Type: ConstraintMax, Value: 10}); v != nil {
		t.Errorf("unexpected violation at max: %v", v)
	}
}

func TestValidateConstraintLengths(t *testing.T) {
	if v := ValidateConstraint("f", "ab", Constraint{Type: ConstraintMinLength, Value: 3}); v == nil {
		t.Error("expected min_length violation")
	}
	if v := ValidateConstraint("f", "abcd", Constraint{Type: ConstraintMaxLength, Value: 3}); v == nil {
		t.Error("expected max_length violation")
	}
	if v := ValidateConstraint("f", "abc", Constraint{Type: ConstraintMinLength, Value: 3}); v != nil {
		t.Errorf("unexpected violation: %v", v)
	}
}

func TestValidateConstraintPattern(t *testing.T) {
	c := Constraint{Type: ConstraintPattern, Value: "^[A-Z]{3}$"}
	if v := ValidateConstraint("f", "ABC", c); v != nil {
		t.Errorf("unexpected violation: %v", v)
	}
	if v := ValidateConstraint("f", "abc", c); v == nil {
		t.Error("expected pattern violation")
	}
	// Invalid regex is skipped, not fatal
	if v := ValidateConstraint("f", "abc", Constraint{Type: ConstraintPattern, Value: "["}); v != nil {
		t.Errorf("unexpected violation for invalid pattern: %v", v)
	}
}

func TestValidateConstraintNotEmpty(t *testing.T) {
	c := Constraint{Type: ConstraintNotEmpty}
	if v := ValidateConstraint("f", "  ", c); v == nil {
		t.Error("expected not_empty violation for whitespace")
	}
	if v := ValidateConstraint("f", "x", c); v != nil {
		t.Errorf("unexpected violation: %v", v)
	}
}

func TestConstraintCustomMessage(t *testing.T) {
	c := Constraint{Type: ConstraintGreaterThan, Value: 0, Message: "price must be positive"}
	v := ValidateConstraint("price", -1.0, c)
	if v == nil {
		t.Fatal("expected violation")
	}
	if v.Message != "price must be positive" {
		t.Errorf("message = %q", v.Message)
	}
}

func TestValidationResultError(t *testing.T) {
	var r ValidationResult
	r.Valid = true
	if r.Error() != "" {
		t.Errorf("valid result error = %q, want empty", r.Error())
	}

	r.AddError("name", "required", nil, "field is required")
	r.AddError("price", "gt", -5, "must be greater than 0")

	if r.Valid {
		t.Error("result should be invalid after AddError")
	}
	if len(r.Errors) != 2 {
		t.Fatalf("got %d errors, want 2", len(r.Errors))
	}
	msg := r.Error()
	if !strings.Contains(msg, "name:") || !strings.Contains(msg, "price:") {
		t.Errorf("combined message %q missing fields", msg)
	}
}
