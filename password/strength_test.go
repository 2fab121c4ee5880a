package password

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestValidateStrength(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		valid    bool
		errors   []Violation
		strength Strength
	}{
		{
			name:     "short lowercase",
			input:    "short",
			errors:   []Violation{TooShort, MissingUppercase, MissingDigit, MissingSymbol},
			strength: Weak,
		},
		{
			name:     "all criteria",
			input:    "MyStrong@123",
			valid:    true,
			errors:   []Violation{},
			strength: Strong,
		},
		{
			name:     "empty",
			input:    "",
			errors:   []Violation{TooShort, MissingUppercase, MissingLowercase, MissingDigit, MissingSymbol},
			strength: Weak,
		},
		{
			name:     "missing symbol",
			input:    "Password123",
			errors:   []Violation{MissingSymbol},
			strength: Medium,
		},
		{
			name:     "long lowercase with digits",
			input:    "password123",
			errors:   []Violation{MissingUppercase, MissingSymbol},
			strength: Medium,
		},
		{
			name:     "space counts as symbol",
			input:    "Pass word 1",
			valid:    true,
			errors:   []Violation{},
			strength: Strong,
		},
		{
			name:     "length counts characters not bytes",
			input:    "Ünïcødé1",
			errors:   []Violation{MissingSymbol},
			strength: Medium,
		},
		{
			name:     "seven characters",
			input:    "Ab1!xyz",
			errors:   []Violation{TooShort},
			strength: Medium,
		},
		{
			name:     "only symbols",
			input:    "!!!!!!!!",
			errors:   []Violation{MissingUppercase, MissingLowercase, MissingDigit},
			strength: Weak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateStrength(tt.input)
			if got.IsValid != tt.valid {
				t.Fatalf("IsValid = %v, want %v", got.IsValid, tt.valid)
			}
			if !reflect.DeepEqual(got.Errors, tt.errors) {
				t.Fatalf("Errors = %v, want %v", got.Errors, tt.errors)
			}
			if got.Strength != tt.strength {
				t.Fatalf("Strength = %v, want %v", got.Strength, tt.strength)
			}
			if got.IsValid != (len(got.Errors) == 0) {
				t.Fatal("IsValid must be true exactly when Errors is empty")
			}
		})
	}
}

func TestValidateStrengthIsDeterministic(t *testing.T) {
	first := ValidateStrength("abcDEF")
	for i := 0; i < 10; i++ {
		if got := ValidateStrength("abcDEF"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestStrengthAssessmentJSON(t *testing.T) {
	raw, err := json.Marshal(ValidateStrength("MyStrong@123"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"isValid":true,"errors":[],"strength":"Strong"}`
	if string(raw) != want {
		t.Fatalf("json = %s, want %s", raw, want)
	}
}
