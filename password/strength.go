package password

import (
	"unicode"
	"unicode/utf8"
)

// MinLength is the policy's minimum password length in characters.
const MinLength = 8

// Violation names one unmet policy criterion.
type Violation string

const (
	TooShort         Violation = "TooShort"
	MissingUppercase Violation = "MissingUppercase"
	MissingLowercase Violation = "MissingLowercase"
	MissingDigit     Violation = "MissingDigit"
	MissingSymbol    Violation = "MissingSymbol"
)

// Strength grades a password by how many of the five criteria it meets.
type Strength int

const (
	Weak Strength = iota
	Medium
	Strong
)

func (s Strength) String() string {
	switch s {
	case Strong:
		return "Strong"
	case Medium:
		return "Medium"
	default:
		return "Weak"
	}
}

// MarshalText renders the strength by name.
func (s Strength) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StrengthAssessment is the outcome of ValidateStrength. Errors lists violations
// in policy order and is never nil.
type StrengthAssessment struct {
	IsValid  bool        `json:"isValid"`
	Errors   []Violation `json:"errors"`
	Strength Strength    `json:"strength"`
}

// ValidateStrength checks plaintext against the fixed policy: at least
// MinLength characters, an uppercase letter, a lowercase letter, a digit and a
// symbol (any character that is neither a letter nor a digit).
func ValidateStrength(plaintext string) StrengthAssessment {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r):
			hasSymbol = true
		}
	}

	checks := []struct {
		ok        bool
		violation Violation
	}{
		{utf8.RuneCountInString(plaintext) >= MinLength, TooShort},
		{hasUpper, MissingUppercase},
		{hasLower, MissingLowercase},
		{hasDigit, MissingDigit},
		{hasSymbol, MissingSymbol},
	}

	violations := make([]Violation, 0, len(checks))
	satisfied := 0
	for _, c := range checks {
		if c.ok {
			satisfied++
			continue
		}
		violations = append(violations, c.violation)
	}

	strength := Weak
	switch {
	case satisfied == len(checks):
		strength = Strong
	case satisfied >= 3:
		strength = Medium
	}

	return StrengthAssessment{
		IsValid:  len(violations) == 0,
		Errors:   violations,
		Strength: strength,
	}
}
