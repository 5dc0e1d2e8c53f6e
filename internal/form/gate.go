// Package form validates the contact form and drives the submit action.
package form

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncomplete is returned when an order is submitted with missing fields.
var ErrIncomplete = errors.New("order form incomplete")

// Fields are the four watched form fields.
type Fields struct {
	Name  string
	Phone string
	Area  string
	Extra string
}

// Missing lists the fields that are empty after trimming, in form order.
func Missing(f Fields) []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", f.Name},
		{"phone", f.Phone},
		{"area", f.Area},
		{"extra", f.Extra},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// IsValid reports whether every field is non-empty after trimming.
func IsValid(f Fields) bool {
	return len(Missing(f)) == 0
}

// Check returns ErrIncomplete naming the missing fields, or nil.
func Check(f Fields) error {
	if missing := Missing(f); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// Gate holds the enabled state of the submit action.
type Gate struct {
	enabled  bool
	onChange func(enabled bool)
}

// NewGate creates a disabled gate. onChange, if set, is called with the new
// state on every evaluation.
func NewGate(onChange func(enabled bool)) *Gate {
	return &Gate{onChange: onChange}
}

// Evaluate re-validates the fields, updates the gate and returns the new
// enabled state.
func (g *Gate) Evaluate(f Fields) bool {
	g.enabled = IsValid(f)
	if g.onChange != nil {
		g.onChange(g.enabled)
	}
	return g.enabled
}

// Enabled reports the result of the last evaluation.
func (g *Gate) Enabled() bool {
	return g.enabled
}
