package typevet

import (
	"context"
	"strings"

	"github.com/typevet/typevet-go/checks"
)

// Rule is a named custom validation rule run against a whole value after
// its schema check has passed.
type Rule interface {
	Validate(ctx context.Context, field string, value any) *checks.Violation
	Name() string
}

// RuleFunc is a function adapter for Rule.
type RuleFunc struct {
	name string
	fn   func(ctx context.Context, field string, value any) *checks.Violation
}

// NewRuleFunc creates a new function-based rule.
func NewRuleFunc(name string, fn func(ctx context.Context, field string, value any) *checks.Violation) *RuleFunc {
	return &RuleFunc{name: name, fn: fn}
}

// Validate implements Rule.
func (r *RuleFunc) Validate(ctx context.Context, field string, value any) *checks.Violation {
	return r.fn(ctx, field, value)
}

// Name implements Rule.
func (r *RuleFunc) Name() string {
	return r.name
}

// NonEmpty rejects strings that are empty or all whitespace.
func NonEmpty() Rule {
	return NewRuleFunc("non-empty", func(ctx context.Context, field string, value any) *checks.Violation {
		if str, ok := value.(string); ok && strings.TrimSpace(str) == "" {
			return &checks.Violation{
				Code:    checks.CodeValidationFailed,
				Field:   field,
				Message: "value cannot be empty",
				Value:   value,
			}
		}
		return nil
	})
}

// Positive rejects numbers that are zero or negative.
func Positive() Rule {
	return NewRuleFunc("positive", func(ctx context.Context, field string, value any) *checks.Violation {
		if num, ok := value.(float64); ok && num <= 0 {
			return &checks.Violation{
				Code:    checks.CodeValidationFailed,
				Field:   field,
				Message: "value must be positive",
				Value:   value,
			}
		}
		return nil
	})
}
