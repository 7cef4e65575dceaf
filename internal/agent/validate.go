package agent

import (
	"github.com/spec-kit/overseer/internal/domain"
)

// Rule is one declarative semantic check applied to a parsed stage output
// before the value is trusted downstream. Check returns an empty string
// when the value is valid, otherwise the failure reason.
type Rule[T any] struct {
	Field string
	Check func(T) string
}

// Validate runs every rule in order and converts the first failure into a
// ValidationFailed stage error. Validation is pure: re-validating an
// already-valid value always succeeds.
func Validate[T any](stage domain.StageName, value T, rules []Rule[T]) error {
	for _, rule := range rules {
		if reason := rule.Check(value); reason != "" {
			return NewValidationFailed(stage, rule.Field, reason)
		}
	}
	return nil
}
