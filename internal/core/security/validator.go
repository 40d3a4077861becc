package security

import (
	"strings"

	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
)

// Validator checks sanitized commands against the current policy.
type Validator struct {
	policies *PolicyStore
	log      logger.Logger
}

// NewValidator creates a validator reading policy snapshots from store.
func NewValidator(store *PolicyStore, log logger.Logger) *Validator {
	if log == nil {
		log = logger.Discard()
	}
	return &Validator{
		policies: store,
		log:      log.With("component", "security"),
	}
}

// Validate reports whether cmd may run under the current policy.
// The rejection reason is logged, not returned.
func (v *Validator) Validate(cmd Command) bool {
	return v.ValidateWith(cmd, v.policies.Load())
}

// ValidateWith is Validate against a snapshot the caller already holds, so
// the same snapshot can govern execution.
func (v *Validator) ValidateWith(cmd Command, policy *Policy) bool {
	ok, reason, detail := check(cmd.String(), policy)
	if !ok {
		v.log.Warn(reason, "detail", detail, "command", cmd.String())
	}
	return ok
}

// Validate reports whether command passes both the deny-pattern check and
// the base-command allow-list of policy.
func Validate(command string, policy *Policy) bool {
	ok, _, _ := check(command, policy)
	return ok
}

func check(command string, policy *Policy) (bool, string, string) {
	if policy == nil {
		return false, "no policy loaded", ""
	}

	// Lowercase for comparison only; execution keeps the original casing.
	normalized := strings.ToLower(strings.TrimSpace(command))

	for _, pattern := range policy.ForbiddenPatterns {
		p := strings.ToLower(pattern)
		if p == "" {
			continue
		}
		if strings.Contains(normalized, p) {
			return false, "forbidden pattern detected", pattern
		}
	}

	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return false, "empty command", ""
	}

	base := tokens[0]
	for _, allowed := range policy.AllowedCommands {
		if base == strings.ToLower(allowed) {
			return true, "", ""
		}
	}

	return false, "command not whitelisted", base
}
