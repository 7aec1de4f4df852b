package record

import (
	"strings"
)

// UnknownPlayer marks completions whose author was not tracked.
const UnknownPlayer = "UNKNOWN COMPLETION"

// Completion is one player finishing a bounty under stated conditions.
type Completion struct {
	BountyName string   `json:"bounty_name" yaml:"bounty_name"`
	Player     string   `json:"player" yaml:"player"`
	Prize      float64  `json:"prize" yaml:"prize"`
	Attempts   *float64 `json:"attempts" yaml:"attempts"`
	Conditions string   `json:"conditions" yaml:"conditions"`
}

// IsUnknown reports whether the completion carries the untracked-author sentinel.
func (c Completion) IsUnknown() bool {
	return strings.EqualFold(strings.TrimSpace(c.Player), UnknownPlayer)
}

// Candidate converts c back to the untyped form accepted by Validate.
func (c Completion) Candidate() map[string]any {
	m := map[string]any{
		"bounty_name": c.BountyName,
		"player":      c.Player,
		"prize":       c.Prize,
		"attempts":    nil,
		"conditions":  c.Conditions,
	}
	if c.Attempts != nil {
		m["attempts"] = *c.Attempts
	}
	return m
}

// Validate checks c with the same rules applied to untyped input.
func (c Completion) Validate() error {
	return Validate(c.Candidate())
}

// Normalize trims the text fields.
func (c Completion) Normalize() Completion {
	c.BountyName = strings.TrimSpace(c.BountyName)
	c.Player = strings.TrimSpace(c.Player)
	c.Conditions = strings.TrimSpace(c.Conditions)
	return c
}

// Float returns a pointer to v, for building Attempts values.
func Float(v float64) *float64 {
	return &v
}
