package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ValidationError names the first field of a candidate that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var requiredText = []string{"bounty_name", "player", "conditions"}

// Validate checks an untyped candidate record. Fields are checked in a fixed
// order and only the first failure is reported.
func Validate(candidate map[string]any) error {
	for _, key := range requiredText {
		s, ok := candidate[key].(string)
		if !ok || strings.TrimSpace(s) == "" {
			return &ValidationError{Field: key, Message: fmt.Sprintf("%s is required", key)}
		}
	}
	if prize, ok := number(candidate["prize"]); !ok || prize < 0 {
		return &ValidationError{Field: "prize", Message: "prize must be a non-negative number"}
	}
	if raw, present := candidate["attempts"]; present && !isNullAttempts(raw) {
		if attempts, ok := number(raw); !ok || attempts < 0 {
			return &ValidationError{Field: "attempts", Message: "attempts must be null or a non-negative number"}
		}
	}
	return nil
}

// Parse validates candidate and returns the trimmed Completion it describes.
func Parse(candidate map[string]any) (Completion, error) {
	if err := Validate(candidate); err != nil {
		return Completion{}, err
	}
	c := Completion{
		BountyName: candidate["bounty_name"].(string),
		Player:     candidate["player"].(string),
		Conditions: candidate["conditions"].(string),
	}
	c.Prize, _ = number(candidate["prize"])
	if raw := candidate["attempts"]; !isNullAttempts(raw) {
		v, _ := number(raw)
		c.Attempts = &v
	}
	return c.Normalize(), nil
}

// an empty string is what the admin form submits for unknown attempts
func isNullAttempts(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
