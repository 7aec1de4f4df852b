package record

import (
	"math"
	"strconv"
	"strings"
)

// Coerce applies the loose conversions of the hosted write endpoint before
// validation: text fields become strings (falsy values become ""), prize
// becomes a number (null and blank strings are 0, unparsable text is NaN) and
// attempts is converted the same way unless it is absent, null or "".
// Values of other types are left for Validate to reject.
func Coerce(candidate map[string]any) map[string]any {
	out := make(map[string]any, len(candidate))
	for k, v := range candidate {
		out[k] = v
	}
	for _, key := range requiredText {
		out[key] = coerceText(candidate[key])
	}
	prize, ok := candidate["prize"]
	if !ok {
		out["prize"] = math.NaN()
	} else {
		out["prize"] = coerceNumber(prize)
	}
	if raw, ok := candidate["attempts"]; ok && !isNullAttempts(raw) {
		out["attempts"] = coerceNumber(raw)
	}
	return out
}

func coerceText(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	case float64:
		if t == 0 || math.IsNaN(t) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return v
}

func coerceNumber(v any) any {
	switch t := v.(type) {
	case nil:
		return 0.0
	case bool:
		if t {
			return 1.0
		}
		return 0.0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0.0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return v
}
