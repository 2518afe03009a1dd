package placement

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ToNumber coerces a loosely typed payload value into a float64. It never
// fails: numeric types pass through, strings are cleaned up and parsed, and
// anything without a recognizable number becomes 0.
//
// String handling mirrors the mess real payloads carry: surrounding
// whitespace and a trailing percent sign are dropped ("8.0%" -> 8.0, no
// rescaling), a decimal comma becomes a decimal point ("7,5" -> 7.5), and
// free-form text yields its first decimal number ("8.5 CGPA" -> 8.5).
func ToNumber(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case json.Number:
		return parseNumericString(string(val))
	case string:
		return parseNumericString(val)
	default:
		return 0
	}
}

func parseNumericString(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	if match := numberPattern.FindString(s); match != "" {
		if f, err := strconv.ParseFloat(match, 64); err == nil {
			return f
		}
	}

	return 0
}

// ToInt truncates ToNumber.
func ToInt(v any) int {
	return int(ToNumber(v))
}

// ToString renders a loosely typed value as a trimmed string. Numbers drop
// trailing zeros (2026.0 -> "2026") so numeric and string batches compare
// equal. Nil yields "".
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

// FormatNumber renders a float without trailing zeros for use in messages.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// SkillNames extracts skill names from a loosely typed skills list. Entries
// may be plain strings or objects carrying a "name" field; anything else is
// skipped, as are empty names. Input order is preserved and duplicates are
// kept.
func SkillNames(items []any) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		var name string
		switch val := item.(type) {
		case string:
			name = strings.TrimSpace(val)
		case map[string]any:
			name = ToString(val["name"])
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// StringList coerces a loosely typed value into a list of normalized
// strings. Lists keep their order with empty entries dropped; a scalar
// becomes a single-element list; nil yields an empty list. Skill-style
// objects are tolerated and contribute their name.
func StringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				if s := ToString(m["name"]); s != "" {
					out = append(out, s)
				}
				continue
			}
			if s := ToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := ToString(v); s != "" {
			return []string{s}
		}
		return []string{}
	}
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
