package ai

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DecodeJSON decodes a model response into v. The whole text is tried first;
// when that fails, the first balanced JSON object or array inside it is
// decoded instead, so prose, markdown fences and trailing commentary around
// the JSON are tolerated.
func DecodeJSON(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	candidate := firstJSONValue(raw)
	if candidate == "" {
		return errors.New("no JSON value found in response")
	}

	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("parse extracted JSON: %w", err)
	}

	return nil
}

// firstJSONValue returns the first balanced JSON object or array substring.
// The scan tracks strings and escapes so brackets inside string values do
// not confuse the depth count. It returns "" when no balanced value exists.
func firstJSONValue(raw string) string {
	start := -1
	var open, close byte

	for i := 0; i < len(raw); i++ {
		if raw[i] == '{' || raw[i] == '[' {
			start = i
			open = raw[i]
			close = '}'
			if open == '[' {
				close = ']'
			}
			break
		}
	}

	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}

	return ""
}
