package model

import (
	"fmt"
	"strings"
)

// AsBool coerces a YAML scalar into a boolean. It accepts native booleans
// and the strings "true"/"false" in any case, so a privileged flag written
// as "True" behaves the same as true. The second return reports whether
// the value was coercible.
func AsBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(b) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// AsString coerces a YAML scalar into a string.
func AsString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprintf("%v", v), true
}

// AsInt coerces a YAML scalar into an int.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
