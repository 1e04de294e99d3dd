package cipher

import (
	"fmt"
	"strconv"
	"strings"
)

// Parameters arrive from JSON (float64), YAML (int), and CLI flags (string),
// so the helpers accept each of those spellings.

func stringParam(params map[string]interface{}, name, def string) (string, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string, got %T", name, raw)
	}
	return s, nil
}

func boolParam(params map[string]interface{}, name string, def bool) (bool, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("parameter %q: %w", name, err)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("parameter %q must be a boolean, got %T", name, raw)
	}
}

func intParam(params map[string]interface{}, name string, def int) (int, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("parameter %q must be a whole number, got %v", name, v)
		}
		return int(v), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("parameter %q: %w", name, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("parameter %q must be an integer, got %T", name, raw)
	}
}
