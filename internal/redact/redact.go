// Package redact scrubs cipher keys and message text out of values before
// they reach audit logs.
package redact

import (
	"fmt"
	"regexp"
	"strings"
)

const redactedSecret = "[REDACTED]"

// Field names whose values are always masked, compared case-insensitively.
var sensitiveFields = map[string]struct{}{
	"key":        {},
	"secret":     {},
	"message":    {},
	"plaintext":  {},
	"ciphertext": {},
	"input":      {},
	"output":     {},
}

var (
	kvSecretRe  = regexp.MustCompile(`(?i)\b(key|secret|password|token)(\s*[:=]\s*)(['"]?)([^\s'",;]+)(['"]?)`)
	longTokenRe = regexp.MustCompile(`\b[A-Za-z0-9]{32,}\b`)
)

// IsSensitive reports whether values stored under field should never be logged.
func IsSensitive(field string) bool {
	_, ok := sensitiveFields[strings.ToLower(strings.TrimSpace(field))]
	return ok
}

// String masks inline key=value secrets and long opaque tokens.
func String(in string) string {
	if strings.TrimSpace(in) == "" {
		return in
	}
	masked := kvSecretRe.ReplaceAllString(in, `$1$2$3`+redactedSecret+`$5`)
	return longTokenRe.ReplaceAllString(masked, redactedSecret)
}

// Map returns a copy of in with sensitive fields masked and every other
// value scrubbed recursively.
func Map(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if IsSensitive(k) {
			out[k] = redactedSecret
			continue
		}
		out[k] = Interface(v)
	}
	return out
}

// Interface redacts recognised sensitive values within nested structures.
func Interface(value any) any {
	switch v := value.(type) {
	case string:
		return String(v)
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = String(s)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = Interface(elem)
		}
		return out
	case map[string]any:
		return Map(v)
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return Map(out)
	case fmt.Stringer:
		return String(v.String())
	default:
		return value
	}
}
