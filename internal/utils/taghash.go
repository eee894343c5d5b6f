package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseTagHash decodes the taghash form field, a JSON object of tag name to
// intent. Empty input, null and malformed JSON all mean "no tag changes".
// Non-string intents are kept in printed form so they fail intent validation.
func ParseTagHash(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil || decoded == nil {
		return nil
	}

	changes := make(map[string]string, len(decoded))
	for name, intent := range decoded {
		if s, ok := intent.(string); ok {
			changes[name] = s
			continue
		}
		changes[name] = fmt.Sprint(intent)
	}
	return changes
}
