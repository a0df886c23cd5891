package agents

import (
	"fmt"
	"strings"
)

// extractJSON pulls the JSON object out of a model reply, tolerating
// markdown code fences and prose around the payload.
func extractJSON(content string) (string, error) {
	s := strings.TrimSpace(content)

	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in model reply")
	}
	return s[start : end+1], nil
}
