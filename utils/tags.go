package utils

import (
	"encoding/json"
	"strings"
)

// ParseTags decodes a JSON array of strings such as `["go","web"]`. Blank
// input yields an empty list; entries are trimmed and blanks dropped.
func ParseTags(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	var decoded []string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(decoded))
	for _, t := range decoded {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags, nil
}
