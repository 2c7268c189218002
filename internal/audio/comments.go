package audio

import "strings"

// parseComments turns KEY=value lines into a map keyed by upper-case field
// name. The first non-empty value of a repeated field wins; lines without
// '=' are ignored.
func parseComments(lines []string) map[string]string {
	tags := make(map[string]string)
	for _, line := range lines {
		key, value, ok := strings.Cut(strings.TrimRight(line, "\r"), "=")
		if !ok {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		if _, seen := tags[key]; !seen {
			tags[key] = value
		}
	}
	return tags
}
