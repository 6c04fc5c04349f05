package llm

import "strings"

// StripFences removes markdown code fences from LLM output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the substring between the first '{' and the
// last '}' of a response, covering models that wrap their JSON in prose.
// Empty input yields empty output; input without a brace pair is
// returned unchanged so the caller's JSON parse reports the real cause.
func ExtractJSONObject(s string) string {
	if s == "" {
		return ""
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && start < end {
		return s[start : end+1]
	}
	return s
}
