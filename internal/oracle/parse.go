package oracle

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var sectionMarker = regexp.MustCompile(`\d\.`)

// stripCodeFence removes a markdown code fence the model likes to wrap JSON in.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// decodeJSONObject is best effort: the fenced text first, then the
// outermost braces found in it.
func decodeJSONObject(text string, v any) error {
	text = stripCodeFence(text)
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return errors.New("no json object in oracle response")
	}
	return json.Unmarshal([]byte(text[start:end+1]), v)
}

// splitSections returns the text of the numbered sections 1., 2. and 3.
// Missing sections are empty.
func splitSections(text string) [3]string {
	var sections [3]string
	parts := sectionMarker.Split(text, -1)
	for i := 1; i < len(parts) && i <= len(sections); i++ {
		sections[i-1] = strings.TrimSpace(parts[i])
	}
	return sections
}
