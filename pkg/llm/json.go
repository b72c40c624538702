package llm

import (
	"encoding/json"
	"strings"
)

// StripCodeFence removes a surrounding markdown code fence from model
// output. Models in JSON mode still occasionally wrap the payload in
// ```json ... ``` fences.
func StripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// DecodeModelJSON unmarshals model output into target, tolerating code
// fences. On failure it returns a MalformedResponseError carrying the raw
// content for logging.
func DecodeModelJSON(content string, target any) error {
	cleaned := StripCodeFence(content)
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return &MalformedResponseError{Op: "decode json", Err: err, Raw: content}
	}
	return nil
}
