package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSONObject is returned when a reply holds no {...} span.
var ErrNoJSONObject = errors.New("no JSON object in response")

// ExtractJSON returns the text between the first '{' and the last '}' of
// s when that span is valid JSON.
func ExtractJSON(s string) (json.RawMessage, error) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, ErrNoJSONObject
	}
	span := s[start : end+1]
	if !json.Valid([]byte(span)) {
		return nil, errors.New("extracted span is not valid JSON")
	}
	return json.RawMessage(span), nil
}

// TextContent returns the reply as plain text. Content that is a JSON
// string is unquoted; anything else is returned verbatim.
func TextContent(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
