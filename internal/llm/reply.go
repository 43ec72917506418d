package llm

import (
	"encoding/json"
	"strings"
)

// Normalized stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// reply is what an SDK adapter pulled out of one completion.
type reply struct {
	text  string
	model string
	stop  string
	usage Usage
}

// finish turns an adapter's reply into a Response.
//
// A reply cut off at MaxTokens is an error when JSON was asked for. With a
// strict schema the text must validate. With a loose one the outermost
// {...} span is kept when the model wrapped it in prose. Without a schema
// the text is returned as a JSON string.
func finish(req Request, r reply) (*Response, error) {
	var content json.RawMessage
	switch {
	case req.Schema == nil:
		quoted, err := json.Marshal(r.text)
		if err != nil {
			return nil, &ErrInvalidResponse{Err: err}
		}
		content = quoted
	case r.stop == StopMaxTokens:
		return nil, &ErrMaxTokensExceeded{Content: json.RawMessage(r.text)}
	case req.Schema.Loose:
		content = json.RawMessage(r.text)
		if obj, err := ExtractJSON(r.text); err == nil {
			content = obj
		}
	default:
		content = json.RawMessage(r.text)
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}

	if r.usage.TotalTokens == 0 {
		r.usage.TotalTokens = r.usage.InputTokens + r.usage.OutputTokens
	}
	if r.stop == "" {
		r.stop = StopEnd
	}
	return &Response{
		Content:    content,
		Usage:      r.usage,
		Model:      r.model,
		StopReason: r.stop,
	}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through so full IDs work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

// withSchemaHint appends the schema to a system prompt, for providers or
// modes that cannot enforce it natively.
func withSchemaHint(system string, s *Schema) string {
	def, err := json.Marshal(s.Definition)
	if err != nil {
		return system
	}
	var b strings.Builder
	b.WriteString(system)
	if system != "" {
		b.WriteString("\n\n")
	}
	b.WriteString("Reply with a single JSON object")
	if s.Description != "" {
		b.WriteString(" (" + s.Description + ")")
	}
	b.WriteString(" matching this JSON Schema:\n")
	b.Write(def)
	return b.String()
}
