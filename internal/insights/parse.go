package insights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Reasons reported by ParseError.
const (
	ReasonEmpty     = "empty response"
	ReasonMalformed = "malformed JSON"
	ReasonShape     = "response is not a list of insights"
)

// ParseError describes model output that could not be turned into insights.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("insights: %s", e.Reason)
}

var fencePattern = regexp.MustCompile("(?i)```[a-z]*")

// Parse extracts insights from free-text model output. It strips markdown
// fences, tries a direct decode and then falls back to the first JSON value
// starting at the first [ or {, ignoring any text after it. An object is accepted when it carries an "insights"
// list. Every element is normalized.
func Parse(text string) ([]Insight, error) {
	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
	if cleaned == "" {
		return nil, &ParseError{Reason: ReasonEmpty, Raw: text}
	}

	raw, ok := decode(cleaned)
	if !ok {
		raw, ok = decodeFrom(cleaned, '[')
	}
	if !ok {
		raw, ok = decodeFrom(cleaned, '{')
	}
	if !ok {
		return nil, &ParseError{Reason: ReasonMalformed, Raw: text}
	}

	elems, ok := unwrap(raw)
	if !ok {
		return nil, &ParseError{Reason: ReasonShape, Raw: text}
	}

	out := make([]Insight, 0, len(elems))
	for _, el := range elems {
		var fields map[string]any
		if err := json.Unmarshal(el, &fields); err != nil {
			// не объект, пропускаем
			continue
		}
		out = append(out, normalize(fields))
	}

	return out, nil
}

func decode(s string) (json.RawMessage, bool) {
	if s == "" {
		return nil, false
	}
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	return raw, true
}

// decodeFrom decodes the first JSON value starting at the first open byte.
// Trailing prose after the value is ignored.
func decodeFrom(s string, open byte) (json.RawMessage, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return nil, false
	}
	var raw json.RawMessage
	if err := json.NewDecoder(strings.NewReader(s[start:])).Decode(&raw); err != nil {
		return nil, false
	}
	return raw, true
}

func unwrap(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}

	switch raw[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, false
		}
		return list, true
	case '{':
		var wrapper struct {
			Insights json.RawMessage `json:"insights"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, false
		}
		if body := bytes.TrimSpace(wrapper.Insights); len(body) == 0 || bytes.Equal(body, []byte("null")) {
			return nil, false
		}
		var list []json.RawMessage
		if err := json.Unmarshal(wrapper.Insights, &list); err != nil {
			return nil, false
		}
		return list, true
	}
	return nil, false
}

func normalize(fields map[string]any) Insight {
	in := Insight{
		Type:           Type(strings.ToLower(stringField(fields, "type"))),
		Priority:       Priority(strings.ToLower(stringField(fields, "priority"))),
		Title:          stringField(fields, "title"),
		Description:    stringField(fields, "description"),
		Recommendation: stringField(fields, "recommendation"),
	}

	if !knownType(in.Type) {
		in.Type = TypeGeneral
	}
	if !knownPriority(in.Priority) {
		in.Priority = PriorityMedium
	}
	if in.Title == "" {
		in.Title = DefaultTitle
	}
	if in.Description == "" {
		in.Description = DefaultDescription
	}
	if in.Recommendation == "" {
		in.Recommendation = DefaultRecommendation
	}

	return in
}

func stringField(fields map[string]any, key string) string {
	v, ok := fields[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
