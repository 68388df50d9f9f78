package llm

import (
	"encoding/json"
	"strings"
)

// parseContent extracts the first choice's text and parses it as generic
// JSON. The model's output is untrusted text; shape checks happen here,
// once, right after generation, so every downstream consumer gets a
// guaranteed shape.
func parseContent(comp *Completion, label string) (string, interface{}, error) {
	raw := strings.TrimSpace(comp.Content())
	if raw == "" {
		return "", nil, &ParseError{Label: label}
	}

	var value interface{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return "", nil, &ParseError{Label: label, Err: err}
	}
	if value == nil {
		return "", nil, &ParseError{Label: label}
	}
	return raw, value, nil
}

// ParseObject asserts the completion carries a JSON object and decodes it
// into out. A non-object yields a ShapeError labeled with the operation.
func ParseObject(comp *Completion, label string, out interface{}) error {
	raw, value, err := parseContent(comp, label)
	if err != nil {
		return err
	}
	if _, ok := value.(map[string]interface{}); !ok {
		return &ShapeError{Label: label, Reason: "was not an object"}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &ShapeError{Label: label, Reason: "did not match the expected fields: " + err.Error()}
	}
	return nil
}

// ParseArray asserts the completion carries a JSON array and decodes it
// into out.
func ParseArray(comp *Completion, label string, out interface{}) error {
	raw, value, err := parseContent(comp, label)
	if err != nil {
		return err
	}
	if _, ok := value.([]interface{}); !ok {
		return &ShapeError{Label: label, Reason: "was not an array"}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &ShapeError{Label: label, Reason: "did not match the expected fields: " + err.Error()}
	}
	return nil
}

// SafeParse re-parses a previously stored JSON payload. Non-string values
// are already structured and pass through unchanged; malformed strings
// degrade to nil rather than failing a listing. Used only at read time.
func SafeParse(value interface{}) interface{} {
	s, ok := value.(string)
	if !ok {
		return value
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return nil
	}
	return parsed
}
