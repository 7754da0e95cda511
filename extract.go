package triage

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// ExtractionError reports why no JSON object could be recovered from generated text.
// Kind is ErrNoJSONFound or ErrInvalidJSON. Raw holds the full text for ErrNoJSONFound and the
// matched span for ErrInvalidJSON.
type ExtractionError struct {
	Kind error
	Raw  string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *ExtractionError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Extract recovers a JSON object from free text that may carry commentary around it.
//
// The candidate is the span from the first '{' to the last '}'. Brackets are not balanced, so
// when the text holds several brace blocks the outer span is taken, and usually fails to decode.
// The decoded object is returned without checking its keys; see Validate.
func Extract(raw string) (map[string]any, error) {
	span, ok := braceSpan(raw)
	if !ok {
		return nil, &ExtractionError{Kind: ErrNoJSONFound, Raw: raw}
	}

	obj, err := decodeObject(span)
	if err != nil {
		return nil, &ExtractionError{Kind: ErrInvalidJSON, Raw: span, Err: err}
	}
	return obj, nil
}

// ExtractRepair is Extract with a second chance: a span that does not decode is run through a
// JSON repairer (unquoted keys, single quotes, trailing commas, missing closers) and decoded again.
// repaired reports whether the returned object came from the repaired text.
func ExtractRepair(raw string) (obj map[string]any, repaired bool, err error) {
	span, ok := braceSpan(raw)
	if !ok {
		return nil, false, &ExtractionError{Kind: ErrNoJSONFound, Raw: raw}
	}

	obj, err = decodeObject(span)
	if err == nil {
		return obj, false, nil
	}

	fixed, rErr := jsonrepair.RepairJSON(span)
	if rErr != nil {
		return nil, false, &ExtractionError{Kind: ErrInvalidJSON, Raw: span, Err: err}
	}
	obj, fErr := decodeObject(fixed)
	if fErr != nil {
		return nil, false, &ExtractionError{Kind: ErrInvalidJSON, Raw: span, Err: err}
	}
	return obj, true, nil
}

func braceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}
	end := strings.LastIndex(s, "}")
	if end < start {
		return "", false
	}
	return s[start : end+1], true
}

func decodeObject(s string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, err
	}
	// "null" would decode into a nil map; a brace span never is, but a repaired one might be.
	if obj == nil {
		return nil, fmt.Errorf("decoded value is not an object")
	}
	return obj, nil
}
