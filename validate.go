package triage

import (
	"fmt"
	"strings"
)

// WarningKind classifies a problem found while validating a recovered object.
type WarningKind string

// Warning kinds reported by Validate.
const (
	WarningMissingKey      WarningKind = "missing_key"
	WarningInvalidType     WarningKind = "invalid_type"
	WarningInvalidPriority WarningKind = "invalid_priority"
	WarningUnknownCategory WarningKind = "unknown_category"
	WarningRouteMismatch   WarningKind = "route_mismatch"
)

// Warning describes one shape or taxonomy problem of a recovered object.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
}

// Validation is the lenient outcome of checking a recovered object. Label holds whatever string
// fields were usable; Raw is the object as decoded.
type Validation struct {
	Label    Label
	Raw      map[string]any
	Warnings []Warning
}

// OK reports whether the object passed every check.
func (v Validation) OK() bool {
	return len(v.Warnings) == 0
}

// ValidationError is returned by ValidateStrict when any check fails.
type ValidationError struct {
	Warnings []Warning
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Warnings))
	for i, w := range e.Warnings {
		msgs[i] = w.Message
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

var labelKeys = []string{"category", "priority", "route_to", "next_action"}

// Validate checks that obj has the Label shape: all four keys present as strings, a known
// priority, a category from the taxonomy and the route of that category. Problems are reported
// as warnings next to the best-effort label rather than as an error.
func Validate(obj map[string]any, taxonomy *Taxonomy) Validation {
	v := Validation{Raw: obj}

	fields := make(map[string]string, len(labelKeys))
	for _, key := range labelKeys {
		val, ok := obj[key]
		if !ok {
			v.warn(WarningMissingKey, key, fmt.Sprintf("missing key %q", key))
			continue
		}
		s, ok := val.(string)
		if !ok {
			v.warn(WarningInvalidType, key, fmt.Sprintf("key %q is %T, want string", key, val))
			continue
		}
		fields[key] = s
	}

	v.Label = Label{
		Category:   Category(fields["category"]),
		Priority:   Priority(fields["priority"]),
		RouteTo:    fields["route_to"],
		NextAction: fields["next_action"],
	}

	if p, ok := fields["priority"]; ok {
		if _, valid := ParsePriority(p); !valid {
			v.warn(WarningInvalidPriority, "priority", fmt.Sprintf("priority %q is not one of P1-P4", p))
		}
	}

	if c, ok := fields["category"]; ok && taxonomy != nil {
		switch {
		case !taxonomy.Contains(Category(c)):
			v.warn(WarningUnknownCategory, "category", fmt.Sprintf("category %q is not in the taxonomy", c))
		case fields["route_to"] != "" && fields["route_to"] != taxonomy.Team(Category(c)):
			v.warn(WarningRouteMismatch, "route_to",
				fmt.Sprintf("route_to %q differs from %q for category %q", fields["route_to"], taxonomy.Team(Category(c)), c))
		}
	}

	return v
}

// ValidateStrict is Validate for machine consumers: any warning is returned as a *ValidationError.
func ValidateStrict(obj map[string]any, taxonomy *Taxonomy) (Label, error) {
	v := Validate(obj, taxonomy)
	if !v.OK() {
		return Label{}, &ValidationError{Warnings: v.Warnings}
	}
	return v.Label, nil
}

func (v *Validation) warn(kind WarningKind, field, msg string) {
	v.Warnings = append(v.Warnings, Warning{Kind: kind, Field: field, Message: msg})
}
