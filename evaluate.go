package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Report aggregates how a classifier did on labeled examples.
type Report struct {
	Total int
	// NoJSON and InvalidJSON count completions with no recoverable object.
	NoJSON      int
	InvalidJSON int
	// Errors counts failed LLM calls.
	Errors       int
	WithWarnings int
	ExactMatch   int
	// Correct counts matching values per label key.
	Correct map[string]int
}

// Accuracy returns the share of examples whose field matched the expected label.
func (r Report) Accuracy(field string) float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct[field]) / float64(r.Total)
}

// ExactMatchRate returns the share of examples whose whole label matched.
func (r Report) ExactMatchRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.ExactMatch) / float64(r.Total)
}

// Evaluate replays labeled examples through the classifier and compares each recovered label
// with the expected one. Examples must come from Generate, i.e. have the instruction prompt
// layout and a Label completion.
func Evaluate(ctx context.Context, c *Classifier, examples []Example, concurrency int) (Report, error) {
	tickets := make([]string, len(examples))
	expected := make([]Label, len(examples))
	for i, ex := range examples {
		ticket, ok := TicketFromPrompt(ex.Prompt)
		if !ok {
			return Report{}, fmt.Errorf("example %d does not have the instruction prompt layout", i)
		}
		if err := json.Unmarshal([]byte(ex.Completion), &expected[i]); err != nil {
			return Report{}, fmt.Errorf("failed to parse completion of example %d: %w", i, err)
		}
		tickets[i] = ticket
	}

	results := c.ClassifyBatch(ctx, tickets, concurrency)
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("evaluation interrupted: %w", err)
	}

	report := Report{
		Total:   len(examples),
		Correct: make(map[string]int, len(labelKeys)),
	}
	for i, res := range results {
		switch {
		case errors.Is(res.Err, ErrNoJSONFound):
			report.NoJSON++
			continue
		case errors.Is(res.Err, ErrInvalidJSON):
			report.InvalidJSON++
			continue
		case res.Err != nil:
			report.Errors++
			continue
		}

		if len(res.Result.Warnings) > 0 {
			report.WithWarnings++
		}

		got, want := res.Result.Label, expected[i]
		if got == want {
			report.ExactMatch++
		}
		for key, match := range map[string]bool{
			"category":    got.Category == want.Category,
			"priority":    got.Priority == want.Priority,
			"route_to":    got.RouteTo == want.RouteTo,
			"next_action": got.NextAction == want.NextAction,
		} {
			if match {
				report.Correct[key]++
			}
		}
	}

	return report, nil
}
