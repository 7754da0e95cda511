// Package triage turns free-form IT support tickets into structured triage records.
//
// It has two halves that share one prompt contract. The data half synthesizes labeled
// prompt/completion pairs from a fixed taxonomy for fine-tuning a small language model. The
// serving half sends a ticket through that model and recovers a validated record from whatever
// text comes back.
package triage

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
)

// LLM defines the interface for the text generation process.
// Given a fully rendered prompt it returns the raw completion text. Implementations live in the
// llm package.
type LLM interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Cache defines the interface for storing classification results keyed by CacheKey.
// CachedResult returns ErrCacheMiss when the key is unknown.
type Cache interface {
	CachedResult(key string) (Result, error)
	CacheResult(key string, result Result) error
}

// Priority is the urgency tier of a ticket. P1 is the most urgent.
type Priority string

// Priority levels, most urgent first.
const (
	P1 Priority = "P1"
	P2 Priority = "P2"
	P3 Priority = "P3"
	P4 Priority = "P4"
)

// Priorities lists every priority level in rank order.
var Priorities = []Priority{P1, P2, P3, P4}

// Label is the structured triage record. Field order is the wire order of the JSON object.
type Label struct {
	Category   Category `json:"category"`
	Priority   Priority `json:"priority"`
	RouteTo    string   `json:"route_to"`
	NextAction string   `json:"next_action"`
}

// Example is one persisted training pair. Completion holds the JSON-serialized Label.
type Example struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

var (
	// ErrInvalidSplit is returned when the requested dataset split sizes are impossible.
	ErrInvalidSplit = errors.New("invalid split sizes")
	// ErrNoJSONFound is the kind of ExtractionError returned when the text has no brace-delimited span.
	ErrNoJSONFound = errors.New("no json found")
	// ErrInvalidJSON is the kind of ExtractionError returned when the span does not decode.
	ErrInvalidJSON = errors.New("invalid json")
	// ErrValidation is wrapped by ValidationError.
	ErrValidation = errors.New("label validation failed")
	// ErrCacheMiss is returned by Cache implementations when the key is not stored.
	ErrCacheMiss = errors.New("cache miss")
)

// ParsePriority reports whether s names one of the four priority levels.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(s)
	return p, slices.Contains(Priorities, p)
}

// Rank returns 1 for P1 through 4 for P4, and 0 for an unknown value.
func (p Priority) Rank() int {
	return slices.Index(Priorities, p) + 1
}

// NewRand returns a random stream fully determined by seed.
// A stream must not be shared between goroutines.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
