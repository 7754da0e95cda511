package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
	"golang.org/x/sync/errgroup"
)

// Classifier runs tickets through the generation process and recovers triage records from the
// completions. It holds no per-request state and is safe for concurrent use.
type Classifier struct {
	llm       LLM
	taxonomy  *Taxonomy
	cache     Cache
	keyPrefix string
	repair    bool

	logger *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// Result is a recovered triage record. When Warnings is empty Label is complete and valid.
type Result struct {
	Label    Label          `json:"label"`
	Raw      map[string]any `json:"raw"`
	Warnings []Warning      `json:"warnings,omitempty"`
	Repaired bool           `json:"repaired,omitempty"`

	// Cached is set when the result was served from the cache.
	Cached bool `json:"-"`
}

// ErrorResponse is the body returned for a completion that held no usable JSON.
type ErrorResponse struct {
	Error string `json:"error"`
	Raw   string `json:"raw"`
}

// BatchResult pairs one ticket of ClassifyBatch with its outcome.
type BatchResult struct {
	Ticket string
	Result Result
	Err    error
}

var thinkTagsRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

const warningsKey = "warnings"

// WithCache stores successful results in cache and serves repeated tickets from it.
func WithCache(cache Cache) ClassifierOption {
	return func(c *Classifier) {
		c.cache = cache
	}
}

// WithCacheKeyPrefix namespaces cache keys, typically with the model name, so results of
// different models do not mix.
func WithCacheKeyPrefix(prefix string) ClassifierOption {
	return func(c *Classifier) {
		c.keyPrefix = prefix
	}
}

// WithRepair makes the classifier try to repair malformed JSON before giving up on it.
func WithRepair(repair bool) ClassifierOption {
	return func(c *Classifier) {
		c.repair = repair
	}
}

// NewClassifier creates a Classifier backed by llm and validating against taxonomy.
func NewClassifier(llm LLM, taxonomy *Taxonomy, logger *slog.Logger, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		llm:      llm,
		taxonomy: taxonomy,
		logger:   logger.With(slog.String("module", "classifier")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify renders the ticket into the instruction prompt, asks the LLM for a completion and
// recovers the triage record from it.
//
// An error wrapping ErrNoJSONFound or ErrInvalidJSON means the model answered without usable
// JSON; ErrorBody turns it into the response body. Other errors come from the LLM call.
func (c *Classifier) Classify(ctx context.Context, ticket string) (Result, error) {
	prompt := Prompt(ticket)
	key := CacheKey(c.keyPrefix, prompt)

	if c.cache != nil {
		res, err := c.cache.CachedResult(key)
		switch {
		case err == nil:
			c.logger.Debug("Serving cached result", "key", key)
			res.Cached = true
			return res, nil
		case errors.Is(err, ErrCacheMiss):
		default:
			c.logger.Warn("Failed to read cache", "key", key, "error", err)
		}
	}

	c.logger.Debug("Use LLM to classify ticket", "prompt", prompt)

	completion, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("failed to complete prompt: %w", err)
	}

	res, err := c.interpret(prompt, completion)
	if err != nil {
		c.logger.Warn("Failed to extract label", "error", err, "completion", completion)
		return Result{}, err
	}
	if len(res.Warnings) > 0 {
		c.logger.Warn("Label has validation warnings", "warnings", res.Warnings)
		if _, ok := res.Raw[warningsKey]; ok {
			c.logger.Warn("Model output has its own warnings field, the response body replaces it",
				"model_warnings", res.Raw[warningsKey])
		}
	}

	if c.cache != nil {
		if err := c.cache.CacheResult(key, res); err != nil {
			c.logger.Warn("Failed to write cache", "key", key, "error", err)
		}
	}

	return res, nil
}

// ClassifyBatch classifies tickets with at most concurrency requests in flight. Results are in
// input order and failures are reported per ticket.
func (c *Classifier) ClassifyBatch(ctx context.Context, tickets []string, concurrency int) []BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]BatchResult, len(tickets))

	eg := new(errgroup.Group)
	eg.SetLimit(concurrency)
	for i, ticket := range tickets {
		eg.Go(func() error {
			res, err := c.Classify(ctx, ticket)
			results[i] = BatchResult{Ticket: ticket, Result: res, Err: err}
			return nil
		})
	}
	_ = eg.Wait()

	c.logger.Info("Classified batch", "count", len(tickets), "concurrency", concurrency)

	return results
}

func (c *Classifier) interpret(prompt, completion string) (Result, error) {
	text := completionTail(prompt, completion)

	var (
		obj      map[string]any
		repaired bool
		err      error
	)
	if c.repair {
		obj, repaired, err = ExtractRepair(text)
	} else {
		obj, err = Extract(text)
	}
	if err != nil {
		return Result{}, err
	}

	v := Validate(obj, c.taxonomy)
	return Result{
		Label:    v.Label,
		Raw:      v.Raw,
		Warnings: v.Warnings,
		Repaired: repaired,
	}, nil
}

// completionTail drops reasoning blocks and the echoed prompt of backends that return it ahead of
// the generated text.
func completionTail(prompt, completion string) string {
	text := thinkTagsRe.ReplaceAllString(completion, "")
	if rest, ok := strings.CutPrefix(strings.TrimLeft(text, " \n"), prompt); ok {
		text = rest
	}
	return strings.TrimSpace(text)
}

// Body returns the response body for r: the label itself when it is clean, otherwise the object
// as the model produced it with the warnings attached.
func (r Result) Body() any {
	if len(r.Warnings) == 0 {
		return r.Label
	}
	body := make(map[string]any, len(r.Raw)+1)
	maps.Copy(body, r.Raw)
	body[warningsKey] = r.Warnings
	return body
}

// ErrorBody returns the response body for a failed classification. Extraction failures carry
// the offending text in Raw.
func ErrorBody(err error) ErrorResponse {
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		return ErrorResponse{Error: err.Error()}
	}

	msg := extractErr.Kind.Error()
	switch {
	case errors.Is(extractErr.Kind, ErrNoJSONFound):
		msg = "No JSON found"
	case errors.Is(extractErr.Kind, ErrInvalidJSON):
		msg = "Invalid JSON"
	}
	return ErrorResponse{Error: msg, Raw: extractErr.Raw}
}

// CacheKey derives the cache key of a prompt within a namespace.
func CacheKey(prefix, prompt string) string {
	sum := strconv.FormatUint(xxhash.Sum64String(prompt), 16)
	if prefix == "" {
		return sum
	}
	return prefix + ":" + sum
}
