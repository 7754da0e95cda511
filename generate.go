package triage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
)

// Generator synthesizes labeled training examples from a Taxonomy.
// It owns its random stream, so a Generator built from a given seed always yields the same
// sequence. A Generator is not safe for concurrent use; give each goroutine its own.
type Generator struct {
	taxonomy *Taxonomy
	rng      *rand.Rand
}

// NewGenerator creates a Generator drawing from rng.
func NewGenerator(taxonomy *Taxonomy, rng *rand.Rand) *Generator {
	return &Generator{
		taxonomy: taxonomy,
		rng:      rng,
	}
}

// Generate produces one example: a category, one of its phrasings as the ticket, the heuristic
// priority, one of its next actions, and the category's team.
func (g *Generator) Generate() Example {
	category := g.taxonomy.RandomCategory(g.rng)
	text := g.taxonomy.RandomPhrasing(category, g.rng)
	priority := ClassifyPriority(category, text, g.rng)
	action := g.taxonomy.RandomAction(category, g.rng)

	label := Label{
		Category:   category,
		Priority:   priority,
		RouteTo:    g.taxonomy.Team(category),
		NextAction: action,
	}

	return Example{
		Prompt:     Prompt(text),
		Completion: MarshalLabel(label),
	}
}

// Split generates nTotal examples, shuffles them once with the generator's stream, and returns
// the first nEval as the evaluation set and the rest as the training set. It requires
// 0 <= nEval <= nTotal and consumes no randomness when that does not hold.
func (g *Generator) Split(nTotal, nEval int) (train, eval []Example, err error) {
	if nTotal < 0 || nEval < 0 || nEval > nTotal {
		return nil, nil, fmt.Errorf("%w: n_total=%d n_eval=%d", ErrInvalidSplit, nTotal, nEval)
	}

	data := make([]Example, nTotal)
	for i := range data {
		data[i] = g.Generate()
	}
	g.rng.Shuffle(len(data), func(i, j int) {
		data[i], data[j] = data[j], data[i]
	})

	return data[nEval:], data[:nEval:nEval], nil
}

// MarshalLabel serializes l in wire key order with ", " and ": " separators and without HTML
// escaping. Completions of existing training files use this layout byte for byte.
func MarshalLabel(l Label) string {
	fields := [...]struct{ key, value string }{
		{"category", string(l.Category)},
		{"priority", string(l.Priority)},
		{"route_to", l.RouteTo},
		{"next_action", l.NextAction},
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteJSON(f.key))
		b.WriteString(": ")
		b.WriteString(quoteJSON(f.value))
	}
	b.WriteByte('}')
	return b.String()
}

func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// A string always encodes.
	_ = enc.Encode(s)
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
