// Package internal holds the token counters used for dataset statistics.
package internal

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter counts the tokens of a text under some tokenizer.
type TokenCounter interface {
	CountTokens(text string) (int, error)
}

// Tokenizer kinds accepted by NewTokenCounter.
const (
	KindTiktoken = "tiktoken"
	KindBPE      = "bpe"
)

// Tiktoken counts tokens with an OpenAI encoding.
type Tiktoken struct {
	codec tokenizer.Codec
}

// NewTokenCounter builds the counter named by kind. vocabPath and mergesPath are only read for
// the bpe kind.
func NewTokenCounter(kind, vocabPath, mergesPath string) (TokenCounter, error) {
	switch kind {
	case "", KindTiktoken:
		return NewTiktoken("")
	case KindBPE:
		return NewBPE(vocabPath, mergesPath)
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", kind)
	}
}

// NewTiktoken loads the encoding of model, GPT-4o when model is empty.
func NewTiktoken(model string) (Tiktoken, error) {
	if model == "" {
		model = string(tokenizer.GPT4o)
	}

	codec, err := tokenizer.ForModel(tokenizer.Model(model))
	if err != nil {
		return Tiktoken{}, fmt.Errorf("failed to get tokenizer: %w", err)
	}

	return Tiktoken{codec: codec}, nil
}

// CountTokens returns the number of tokens in text.
func (t Tiktoken) CountTokens(text string) (int, error) {
	ids, _, err := t.codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("failed to encode string: %w", err)
	}
	return len(ids), nil
}
