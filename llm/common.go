// Package llm provides the text generation backends used by the triage classifier.
//
// Every backend takes the fully rendered instruction prompt and returns the raw completion.
// Chat-style backends send the prompt as a single user message; OpenAICompat and Ollama send it
// verbatim to a raw completion endpoint, which is how a fine-tuned adapter sees the exact
// training layout.
package llm

import (
	"context"
	"time"
)

// Backend types accepted by New.
const (
	TypeOpenAI       = "openai"
	TypeOpenAICompat = "openaicompat"
	TypeOllama       = "ollama"
	TypeAnthropic    = "anthropic"
	TypeOpenRouter   = "openrouter"
)

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
