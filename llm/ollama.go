package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// Ollama completes prompts with a model served by an Ollama instance. Requests use raw mode so
// the model's own prompt template is bypassed.
type Ollama struct {
	host  string
	model string

	params Parameters

	client *api.Client

	logger *slog.Logger
}

// NewOllama creates a new Ollama instance with the specified host URL and model name.
// It returns an error when host is not a valid URL.
func NewOllama(host, model string, params Parameters, logger *slog.Logger) (Ollama, error) {
	u, err := url.Parse(host)
	if err != nil {
		return Ollama{}, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	return Ollama{
		host:   host,
		model:  model,
		params: params.WithDefaults(),
		client: api.NewClient(u, &http.Client{}),
		logger: logger.With(slog.String("module", "ollama")),
	}, nil
}

// Complete sends the prompt to the generate API and collects the streamed response.
func (o Ollama) Complete(ctx context.Context, prompt string) (string, error) {
	req := o.generateRequest(prompt)

	ctx, cancel := withTimeout(ctx, o.params.Timeout)
	defer cancel()

	var result strings.Builder

	if err := o.client.Generate(ctx, &req, func(res api.GenerateResponse) error {
		result.WriteString(res.Response)
		if res.Done {
			o.logger.Debug("Generate done", "host", o.host, "evalCount", res.EvalCount)
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}

	return result.String(), nil
}

func (o Ollama) generateRequest(prompt string) api.GenerateRequest {
	req := api.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Raw:    true,
	}

	opts := map[string]any{
		"num_predict": o.params.maxTokens(),
	}

	if o.params.Temperature != nil {
		opts["temperature"] = *o.params.Temperature
	}
	if o.params.Seed != nil {
		opts["seed"] = *o.params.Seed
	}
	if o.params.Stop != nil {
		opts["stop"] = o.params.Stop
	}
	if o.params.TopK != nil {
		opts["top_k"] = *o.params.TopK
	}
	if o.params.TopP != nil {
		opts["top_p"] = *o.params.TopP
	}
	if o.params.RepetitionPenalty != nil {
		opts["repeat_penalty"] = *o.params.RepetitionPenalty
	}

	req.Options = opts

	return req
}
