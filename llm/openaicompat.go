package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAICompat completes prompts against an OpenAI-compatible server (vLLM, TGI, llama.cpp)
// through its raw /completions endpoint. No chat template is applied, so a model fine-tuned on
// prompt+completion text receives the prompt exactly as it was trained.
type OpenAICompat struct {
	BaseURL string
	model   string
	params  Parameters

	client *goopenai.Client
	logger *slog.Logger
}

// NewOpenAICompat creates a new OpenAICompat instance. host is the API base URL, usually ending
// in /v1.
func NewOpenAICompat(host, apiKey, model string, params Parameters, logger *slog.Logger) OpenAICompat {
	baseURL := strings.TrimSuffix(host, "/")

	config := goopenai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return OpenAICompat{
		BaseURL: baseURL,
		model:   model,
		params:  params.WithDefaults(),
		client:  goopenai.NewClientWithConfig(config),
		logger:  logger.With(slog.String("module", "openaicompat")),
	}
}

// Complete sends the prompt to the completions endpoint and returns the generated text.
func (o OpenAICompat) Complete(ctx context.Context, prompt string) (string, error) {
	req := o.completionRequest(prompt)

	ctx, cancel := withTimeout(ctx, o.params.Timeout)
	defer cancel()

	resp, err := o.client.CreateCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices found")
	}

	o.logger.Debug("Completion done", "baseURL", o.BaseURL, "finishReason", resp.Choices[0].FinishReason)

	return resp.Choices[0].Text, nil
}

func (o OpenAICompat) completionRequest(prompt string) goopenai.CompletionRequest {
	req := goopenai.CompletionRequest{
		Model:     o.model,
		Prompt:    prompt,
		MaxTokens: o.params.maxTokens(),
	}

	if o.params.Temperature != nil {
		req.Temperature = temperature(*o.params.Temperature)
	}
	if o.params.TopP != nil {
		req.TopP = *o.params.TopP
	}
	if o.params.Stop != nil {
		req.Stop = o.params.Stop
	}
	if o.params.PresencePenalty != nil {
		req.PresencePenalty = *o.params.PresencePenalty
	}
	if o.params.FrequencyPenalty != nil {
		req.FrequencyPenalty = *o.params.FrequencyPenalty
	}

	return req
}
