package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAI completes prompts with OpenAI chat models. The prompt is sent as one user message.
type OpenAI struct {
	model  string
	params Parameters

	client *goopenai.Client
	logger *slog.Logger
}

// NewOpenAI creates a new OpenAI instance.
func NewOpenAI(apiKey, model string, params Parameters, logger *slog.Logger) OpenAI {
	return OpenAI{
		model:  model,
		params: params.WithDefaults(),
		client: goopenai.NewClient(apiKey),
		logger: logger.With(slog.String("module", "openai")),
	}
}

// Complete sends the prompt to the chat completions API.
func (o OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	req := o.chatRequest(prompt)

	ctx, cancel := withTimeout(ctx, o.params.Timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices found")
	}

	o.logger.Debug("Chat completion done",
		"promptTokens", resp.Usage.PromptTokens, "completionTokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}

func (o OpenAI) chatRequest(prompt string) goopenai.ChatCompletionRequest {
	req := goopenai.ChatCompletionRequest{
		Model: o.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
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
	if o.params.Seed != nil {
		req.Seed = o.params.Seed
	}

	return req
}

// temperature maps zero to the smallest positive value. go-openai drops a zero temperature from
// the request, leaving the server default of 1.
func temperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
