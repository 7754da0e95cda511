package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// OpenRouter completes prompts with models hosted on OpenRouter. The prompt is sent as one user
// message and reasoning tokens are not requested.
type OpenRouter struct {
	apiKey   string
	model    string
	endpoint string

	params Parameters

	client *http.Client
	logger *slog.Logger
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

type openRouterChatRequest struct {
	Model    string              `json:"model"`
	Messages []openRouterMessage `json:"messages"`

	Temperature       *float32 `json:"temperature,omitempty"`
	TopP              *float32 `json:"top_p,omitempty"`
	TopK              *int     `json:"top_k,omitempty"`
	FrequencyPenalty  *float32 `json:"frequency_penalty,omitempty"`
	PresencePenalty   *float32 `json:"presence_penalty,omitempty"`
	RepetitionPenalty *float32 `json:"repetition_penalty,omitempty"`
	Seed              *int     `json:"seed,omitempty"`
	MaxTokens         *int     `json:"max_tokens,omitempty"`
	Stop              []string `json:"stop,omitempty"`
	IncludeReasoning  *bool    `json:"include_reasoning,omitempty"`
}

type openRouterResponse struct {
	Choices []openRouterChoice `json:"choices"`
}

type openRouterChoice struct {
	Message      openRouterMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

const openRouterAPIEndpoint = "https://openrouter.ai/api/v1"

// NewOpenRouter creates a new OpenRouter instance. An empty endpoint selects the public API.
func NewOpenRouter(apiKey, model, endpoint string, params Parameters, logger *slog.Logger) OpenRouter {
	if endpoint == "" {
		endpoint = openRouterAPIEndpoint
	}
	return OpenRouter{
		apiKey:   apiKey,
		model:    model,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		params:   params.WithDefaults(),
		client:   &http.Client{},
		logger:   logger.With(slog.String("module", "openrouter")),
	}
}

// Complete sends the prompt to the chat completions API.
func (o OpenRouter) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, o.params.Timeout)
	defer cancel()

	noReasoning := false
	reqBody := openRouterChatRequest{
		Model:    o.model,
		Messages: []openRouterMessage{{Role: "user", Content: prompt}},

		Temperature:       o.params.Temperature,
		TopP:              o.params.TopP,
		TopK:              o.params.TopK,
		FrequencyPenalty:  o.params.FrequencyPenalty,
		PresencePenalty:   o.params.PresencePenalty,
		RepetitionPenalty: o.params.RepetitionPenalty,
		Seed:              o.params.Seed,
		MaxTokens:         o.params.MaxTokens,
		Stop:              o.params.Stop,
		IncludeReasoning:  &noReasoning,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.endpoint+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var chatResp openRouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.New("no choices found")
	}

	o.logger.Debug("Chat completion done", "finishReason", chatResp.Choices[0].FinishReason)

	return chatResp.Choices[0].Message.Content, nil
}
