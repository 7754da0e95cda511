package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// Completer is implemented by every backend in this package.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	Type       string     `yaml:"type"` // openai, openaicompat, ollama, anthropic, openrouter
	APIKey     string     `yaml:"api_key"`
	Model      string     `yaml:"model"`
	Host       string     `yaml:"host"` // base URL; required for openaicompat
	Parameters Parameters `yaml:"parameters"`
}

// New builds the backend described by cfg.
func New(cfg Config, logger *slog.Logger) (Completer, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}

	switch cfg.Type {
	case TypeOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api_key is required for %s", cfg.Type)
		}
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.Parameters, logger), nil
	case TypeOpenAICompat:
		if cfg.Host == "" {
			return nil, fmt.Errorf("host is required for %s", cfg.Type)
		}
		return NewOpenAICompat(cfg.Host, cfg.APIKey, cfg.Model, cfg.Parameters, logger), nil
	case TypeOllama:
		host := cfg.Host
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllama(host, cfg.Model, cfg.Parameters, logger)
	case TypeAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api_key is required for %s", cfg.Type)
		}
		return NewAnthropic(cfg.APIKey, cfg.Model, cfg.Host, cfg.Parameters, logger), nil
	case TypeOpenRouter:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api_key is required for %s", cfg.Type)
		}
		return NewOpenRouter(cfg.APIKey, cfg.Model, cfg.Host, cfg.Parameters, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm type %q", cfg.Type)
	}
}
