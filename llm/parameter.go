package llm

import "time"

// Parameters contains the optional generation parameters for the LLM backends.
//
// Not every backend supports every parameter; unsupported ones are ignored. The defaults decode
// greedily with a small token budget.
type Parameters struct {
	Temperature       *float32      `yaml:"temperature"`
	TopP              *float32      `yaml:"topP"`
	TopK              *int          `yaml:"topK"`
	FrequencyPenalty  *float32      `yaml:"frequencyPenalty"`
	PresencePenalty   *float32      `yaml:"presencePenalty"`
	RepetitionPenalty *float32      `yaml:"repetitionPenalty"`
	Seed              *int          `yaml:"seed"`
	MaxTokens         *int          `yaml:"maxTokens"`
	Stop              []string      `yaml:"stop"`
	Timeout           time.Duration `yaml:"timeout"`
}

const (
	defaultMaxTokens = 200
	defaultTimeout   = time.Minute
)

// DefaultParameters returns greedy decoding with a 200 token budget.
func DefaultParameters() Parameters {
	temp := float32(0)
	maxTokens := defaultMaxTokens
	return Parameters{
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		Timeout:     defaultTimeout,
	}
}

// WithDefaults fills unset fields of p from DefaultParameters.
func (p Parameters) WithDefaults() Parameters {
	d := DefaultParameters()
	if p.Temperature == nil {
		p.Temperature = d.Temperature
	}
	if p.MaxTokens == nil {
		p.MaxTokens = d.MaxTokens
	}
	if p.Timeout == 0 {
		p.Timeout = d.Timeout
	}
	return p
}

func (p Parameters) maxTokens() int {
	if p.MaxTokens == nil {
		return defaultMaxTokens
	}
	return *p.MaxTokens
}
