package core

import (
	"errors"
	"os"
	"strings"
)

// Bounds on the two generation parameters.
const (
	MinTemperature = 0.0
	MaxTemperature = 1.0
	MinMaxTokens   = 100
	MaxMaxTokens   = 5000

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

var (
	ErrMissingAPIKey    = errors.New("an API key is required")
	ErrEmptyDescription = errors.New("a website description is required")
)

// Request holds one generation run's inputs.
type Request struct {
	Description string  `mapstructure:"description" json:"description"`
	APIKey      string  `mapstructure:"openai_api_key" json:"-"`
	ModelName   string  `mapstructure:"model_name" json:"model_name"`
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
}

// DefaultRequest returns a Request with default values.
func DefaultRequest() *Request {
	return &Request{
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		ModelName:   "gpt-4o-mini",
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// Clamp forces the numeric parameters into their bounds.
func (r *Request) Clamp() {
	if r.Temperature < MinTemperature {
		r.Temperature = MinTemperature
	}
	if r.Temperature > MaxTemperature {
		r.Temperature = MaxTemperature
	}
	if r.MaxTokens < MinMaxTokens {
		r.MaxTokens = MinMaxTokens
	}
	if r.MaxTokens > MaxMaxTokens {
		r.MaxTokens = MaxMaxTokens
	}
}

// Validate rejects requests that must never reach a generation call:
// missing credential, or an empty or whitespace-only description.
func (r *Request) Validate() error {
	if r.APIKey == "" {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}
