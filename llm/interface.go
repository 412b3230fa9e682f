package llm

import "context"

type LlmClient interface {
	GetCompletion(ctx context.Context, prompt string) (string, error)
}
