package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	tellm "github.com/santiagomed/tellm/sdk"
	"github.com/sashabaranov/go-openai"

	"sitesmith/logger"
)

// Upper bound on a single completion exchange. Any failure inside it
// still aborts the whole generation run upstream.
const completionTimeout = 2 * time.Minute

type OpenAIClient struct {
	openAIClient *openai.Client
	config       *LlmConfig
	tellmClient  *tellm.Client
	logger       logger.Logger
}

// NewOpenAIClient creates a new LLM client
func NewOpenAIClient(cfg *LlmConfig, logger logger.Logger) (LlmClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	openAIClient := openai.NewClient(cfg.APIKey)
	tellmClient := tellm.NewClient(cfg.TellmURL)
	return &OpenAIClient{
		openAIClient: openAIClient,
		config:       cfg,
		tellmClient:  tellmClient,
		logger:       logger,
	}, nil
}

// GetCompletion sends a request to the OpenAI API and returns the generated text
func (c *OpenAIClient) GetCompletion(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	resp, err := c.openAIClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.config.ModelName,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: getSystemPrompt(),
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: c.config.Temperature,
			MaxTokens:   c.config.MaxTokens,
		},
	)

	e := &openai.APIError{}
	if errors.As(err, &e) {
		switch e.HTTPStatusCode {
		case 401:
			return "", fmt.Errorf("unauthorized: invalid OpenAI API key")
		case 429:
			return "", fmt.Errorf("rate limited by OpenAI API")
		case 500:
			return "", fmt.Errorf("OpenAI server error")
		default:
			return "", fmt.Errorf("OpenAI API error: %v", e)
		}
	}
	if err != nil {
		return "", fmt.Errorf("OpenAI request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}
	usage := resp.Usage
	res := resp.Choices[0].Message.Content
	err = c.tellmClient.Log(c.config.BatchID, prompt, res, c.config.ModelName, usage.PromptTokens, usage.CompletionTokens)
	if err != nil {
		c.logger.WithField("warning", err).Warn("failed to log to tellm")
	}

	return res, nil
}
