package llm

import (
	"context"
	"fmt"
)

type LlmConfig struct {
	APIKey      string
	ModelName   string
	Temperature float32
	MaxTokens   int
	BatchID     string
	TellmURL    string
}

// GenerateMarkup generates the HTML for a site from its description.
func GenerateMarkup(ctx context.Context, client LlmClient, description string) (string, error) {
	prompt := getMarkupPrompt(description)
	markup, err := client.GetCompletion(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate markup: %w", err)
	}
	if markup == "" {
		return "", fmt.Errorf("generated markup is empty")
	}
	return markup, nil
}

// GenerateStylesheet generates the CSS that styles the given markup.
func GenerateStylesheet(ctx context.Context, client LlmClient, markup string) (string, error) {
	prompt := getStylesheetPrompt(markup)
	stylesheet, err := client.GetCompletion(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate stylesheet: %w", err)
	}
	if stylesheet == "" {
		return "", fmt.Errorf("generated stylesheet is empty")
	}
	return stylesheet, nil
}

// GenerateScript generates the JavaScript that adds interactivity to the
// given markup.
func GenerateScript(ctx context.Context, client LlmClient, markup string) (string, error) {
	prompt := getScriptPrompt(markup)
	script, err := client.GetCompletion(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate script: %w", err)
	}
	if script == "" {
		return "", fmt.Errorf("generated script is empty")
	}
	return script, nil
}
