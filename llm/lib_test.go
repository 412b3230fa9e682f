package llm

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"sitesmith/logger"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (c *fakeClient) GetCompletion(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.response, c.err
}

func TestGenerateMarkup(t *testing.T) {
	client := &fakeClient{response: "<p>hi</p>"}

	markup, err := GenerateMarkup(context.Background(), client, "a portfolio site")
	assert.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", markup)
	assert.Equal(t, []string{
		"Generate HTML code for a website based on this description: a portfolio site. Return only the HTML code, no explanations.",
	}, client.prompts)
}

func TestGenerateStylesheet(t *testing.T) {
	client := &fakeClient{response: "p{color:red}"}

	stylesheet, err := GenerateStylesheet(context.Background(), client, "<p>hi</p>")
	assert.NoError(t, err)
	assert.Equal(t, "p{color:red}", stylesheet)
	assert.Equal(t, []string{
		"Generate CSS code to style the following HTML for a website: <p>hi</p>. Return only the CSS code, no explanations.",
	}, client.prompts)
}

func TestGenerateScript(t *testing.T) {
	client := &fakeClient{response: "console.log(1)"}

	script, err := GenerateScript(context.Background(), client, "<p>hi</p>")
	assert.NoError(t, err)
	assert.Equal(t, "console.log(1)", script)
	assert.Equal(t, []string{
		"Generate JavaScript code to add interactivity to the following HTML: <p>hi</p>. Return only the JS code, no explanations.",
	}, client.prompts)
}

func TestGenerate_Errors(t *testing.T) {
	boom := errors.New("rate limited by OpenAI API")

	_, err := GenerateMarkup(context.Background(), &fakeClient{err: boom}, "a site")
	assert.ErrorIs(t, err, boom)

	_, err = GenerateStylesheet(context.Background(), &fakeClient{err: boom}, "<p></p>")
	assert.ErrorIs(t, err, boom)

	_, err = GenerateScript(context.Background(), &fakeClient{err: boom}, "<p></p>")
	assert.ErrorIs(t, err, boom)

	_, err = GenerateMarkup(context.Background(), &fakeClient{response: ""}, "a site")
	assert.EqualError(t, err, "generated markup is empty")
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(&LlmConfig{}, logger.NewNullLogger())
	assert.EqualError(t, err, "OpenAI API key is required")
}

func TestEnsureBatchID(t *testing.T) {
	id := EnsureBatchID("")
	assert.True(t, isValidBatchID(id))

	assert.Equal(t, id, EnsureBatchID(id))
	assert.NotEqual(t, "not-a-batch-id", EnsureBatchID("not-a-batch-id"))
}

// Live round trip against the real API. Skipped unless a key is set.
func TestOpenAIClient_GetCompletion(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set")
	}

	client, err := NewOpenAIClient(&LlmConfig{
		APIKey:      apiKey,
		ModelName:   "gpt-4o-mini",
		Temperature: 0,
		MaxTokens:   100,
	}, logger.NewNullLogger())
	assert.NoError(t, err)

	res, err := client.GetCompletion(context.Background(), "Reply with the single word ok.")
	assert.NoError(t, err)
	assert.NotEmpty(t, res)
}
