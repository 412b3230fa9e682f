package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitesmith/config"
	"sitesmith/graph"
	"sitesmith/llm"
	"sitesmith/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scriptedClient answers each prompt by its prefix.
type scriptedClient struct {
	markup     string
	stylesheet string
	script     string
	failOn     string
	calls      int
}

func (c *scriptedClient) GetCompletion(ctx context.Context, prompt string) (string, error) {
	c.calls++
	switch {
	case strings.HasPrefix(prompt, c.failOn) && c.failOn != "":
		return "", errors.New("rate limited by OpenAI API")
	case strings.HasPrefix(prompt, "Generate HTML code"):
		return c.markup, nil
	case strings.HasPrefix(prompt, "Generate CSS code"):
		return c.stylesheet, nil
	case strings.HasPrefix(prompt, "Generate JavaScript code"):
		return c.script, nil
	}
	return "", errors.New("unexpected prompt")
}

func newTestServer(client *scriptedClient) *Server {
	cfg := &config.Config{
		ListenAddress: ":0",
		ModelName:     "gpt-4o-mini",
		DotPath:       "sitesmith-no-such-binary",
	}
	s := New(cfg, logger.NewNullLogger())
	s.renderer = graph.NewRenderer(cfg.DotPath)
	s.newLlm = func(cfg *llm.LlmConfig, l logger.Logger) (llm.LlmClient, error) {
		return client, nil
	}
	return s
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing api key",
			body: `{"description": "a blog"}`,
			want: "an API key is required",
		},
		{
			name: "empty description",
			body: `{"api_key": "sk-test"}`,
			want: "a website description is required",
		},
		{
			name: "whitespace description",
			body: `{"api_key": "sk-test", "description": "   "}`,
			want: "a website description is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", "")
			client := &scriptedClient{}
			router := newTestServer(client).Routes()

			w := doJSON(t, router, http.MethodPost, "/api/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
			assert.Equal(t, 0, client.calls)
		})
	}
}

func TestGenerate(t *testing.T) {
	client := &scriptedClient{
		markup:     "<p>hi</p>",
		stylesheet: "p{color:red}",
		script:     "console.log(1)",
	}
	s := newTestServer(client)
	router := s.Routes()

	w := doJSON(t, router, http.MethodPost, "/api/generate",
		`{"api_key": "sk-test", "description": "a blog", "temperature": 0.5, "max_tokens": 2000}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "<p>hi</p>", resp.HTML)
	assert.Equal(t, "p{color:red}", resp.CSS)
	assert.Equal(t, "console.log(1)", resp.JS)
	assert.Contains(t, resp.GraphDot, "digraph")
	// rendering degraded, run still succeeds
	assert.Nil(t, resp.DiagramPNG)
	assert.Contains(t, resp.DiagramNote, "Could not render file structure graph")
	assert.Equal(t, 3, client.calls)

	// the stored session replays the same result
	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+resp.SessionID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var replay sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replay))
	assert.Equal(t, resp, replay)
}

func TestGenerate_ReusesSession(t *testing.T) {
	client := &scriptedClient{markup: "<p>v1</p>", stylesheet: "p{}", script: ";"}
	router := newTestServer(client).Routes()

	w := doJSON(t, router, http.MethodPost, "/api/generate",
		`{"api_key": "sk-test", "description": "a blog"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var first sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	client.markup = "<p>v2</p>"
	w = doJSON(t, router, http.MethodPost, "/api/generate",
		`{"api_key": "sk-test", "description": "a blog", "session_id": "`+first.SessionID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var second sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "<p>v2</p>", second.HTML)

	// the old result is gone
	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+first.SessionID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "v2")
	assert.NotContains(t, w.Body.String(), "v1")
}

func TestGenerate_Failure(t *testing.T) {
	client := &scriptedClient{
		markup: "<p>hi</p>",
		failOn: "Generate CSS code",
	}
	s := newTestServer(client)
	router := s.Routes()

	w := doJSON(t, router, http.MethodPost, "/api/generate",
		`{"api_key": "sk-test", "description": "a blog"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "An error occurred")
	assert.Contains(t, w.Body.String(), "rate limited")

	// a failed run stores nothing
	assert.Empty(t, s.store.sessions)
}

func TestArchive(t *testing.T) {
	client := &scriptedClient{
		markup:     "<p>hi</p>",
		stylesheet: "p{color:red}",
		script:     "console.log(1)",
	}
	router := newTestServer(client).Routes()

	w := doJSON(t, router, http.MethodPost, "/api/generate",
		`{"api_key": "sk-test", "description": "a blog"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+resp.SessionID+"/archive", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, archiveMIME, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), archiveName)

	data := w.Body.Bytes()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, reader.File, 3)

	entries := make(map[string]string)
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		entries[f.Name] = string(body)
	}
	assert.Equal(t, map[string]string{
		"website_folder/index.html": "<p>hi</p>",
		"website_folder/styles.css": "p{color:red}",
		"website_folder/script.js":  "console.log(1)",
	}, entries)
}

func TestDiagram_Degraded(t *testing.T) {
	client := &scriptedClient{markup: "<p></p>", stylesheet: "p{}", script: ";"}
	router := newTestServer(client).Routes()

	w := doJSON(t, router, http.MethodPost, "/api/generate",
		`{"api_key": "sk-test", "description": "a blog"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+resp.SessionID+"/diagram", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Could not render file structure graph")
	assert.Contains(t, w.Body.String(), "digraph")
}

func TestUnknownSession(t *testing.T) {
	router := newTestServer(&scriptedClient{}).Routes()

	for _, path := range []string{
		"/api/sessions/nope",
		"/api/sessions/nope/archive",
		"/api/sessions/nope/diagram",
	} {
		w := doJSON(t, router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "session not found")
	}
}

func TestHealthAndIndex(t *testing.T) {
	router := newTestServer(&scriptedClient{}).Routes()

	w := doJSON(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")

	w = doJSON(t, router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<title>")
}
