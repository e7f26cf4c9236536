package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/showcase-publisher/internal/showcase"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Stream bool `json:"stream"`
}

type imageRequest struct {
	Prompt         string `json:"prompt"`
	Model          string `json:"model"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/"}, nil)
}

func chatReply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}}},
	})
}

func TestSummarizeSendsSingleTurn(t *testing.T) {
	t.Parallel()

	var got chatRequest
	var auth, path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		chatReply(w, "Un site vitrine.\n\nUne agence web lyonnaise.\n  \nHTML, CSS, Go\n")
	})

	lines, err := client.Summarize(context.Background(), "https://www.exemple.fr/", "Bienvenue chez Exemple.")
	require.NoError(t, err)

	assert.Equal(t, []string{"Un site vitrine.", "Une agence web lyonnaise.", "HTML, CSS, Go"}, lines)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, systemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Contains(t, got.Messages[1].Content, "https://www.exemple.fr/")
	assert.Contains(t, got.Messages[1].Content, "Bienvenue chez Exemple.")
}

func TestSummarizeEndpointError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	})

	_, err := client.Summarize(context.Background(), "https://www.exemple.fr/", "x")
	require.Error(t, err)
	assert.True(t, showcase.IsKind(err, showcase.KindGeneration))
}

func TestSummarizeNoChoices(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	})

	_, err := client.Summarize(context.Background(), "https://www.exemple.fr/", "x")
	require.Error(t, err)
	assert.True(t, showcase.IsKind(err, showcase.KindGeneration))
}

func TestGenerateImage(t *testing.T) {
	t.Parallel()

	var got imageRequest
	var path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[{"url":"https://images.example.com/a.png"}]}`))
	})

	url, err := client.GenerateImage(context.Background(), "Illustration conceptuelle du site Exemple")
	require.NoError(t, err)

	assert.Equal(t, "https://images.example.com/a.png", url)
	assert.Equal(t, "/v1/images/generations", path)
	assert.Equal(t, "Illustration conceptuelle du site Exemple", got.Prompt)
	assert.Equal(t, "dall-e-3", got.Model)
	assert.Equal(t, 1, got.N)
	assert.Equal(t, "1024x1024", got.Size)
	assert.Equal(t, "url", got.ResponseFormat)
}

func TestGenerateImageFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom"}}`},
		{name: "no data", status: http.StatusOK, body: `{"created":1,"data":[]}`},
		{name: "empty url", status: http.StatusOK, body: `{"created":1,"data":[{"url":""}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.GenerateImage(context.Background(), "prompt")
			require.Error(t, err)
			assert.True(t, showcase.IsKind(err, showcase.KindGeneration))
		})
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SplitLines(""))
	assert.Nil(t, SplitLines("\n \n\t\n"))
	assert.Equal(t, []string{"a", " b"}, SplitLines("a\r\n\r\n b\n"))
}

func TestThrottledClientHonorsContext(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		chatReply(w, "a\nb\nc")
	}))
	t.Cleanup(srv.Close)
	client := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", RequestsPerMinute: 1}, nil)

	_, err := client.Summarize(context.Background(), "https://www.exemple.fr/", "x")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Summarize(ctx, "https://www.exemple.fr/", "x")
	require.Error(t, err)
	assert.True(t, showcase.IsKind(err, showcase.KindGeneration))
	assert.Equal(t, 1, calls)
}
