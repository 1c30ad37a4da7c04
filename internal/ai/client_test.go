package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
}

var testMessages = []Message{
	{Role: RoleSystem, Content: "system"},
	{Role: RoleUser, Content: "user"},
}

func TestClient_Complete(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"score": 80}`)
	defer srv.Close()

	c := NewClient(srv.URL+"/v1", "test-model", "test-key", time.Second)
	out, err := c.Complete(context.Background(), testMessages, Options{MaxTokens: 100, Temperature: 0.2})

	require.NoError(t, err)
	assert.Equal(t, `{"score": 80}`, out)
}

func TestClient_Non2xxIsError(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError, "")
	defer srv.Close()

	c := NewClient(srv.URL+"/v1/", "test-model", "test-key", time.Second)
	_, err := c.Complete(context.Background(), testMessages, Options{})

	assert.Error(t, err)
}

func TestClient_EmptyContentIsError(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "  ")
	defer srv.Close()

	c := NewClient(srv.URL+"/v1", "test-model", "test-key", time.Second)
	_, err := c.Complete(context.Background(), testMessages, Options{})

	assert.Error(t, err)
}

func TestClient_MissingBaseURL(t *testing.T) {
	c := NewClient("", "test-model", "test-key", time.Second)
	_, err := c.Complete(context.Background(), testMessages, Options{})

	assert.Error(t, err)
}

func TestOpenAIClient_Complete(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "```json\n{\"score\": 71}\n```")
	defer srv.Close()

	c := NewOpenAIClient(srv.URL+"/v1", "test-model", "test-key", time.Second)
	out, err := c.Complete(context.Background(), testMessages, Options{MaxTokens: 50, Temperature: 0.1})

	require.NoError(t, err)
	raw, err := ExtractJSON(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"score": 71}`, string(raw))
}

func TestOpenAIClient_Non2xxIsError(t *testing.T) {
	srv := chatServer(t, http.StatusBadGateway, "")
	defer srv.Close()

	c := NewOpenAIClient(srv.URL+"/v1", "test-model", "test-key", time.Second)
	_, err := c.Complete(context.Background(), testMessages, Options{})

	assert.Error(t, err)
}
