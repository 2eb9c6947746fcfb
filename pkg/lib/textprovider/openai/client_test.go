package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/config"
	"notifier/pkg/lib/textprovider"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.TextProviderConfig{
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}, "test-api-key", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func reply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(chatResponse{
		ID:      "chatcmpl-123",
		Model:   "gpt-4o-mini",
		Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: content}, FinishReason: "stop"}},
		Usage:   usage{TotalTokens: 42},
	})
}

func TestClient_GenerateNotification(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "morning")
		assert.Contains(t, req.Messages[1].Content, "Plan your day")

		reply(w, "```json\n{\"title\": \"Rise and plan\", \"body\": \"Five minutes of planning saves an hour.\"}\n```")
	})

	msg, err := client.GenerateNotification(context.Background(), "Plan your day", "morning")
	require.NoError(t, err)
	assert.Equal(t, "Rise and plan", msg.Title)
	assert.Equal(t, "Five minutes of planning saves an hour.", msg.Body)
}

func TestClient_GenerateNotification_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
			},
		},
		{
			name:    "malformed content",
			handler: func(w http.ResponseWriter, _ *http.Request) { reply(w, "Rise and plan!") },
			wantErr: textprovider.ErrMalformedResponse,
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(chatResponse{ID: "x"})
			},
			wantErr: textprovider.ErrEmptyResponse,
		},
		{
			name:    "missing title",
			handler: func(w http.ResponseWriter, _ *http.Request) { reply(w, `{"body":"only a body"}`) },
			wantErr: textprovider.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.GenerateNotification(context.Background(), "tip", "evening")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClient_GenerateText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, "  1. Start small\n2. Take breaks\n3. Review your day  ")
	})

	text, err := client.GenerateText(context.Background(), "three tips")
	require.NoError(t, err)
	assert.Equal(t, "1. Start small\n2. Take breaks\n3. Review your day", text)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(config.TextProviderConfig{}, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorIs(t, err, textprovider.ErrNotConfigured)
}
