// pkg/lib/textprovider/openai/client.go
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"notifier/config"
	"notifier/pkg/lib/textprovider"
)

const systemPrompt = "You write short, warm push notifications for a productivity app. " +
	"Never use hashtags. Keep titles under 40 characters and bodies under 120 characters."

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg config.TextProviderConfig, apiKey string, log *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, textprovider.ErrNotConfigured
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log.With(slog.String("component", "TextProvider")),
	}, nil
}

func (c *Client) GenerateNotification(ctx context.Context, tip, timeOfDay string) (textprovider.Message, error) {
	op := "Client.GenerateNotification"

	prompt := fmt.Sprintf(
		"Turn this productivity tip into a %s push notification: %q\n"+
			"Reply with JSON only, in the form {\"title\": \"...\", \"body\": \"...\"}.",
		timeOfDay, tip)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return textprovider.Message{}, fmt.Errorf("%s: %w", op, err)
	}
	msg, err := textprovider.ParseMessage(content)
	if err != nil {
		return textprovider.Message{}, fmt.Errorf("%s: %w", op, err)
	}
	return msg, nil
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	op := "Client.GenerateText"

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%s: %w", op, textprovider.ErrEmptyResponse)
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	log := c.log.With(slog.String("op", "Client.complete"), slog.String("model", c.model))
	startTime := time.Now()

	reqJSON, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.8,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("text provider error (%d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("text provider error (%d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", textprovider.ErrMalformedResponse, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.Join(textprovider.ErrEmptyResponse, errors.New("no choices in response"))
	}

	log.Debug("completion received",
		slog.Int("tokens_used", chatResp.Usage.TotalTokens),
		slog.Int64("generation_time_ms", time.Since(startTime).Milliseconds()),
	)
	return chatResp.Choices[0].Message.Content, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   usage        `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
