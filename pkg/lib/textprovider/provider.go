// Package textprovider generates notification copy with an external text model.
package textprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	ErrEmptyResponse     = errors.New("text provider returned no content")
	ErrMalformedResponse = errors.New("text provider returned malformed content")
	ErrNotConfigured     = errors.New("text provider is not configured")
)

// Message is a generated push notification.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Provider interface {
	// GenerateNotification turns a tip into a push for the given time of day
	// ("morning", "afternoon" or "evening").
	GenerateNotification(ctx context.Context, tip, timeOfDay string) (Message, error)
	// GenerateText returns the model's free-text answer to prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var fallbackTitles = map[string]string{
	"morning":   "Good morning! ☀️",
	"afternoon": "Afternoon boost ⚡",
	"evening":   "Evening check-in 🌙",
}

// Fallback is the static notification used whenever the provider fails.
func Fallback(tip, timeOfDay string) Message {
	title, ok := fallbackTitles[timeOfDay]
	if !ok {
		title = "Today's tip"
	}
	body := strings.TrimSpace(tip)
	if body == "" {
		body = "Small steps add up. Pick one task and start it now."
	}
	return Message{Title: title, Body: body}
}

// NotificationOrFallback never fails: any provider error, including a nil
// provider, yields Fallback(tip, timeOfDay).
func NotificationOrFallback(ctx context.Context, p Provider, tip, timeOfDay string, log *slog.Logger) Message {
	if p == nil {
		return Fallback(tip, timeOfDay)
	}
	msg, err := p.GenerateNotification(ctx, tip, timeOfDay)
	if err != nil {
		log.Warn("text provider failed, using fallback", "timeOfDay", timeOfDay, "error", err)
		return Fallback(tip, timeOfDay)
	}
	return msg
}

// ParseMessage decodes {"title","body"} from model output, tolerating a
// surrounding markdown code fence.
func ParseMessage(content string) (Message, error) {
	raw := StripCodeFence(content)
	if raw == "" {
		return Message{}, ErrEmptyResponse
	}

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	msg.Title = strings.TrimSpace(msg.Title)
	msg.Body = strings.TrimSpace(msg.Body)
	if msg.Title == "" || msg.Body == "" {
		return Message{}, fmt.Errorf("%w: title and body are required", ErrMalformedResponse)
	}
	return msg, nil
}

func StripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
