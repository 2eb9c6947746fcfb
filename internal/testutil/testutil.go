// Package testutil holds fakes shared by the module tests.
package testutil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"notifier/pkg/lib/pushsender"
)

var ErrSendFailed = errors.New("send failed")

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RecordingSender records every accepted message and fails for topics listed in FailTopics.
type RecordingSender struct {
	mu         sync.Mutex
	Messages   []pushsender.PushMessage
	FailTopics map[string]bool
}

func NewRecordingSender(failTopics ...string) *RecordingSender {
	s := &RecordingSender{FailTopics: map[string]bool{}}
	for _, t := range failTopics {
		s.FailTopics[t] = true
	}
	return s
}

func (s *RecordingSender) Send(_ context.Context, msg pushsender.PushMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailTopics[msg.Topic] {
		return "", ErrSendFailed
	}
	s.Messages = append(s.Messages, msg)
	return "msg-" + msg.Topic, nil
}

func (s *RecordingSender) Ping(context.Context) error { return nil }

// ByTopic returns the accepted messages addressed to topic.
func (s *RecordingSender) ByTopic(topic string) []pushsender.PushMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pushsender.PushMessage
	for _, m := range s.Messages {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

func (s *RecordingSender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Messages)
}
