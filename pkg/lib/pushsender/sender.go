package pushsender

import (
	"context"
	"errors"
)

var ErrEmptyTopic = errors.New("push message has no topic")

// PushMessage is one notification addressed to every device subscribed to Topic.
type PushMessage struct {
	Title    string
	Body     string
	Topic    string
	Data     map[string]string // deep-link payload for the client
	ImageURL *string
}

// Sender delivers push messages. Implementations are best-effort: a returned
// error means this one message was not accepted by the push service.
type Sender interface {
	// Send returns the provider message id on success.
	Send(ctx context.Context, msg PushMessage) (string, error)
	// Ping checks that the sender is configured.
	Ping(ctx context.Context) error
}
