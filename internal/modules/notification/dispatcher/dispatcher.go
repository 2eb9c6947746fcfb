// internal/modules/notification/dispatcher/dispatcher.go
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"

	"notifier/internal/modules/notification"
	"notifier/pkg/lib/pushsender"
)

type NotificationDispatcher struct {
	sender pushsender.Sender
	log    *slog.Logger
}

func New(sender pushsender.Sender, log *slog.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		sender: sender,
		log:    log.With(slog.String("service", "NotificationDispatcher")),
	}
}

func (d *NotificationDispatcher) Send(ctx context.Context, n notification.Notification) error {
	op := "NotificationDispatcher.Send"
	log := d.log.With(slog.String("op", op), slog.String("kind", string(n.Kind)), slog.String("topic", n.Topic))

	data := make(map[string]string, len(n.Data)+1)
	for k, v := range n.Data {
		data[k] = v
	}
	data["type"] = string(n.Kind)

	msg := pushsender.PushMessage{
		Title: n.Title,
		Body:  n.Body,
		Topic: n.Topic,
		Data:  data,
	}

	if _, err := d.sender.Send(ctx, msg); err != nil {
		log.Error("failed to send push notification", "error", err)
		return err
	}
	log.Info("push notification sent")
	return nil
}

func (d *NotificationDispatcher) DispatchAll(ctx context.Context, deliveries []notification.Delivery) notification.Report {
	op := "NotificationDispatcher.DispatchAll"
	log := d.log.With(slog.String("op", op))

	report := notification.Report{Attempted: len(deliveries)}
	if len(deliveries) == 0 {
		return report
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result *multierror.Error
	)

	for _, dl := range deliveries {
		wg.Add(1)
		go func(dl notification.Delivery) {
			defer wg.Done()

			err := d.Send(ctx, dl.Notification)
			if err == nil && dl.AfterSend != nil {
				if hookErr := dl.AfterSend(ctx); hookErr != nil {
					log.Error("post-send hook failed", "topic", dl.Notification.Topic, "error", hookErr)
					mu.Lock()
					result = multierror.Append(result, fmt.Errorf("after send to %s: %w", dl.Notification.Topic, hookErr))
					report.Sent++
					mu.Unlock()
					return
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				result = multierror.Append(result, fmt.Errorf("send to %s: %w", dl.Notification.Topic, err))
				return
			}
			report.Sent++
		}(dl)
	}
	wg.Wait()

	report.Err = result.ErrorOrNil()
	log.Info("fan-out finished", "attempted", report.Attempted, "sent", report.Sent, "failed", report.Failed)
	return report
}
