// pkg/lib/pushsender/fcm/fcm_sender.go
package fcm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"notifier/config"
	"notifier/pkg/lib/pushsender"
)

// messagingClient is the part of *messaging.Client the sender uses.
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type FCMSender struct {
	client messagingClient
	log    *slog.Logger
}

func NewFCMSender(ctx context.Context, cfg config.FCMConfig, logger *slog.Logger) (*FCMSender, error) {
	log := logger.With(slog.String("component", "FCMSender"))

	if cfg.ProjectID == "" && cfg.ServiceAccountKeyJSONPath == "" {
		return nil, errors.New("FCM configuration error: ProjectID or ServiceAccountKeyJSONPath is missing")
	}

	var opts []option.ClientOption
	if cfg.ServiceAccountKeyJSONPath != "" {
		log.Info("Using service account key from file path for FCM authentication.", "path", cfg.ServiceAccountKeyJSONPath)
		opts = append(opts, option.WithCredentialsFile(cfg.ServiceAccountKeyJSONPath))
	} else {
		log.Info("Service account key path not provided, using Application Default Credentials for FCM.")
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing Firebase App: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting Firebase Messaging client: %w", err)
	}

	log.Info("FCMSender initialized successfully")
	return &FCMSender{
		client: messagingClient,
		log:    log,
	}, nil
}

func (s *FCMSender) Send(ctx context.Context, msg pushsender.PushMessage) (string, error) {
	op := "FCMSender.Send"
	log := s.log.With(slog.String("op", op), slog.String("topic", msg.Topic))

	if msg.Topic == "" {
		return "", pushsender.ErrEmptyTopic
	}

	fcmNotification := &messaging.Notification{
		Title: msg.Title,
		Body:  msg.Body,
	}
	if msg.ImageURL != nil && *msg.ImageURL != "" {
		fcmNotification.ImageURL = *msg.ImageURL
	}

	id, err := s.client.Send(ctx, toMessage(msg, fcmNotification))
	if err != nil {
		return "", fmt.Errorf("fcm send to topic %q: %w", msg.Topic, err)
	}

	log.Debug("FCM message accepted", slog.String("message_id", id))
	return id, nil
}

func toMessage(msg pushsender.PushMessage, n *messaging.Notification) *messaging.Message {
	return &messaging.Message{
		Notification: n,
		Data:         msg.Data,
		Topic:        msg.Topic,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}

func (s *FCMSender) Ping(ctx context.Context) error {
	if s.client == nil {
		return errors.New("FCM client not initialized, check NewFCMSender logs for errors")
	}
	return nil
}
