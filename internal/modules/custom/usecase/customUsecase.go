// internal/modules/custom/usecase/customUsecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"notifier/internal/modules/custom"
	"notifier/internal/modules/notification"
	resp "notifier/pkg/lib/response"
)

// topicPattern is the character set FCM accepts in topic names.
var topicPattern = regexp.MustCompile(`^[a-zA-Z0-9\-_.~%]+$`)

type CustomUseCase struct {
	repo       custom.Repo
	dispatcher notification.Dispatcher
	validate   *validator.Validate
	now        func() time.Time
	log        *slog.Logger
}

func NewCustomUseCase(repo custom.Repo, dispatcher notification.Dispatcher, log *slog.Logger) *CustomUseCase {
	v := validator.New()
	_ = v.RegisterValidation("topic", func(fl validator.FieldLevel) bool {
		return topicPattern.MatchString(fl.Field().String())
	})

	return &CustomUseCase{
		repo:       repo,
		dispatcher: dispatcher,
		validate:   v,
		now:        time.Now,
		log:        log,
	}
}

// Create stores a pending notification and processes it right away.
func (uc *CustomUseCase) Create(ctx context.Context, req custom.CreateRequest) (*custom.CustomNotification, error) {
	op := "CustomUseCase.Create"
	log := uc.log.With(slog.String("op", op))

	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", custom.ErrInvalidInput, resp.ValidationMessage(err))
	}

	n := &custom.CustomNotification{
		NotificationID: uuid.NewString(),
		Title:          req.Title,
		Body:           req.Body,
		Topic:          req.Topic,
		Status:         custom.StatusPending,
		CreatedAt:      uc.now().UTC(),
	}
	if err := uc.repo.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("custom notification stored", slog.String("notificationID", n.NotificationID))

	return uc.Process(ctx, n)
}

func (uc *CustomUseCase) Get(ctx context.Context, id string) (*custom.CustomNotification, error) {
	return uc.repo.GetNotification(ctx, id)
}

// ProcessStored processes the stored record, so a redelivered event sees its current status.
func (uc *CustomUseCase) ProcessStored(ctx context.Context, id string) (*custom.CustomNotification, error) {
	n, err := uc.repo.GetNotification(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("CustomUseCase.ProcessStored: %w", err)
	}
	return uc.Process(ctx, n)
}

// Process delivers a pending notification at most once: the record is claimed
// before the push. Invalid content is marked as error and never retried.
func (uc *CustomUseCase) Process(ctx context.Context, n *custom.CustomNotification) (*custom.CustomNotification, error) {
	op := "CustomUseCase.Process"
	log := uc.log.With(slog.String("op", op), slog.String("notificationID", n.NotificationID))

	if n.Status != "" && n.Status != custom.StatusPending {
		log.Debug("notification is not pending, skipping", slog.String("status", string(n.Status)))
		return n, nil
	}

	if err := uc.repo.ClaimNotification(ctx, n.NotificationID); err != nil {
		if !errors.Is(err, custom.ErrAlreadyProcessed) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("notification claimed by another run, skipping")
		current, getErr := uc.repo.GetNotification(ctx, n.NotificationID)
		if getErr != nil {
			return nil, fmt.Errorf("%s: %w", op, getErr)
		}
		return current, nil
	}
	n.Status = custom.StatusProcessing

	if err := uc.validate.Struct(n); err != nil {
		msg := resp.ValidationMessage(err)
		log.Warn("invalid custom notification", "reason", msg)
		return uc.markError(ctx, n, msg)
	}

	err := uc.dispatcher.Send(ctx, notification.Notification{
		Kind:  notification.KindCustom,
		Title: n.Title,
		Body:  n.Body,
		Topic: n.Topic,
		Data:  map[string]string{"notificationId": n.NotificationID},
	})
	if err != nil {
		return uc.markError(ctx, n, err.Error())
	}

	sentAt := uc.now().UTC()
	if err := uc.repo.MarkSent(ctx, n.NotificationID, sentAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n.Status = custom.StatusSent
	n.SentAt = &sentAt
	log.Info("custom notification sent", slog.String("topic", n.Topic))
	return n, nil
}

func (uc *CustomUseCase) markError(ctx context.Context, n *custom.CustomNotification, msg string) (*custom.CustomNotification, error) {
	if err := uc.repo.MarkError(ctx, n.NotificationID, msg); err != nil && !errors.Is(err, custom.ErrAlreadyProcessed) {
		return nil, fmt.Errorf("CustomUseCase.markError: %w", err)
	}
	n.Status = custom.StatusError
	n.ErrorMessage = &msg
	return n, nil
}
