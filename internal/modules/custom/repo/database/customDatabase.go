package database

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"notifier/internal/modules/custom"
)

type CustomDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewCustomDatabase(db *gorm.DB, log *slog.Logger) *CustomDatabase {
	return &CustomDatabase{
		db:  db,
		log: log,
	}
}

func (r *CustomDatabase) CreateNotification(ctx context.Context, n *custom.CustomNotification) error {
	op := "CustomDatabase.CreateNotification"
	log := r.log.With(slog.String("op", op), slog.String("notificationID", n.NotificationID))

	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		log.Error("failed to create custom notification", "error", err)
		return custom.ErrNotificationInternal
	}
	return nil
}

func (r *CustomDatabase) GetNotification(ctx context.Context, id string) (*custom.CustomNotification, error) {
	op := "CustomDatabase.GetNotification"
	log := r.log.With(slog.String("op", op), slog.String("notificationID", id))

	var n custom.CustomNotification
	if err := r.db.WithContext(ctx).Where("notification_id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, custom.ErrNotificationNotFound
		}
		log.Error("failed to get custom notification", "error", err)
		return nil, custom.ErrNotificationInternal
	}
	return &n, nil
}

func (r *CustomDatabase) ClaimNotification(ctx context.Context, id string) error {
	return r.transition(ctx, "CustomDatabase.ClaimNotification", id, custom.StatusPending, map[string]any{
		"status": custom.StatusProcessing,
	})
}

func (r *CustomDatabase) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return r.transition(ctx, "CustomDatabase.MarkSent", id, custom.StatusProcessing, map[string]any{
		"status":  custom.StatusSent,
		"sent_at": sentAt.UTC(),
	})
}

func (r *CustomDatabase) MarkError(ctx context.Context, id, message string) error {
	return r.transition(ctx, "CustomDatabase.MarkError", id, custom.StatusProcessing, map[string]any{
		"status":        custom.StatusError,
		"error_message": message,
	})
}

// transition applies updates only while the record is still in status from.
func (r *CustomDatabase) transition(ctx context.Context, op, id string, from custom.Status, updates map[string]any) error {
	log := r.log.With(slog.String("op", op), slog.String("notificationID", id))

	result := r.db.WithContext(ctx).Model(&custom.CustomNotification{}).
		Where("notification_id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		log.Error("failed to update custom notification", "error", result.Error)
		return custom.ErrNotificationInternal
	}
	if result.RowsAffected == 0 {
		log.Warn("notification changed state concurrently", slog.String("expected", string(from)))
		return custom.ErrAlreadyProcessed
	}
	return nil
}
