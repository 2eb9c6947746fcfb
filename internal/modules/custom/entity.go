// internal/modules/custom/entity.go
package custom

import (
	"context"
	"net/http"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSent       Status = "sent"
	StatusError      Status = "error"
)

// CustomNotification is an operator-authored push. Processing claims it out of
// pending exactly once, then finishes it as sent or as error with a message.
type CustomNotification struct {
	NotificationID string     `gorm:"primaryKey;size:64;column:notification_id" json:"notification_id"`
	Title          string     `gorm:"type:varchar(255);not null;default:'';column:title" json:"title" validate:"required,max=255"`
	Body           string     `gorm:"type:text;not null;default:'';column:body" json:"body" validate:"required,max=1000"`
	Topic          string     `gorm:"size:128;not null;default:'';column:topic" json:"topic" validate:"required,max=128,topic"`
	Status         Status     `gorm:"type:varchar(16);not null;default:'pending';column:status" json:"status"`
	ErrorMessage   *string    `gorm:"type:text;column:error_message" json:"error_message,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	SentAt         *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
}

func (CustomNotification) TableName() string {
	return "custom_notifications"
}

type CreateRequest struct {
	Title string `json:"title" validate:"required,max=255"`
	Body  string `json:"body" validate:"required,max=1000"`
	Topic string `json:"topic" validate:"required,max=128,topic"`
}

type Controller interface {
	CreateNotification(w http.ResponseWriter, r *http.Request)
	GetNotification(w http.ResponseWriter, r *http.Request)
}

type UseCase interface {
	Create(ctx context.Context, req CreateRequest) (*CustomNotification, error)
	Get(ctx context.Context, id string) (*CustomNotification, error)
	Process(ctx context.Context, n *CustomNotification) (*CustomNotification, error)
	// ProcessStored processes the stored record with this id in its current state.
	ProcessStored(ctx context.Context, id string) (*CustomNotification, error)
}

type Repo interface {
	CreateNotification(ctx context.Context, n *CustomNotification) error
	GetNotification(ctx context.Context, id string) (*CustomNotification, error)
	// ClaimNotification moves a pending notification to processing. It returns
	// ErrAlreadyProcessed when the record is no longer pending.
	ClaimNotification(ctx context.Context, id string) error
	// MarkSent and MarkError only finish a claimed notification.
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkError(ctx context.Context, id, message string) error
}
