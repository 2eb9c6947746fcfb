// internal/modules/task/entity.go
package task

import (
	"context"
	"time"

	"notifier/internal/modules/notification"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Task is a scheduled item owned by one user. Notified flips to true once, after
// the start reminder was accepted by the push service, and is never reset.
type Task struct {
	TaskID      string     `gorm:"primaryKey;column:task_id;size:128"`
	UserID      string     `gorm:"size:128;not null;column:user_id"`
	Title       string     `gorm:"type:varchar(255);not null;column:title"`
	StartAt     time.Time  `gorm:"not null;column:start_at"`
	Status      Status     `gorm:"type:varchar(32);default:'pending';not null;column:status"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	Notified    bool       `gorm:"default:false;not null;column:notified"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// IsCompleted reports whether the task is done. Either signal is enough.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted || t.CompletedAt != nil
}

type UseCase interface {
	SendDueReminders(ctx context.Context) (notification.Report, error)
}

type Repo interface {
	// GetDueTasks returns un-notified tasks with start_at in [from, to], earliest first.
	GetDueTasks(ctx context.Context, from, to time.Time) ([]*Task, error)
	// MarkNotified sets notified=true only if it is still false. It reports whether this call flipped it.
	MarkNotified(ctx context.Context, taskID string) (bool, error)
}
