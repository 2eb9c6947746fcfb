package database

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"notifier/internal/modules/task"
)

type TaskDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewTaskDatabase(db *gorm.DB, log *slog.Logger) *TaskDatabase {
	return &TaskDatabase{
		db:  db,
		log: log,
	}
}

// GetDueTasks scans every user's tasks. Served by idx_tasks_notified_start.
func (r *TaskDatabase) GetDueTasks(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	op := "TaskDatabase.GetDueTasks"
	log := r.log.With(slog.String("op", op), slog.Time("from", from), slog.Time("to", to))

	var tasks []*task.Task
	err := r.db.WithContext(ctx).
		Where("notified = ? AND start_at >= ? AND start_at <= ?", false, from.UTC(), to.UTC()).
		Order("start_at ASC").
		Find(&tasks).Error
	if err != nil {
		log.Error("failed to fetch due tasks", "error", err)
		return nil, task.ErrTaskInternal
	}

	log.Debug("due tasks retrieved", slog.Int("count", len(tasks)))
	return tasks, nil
}

func (r *TaskDatabase) MarkNotified(ctx context.Context, taskID string) (bool, error) {
	op := "TaskDatabase.MarkNotified"
	log := r.log.With(slog.String("op", op), slog.String("taskID", taskID))

	result := r.db.WithContext(ctx).Model(&task.Task{}).
		Where("task_id = ? AND notified = ?", taskID, false).
		Updates(map[string]any{"notified": true, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		log.Error("failed to mark task as notified", "error", result.Error)
		return false, task.ErrTaskInternal
	}
	if result.RowsAffected == 0 {
		log.Warn("task was already marked as notified, or does not exist")
		return false, nil
	}
	return true, nil
}
