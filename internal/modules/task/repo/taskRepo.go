package repo

import (
	"context"
	"time"

	"notifier/internal/modules/task"
)

type TaskDb interface {
	GetDueTasks(ctx context.Context, from, to time.Time) ([]*task.Task, error)
	MarkNotified(ctx context.Context, taskID string) (bool, error)
}

type repo struct {
	db TaskDb
}

func NewRepo(db TaskDb) task.Repo {
	return &repo{
		db: db,
	}
}

func (r *repo) GetDueTasks(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	return r.db.GetDueTasks(ctx, from, to)
}

func (r *repo) MarkNotified(ctx context.Context, taskID string) (bool, error) {
	return r.db.MarkNotified(ctx, taskID)
}
