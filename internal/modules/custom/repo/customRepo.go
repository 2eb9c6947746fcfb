package repo

import (
	"context"
	"time"

	"notifier/internal/modules/custom"
)

type CustomDb interface {
	CreateNotification(ctx context.Context, n *custom.CustomNotification) error
	GetNotification(ctx context.Context, id string) (*custom.CustomNotification, error)
	ClaimNotification(ctx context.Context, id string) error
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkError(ctx context.Context, id, message string) error
}

type repo struct {
	db CustomDb
}

func NewRepo(db CustomDb) custom.Repo {
	return &repo{db: db}
}

func (r *repo) CreateNotification(ctx context.Context, n *custom.CustomNotification) error {
	return r.db.CreateNotification(ctx, n)
}

func (r *repo) GetNotification(ctx context.Context, id string) (*custom.CustomNotification, error) {
	return r.db.GetNotification(ctx, id)
}

func (r *repo) ClaimNotification(ctx context.Context, id string) error {
	return r.db.ClaimNotification(ctx, id)
}

func (r *repo) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return r.db.MarkSent(ctx, id, sentAt)
}

func (r *repo) MarkError(ctx context.Context, id, message string) error {
	return r.db.MarkError(ctx, id, message)
}
