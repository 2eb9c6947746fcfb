package repo

import (
	"context"

	gouser "notifier/internal/modules/user"
)

type UserDb interface {
	GetUser(ctx context.Context, userID string) (*gouser.User, error)
	GetUsersWithStreak(ctx context.Context) ([]*gouser.User, error)
}

type UserCache interface {
	GetDisplayName(ctx context.Context, userID string) (string, error)
	SaveDisplayName(ctx context.Context, userID, name string) error
}

type repo struct {
	db UserDb
	ch UserCache
}

// NewRepo builds the user repo. ch may be nil, in which case every lookup is a cache miss.
func NewRepo(db UserDb, ch UserCache) gouser.Repo {
	return &repo{
		db: db,
		ch: ch,
	}
}

func (r *repo) GetUser(ctx context.Context, userID string) (*gouser.User, error) {
	return r.db.GetUser(ctx, userID)
}

func (r *repo) GetUsersWithStreak(ctx context.Context) ([]*gouser.User, error) {
	return r.db.GetUsersWithStreak(ctx)
}

func (r *repo) GetDisplayName(ctx context.Context, userID string) (string, error) {
	if r.ch == nil {
		return "", gouser.ErrCacheMiss
	}
	return r.ch.GetDisplayName(ctx, userID)
}

func (r *repo) SaveDisplayName(ctx context.Context, userID, name string) error {
	if r.ch == nil {
		return nil
	}
	return r.ch.SaveDisplayName(ctx, userID, name)
}
