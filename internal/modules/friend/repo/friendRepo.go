package repo

import (
	"context"

	"notifier/internal/modules/friend"
)

type FriendDb interface {
	FriendshipExists(ctx context.Context, userID, friendID string) (bool, error)
}

type repo struct {
	db FriendDb
}

func NewRepo(db FriendDb) friend.Repo {
	return &repo{db: db}
}

func (r *repo) FriendshipExists(ctx context.Context, userID, friendID string) (bool, error) {
	return r.db.FriendshipExists(ctx, userID, friendID)
}
