package database

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"notifier/internal/modules/friend"
)

type FriendDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewFriendDatabase(db *gorm.DB, log *slog.Logger) *FriendDatabase {
	return &FriendDatabase{
		db:  db,
		log: log,
	}
}

func (r *FriendDatabase) FriendshipExists(ctx context.Context, userID, friendID string) (bool, error) {
	op := "FriendDatabase.FriendshipExists"
	log := r.log.With(slog.String("op", op), slog.String("userID", userID), slog.String("friendID", friendID))

	var f friend.Friendship
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Take(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		log.Error("failed to check friendship", "error", err)
		return false, friend.ErrFriendInternal
	}
	return true, nil
}
