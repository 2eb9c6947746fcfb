package database

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	gouser "notifier/internal/modules/user"
)

type UserDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewUserDatabase(db *gorm.DB, log *slog.Logger) *UserDatabase {
	return &UserDatabase{
		db:  db,
		log: log,
	}
}

func (r *UserDatabase) GetUser(ctx context.Context, userID string) (*gouser.User, error) {
	op := "UserDatabase.GetUser"
	log := r.log.With(slog.String("op", op), slog.String("userID", userID))

	var u gouser.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Debug("user not found")
			return nil, gouser.ErrUserNotFound
		}
		log.Error("failed to get user from DB", "error", err)
		return nil, gouser.ErrInternal
	}
	return &u, nil
}

func (r *UserDatabase) GetUsersWithStreak(ctx context.Context) ([]*gouser.User, error) {
	op := "UserDatabase.GetUsersWithStreak"
	log := r.log.With(slog.String("op", op))

	var users []*gouser.User
	if err := r.db.WithContext(ctx).Where("streak > ?", 0).Order("user_id").Find(&users).Error; err != nil {
		log.Error("failed to get users with streak", "error", err)
		return nil, gouser.ErrInternal
	}
	log.Debug("users with streak retrieved", slog.Int("count", len(users)))
	return users, nil
}
