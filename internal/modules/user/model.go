package user

import (
	"context"
	"time"
)

type User struct {
	UserID      string    `gorm:"primaryKey;column:user_id;size:128"`
	DisplayName string    `gorm:"size:100;not null;default:'';column:display_name"`
	Email       *string   `gorm:"size:255;column:email"`
	Streak      int       `gorm:"not null;default:0;column:streak"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}

// Resolver maps a user id to a display name. A missing user resolves to the placeholder.
type Resolver interface {
	DisplayName(ctx context.Context, userID string) string
}

type Repo interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	GetUsersWithStreak(ctx context.Context) ([]*User, error)

	GetDisplayName(ctx context.Context, userID string) (string, error)
	SaveDisplayName(ctx context.Context, userID, name string) error
}
