package friend

import (
	"context"
	"time"
)

// FriendRequest lives at users/{receiver}/friend_requests/{sender}.
type FriendRequest struct {
	ReceiverID string    `gorm:"primaryKey;size:128;column:receiver_id" json:"receiver_id"`
	SenderID   string    `gorm:"primaryKey;size:128;column:sender_id" json:"sender_id"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship lives at users/{user}/friends/{friend}. Each side owns its own row.
type Friendship struct {
	UserID    string    `gorm:"primaryKey;size:128;column:user_id" json:"user_id"`
	FriendID  string    `gorm:"primaryKey;size:128;column:friend_id" json:"friend_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

type UseCase interface {
	RequestCreated(ctx context.Context, after *FriendRequest) error
	RequestDeleted(ctx context.Context, before *FriendRequest) error
}

type Repo interface {
	FriendshipExists(ctx context.Context, userID, friendID string) (bool, error)
}
