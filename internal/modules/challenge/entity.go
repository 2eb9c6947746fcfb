// internal/modules/challenge/entity.go
package challenge

import (
	"context"
	"time"

	"notifier/internal/modules/notification"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusExited    Status = "exited"
)

// WinnerTie is stored in WinnerID when a completed challenge has no winner.
const WinnerTie = "tie"

// Challenge is a pairwise daily-photo challenge between an initiator and a counterpart.
type Challenge struct {
	ChallengeID   string    `gorm:"primaryKey;column:challenge_id;size:128" json:"challenge_id"`
	InitiatorID   string    `gorm:"size:128;not null;column:initiator_id" json:"initiator_id"`
	CounterpartID string    `gorm:"size:128;not null;column:counterpart_id" json:"counterpart_id"`
	Title         string    `gorm:"type:varchar(255);not null;column:title" json:"title"`
	Status        Status    `gorm:"type:varchar(32);default:'pending';not null;column:status" json:"status"`
	WinnerID      *string   `gorm:"size:128;column:winner_id" json:"winner_id,omitempty"`
	ExitedBy      *string   `gorm:"size:128;column:exited_by" json:"exited_by,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// Participants returns the distinct, non-empty participant ids, initiator first.
func (c *Challenge) Participants() []string {
	out := make([]string, 0, 2)
	if c.InitiatorID != "" {
		out = append(out, c.InitiatorID)
	}
	if c.CounterpartID != "" && c.CounterpartID != c.InitiatorID {
		out = append(out, c.CounterpartID)
	}
	return out
}

// Opponent returns the other participant, or "" when userID is not part of the challenge.
func (c *Challenge) Opponent(userID string) string {
	switch userID {
	case c.InitiatorID:
		return c.CounterpartID
	case c.CounterpartID:
		return c.InitiatorID
	default:
		return ""
	}
}

// Submission is one daily photo sent to a challenge. Verified is nil while pending review.
type Submission struct {
	SubmissionID string    `gorm:"primaryKey;column:submission_id;size:128" json:"submission_id"`
	ChallengeID  string    `gorm:"size:128;not null;column:challenge_id" json:"challenge_id"`
	UserID       string    `gorm:"size:128;not null;column:user_id" json:"user_id"`
	SubmittedAt  time.Time `gorm:"not null;column:submitted_at" json:"submitted_at"`
	Verified     *bool     `gorm:"column:verified" json:"verified"`
}

func (Submission) TableName() string {
	return "submissions"
}

// Obligations is one user's unmet submissions for today.
type Obligations struct {
	Count  int
	Titles []string
}

// Aggregate maps a user id to their unmet obligations. Built fresh on every run.
type Aggregate map[string]*Obligations

// Add records one unmet obligation.
func (a Aggregate) Add(userID, title string) {
	o, ok := a[userID]
	if !ok {
		o = &Obligations{}
		a[userID] = o
	}
	o.Count++
	o.Titles = append(o.Titles, title)
}

type GapUseCase interface {
	BuildAggregate(ctx context.Context, now time.Time) (Aggregate, error)
	SendSubmissionReminders(ctx context.Context) (notification.Report, error)
}

type EventsUseCase interface {
	ChallengeCreated(ctx context.Context, after *Challenge) error
	ChallengeUpdated(ctx context.Context, before, after *Challenge) error
	ChallengeDeleted(ctx context.Context, before *Challenge) error
	SubmissionCreated(ctx context.Context, after *Submission) error
	SubmissionUpdated(ctx context.Context, before, after *Submission) error
}

type Repo interface {
	GetChallenge(ctx context.Context, challengeID string) (*Challenge, error)
	GetActiveChallenges(ctx context.Context) ([]*Challenge, error)
	// HasSubmission reports whether userID submitted to challengeID with submitted_at in [from, to).
	HasSubmission(ctx context.Context, challengeID, userID string, from, to time.Time) (bool, error)
}
