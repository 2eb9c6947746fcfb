package repo

import (
	"context"
	"time"

	"notifier/internal/modules/challenge"
)

type ChallengeDb interface {
	GetChallenge(ctx context.Context, challengeID string) (*challenge.Challenge, error)
	GetActiveChallenges(ctx context.Context) ([]*challenge.Challenge, error)
	HasSubmission(ctx context.Context, challengeID, userID string, from, to time.Time) (bool, error)
}

type repo struct {
	db ChallengeDb
}

func NewRepo(db ChallengeDb) challenge.Repo {
	return &repo{
		db: db,
	}
}

func (r *repo) GetChallenge(ctx context.Context, challengeID string) (*challenge.Challenge, error) {
	return r.db.GetChallenge(ctx, challengeID)
}

func (r *repo) GetActiveChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	return r.db.GetActiveChallenges(ctx)
}

func (r *repo) HasSubmission(ctx context.Context, challengeID, userID string, from, to time.Time) (bool, error) {
	return r.db.HasSubmission(ctx, challengeID, userID, from, to)
}
