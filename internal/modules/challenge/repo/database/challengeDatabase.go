package database

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"notifier/internal/modules/challenge"
)

type ChallengeDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewChallengeDatabase(db *gorm.DB, log *slog.Logger) *ChallengeDatabase {
	return &ChallengeDatabase{
		db:  db,
		log: log,
	}
}

func (r *ChallengeDatabase) GetChallenge(ctx context.Context, challengeID string) (*challenge.Challenge, error) {
	op := "ChallengeDatabase.GetChallenge"
	log := r.log.With(slog.String("op", op), slog.String("challengeID", challengeID))

	var c challenge.Challenge
	if err := r.db.WithContext(ctx).Where("challenge_id = ?", challengeID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("challenge not found")
			return nil, challenge.ErrChallengeNotFound
		}
		log.Error("failed to get challenge from DB", "error", err)
		return nil, challenge.ErrChallengeInternal
	}
	return &c, nil
}

func (r *ChallengeDatabase) GetActiveChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	op := "ChallengeDatabase.GetActiveChallenges"
	log := r.log.With(slog.String("op", op))

	var challenges []*challenge.Challenge
	err := r.db.WithContext(ctx).
		Where("status = ?", challenge.StatusActive).
		Order("challenge_id").
		Find(&challenges).Error
	if err != nil {
		log.Error("failed to fetch active challenges", "error", err)
		return nil, challenge.ErrChallengeInternal
	}

	log.Debug("active challenges retrieved", slog.Int("count", len(challenges)))
	return challenges, nil
}

// HasSubmission is an existence check, served by idx_submissions_challenge_user_time.
func (r *ChallengeDatabase) HasSubmission(ctx context.Context, challengeID, userID string, from, to time.Time) (bool, error) {
	op := "ChallengeDatabase.HasSubmission"
	log := r.log.With(slog.String("op", op), slog.String("challengeID", challengeID), slog.String("userID", userID))

	var sub challenge.Submission
	err := r.db.WithContext(ctx).
		Select("submission_id").
		Where("challenge_id = ? AND user_id = ? AND submitted_at >= ? AND submitted_at < ?",
			challengeID, userID, from.UTC(), to.UTC()).
		Take(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		log.Error("failed to check submission", "error", err)
		return false, challenge.ErrChallengeInternal
	}
	return true, nil
}
