package database

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"notifier/internal/modules/tips"
)

type TipsDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewTipsDatabase(db *gorm.DB, log *slog.Logger) *TipsDatabase {
	return &TipsDatabase{
		db:  db,
		log: log,
	}
}

func (r *TipsDatabase) GetTips(ctx context.Context, dateKey string) (*tips.DailyTips, error) {
	op := "TipsDatabase.GetTips"
	log := r.log.With(slog.String("op", op), slog.String("date", dateKey))

	var t tips.DailyTips
	if err := r.db.WithContext(ctx).Where("date_key = ?", dateKey).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Debug("no tips for date")
			return nil, tips.ErrTipsNotFound
		}
		log.Error("failed to get tips from DB", "error", err)
		return nil, tips.ErrTipsInternal
	}
	return &t, nil
}

// SaveTips overwrites the record for the same date, so a rerun replaces the day's tips.
func (r *TipsDatabase) SaveTips(ctx context.Context, t *tips.DailyTips) error {
	op := "TipsDatabase.SaveTips"
	log := r.log.With(slog.String("op", op), slog.String("date", t.DateKey))

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"tip_one", "tip_two", "tip_three", "generated_at"}),
	}).Create(t).Error
	if err != nil {
		log.Error("failed to upsert tips", "error", err)
		return tips.ErrTipsInternal
	}

	log.Info("daily tips saved")
	return nil
}
