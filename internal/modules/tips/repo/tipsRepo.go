package repo

import (
	"context"

	"notifier/internal/modules/tips"
)

type TipsDb interface {
	GetTips(ctx context.Context, dateKey string) (*tips.DailyTips, error)
	SaveTips(ctx context.Context, t *tips.DailyTips) error
}

type TipsArchive interface {
	ArchiveTips(ctx context.Context, t *tips.DailyTips) error
}

type repo struct {
	db      TipsDb
	archive TipsArchive
}

// NewRepo builds the tips repo. archive may be nil when no bucket is configured.
func NewRepo(db TipsDb, archive TipsArchive) tips.Repo {
	return &repo{
		db:      db,
		archive: archive,
	}
}

func (r *repo) GetTips(ctx context.Context, dateKey string) (*tips.DailyTips, error) {
	return r.db.GetTips(ctx, dateKey)
}

func (r *repo) SaveTips(ctx context.Context, t *tips.DailyTips) error {
	return r.db.SaveTips(ctx, t)
}

func (r *repo) ArchiveTips(ctx context.Context, t *tips.DailyTips) error {
	if r.archive == nil {
		return tips.ErrArchiveDisabled
	}
	return r.archive.ArchiveTips(ctx, t)
}
