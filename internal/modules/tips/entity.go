// internal/modules/tips/entity.go
package tips

import (
	"context"
	"time"

	"notifier/internal/modules/notification"
)

// DateKeyLayout keys a tips record by its UTC calendar day.
const DateKeyLayout = "2006-01-02"

// Slot is the time of day a tip is pushed. Each slot sends a different tip.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
)

func ParseSlot(s string) (Slot, bool) {
	switch Slot(s) {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return Slot(s), true
	}
	return "", false
}

type DailyTips struct {
	DateKey     string    `gorm:"primaryKey;size:10;column:date_key" json:"date"`
	TipOne      string    `gorm:"type:text;not null;column:tip_one" json:"tip_one"`
	TipTwo      string    `gorm:"type:text;not null;column:tip_two" json:"tip_two"`
	TipThree    string    `gorm:"type:text;not null;column:tip_three" json:"tip_three"`
	GeneratedAt time.Time `gorm:"not null;column:generated_at" json:"generated_at"`
}

func (DailyTips) TableName() string {
	return "daily_tips"
}

func (d *DailyTips) Tip(slot Slot) string {
	switch slot {
	case SlotAfternoon:
		return d.TipTwo
	case SlotEvening:
		return d.TipThree
	default:
		return d.TipOne
	}
}

type UseCase interface {
	Generate(ctx context.Context) (*DailyTips, error)
	SendSlot(ctx context.Context, slot Slot) (notification.Report, error)
}

type Repo interface {
	GetTips(ctx context.Context, dateKey string) (*DailyTips, error)
	SaveTips(ctx context.Context, tips *DailyTips) error
	ArchiveTips(ctx context.Context, tips *DailyTips) error
}
