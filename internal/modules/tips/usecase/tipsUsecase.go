// internal/modules/tips/usecase/tipsUsecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"notifier/internal/modules/notification"
	"notifier/internal/modules/tips"
	"notifier/pkg/lib/textprovider"
)

const generatePrompt = "Give me exactly three short, practical productivity tips for today. " +
	"One tip per line, no numbering, no introduction, each under 100 characters."

var fallbackTips = []string{
	"Start with the task you are most likely to put off.",
	"Work in 25-minute blocks and take a real break between them.",
	"Write tomorrow's top three tasks before you finish today.",
	"Turn off notifications for your next hour of focused work.",
	"Break a big task into a first step you can finish in ten minutes.",
	"Review what you finished today, not only what is left.",
}

var listPrefix = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

type TipsUseCase struct {
	repo       tips.Repo
	provider   textprovider.Provider
	dispatcher notification.Dispatcher
	now        func() time.Time
	log        *slog.Logger
}

// NewTipsUseCase builds the daily tips job. provider may be nil, which always uses the static texts.
func NewTipsUseCase(repo tips.Repo, provider textprovider.Provider, dispatcher notification.Dispatcher, log *slog.Logger) *TipsUseCase {
	return &TipsUseCase{
		repo:       repo,
		provider:   provider,
		dispatcher: dispatcher,
		now:        time.Now,
		log:        log,
	}
}

func (uc *TipsUseCase) WithClock(now func() time.Time) *TipsUseCase {
	uc.now = now
	return uc
}

func (uc *TipsUseCase) Generate(ctx context.Context) (*tips.DailyTips, error) {
	op := "TipsUseCase.Generate"
	log := uc.log.With(slog.String("op", op))

	now := uc.now().UTC()
	list := uc.generateTips(ctx, now, log)
	record := &tips.DailyTips{
		DateKey:     now.Format(tips.DateKeyLayout),
		TipOne:      list[0],
		TipTwo:      list[1],
		TipThree:    list[2],
		GeneratedAt: now,
	}

	if err := uc.repo.SaveTips(ctx, record); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := uc.repo.ArchiveTips(ctx, record); err != nil {
		if errors.Is(err, tips.ErrArchiveDisabled) {
			log.Debug("tips archive disabled")
		} else {
			log.Warn("tips were saved but not archived", "error", err)
		}
	}

	log.Info("daily tips generated", slog.String("date", record.DateKey))
	return record, nil
}

func (uc *TipsUseCase) generateTips(ctx context.Context, now time.Time, log *slog.Logger) []string {
	if uc.provider != nil {
		text, err := uc.provider.GenerateText(ctx, generatePrompt)
		if err == nil {
			if list := ParseTips(text); len(list) >= 3 {
				return list[:3]
			}
			log.Warn("text provider returned fewer than three tips, using fallback")
		} else {
			log.Warn("text provider failed, using fallback tips", "error", err)
		}
	}
	return FallbackTips(now)
}

// ParseTips splits model output into tips, dropping bullets and numbering.
func ParseTips(text string) []string {
	var out []string
	for _, line := range strings.Split(textprovider.StripCodeFence(text), "\n") {
		line = strings.TrimSpace(listPrefix.ReplaceAllString(line, ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// FallbackTips rotates through the static set by day of year.
func FallbackTips(now time.Time) []string {
	start := now.YearDay() % len(fallbackTips)
	out := make([]string, 3)
	for i := range out {
		out[i] = fallbackTips[(start+i)%len(fallbackTips)]
	}
	return out
}

// SendSlot pushes the slot's tip to every subscriber. Today's tips are generated
// on demand when the morning job has not run yet.
func (uc *TipsUseCase) SendSlot(ctx context.Context, slot tips.Slot) (notification.Report, error) {
	op := "TipsUseCase.SendSlot"
	log := uc.log.With(slog.String("op", op), slog.String("slot", string(slot)))

	dateKey := uc.now().UTC().Format(tips.DateKeyLayout)
	record, err := uc.repo.GetTips(ctx, dateKey)
	if errors.Is(err, tips.ErrTipsNotFound) {
		log.Info("no tips for today yet, generating")
		record, err = uc.Generate(ctx)
	}
	if err != nil {
		return notification.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	msg := textprovider.NotificationOrFallback(ctx, uc.provider, record.Tip(slot), string(slot), log)

	report := notification.Report{Attempted: 1}
	err = uc.dispatcher.Send(ctx, notification.Notification{
		Kind:  notification.KindDailyTip,
		Title: msg.Title,
		Body:  msg.Body,
		Topic: notification.DailyTipsTopic,
		Data:  map[string]string{"slot": string(slot), "date": dateKey},
	})
	if err != nil {
		report.Failed = 1
		report.Err = err
		return report, nil
	}
	report.Sent = 1
	return report, nil
}
