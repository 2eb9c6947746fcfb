// internal/modules/challenge/usecase/gapUsecase.go
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"notifier/internal/modules/challenge"
	"notifier/internal/modules/notification"
	"notifier/internal/modules/notification/templates"
	gouser "notifier/internal/modules/user"
)

// GapUseCase is the submission-gap aggregator: one consolidated reminder per user
// who still owes a photo today in at least one active challenge.
type GapUseCase struct {
	repo       challenge.Repo
	names      gouser.Resolver
	bank       *templates.Bank
	dispatcher notification.Dispatcher
	now        func() time.Time
	log        *slog.Logger
}

func NewGapUseCase(
	repo challenge.Repo,
	names gouser.Resolver,
	bank *templates.Bank,
	dispatcher notification.Dispatcher,
	log *slog.Logger,
) *GapUseCase {
	return &GapUseCase{
		repo:       repo,
		names:      names,
		bank:       bank,
		dispatcher: dispatcher,
		now:        time.Now,
		log:        log,
	}
}

func (uc *GapUseCase) WithClock(now func() time.Time) *GapUseCase {
	uc.now = now
	return uc
}

// dayBounds returns the UTC calendar day containing t as [start, start+24h).
func dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

func (uc *GapUseCase) BuildAggregate(ctx context.Context, now time.Time) (challenge.Aggregate, error) {
	op := "GapUseCase.BuildAggregate"
	log := uc.log.With(slog.String("op", op))

	challenges, err := uc.repo.GetActiveChallenges(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	from, to := dayBounds(now)
	agg := challenge.Aggregate{}
	for _, c := range challenges {
		for _, userID := range c.Participants() {
			ok, err := uc.repo.HasSubmission(ctx, c.ChallengeID, userID, from, to)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			if !ok {
				agg.Add(userID, c.Title)
			}
		}
	}

	log.Debug("aggregate built", slog.Int("challenges", len(challenges)), slog.Int("users", len(agg)))
	return agg, nil
}

// SendSubmissionReminders writes nothing; a user who ignores the reminder gets another on the next run.
func (uc *GapUseCase) SendSubmissionReminders(ctx context.Context) (notification.Report, error) {
	op := "GapUseCase.SendSubmissionReminders"
	log := uc.log.With(slog.String("op", op))

	agg, err := uc.BuildAggregate(ctx, uc.now())
	if err != nil {
		log.Error("failed to build submission aggregate", "error", err)
		return notification.Report{}, err
	}

	userIDs := make([]string, 0, len(agg))
	for userID := range agg {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	deliveries := make([]notification.Delivery, 0, len(userIDs))
	for _, userID := range userIDs {
		o := agg[userID]
		var title, body string
		if o.Count == 1 {
			title, body = uc.bank.ChallengeReminder(uc.names.DisplayName(ctx, userID), o.Titles[0])
		} else {
			title, body = templates.MultiChallengeReminder(o.Count)
		}
		deliveries = append(deliveries, notification.Delivery{
			Notification: notification.Notification{
				Kind:  notification.KindChallengeReminder,
				Title: title,
				Body:  body,
				Topic: userID,
				Data:  map[string]string{"count": strconv.Itoa(o.Count)},
			},
		})
	}

	report := uc.dispatcher.DispatchAll(ctx, deliveries)
	log.Info("submission reminders processed",
		slog.Int("users", len(userIDs)),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}
