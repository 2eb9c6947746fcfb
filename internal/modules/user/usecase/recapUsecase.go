package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"notifier/internal/modules/notification"
	"notifier/internal/modules/notification/templates"
	gouser "notifier/internal/modules/user"
)

// Mailer sends the optional e-mail copy of the weekly recap.
type Mailer interface {
	SendStreakRecap(recipientEmail, name string, streak int) error
}

type RecapUseCase struct {
	repo       gouser.Repo
	dispatcher notification.Dispatcher
	mailer     Mailer
	log        *slog.Logger
}

// NewRecapUseCase builds the weekly streak recap job. mailer may be nil.
func NewRecapUseCase(repo gouser.Repo, dispatcher notification.Dispatcher, mailer Mailer, log *slog.Logger) *RecapUseCase {
	return &RecapUseCase{
		repo:       repo,
		dispatcher: dispatcher,
		mailer:     mailer,
		log:        log,
	}
}

func (uc *RecapUseCase) SendWeeklyRecap(ctx context.Context) (notification.Report, error) {
	op := "RecapUseCase.SendWeeklyRecap"
	log := uc.log.With(slog.String("op", op))

	users, err := uc.repo.GetUsersWithStreak(ctx)
	if err != nil {
		return notification.Report{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(users) == 0 {
		log.Info("no users with an active streak")
		return notification.Report{}, nil
	}

	deliveries := make([]notification.Delivery, 0, len(users))
	for _, u := range users {
		title, body := templates.StreakRecap(u.DisplayName, u.Streak)
		deliveries = append(deliveries, notification.Delivery{
			Notification: notification.Notification{
				Kind:  notification.KindStreakRecap,
				Title: title,
				Body:  body,
				Topic: u.UserID,
				Data:  map[string]string{"streak": strconv.Itoa(u.Streak)},
			},
		})
	}

	report := uc.dispatcher.DispatchAll(ctx, deliveries)

	if uc.mailer != nil {
		for _, u := range users {
			if u.Email == nil || *u.Email == "" {
				continue
			}
			if err := uc.mailer.SendStreakRecap(*u.Email, u.DisplayName, u.Streak); err != nil {
				log.Error("failed to send recap e-mail", "userID", u.UserID, "error", err)
			}
		}
	}

	log.Info("weekly recap finished", "users", len(users), "sent", report.Sent, "failed", report.Failed)
	return report, nil
}
