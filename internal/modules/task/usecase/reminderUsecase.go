// internal/modules/task/usecase/reminderUsecase.go
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"notifier/config"
	"notifier/internal/modules/notification"
	"notifier/internal/modules/notification/templates"
	"notifier/internal/modules/task"
	gouser "notifier/internal/modules/user"
)

// ReminderUseCase is the due-task matcher. Each run picks up the tasks starting
// inside the reminder window and pushes one reminder per task to its owner.
type ReminderUseCase struct {
	repo       task.Repo
	names      gouser.Resolver
	bank       *templates.Bank
	dispatcher notification.Dispatcher
	cfg        config.RemindersConfig
	now        func() time.Time
	log        *slog.Logger
}

func NewReminderUseCase(
	repo task.Repo,
	names gouser.Resolver,
	bank *templates.Bank,
	dispatcher notification.Dispatcher,
	cfg config.RemindersConfig,
	log *slog.Logger,
) *ReminderUseCase {
	if cfg.WindowStart == 0 && cfg.WindowEnd == 0 {
		cfg.WindowStart = 10 * time.Minute
		cfg.WindowEnd = 15 * time.Minute
	}
	return &ReminderUseCase{
		repo:       repo,
		names:      names,
		bank:       bank,
		dispatcher: dispatcher,
		cfg:        cfg,
		now:        time.Now,
		log:        log,
	}
}

// WithClock replaces the wall clock. Used by tests.
func (uc *ReminderUseCase) WithClock(now func() time.Time) *ReminderUseCase {
	uc.now = now
	return uc
}

// SendDueReminders marks a task notified only after its push was accepted, so a
// failed send is retried by the next run while the task is still in range.
func (uc *ReminderUseCase) SendDueReminders(ctx context.Context) (notification.Report, error) {
	op := "ReminderUseCase.SendDueReminders"
	log := uc.log.With(slog.String("op", op))

	now := uc.now().UTC()
	windowStart := now.Add(uc.cfg.WindowStart)
	windowEnd := now.Add(uc.cfg.WindowEnd)
	from := windowStart.Add(-uc.cfg.LateGrace)

	tasks, err := uc.repo.GetDueTasks(ctx, from, windowEnd)
	if err != nil {
		log.Error("failed to get due tasks", "error", err)
		return notification.Report{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(tasks) == 0 {
		log.Debug("no tasks in the reminder window")
		return notification.Report{}, nil
	}

	deliveries := make([]notification.Delivery, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted() {
			log.Debug("skipping completed task", "taskID", t.TaskID)
			continue
		}
		if t.UserID == "" {
			log.Warn("task has no owner, skipping", "taskID", t.TaskID)
			continue
		}

		name := uc.names.DisplayName(ctx, t.UserID)
		title, body := uc.bank.TaskReminder(name, t.Title)
		taskID := t.TaskID

		deliveries = append(deliveries, notification.Delivery{
			Notification: notification.Notification{
				Kind:  notification.KindTaskReminder,
				Title: title,
				Body:  body,
				Topic: t.UserID,
				Data:  map[string]string{"taskId": taskID},
			},
			AfterSend: func(ctx context.Context) error {
				flipped, err := uc.repo.MarkNotified(ctx, taskID)
				if err != nil {
					return err
				}
				if !flipped {
					log.Warn("task was marked by an overlapping run", "taskID", taskID)
				}
				return nil
			},
		})
	}

	report := uc.dispatcher.DispatchAll(ctx, deliveries)
	log.Info("task reminders processed",
		slog.Int("matched", len(tasks)),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}
