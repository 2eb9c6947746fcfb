// internal/modules/challenge/usecase/eventsUsecase.go
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"notifier/internal/modules/challenge"
	"notifier/internal/modules/notification"
	"notifier/internal/modules/notification/templates"
	gouser "notifier/internal/modules/user"
)

// EventsUseCase reacts to challenge and submission document changes.
// Every handler compares before/after and pushes only on the transition it guards.
type EventsUseCase struct {
	repo       challenge.Repo
	names      gouser.Resolver
	dispatcher notification.Dispatcher
	log        *slog.Logger
}

func NewEventsUseCase(repo challenge.Repo, names gouser.Resolver, dispatcher notification.Dispatcher, log *slog.Logger) *EventsUseCase {
	return &EventsUseCase{
		repo:       repo,
		names:      names,
		dispatcher: dispatcher,
		log:        log,
	}
}

func challengeData(c *challenge.Challenge) map[string]string {
	return map[string]string{"challengeId": c.ChallengeID}
}

func (uc *EventsUseCase) send(ctx context.Context, log *slog.Logger, n notification.Notification) {
	if err := uc.dispatcher.Send(ctx, n); err != nil {
		log.Error("event notification not delivered", "topic", n.Topic, "error", err)
	}
}

func (uc *EventsUseCase) ChallengeCreated(ctx context.Context, after *challenge.Challenge) error {
	op := "EventsUseCase.ChallengeCreated"
	log := uc.log.With(slog.String("op", op))

	if after == nil || after.Status != challenge.StatusPending || after.CounterpartID == "" {
		log.Debug("ignoring challenge create event")
		return nil
	}

	title, body := templates.ChallengeCreated(uc.names.DisplayName(ctx, after.InitiatorID), after.Title)
	uc.send(ctx, log, notification.Notification{
		Kind:  notification.KindChallengeCreated,
		Title: title,
		Body:  body,
		Topic: after.CounterpartID,
		Data:  challengeData(after),
	})
	return nil
}

func (uc *EventsUseCase) ChallengeUpdated(ctx context.Context, before, after *challenge.Challenge) error {
	op := "EventsUseCase.ChallengeUpdated"
	log := uc.log.With(slog.String("op", op))

	if before == nil || after == nil || before.Status == after.Status {
		return nil
	}
	log = log.With(slog.String("challengeID", after.ChallengeID),
		slog.String("from", string(before.Status)), slog.String("to", string(after.Status)))

	switch {
	case before.Status == challenge.StatusPending && after.Status == challenge.StatusActive:
		title, body := templates.ChallengeAccepted(uc.names.DisplayName(ctx, after.CounterpartID), after.Title)
		uc.send(ctx, log, notification.Notification{
			Kind:  notification.KindChallengeAccepted,
			Title: title,
			Body:  body,
			Topic: after.InitiatorID,
			Data:  challengeData(after),
		})

	case before.Status == challenge.StatusActive && after.Status == challenge.StatusCompleted:
		uc.dispatchCompleted(ctx, after)

	case after.Status == challenge.StatusExited &&
		(before.Status == challenge.StatusPending || before.Status == challenge.StatusActive):
		uc.dispatchExited(ctx, after)

	default:
		log.Debug("transition has no notification")
	}
	return nil
}

// dispatchCompleted sends one push per participant. A missing winner counts as a tie.
func (uc *EventsUseCase) dispatchCompleted(ctx context.Context, c *challenge.Challenge) {
	participants := c.Participants()
	deliveries := make([]notification.Delivery, 0, len(participants))
	for _, userID := range participants {
		opponent := uc.names.DisplayName(ctx, c.Opponent(userID))

		var title, body string
		switch {
		case c.WinnerID == nil || *c.WinnerID == challenge.WinnerTie || *c.WinnerID == "":
			title, body = templates.ChallengeTied(opponent, c.Title)
		case *c.WinnerID == userID:
			title, body = templates.ChallengeWon(opponent, c.Title)
		default:
			title, body = templates.ChallengeLost(opponent, c.Title)
		}

		data := challengeData(c)
		if c.WinnerID != nil {
			data["winnerId"] = *c.WinnerID
		}
		deliveries = append(deliveries, notification.Delivery{
			Notification: notification.Notification{
				Kind:  notification.KindChallengeCompleted,
				Title: title,
				Body:  body,
				Topic: userID,
				Data:  data,
			},
		})
	}
	uc.dispatcher.DispatchAll(ctx, deliveries)
}

// dispatchExited notifies whoever did not leave. With no exited_by, both sides are told.
func (uc *EventsUseCase) dispatchExited(ctx context.Context, c *challenge.Challenge) {
	var deliveries []notification.Delivery
	for _, userID := range c.Participants() {
		if c.ExitedBy != nil && *c.ExitedBy == userID {
			continue
		}
		title, body := templates.ChallengeExited(uc.names.DisplayName(ctx, c.Opponent(userID)), c.Title)
		deliveries = append(deliveries, notification.Delivery{
			Notification: notification.Notification{
				Kind:  notification.KindChallengeExited,
				Title: title,
				Body:  body,
				Topic: userID,
				Data:  challengeData(c),
			},
		})
	}
	uc.dispatcher.DispatchAll(ctx, deliveries)
}

func (uc *EventsUseCase) ChallengeDeleted(ctx context.Context, before *challenge.Challenge) error {
	op := "EventsUseCase.ChallengeDeleted"
	log := uc.log.With(slog.String("op", op))

	// only a pending challenge being removed means the counterpart declined it
	if before == nil || before.Status != challenge.StatusPending {
		return nil
	}

	title, body := templates.ChallengeDeclined(uc.names.DisplayName(ctx, before.CounterpartID), before.Title)
	uc.send(ctx, log, notification.Notification{
		Kind:  notification.KindChallengeDeclined,
		Title: title,
		Body:  body,
		Topic: before.InitiatorID,
		Data:  challengeData(before),
	})
	return nil
}

func (uc *EventsUseCase) SubmissionCreated(ctx context.Context, after *challenge.Submission) error {
	op := "EventsUseCase.SubmissionCreated"
	log := uc.log.With(slog.String("op", op))

	if after == nil {
		return nil
	}
	log = log.With(slog.String("challengeID", after.ChallengeID), slog.String("userID", after.UserID))

	c, err := uc.repo.GetChallenge(ctx, after.ChallengeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	opponent := c.Opponent(after.UserID)
	if opponent == "" {
		log.Warn("submitter is not a participant")
		return fmt.Errorf("%s: %w", op, challenge.ErrNotParticipant)
	}

	title, body := templates.SubmissionCreated(uc.names.DisplayName(ctx, after.UserID), c.Title)
	uc.send(ctx, log, notification.Notification{
		Kind:  notification.KindSubmissionCreated,
		Title: title,
		Body:  body,
		Topic: opponent,
		Data:  map[string]string{"challengeId": c.ChallengeID, "submissionId": after.SubmissionID},
	})
	return nil
}

func (uc *EventsUseCase) SubmissionUpdated(ctx context.Context, before, after *challenge.Submission) error {
	op := "EventsUseCase.SubmissionUpdated"
	log := uc.log.With(slog.String("op", op))

	if before == nil || after == nil || before.Verified != nil || after.Verified == nil {
		return nil
	}
	log = log.With(slog.String("submissionID", after.SubmissionID))

	c, err := uc.repo.GetChallenge(ctx, after.ChallengeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n := notification.Notification{
		Topic: after.UserID,
		Data:  map[string]string{"challengeId": c.ChallengeID, "submissionId": after.SubmissionID},
	}
	if *after.Verified {
		n.Kind = notification.KindSubmissionVerified
		n.Title, n.Body = templates.SubmissionVerified(c.Title)
	} else {
		n.Kind = notification.KindSubmissionDeclined
		n.Title, n.Body = templates.SubmissionDeclined(c.Title)
	}
	uc.send(ctx, log, n)
	return nil
}
