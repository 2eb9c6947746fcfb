package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"notifier/internal/modules/challenge"
	"notifier/internal/modules/custom"
	"notifier/internal/modules/events"
	"notifier/internal/modules/friend"
	resp "notifier/pkg/lib/response"
)

// CustomProcessor is the part of the custom notifications usecase the webhook needs.
type CustomProcessor interface {
	ProcessStored(ctx context.Context, id string) (*custom.CustomNotification, error)
}

type EventsController struct {
	friends    friend.UseCase
	challenges challenge.EventsUseCase
	custom     CustomProcessor
	log        *slog.Logger
}

func NewEventsController(friends friend.UseCase, challenges challenge.EventsUseCase, custom CustomProcessor, log *slog.Logger) events.Controller {
	return &EventsController{
		friends:    friends,
		challenges: challenges,
		custom:     custom,
		log:        log,
	}
}

func decodeEnvelope[T any](r *http.Request) (events.Action, *events.Envelope[T], error) {
	action, err := events.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		return "", nil, err
	}
	var env events.Envelope[T]
	if err := render.DecodeJSON(r.Body, &env); err != nil {
		return "", nil, errors.Join(events.ErrInvalidEnvelope, err)
	}
	return action, &env, nil
}

func (c *EventsController) sendDecodeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Warn("rejecting event", "error", err)
	if errors.Is(err, events.ErrUnknownAction) {
		resp.SendError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	resp.SendError(w, r, http.StatusBadRequest, "Invalid event payload")
}

func (c *EventsController) sendHandlerError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, challenge.ErrChallengeNotFound):
		resp.SendError(w, r, http.StatusNotFound, challenge.ErrChallengeNotFound.Error())
	case errors.Is(err, challenge.ErrNotParticipant):
		resp.SendError(w, r, http.StatusUnprocessableEntity, challenge.ErrNotParticipant.Error())
	case errors.Is(err, custom.ErrNotificationNotFound):
		resp.SendError(w, r, http.StatusNotFound, custom.ErrNotificationNotFound.Error())
	default:
		log.Error("event handler failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to handle event")
	}
}

// FriendRequestEvent handles changes to users/{receiverID}/friend_requests/{senderID}.
// POST /v1/events/users/{receiverID}/friend_requests/{senderID}/{action}
func (c *EventsController) FriendRequestEvent(w http.ResponseWriter, r *http.Request) {
	op := "EventsController.FriendRequestEvent"
	log := c.log.With(slog.String("op", op))

	action, env, err := decodeEnvelope[friend.FriendRequest](r)
	if err != nil {
		c.sendDecodeError(w, r, log, err)
		return
	}

	receiverID, senderID := chi.URLParam(r, "receiverID"), chi.URLParam(r, "senderID")
	for _, fr := range []*friend.FriendRequest{env.Before, env.After} {
		if fr != nil {
			fr.ReceiverID, fr.SenderID = receiverID, senderID
		}
	}

	switch action {
	case events.ActionCreated:
		err = c.friends.RequestCreated(r.Context(), env.After)
	case events.ActionDeleted:
		err = c.friends.RequestDeleted(r.Context(), env.Before)
	}
	if err != nil {
		c.sendHandlerError(w, r, log, err)
		return
	}
	resp.SendOK(w, r, http.StatusOK)
}

// ChallengeEvent handles changes to challenges/{challengeID}.
// POST /v1/events/challenges/{challengeID}/{action}
func (c *EventsController) ChallengeEvent(w http.ResponseWriter, r *http.Request) {
	op := "EventsController.ChallengeEvent"
	log := c.log.With(slog.String("op", op))

	action, env, err := decodeEnvelope[challenge.Challenge](r)
	if err != nil {
		c.sendDecodeError(w, r, log, err)
		return
	}

	challengeID := chi.URLParam(r, "challengeID")
	for _, ch := range []*challenge.Challenge{env.Before, env.After} {
		if ch != nil {
			ch.ChallengeID = challengeID
		}
	}

	switch action {
	case events.ActionCreated:
		err = c.challenges.ChallengeCreated(r.Context(), env.After)
	case events.ActionUpdated:
		err = c.challenges.ChallengeUpdated(r.Context(), env.Before, env.After)
	case events.ActionDeleted:
		err = c.challenges.ChallengeDeleted(r.Context(), env.Before)
	}
	if err != nil {
		c.sendHandlerError(w, r, log, err)
		return
	}
	resp.SendOK(w, r, http.StatusOK)
}

// SubmissionEvent handles changes to challenges/{challengeID}/submissions/{submissionID}.
// POST /v1/events/challenges/{challengeID}/submissions/{submissionID}/{action}
func (c *EventsController) SubmissionEvent(w http.ResponseWriter, r *http.Request) {
	op := "EventsController.SubmissionEvent"
	log := c.log.With(slog.String("op", op))

	action, env, err := decodeEnvelope[challenge.Submission](r)
	if err != nil {
		c.sendDecodeError(w, r, log, err)
		return
	}

	challengeID, submissionID := chi.URLParam(r, "challengeID"), chi.URLParam(r, "submissionID")
	for _, s := range []*challenge.Submission{env.Before, env.After} {
		if s != nil {
			s.ChallengeID, s.SubmissionID = challengeID, submissionID
		}
	}

	switch action {
	case events.ActionCreated:
		err = c.challenges.SubmissionCreated(r.Context(), env.After)
	case events.ActionUpdated:
		err = c.challenges.SubmissionUpdated(r.Context(), env.Before, env.After)
	}
	if err != nil {
		c.sendHandlerError(w, r, log, err)
		return
	}
	resp.SendOK(w, r, http.StatusOK)
}

// CustomNotificationEvent processes a custom notification stored by another writer.
// The snapshot only signals the event; the stored record is what gets processed.
// POST /v1/events/custom_notifications/{notificationID}/{action}
func (c *EventsController) CustomNotificationEvent(w http.ResponseWriter, r *http.Request) {
	op := "EventsController.CustomNotificationEvent"
	log := c.log.With(slog.String("op", op))

	action, env, err := decodeEnvelope[custom.CustomNotification](r)
	if err != nil {
		c.sendDecodeError(w, r, log, err)
		return
	}
	if action != events.ActionCreated || env.After == nil {
		resp.SendOK(w, r, http.StatusOK)
		return
	}

	// the stored record decides, a redelivered event must not push twice
	n, err := c.custom.ProcessStored(r.Context(), chi.URLParam(r, "notificationID"))
	if err != nil {
		if errors.Is(err, custom.ErrAlreadyProcessed) {
			resp.SendOK(w, r, http.StatusOK)
			return
		}
		c.sendHandlerError(w, r, log, err)
		return
	}
	resp.SendSuccess(w, r, http.StatusOK, n)
}
