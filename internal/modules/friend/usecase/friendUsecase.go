package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"notifier/internal/modules/friend"
	"notifier/internal/modules/notification"
	"notifier/internal/modules/notification/templates"
	gouser "notifier/internal/modules/user"
)

type FriendUseCase struct {
	repo       friend.Repo
	names      gouser.Resolver
	dispatcher notification.Dispatcher
	log        *slog.Logger
}

func NewFriendUseCase(repo friend.Repo, names gouser.Resolver, dispatcher notification.Dispatcher, log *slog.Logger) *FriendUseCase {
	return &FriendUseCase{
		repo:       repo,
		names:      names,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (uc *FriendUseCase) RequestCreated(ctx context.Context, after *friend.FriendRequest) error {
	op := "FriendUseCase.RequestCreated"
	log := uc.log.With(slog.String("op", op))

	if after == nil || after.ReceiverID == "" || after.SenderID == "" {
		return nil
	}

	title, body := templates.FriendRequestReceived(uc.names.DisplayName(ctx, after.SenderID))
	err := uc.dispatcher.Send(ctx, notification.Notification{
		Kind:  notification.KindFriendRequest,
		Title: title,
		Body:  body,
		Topic: after.ReceiverID,
		Data:  map[string]string{"senderId": after.SenderID},
	})
	if err != nil {
		log.Error("friend request notification not delivered", "receiverID", after.ReceiverID, "error", err)
	}
	return nil
}

// RequestDeleted fires only when the deletion was an acceptance, which the
// accepting client signals by writing users/{sender}/friends/{receiver} first.
func (uc *FriendUseCase) RequestDeleted(ctx context.Context, before *friend.FriendRequest) error {
	op := "FriendUseCase.RequestDeleted"
	log := uc.log.With(slog.String("op", op))

	if before == nil || before.ReceiverID == "" || before.SenderID == "" {
		return nil
	}

	accepted, err := uc.repo.FriendshipExists(ctx, before.SenderID, before.ReceiverID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !accepted {
		log.Debug("friend request was declined or withdrawn")
		return nil
	}

	title, body := templates.FriendRequestAccepted(uc.names.DisplayName(ctx, before.ReceiverID))
	err = uc.dispatcher.Send(ctx, notification.Notification{
		Kind:  notification.KindFriendAccepted,
		Title: title,
		Body:  body,
		Topic: before.SenderID,
		Data:  map[string]string{"friendId": before.ReceiverID},
	})
	if err != nil {
		log.Error("friend accepted notification not delivered", "senderID", before.SenderID, "error", err)
	}
	return nil
}
