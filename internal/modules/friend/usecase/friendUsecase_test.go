package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/modules/friend"
	"notifier/internal/modules/friend/repo"
	"notifier/internal/modules/friend/repo/database"
	"notifier/internal/modules/notification/dispatcher"
	"notifier/internal/testutil"
)

type staticNames map[string]string

func (n staticNames) DisplayName(_ context.Context, userID string) string {
	if name, ok := n[userID]; ok {
		return name
	}
	return "Friend"
}

func setup(t *testing.T) (*FriendUseCase, *testutil.RecordingSender, func(f friend.Friendship)) {
	t.Helper()
	db := testutil.NewTestDB(t, &friend.FriendRequest{}, &friend.Friendship{})
	log := testutil.DiscardLogger()
	sender := testutil.NewRecordingSender()
	uc := NewFriendUseCase(
		repo.NewRepo(database.NewFriendDatabase(db, log)),
		staticNames{"R": "Rita", "S": "Sam"},
		dispatcher.New(sender, log),
		log,
	)
	return uc, sender, func(f friend.Friendship) { require.NoError(t, db.Create(&f).Error) }
}

func TestRequestCreated_NotifiesReceiver(t *testing.T) {
	uc, sender, _ := setup(t)

	require.NoError(t, uc.RequestCreated(context.Background(), &friend.FriendRequest{ReceiverID: "R", SenderID: "S"}))

	msgs := sender.ByTopic("R")
	require.Len(t, msgs, 1)
	assert.Equal(t, "New Friend Request", msgs[0].Title)
	assert.Equal(t, "Sam wants to be your friend.", msgs[0].Body)
}

func TestRequestDeleted_AcceptedNotifiesSender(t *testing.T) {
	uc, sender, befriend := setup(t)
	befriend(friend.Friendship{UserID: "S", FriendID: "R"})

	require.NoError(t, uc.RequestDeleted(context.Background(), &friend.FriendRequest{ReceiverID: "R", SenderID: "S"}))

	require.Equal(t, 1, sender.Count())
	msgs := sender.ByTopic("S")
	require.Len(t, msgs, 1)
	assert.Equal(t, "Friend Request Accepted!", msgs[0].Title)
	assert.Contains(t, msgs[0].Body, "Rita")
	assert.Equal(t, "friend_request_accepted", msgs[0].Data["type"])
}

func TestRequestDeleted_DeclinedIsSilent(t *testing.T) {
	uc, sender, befriend := setup(t)
	// the reverse direction does not count
	befriend(friend.Friendship{UserID: "R", FriendID: "S"})

	require.NoError(t, uc.RequestDeleted(context.Background(), &friend.FriendRequest{ReceiverID: "R", SenderID: "S"}))
	require.NoError(t, uc.RequestDeleted(context.Background(), nil))
	assert.Equal(t, 0, sender.Count())
}
