package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/modules/challenge"
	"notifier/internal/modules/custom"
	"notifier/internal/modules/friend"
)

type fakeFriends struct {
	created []*friend.FriendRequest
	deleted []*friend.FriendRequest
}

func (f *fakeFriends) RequestCreated(_ context.Context, after *friend.FriendRequest) error {
	f.created = append(f.created, after)
	return nil
}

func (f *fakeFriends) RequestDeleted(_ context.Context, before *friend.FriendRequest) error {
	f.deleted = append(f.deleted, before)
	return nil
}

type fakeChallenges struct {
	calls      []string
	lastBefore *challenge.Challenge
	lastAfter  *challenge.Challenge
	lastSub    *challenge.Submission
	err        error
}

func (f *fakeChallenges) ChallengeCreated(_ context.Context, after *challenge.Challenge) error {
	f.calls = append(f.calls, "ChallengeCreated")
	f.lastAfter = after
	return f.err
}

func (f *fakeChallenges) ChallengeUpdated(_ context.Context, before, after *challenge.Challenge) error {
	f.calls = append(f.calls, "ChallengeUpdated")
	f.lastBefore, f.lastAfter = before, after
	return f.err
}

func (f *fakeChallenges) ChallengeDeleted(_ context.Context, before *challenge.Challenge) error {
	f.calls = append(f.calls, "ChallengeDeleted")
	f.lastBefore = before
	return f.err
}

func (f *fakeChallenges) SubmissionCreated(_ context.Context, after *challenge.Submission) error {
	f.calls = append(f.calls, "SubmissionCreated")
	f.lastSub = after
	return f.err
}

func (f *fakeChallenges) SubmissionUpdated(_ context.Context, _, after *challenge.Submission) error {
	f.calls = append(f.calls, "SubmissionUpdated")
	f.lastSub = after
	return f.err
}

type fakeCustom struct {
	stored    map[string]*custom.CustomNotification
	processed []string
}

func (f *fakeCustom) ProcessStored(_ context.Context, id string) (*custom.CustomNotification, error) {
	n, ok := f.stored[id]
	if !ok {
		return nil, fmt.Errorf("lookup: %w", custom.ErrNotificationNotFound)
	}
	if n.Status != custom.StatusPending {
		return n, nil
	}
	f.processed = append(f.processed, id)
	n.Status = custom.StatusSent
	return n, nil
}

type fixture struct {
	friends    *fakeFriends
	challenges *fakeChallenges
	custom     *fakeCustom
	router     chi.Router
}

func newFixture() *fixture {
	f := &fixture{
		friends:    &fakeFriends{},
		challenges: &fakeChallenges{},
		custom:     &fakeCustom{stored: map[string]*custom.CustomNotification{}},
	}
	ctrl := NewEventsController(f.friends, f.challenges, f.custom, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Post("/users/{receiverID}/friend_requests/{senderID}/{action}", ctrl.FriendRequestEvent)
	r.Post("/challenges/{challengeID}/{action}", ctrl.ChallengeEvent)
	r.Post("/challenges/{challengeID}/submissions/{submissionID}/{action}", ctrl.SubmissionEvent)
	r.Post("/custom_notifications/{notificationID}/{action}", ctrl.CustomNotificationEvent)
	f.router = r
	return f
}

func (f *fixture) post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestFriendRequestEvent_BindsPathIDs(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/users/R/friend_requests/S/deleted", `{"before": {"created_at": "2026-10-18T09:00:00Z"}, "after": null}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, f.friends.deleted, 1)
	assert.Equal(t, "R", f.friends.deleted[0].ReceiverID)
	assert.Equal(t, "S", f.friends.deleted[0].SenderID)
	assert.Empty(t, f.friends.created)
}

func TestFriendRequestEvent_UpdateIgnored(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/users/R/friend_requests/S/updated", `{"before": {}, "after": {}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.friends.created)
	assert.Empty(t, f.friends.deleted)
}

func TestChallengeEvent_Routes(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/challenges/c1/updated",
		`{"before": {"status": "pending", "initiator_id": "A", "counterpart_id": "B"}, "after": {"status": "active", "initiator_id": "A", "counterpart_id": "B"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"ChallengeUpdated"}, f.challenges.calls)
	assert.Equal(t, "c1", f.challenges.lastBefore.ChallengeID)
	assert.Equal(t, "c1", f.challenges.lastAfter.ChallengeID)
	assert.Equal(t, challenge.StatusActive, f.challenges.lastAfter.Status)
}

func TestChallengeEvent_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
	}{
		{name: "unknown action", path: "/challenges/c1/archived", body: `{}`, status: http.StatusBadRequest},
		{name: "malformed body", path: "/challenges/c1/created", body: `{"after": `, status: http.StatusBadRequest},
		{name: "challenge missing", path: "/challenges/c1/submissions/s1/created", body: `{"after": {"user_id": "A"}}`,
			err: fmt.Errorf("lookup: %w", challenge.ErrChallengeNotFound), status: http.StatusNotFound},
		{name: "not a participant", path: "/challenges/c1/submissions/s1/created", body: `{"after": {"user_id": "Z"}}`,
			err: fmt.Errorf("lookup: %w", challenge.ErrNotParticipant), status: http.StatusUnprocessableEntity},
		{name: "store failure", path: "/challenges/c1/created", body: `{"after": {}}`,
			err: challenge.ErrChallengeInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.challenges.err = tt.err

			rec := f.post(t, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body["status"])
		})
	}
}

func TestSubmissionEvent_BindsPathIDs(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/challenges/c1/submissions/s9/updated",
		`{"before": {"user_id": "A", "verified": null}, "after": {"user_id": "A", "verified": true}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"SubmissionUpdated"}, f.challenges.calls)
	assert.Equal(t, "c1", f.challenges.lastSub.ChallengeID)
	assert.Equal(t, "s9", f.challenges.lastSub.SubmissionID)
	require.NotNil(t, f.challenges.lastSub.Verified)
	assert.True(t, *f.challenges.lastSub.Verified)
}

func TestCustomNotificationEvent(t *testing.T) {
	f := newFixture()
	f.custom.stored["n1"] = &custom.CustomNotification{NotificationID: "n1", Title: "Maintenance", Body: "Back at 10", Topic: "all_users", Status: custom.StatusPending}
	created := `{"before": null, "after": {"title": "Maintenance", "body": "Back at 10", "topic": "all_users", "status": "pending"}}`

	rec := f.post(t, "/custom_notifications/n1/created", created)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"n1"}, f.custom.processed)

	// redelivery of the same event still carries status pending in the snapshot
	rec = f.post(t, "/custom_notifications/n1/created", created)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"n1"}, f.custom.processed)

	rec = f.post(t, "/custom_notifications/n1/updated", `{"before": {}, "after": {"status": "sent"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.custom.processed, 1)
}

func TestCustomNotificationEvent_UnknownRecord(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/custom_notifications/missing/created", `{"after": {"title": "x", "body": "y", "topic": "z", "status": "pending"}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.custom.processed)
}
