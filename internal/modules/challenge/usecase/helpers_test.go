package usecase

import (
	"context"
	"math/rand/v2"
	"testing"

	"gorm.io/gorm"

	"notifier/internal/modules/challenge"
	"notifier/internal/modules/challenge/repo"
	"notifier/internal/modules/challenge/repo/database"
	"notifier/internal/modules/notification/dispatcher"
	"notifier/internal/modules/notification/templates"
	"notifier/internal/testutil"
)

type staticNames map[string]string

func (n staticNames) DisplayName(_ context.Context, userID string) string {
	if name, ok := n[userID]; ok {
		return name
	}
	return "Friend"
}

var names = staticNames{"a": "Alice", "b": "Bob", "c": "Carol"}

type env struct {
	db     *gorm.DB
	repo   challenge.Repo
	sender *testutil.RecordingSender
	gap    *GapUseCase
	events *EventsUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewTestDB(t, &challenge.Challenge{}, &challenge.Submission{})
	log := testutil.DiscardLogger()
	sender := testutil.NewRecordingSender()
	d := dispatcher.New(sender, log)
	r := repo.NewRepo(database.NewChallengeDatabase(db, log))

	return &env{
		db:     db,
		repo:   r,
		sender: sender,
		gap:    NewGapUseCase(r, names, templates.NewWithRand(rand.New(rand.NewPCG(7, 7))), d, log),
		events: NewEventsUseCase(r, names, d, log),
	}
}
