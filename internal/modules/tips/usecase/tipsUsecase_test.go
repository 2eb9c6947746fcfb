package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/modules/notification"
	"notifier/internal/modules/notification/dispatcher"
	"notifier/internal/modules/tips"
	"notifier/internal/modules/tips/repo"
	"notifier/internal/modules/tips/repo/database"
	"notifier/internal/testutil"
	"notifier/pkg/lib/textprovider"
)

type fakeProvider struct {
	text    string
	textErr error
	msg     textprovider.Message
	msgErr  error
	tips    []string
}

func (p *fakeProvider) GenerateNotification(_ context.Context, tip, _ string) (textprovider.Message, error) {
	p.tips = append(p.tips, tip)
	return p.msg, p.msgErr
}

func (p *fakeProvider) GenerateText(context.Context, string) (string, error) {
	return p.text, p.textErr
}

type recordingArchive struct {
	dates []string
}

func (a *recordingArchive) ArchiveTips(_ context.Context, t *tips.DailyTips) error {
	a.dates = append(a.dates, t.DateKey)
	return nil
}

var day = time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T, provider textprovider.Provider, failTopics ...string) (*TipsUseCase, *testutil.RecordingSender, *recordingArchive, tips.Repo) {
	t.Helper()
	db := testutil.NewTestDB(t, &tips.DailyTips{})
	log := testutil.DiscardLogger()
	archive := &recordingArchive{}
	r := repo.NewRepo(database.NewTipsDatabase(db, log), archive)
	sender := testutil.NewRecordingSender(failTopics...)
	uc := NewTipsUseCase(r, provider, dispatcher.New(sender, log), log).WithClock(func() time.Time { return day })
	return uc, sender, archive, r
}

func TestParseTips(t *testing.T) {
	got := ParseTips("```\n1. Start small\n\n- Take breaks\n3) Review your day\n```")
	assert.Equal(t, []string{"Start small", "Take breaks", "Review your day"}, got)
}

func TestGenerate_UsesProviderTips(t *testing.T) {
	uc, _, archive, r := newUseCase(t, &fakeProvider{text: "1. One\n2. Two\n3. Three\n4. Four"})

	record, err := uc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", record.DateKey)

	stored, err := r.GetTips(context.Background(), "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two", "Three"}, []string{stored.TipOne, stored.TipTwo, stored.TipThree})
	assert.Equal(t, []string{"2026-03-10"}, archive.dates)
}

func TestGenerate_FallsBackOnProviderFailure(t *testing.T) {
	for name, p := range map[string]textprovider.Provider{
		"error":     &fakeProvider{textErr: errors.New("timeout")},
		"too short": &fakeProvider{text: "Only one tip"},
		"no client": nil,
	} {
		t.Run(name, func(t *testing.T) {
			uc, _, _, _ := newUseCase(t, p)
			record, err := uc.Generate(context.Background())
			require.NoError(t, err)
			assert.Equal(t, FallbackTips(day), []string{record.TipOne, record.TipTwo, record.TipThree})
		})
	}
}

func TestSendSlot_GeneratesMissingTipsAndSends(t *testing.T) {
	p := &fakeProvider{
		text: "Plan\nFocus\nReflect",
		msg:  textprovider.Message{Title: "Focus time", Body: "One thing at a time."},
	}
	uc, sender, _, _ := newUseCase(t, p)

	report, err := uc.SendSlot(context.Background(), tips.SlotAfternoon)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)

	msgs := sender.ByTopic(notification.DailyTipsTopic)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Focus time", msgs[0].Title)
	assert.Equal(t, "afternoon", msgs[0].Data["slot"])
	assert.Equal(t, "daily_tip", msgs[0].Data["type"])
	assert.Equal(t, []string{"Focus"}, p.tips)
}

func TestSendSlot_ProviderFailureStillSends(t *testing.T) {
	p := &fakeProvider{text: "Plan\nFocus\nReflect", msgErr: textprovider.ErrMalformedResponse}
	uc, sender, _, _ := newUseCase(t, p)

	report, err := uc.SendSlot(context.Background(), tips.SlotEvening)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)

	msgs := sender.ByTopic(notification.DailyTipsTopic)
	require.Len(t, msgs, 1)
	assert.Equal(t, textprovider.Fallback("Reflect", "evening"), textprovider.Message{Title: msgs[0].Title, Body: msgs[0].Body})
}

func TestSendSlot_DispatchFailureIsReported(t *testing.T) {
	uc, _, _, _ := newUseCase(t, nil, notification.DailyTipsTopic)

	report, err := uc.SendSlot(context.Background(), tips.SlotMorning)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.ErrorIs(t, report.Err, testutil.ErrSendFailed)
}
