package templates

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBank_TaskReminderFillsPlaceholders(t *testing.T) {
	b := NewWithRand(rand.New(rand.NewPCG(1, 2)))

	for i := 0; i < 20; i++ {
		title, body := b.TaskReminder("Ann", "Write report")
		combined := title + " " + body
		assert.NotContains(t, combined, "{")
		assert.Contains(t, combined, "Write report")
	}
}

func TestBank_ChallengeReminderDrawsFromBank(t *testing.T) {
	b := NewWithRand(rand.New(rand.NewPCG(7, 7)))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		title, body := b.ChallengeReminder("Bob", "Morning run")
		assert.Contains(t, body+title, "Bob")
		seen[title] = true
	}
	assert.Len(t, seen, len(ChallengeReminders))
}

func TestMultiChallengeReminder(t *testing.T) {
	title, body := MultiChallengeReminder(3)
	assert.Equal(t, MultiChallengeTitle, title)
	assert.Equal(t, "3 challenges are still waiting for today's photo.", body)
}
