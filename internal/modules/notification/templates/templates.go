// Package templates is the message bank for every push this service sends.
package templates

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// Template uses {name}, {task} and {challenge} placeholders.
type Template struct {
	Title string
	Body  string
}

var TaskReminders = []Template{
	{Title: "Get ready for {task}", Body: "Hey {name}, it starts in a few minutes!"},
	{Title: "⏰ {task} is coming up", Body: "{name}, time to wrap up and get ready."},
	{Title: "Heads up, {name}!", Body: "\"{task}\" starts soon."},
	{Title: "Almost time: {task}", Body: "Grab what you need, {name}. It's about to start."},
}

var ChallengeReminders = []Template{
	{Title: "📸 Photo time, {name}!", Body: "Don't forget today's photo for \"{challenge}\"."},
	{Title: "Keep your streak alive", Body: "{name}, you haven't submitted for \"{challenge}\" today."},
	{Title: "Your opponent is waiting", Body: "Submit today's photo for \"{challenge}\" before the day ends, {name}."},
}

const MultiChallengeTitle = "You have pending challenges!"

// Bank draws templates uniformly at random.
type Bank struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a bank seeded from the clock. Tests pass their own source via NewWithRand.
func New() *Bank {
	seed := uint64(time.Now().UnixNano())
	return NewWithRand(rand.New(rand.NewPCG(seed, seed>>1)))
}

func NewWithRand(rnd *rand.Rand) *Bank {
	return &Bank{rnd: rnd}
}

func (b *Bank) pick(list []Template) Template {
	b.mu.Lock()
	defer b.mu.Unlock()
	return list[b.rnd.IntN(len(list))]
}

func (t Template) Format(name, task, challenge string) (string, string) {
	r := strings.NewReplacer("{name}", name, "{task}", task, "{challenge}", challenge)
	return r.Replace(t.Title), r.Replace(t.Body)
}

func (b *Bank) TaskReminder(name, task string) (string, string) {
	return b.pick(TaskReminders).Format(name, task, "")
}

func (b *Bank) ChallengeReminder(name, challenge string) (string, string) {
	return b.pick(ChallengeReminders).Format(name, "", challenge)
}

func MultiChallengeReminder(count int) (string, string) {
	return MultiChallengeTitle, fmt.Sprintf("%d challenges are still waiting for today's photo.", count)
}

// --- Event messages ---

func FriendRequestReceived(sender string) (string, string) {
	return "New Friend Request", fmt.Sprintf("%s wants to be your friend.", sender)
}

func FriendRequestAccepted(receiver string) (string, string) {
	return "Friend Request Accepted!", fmt.Sprintf("%s accepted your friend request.", receiver)
}

func ChallengeCreated(initiator, title string) (string, string) {
	return "New Challenge!", fmt.Sprintf("%s challenged you: \"%s\".", initiator, title)
}

func ChallengeAccepted(counterpart, title string) (string, string) {
	return "Challenge Accepted!", fmt.Sprintf("%s accepted your challenge \"%s\". Game on!", counterpart, title)
}

func ChallengeDeclined(counterpart, title string) (string, string) {
	return "Challenge Declined", fmt.Sprintf("%s declined your challenge \"%s\".", counterpart, title)
}

func ChallengeExited(other, title string) (string, string) {
	return "Challenge Ended", fmt.Sprintf("%s left the challenge \"%s\".", other, title)
}

func ChallengeWon(opponent, title string) (string, string) {
	return "🏆 You won!", fmt.Sprintf("You beat %s in \"%s\".", opponent, title)
}

func ChallengeLost(opponent, title string) (string, string) {
	return "Challenge Over", fmt.Sprintf("%s won \"%s\". Rematch?", opponent, title)
}

func ChallengeTied(opponent, title string) (string, string) {
	return "It's a tie!", fmt.Sprintf("You and %s tied in \"%s\".", opponent, title)
}

func SubmissionCreated(submitter, title string) (string, string) {
	return "New Photo Submitted", fmt.Sprintf("%s submitted today's photo for \"%s\".", submitter, title)
}

func SubmissionVerified(title string) (string, string) {
	return "Photo Verified ✅", fmt.Sprintf("Your photo for \"%s\" was verified.", title)
}

func SubmissionDeclined(title string) (string, string) {
	return "Photo Declined", fmt.Sprintf("Your photo for \"%s\" was declined. Try again today!", title)
}

func StreakRecap(name string, streak int) (string, string) {
	title := fmt.Sprintf("🔥 %d-day streak", streak)
	if name == "" {
		return title, "Great week! Keep it going."
	}
	return title, fmt.Sprintf("Great week, %s! Keep it going.", name)
}
