// internal/modules/notification/entity.go
package notification

import (
	"context"
)

// --- Kinds ---
type Kind string

const (
	KindTaskReminder       Kind = "task_reminder"
	KindChallengeReminder  Kind = "challenge_reminder"
	KindFriendRequest      Kind = "friend_request"
	KindFriendAccepted     Kind = "friend_request_accepted"
	KindChallengeCreated   Kind = "challenge_created"
	KindChallengeAccepted  Kind = "challenge_accepted"
	KindChallengeCompleted Kind = "challenge_completed"
	KindChallengeExited    Kind = "challenge_exited"
	KindChallengeDeclined  Kind = "challenge_declined"
	KindSubmissionCreated  Kind = "submission_created"
	KindSubmissionVerified Kind = "submission_verified"
	KindSubmissionDeclined Kind = "submission_declined"
	KindDailyTip           Kind = "daily_tip"
	KindStreakRecap        Kind = "streak_recap"
	KindCustom             Kind = "custom"
)

// DailyTipsTopic is the broadcast topic every client subscribes to.
const DailyTipsTopic = "daily_tips"

// Notification is a single push addressed to every device subscribed to Topic.
type Notification struct {
	Kind  Kind
	Title string
	Body  string
	Topic string
	Data  map[string]string
}

// Delivery pairs a notification with a hook that runs only once the push was accepted.
type Delivery struct {
	Notification Notification
	AfterSend    func(ctx context.Context) error
}

// Report summarizes one fan-out. Err aggregates every per-recipient failure.
type Report struct {
	Attempted int
	Sent      int
	Failed    int
	Err       error
}

// Dispatcher is the push dispatcher every handler talks to.
type Dispatcher interface {
	// Send delivers one notification.
	Send(ctx context.Context, n Notification) error
	// DispatchAll delivers each notification concurrently and waits for all of them.
	// A failure is logged where it happens and never stops its siblings.
	DispatchAll(ctx context.Context, deliveries []Delivery) Report
}
