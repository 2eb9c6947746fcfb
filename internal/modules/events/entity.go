// internal/modules/events/entity.go
package events

import (
	"net/http"
)

// Action is the kind of document change a webhook reports.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionCreated, ActionUpdated, ActionDeleted:
		return a, nil
	default:
		return "", ErrUnknownAction
	}
}

// Envelope carries the document snapshots around one change. Before is nil on
// create and After is nil on delete.
type Envelope[T any] struct {
	Before *T `json:"before"`
	After  *T `json:"after"`
}

type Controller interface {
	FriendRequestEvent(w http.ResponseWriter, r *http.Request)
	ChallengeEvent(w http.ResponseWriter, r *http.Request)
	SubmissionEvent(w http.ResponseWriter, r *http.Request)
	CustomNotificationEvent(w http.ResponseWriter, r *http.Request)
}
