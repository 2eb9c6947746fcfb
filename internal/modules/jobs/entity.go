package jobs

import (
	"context"
	"net/http"
)

// Runner runs registered periodic jobs on demand.
type Runner interface {
	RunNow(ctx context.Context, name string) error
	Jobs() []string
}

type RunResponse struct {
	Job      string `json:"job"`
	Duration string `json:"duration"`
}

type Controller interface {
	ListJobs(w http.ResponseWriter, r *http.Request)
	RunJob(w http.ResponseWriter, r *http.Request)
}
