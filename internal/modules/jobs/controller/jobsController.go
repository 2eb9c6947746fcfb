package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"notifier/internal/modules/jobs"
	resp "notifier/pkg/lib/response"
	"notifier/pkg/lib/scheduler"
)

type JobsController struct {
	runner jobs.Runner
	log    *slog.Logger
}

func NewJobsController(runner jobs.Runner, log *slog.Logger) jobs.Controller {
	return &JobsController{
		runner: runner,
		log:    log,
	}
}

// ListJobs GET /v1/admin/jobs
func (c *JobsController) ListJobs(w http.ResponseWriter, r *http.Request) {
	resp.SendSuccess(w, r, http.StatusOK, c.runner.Jobs())
}

// RunJob runs one job now, on the same path as its cron trigger. A job that is
// already running is not started twice.
// POST /v1/admin/jobs/{job}
func (c *JobsController) RunJob(w http.ResponseWriter, r *http.Request) {
	op := "JobsController.RunJob"
	name := chi.URLParam(r, "job")
	log := c.log.With(slog.String("op", op), slog.String("job", name))

	started := time.Now()
	if err := c.runner.RunNow(r.Context(), name); err != nil {
		switch {
		case errors.Is(err, scheduler.ErrUnknownJob):
			resp.SendError(w, r, http.StatusNotFound, err.Error())
			return
		case errors.Is(err, scheduler.ErrJobRunning):
			resp.SendError(w, r, http.StatusConflict, err.Error())
			return
		}
		log.Error("manual job run failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Job failed")
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, jobs.RunResponse{
		Job:      name,
		Duration: time.Since(started).String(),
	})
}
