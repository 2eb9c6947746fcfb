package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/pkg/lib/scheduler"
)

func newRouter(t *testing.T) (chi.Router, *int) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := scheduler.New(time.Second, log)
	runs := 0
	require.NoError(t, s.Register("weekly_recap", func(context.Context) error {
		runs++
		return nil
	}, "0 18 * * 0"))
	require.NoError(t, s.Register("tips_generate", func(context.Context) error {
		return errors.New("provider down and store down")
	}, "0 5 * * *"))

	ctrl := NewJobsController(s, log)
	r := chi.NewRouter()
	r.Get("/jobs", ctrl.ListJobs)
	r.Post("/jobs/{job}", ctrl.RunJob)
	return r, &runs
}

func TestRunJob(t *testing.T) {
	r, runs := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/weekly_recap", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *runs)

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Job string `json:"job"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "weekly_recap", body.Data.Job)
}

func TestRunJob_Errors(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/tips_generate", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListJobs(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"tips_generate", "weekly_recap"}, body.Data)
}

func TestRunJob_ConflictWhileRunning(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := scheduler.New(time.Second, log)
	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.Register("task_reminders", func(context.Context) error {
		close(started)
		<-release
		return nil
	}, "@every 5m"))

	ctrl := NewJobsController(s, log)
	r := chi.NewRouter()
	r.Post("/jobs/{job}", ctrl.RunJob)

	first := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/jobs/task_reminders", nil))
		close(done)
	}()
	<-started

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/task_reminders", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(release)
	<-done
	assert.Equal(t, http.StatusOK, first.Code)
}
