package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"notifier/internal/modules/custom"
	resp "notifier/pkg/lib/response"
)

type CustomController struct {
	useCase custom.UseCase
	log     *slog.Logger
}

func NewCustomController(useCase custom.UseCase, log *slog.Logger) *CustomController {
	return &CustomController{
		useCase: useCase,
		log:     log,
	}
}

// CreateNotification stores and sends an operator-authored push.
// POST /v1/admin/notifications
func (c *CustomController) CreateNotification(w http.ResponseWriter, r *http.Request) {
	op := "CustomController.CreateNotification"
	log := c.log.With(slog.String("op", op))

	var req custom.CreateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", "error", err)
		resp.SendError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	n, err := c.useCase.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, custom.ErrInvalidInput):
			resp.SendError(w, r, http.StatusBadRequest, err.Error())
		default:
			log.Error("usecase Create failed", "error", err)
			resp.SendError(w, r, http.StatusInternalServerError, "Failed to create notification")
		}
		return
	}

	status := http.StatusCreated
	if n.Status == custom.StatusError {
		status = http.StatusAccepted
	}
	resp.SendSuccess(w, r, status, n)
}

// GetNotification returns the stored notification with its delivery status.
// GET /v1/admin/notifications/{notificationID}
func (c *CustomController) GetNotification(w http.ResponseWriter, r *http.Request) {
	op := "CustomController.GetNotification"
	log := c.log.With(slog.String("op", op))

	id := chi.URLParam(r, "notificationID")
	n, err := c.useCase.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, custom.ErrNotificationNotFound) {
			resp.SendError(w, r, http.StatusNotFound, err.Error())
			return
		}
		log.Error("usecase Get failed", "error", err)
		resp.SendError(w, r, http.StatusInternalServerError, "Failed to get notification")
		return
	}
	resp.SendSuccess(w, r, http.StatusOK, n)
}
