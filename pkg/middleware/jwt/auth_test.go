package jwt

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/pkg/lib/jwt"
)

func serve(t *testing.T, mw func(http.Handler) http.Handler, token string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var service string
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		service, _ = r.Context().Value(ServiceKey).(string)
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, service
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "test-secret")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	serviceToken, err := jwt.GenerateServiceToken("docstore", false, time.Minute)
	require.NoError(t, err)
	adminToken, err := jwt.GenerateServiceToken("ops", true, time.Minute)
	require.NoError(t, err)

	rec, service := serve(t, NewServiceAuth(log), serviceToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "docstore", service)

	rec, _ = serve(t, NewServiceAuth(log), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, NewAdminAuth(log), serviceToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, service = serve(t, NewAdminAuth(log), adminToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "ops", service)
}
