package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/OluRemiFour/OctoOps-backend/internal/handlers"
	"github.com/OluRemiFour/OctoOps-backend/internal/handlers/testutil"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealth_ReportsStoreStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for name, tc := range map[string]struct {
		pinger handlers.Pinger
		status int
	}{
		"no pinger": {pinger: nil, status: http.StatusOK},
		"healthy":   {pinger: stubPinger{}, status: http.StatusOK},
		"down":      {pinger: stubPinger{err: errors.New("connection refused")}, status: http.StatusServiceUnavailable},
	} {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", handlers.Health(tc.pinger))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tc.status, w.Code)
		})
	}
}

func TestHealth_RoutesAndFallback(t *testing.T) {
	env := testutil.NewEnv(t)

	for _, path := range []string{"/health", "/api/health"} {
		w := env.Request(http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		require.Equal(t, "ok", testutil.Decode[map[string]string](t, w)["status"])
	}

	missing := env.Request(http.MethodGet, "/api/unknown", nil, "")
	require.Equal(t, http.StatusNotFound, missing.Code)
}
