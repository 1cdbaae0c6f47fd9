package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/OluRemiFour/OctoOps-backend/internal/api"
	"github.com/OluRemiFour/OctoOps-backend/internal/app"
	iauth "github.com/OluRemiFour/OctoOps-backend/internal/auth"
	"github.com/OluRemiFour/OctoOps-backend/internal/database"
	sharedtestutil "github.com/OluRemiFour/OctoOps-backend/internal/database/testutil"
	"github.com/OluRemiFour/OctoOps-backend/internal/models"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T      *testing.T
	Store  *database.Store
	Router *gin.Engine
	JWT    *iauth.JWTService
	Config *app.Config
}

// EnvOption adjusts the configuration before the router is built.
type EnvOption func(*app.Config)

// WithEnforcedTransitions turns on the task workflow guard.
func WithEnforcedTransitions() EnvOption {
	return func(cfg *app.Config) {
		cfg.Tasks.EnforceTransitions = true
	}
}

// WithCancelPolicy selects the invite cancel policy.
func WithCancelPolicy(policy string) EnvOption {
	return func(cfg *app.Config) {
		cfg.Invites.CancelPolicy = policy
	}
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	st := sharedtestutil.MustOpenTestStore(t)

	cfg := &app.Config{
		Server: app.ServerConfig{Environment: app.EnvProduction},
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: "test-suite-super-secret-key-32-bytes!!",
				Issuer: "test-suite",
				TTL:    time.Hour,
			},
		},
		Invites: app.InviteConfig{
			Expiry:       7 * 24 * time.Hour,
			CancelPolicy: "always",
		},
		Tasks: app.TaskConfig{CascadeDependencies: true},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	require.NoError(t, err)

	router, err := api.NewRouter(st, jwtSvc, cfg)
	require.NoError(t, err)

	return &Env{
		T:      t,
		Store:  st,
		Router: router,
		JWT:    jwtSvc,
		Config: cfg,
	}
}

// CreateUser inserts a user with a unique email and returns the record.
func (e *Env) CreateUser(name string, role models.UserRole) *models.User {
	e.T.Helper()

	user := &models.User{
		Name:   name,
		Email:  uuid.NewString() + "@example.com",
		Role:   role,
		Status: models.UserStatusActive,
		Avatar: models.AvatarForRole(role),
	}
	user.Touch(time.Now().UTC())
	require.NoError(e.T, e.Store.Users().Create(context.Background(), user))
	return user
}

// CreateProject inserts a project owned by owner with the owner on the team.
func (e *Env) CreateProject(name string, owner *models.User) *models.Project {
	e.T.Helper()

	project := &models.Project{
		Name:    name,
		OwnerID: owner.ID,
		TeamIDs: []string{owner.ID},
	}
	project.Touch(time.Now().UTC())
	require.NoError(e.T, e.Store.Projects().Create(context.Background(), project))
	return project
}

// TokenFor issues an access token for user.
func (e *Env) TokenFor(user *models.User) string {
	e.T.Helper()

	token, err := e.JWT.GenerateAccessToken(iauth.AccessTokenInput{UserID: user.ID})
	require.NoError(e.T, err)
	return token.Token
}

// ErrorPayload mirrors the error body written by the API.
type ErrorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Decode unmarshals the recorder body into T.
func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// RequireError asserts the status code and error message of a failed request.
func RequireError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	body := Decode[ErrorPayload](t, w)
	require.Equal(t, message, body.Error)
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
