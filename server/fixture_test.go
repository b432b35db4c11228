package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-session-server/auth"
	"github.com/jrsteele09/go-session-server/internal/config"
	"github.com/jrsteele09/go-session-server/principals"
	"github.com/jrsteele09/go-session-server/principals/repofake"
	"github.com/jrsteele09/go-session-server/server"
	"github.com/jrsteele09/go-session-server/token"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	adminUsername = "root"
	adminPassword = "root-password"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	clock   *testClock
	store   *repofake.FakePrincipalRepo
	roles   auth.Roles
	service *auth.Service
	server  *server.Server
}

// apiBody mirrors the JSON envelope written by every route
type apiBody struct {
	Message               string  `json:"message"`
	Error                 *string `json:"error"`
	NewAccessToken        string  `json:"newAccessToken"`
	NewRefreshAccessToken string  `json:"newRefreshAccessToken"`
	User                  *struct {
		Role               string `json:"role"`
		Username           string `json:"username"`
		UserID             string `json:"userId"`
		AccessToken        string `json:"accessToken"`
		RefreshAccessToken string `json:"refreshAccessToken"`
	} `json:"user"`
}

func loadTestConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("APP_ENV", "TEST")
	t.Setenv("TOKEN_USER_ACCESS_SECRET", "ua-secret")
	t.Setenv("TOKEN_USER_REFRESH_SECRET", "ur-secret")
	t.Setenv("TOKEN_ADMIN_ACCESS_SECRET", "aa-secret")
	t.Setenv("TOKEN_ADMIN_REFRESH_SECRET", "ar-secret")
	t.Setenv("TOKEN_USER_ACCESS_TTL", "15m")
	t.Setenv("TOKEN_USER_REFRESH_TTL", "24h")
	t.Setenv("TOKEN_ADMIN_ACCESS_TTL", "10m")
	t.Setenv("TOKEN_ADMIN_REFRESH_TTL", "12h")
	t.Setenv("ADMIN_BOOTSTRAP_USERNAME", adminUsername)
	t.Setenv("ADMIN_BOOTSTRAP_PASSWORD", adminPassword)

	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func setupTestServer(t *testing.T, health server.HealthFunc) *testServer {
	t.Helper()

	cfg := loadTestConfig(t)
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	store := repofake.NewFakePrincipalRepo()

	roles, err := auth.NewRolesFromConfig(cfg, token.WithCodecNowFunc(clock.Now))
	require.NoError(t, err)
	service, err := auth.NewService(store, roles, auth.WithNowFunc(clock.Now))
	require.NoError(t, err)

	require.NoError(t, server.BootstrapAdmin(context.Background(), cfg, service, zerolog.Nop()))

	srv, err := server.New(cfg, service, zerolog.Nop(), health)
	require.NoError(t, err)

	return &testServer{clock: clock, store: store, roles: roles, service: service, server: srv}
}

func (ts *testServer) do(t *testing.T, method, path, bearer string, body any) (*httptest.ResponseRecorder, apiBody) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)

	var out apiBody
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func (ts *testServer) signUp(t *testing.T, username, password string) {
	t.Helper()
	rec, body := ts.do(t, http.MethodPost, server.RouteSignup, "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, body.Message)
}

func (ts *testServer) signIn(t *testing.T, route, username, password string) (string, string) {
	t.Helper()
	rec, body := ts.do(t, http.MethodPost, route, "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, body.Message)
	require.NotNil(t, body.User)
	return body.User.AccessToken, body.User.RefreshAccessToken
}

func (ts *testServer) adminPrincipal(t *testing.T) *principals.Principal {
	t.Helper()
	p, err := ts.store.GetByUsername(context.Background(), principals.RoleAdmin, adminUsername)
	require.NoError(t, err)
	return p
}
