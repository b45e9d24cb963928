package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/vidrios-leads-api/internal/service"
	"github.com/noah-isme/vidrios-leads-api/internal/testutil"
	"github.com/noah-isme/vidrios-leads-api/pkg/config"
)

const (
	testSecret   = "handler-test-secret"
	testAdmin    = "admin@vidrios.com"
	testPassword = "admin1234"
	testToken    = "admin123"
)

type testServer struct {
	router   *gin.Engine
	store    *testutil.SubmissionStore
	sessions *service.SessionAuthority
	metrics  *service.MetricsService
	cfg      *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		Env:  config.EnvDevelopment,
		Port: 4000,
		JWT: config.JWTConfig{
			Secret:     testSecret,
			Issuer:     "vidrios-leads-api",
			Expiration: 7 * 24 * time.Hour,
		},
		Auth: config.AuthConfig{
			Mode:       config.AuthModeSession,
			AdminEmail: testAdmin,
			AdminToken: testToken,
			CookieName: "token",
		},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, revoker service.SessionRevoker) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	store := testutil.NewSubmissionStore()
	metrics := service.NewMetricsService()
	submissions := service.NewSubmissionService(store, nil, zap.NewNop(), metrics)

	deps := RouterDeps{
		Config:      cfg,
		Logger:      zap.NewNop(),
		Submissions: submissions,
		Metrics:     metrics,
	}

	var sessions *service.SessionAuthority
	if cfg.Auth.Mode == config.AuthModeToken {
		deps.StaticToken = service.NewStaticTokenAuthority(cfg.Auth.AdminToken, cfg.Auth.AdminEmail)
	} else {
		sessions, err = service.NewSessionAuthority(service.SessionConfig{
			Secret:            cfg.JWT.Secret,
			Issuer:            cfg.JWT.Issuer,
			TTL:               cfg.JWT.Expiration,
			AdminEmail:        cfg.Auth.AdminEmail,
			AdminPasswordHash: string(hash),
		}, revoker, nil, zap.NewNop(), metrics)
		require.NoError(t, err)
		deps.Sessions = sessions
	}

	return &testServer{
		router:   NewRouter(deps),
		store:    store,
		sessions: sessions,
		metrics:  metrics,
		cfg:      cfg,
	}
}

func (s *testServer) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		payload, _ := json.Marshal(v)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": testAdmin, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookie(t, w, s.cfg.Auth.CookieName)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
