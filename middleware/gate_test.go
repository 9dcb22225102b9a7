package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/middleware"
	"github.com/lthoa462/homework/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockVerifier accepts exactly one token.
type mockVerifier struct {
	valid  string
	claims utils.Claims
	err    error
}

func (m mockVerifier) Verify(token string) (*utils.Claims, error) {
	if token == m.valid {
		c := m.claims
		return &c, nil
	}
	if m.err != nil {
		return nil, m.err
	}
	return nil, utils.ErrInvalidToken
}

type recordingLogger struct {
	entries []utils.AccessEntry
}

func (l *recordingLogger) LogAccess(e utils.AccessEntry) error {
	l.entries = append(l.entries, e)
	return nil
}

type failingLogger struct{ panics bool }

func (l failingLogger) LogAccess(utils.AccessEntry) error {
	if l.panics {
		panic("disk full")
	}
	return errors.New("disk full")
}

// newGateEngine mounts the gate in front of catch-all handlers that answer
// 200 and echo the user id set by the gate.
func newGateEngine(cfg middleware.GateConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Gate(cfg))
	r.NoRoute(func(c *gin.Context) {
		id, _ := middleware.CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})
	return r
}

func serve(r http.Handler, method, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("User-Agent", "gate-test")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func defaultConfig(logger utils.AccessLogger) middleware.GateConfig {
	return middleware.GateConfig{
		Tokens: mockVerifier{valid: "good", claims: utils.Claims{UserID: 7, Username: "gvcn"}},
		Logger: logger,
		Now:    func() time.Time { return time.Date(2025, 9, 16, 8, 0, 0, 0, time.UTC) },
	}
}

// TestGate_PageWithoutCookieRedirects verifies that a protected page without a
// session goes to /login.
func TestGate_PageWithoutCookieRedirects(t *testing.T) {
	r := newGateEngine(defaultConfig(nil))

	rec := serve(r, http.MethodGet, "/report-input", "")

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected Location /login, got %q", loc)
	}
}

func TestGate_APIWithoutCookieIs401(t *testing.T) {
	r := newGateEngine(defaultConfig(nil))

	rec := serve(r, http.MethodPost, "/api/reports", "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"message"`) {
		t.Errorf("expected a JSON message, got %s", rec.Body.String())
	}
}

// TestGate_ValidCookiePasses verifies that the same protected request passes
// with a valid token and the user id reaches the handler.
func TestGate_ValidCookiePasses(t *testing.T) {
	r := newGateEngine(defaultConfig(nil))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/report-input"},
		{http.MethodPost, "/api/reports"},
		{http.MethodPut, "/api/reports"},
		{http.MethodGet, "/api/admin/overview"},
	} {
		rec := serve(r, tc.method, tc.path, "good")
		if rec.Code != http.StatusOK {
			t.Errorf("%s %s: expected 200, got %d", tc.method, tc.path, rec.Code)
			continue
		}
		if !strings.Contains(rec.Body.String(), `"userId":7`) {
			t.Errorf("%s %s: expected user id in context, got %s", tc.method, tc.path, rec.Body.String())
		}
	}
}

func TestGate_InvalidCookieIsCleared(t *testing.T) {
	r := newGateEngine(defaultConfig(nil))

	for _, path := range []string{"/admin", "/api/upload-s3"} {
		rec := serve(r, http.MethodPost, path, "forged")

		if rec.Code != http.StatusTemporaryRedirect && rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected a denial, got %d", path, rec.Code)
		}
		setCookie := rec.Header().Get("Set-Cookie")
		if !strings.Contains(setCookie, middleware.SessionCookieName+"=;") || !strings.Contains(setCookie, "Max-Age=0") {
			t.Errorf("%s: expected the session cookie to be cleared, got %q", path, setCookie)
		}
	}
}

// TestGate_OpenRoutesNeverNeedCookie verifies that reads and unlisted paths
// pass without a session.
func TestGate_OpenRoutesNeverNeedCookie(t *testing.T) {
	r := newGateEngine(defaultConfig(nil))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodGet, "/login"},
		{http.MethodGet, "/api/reports"},
		{http.MethodGet, "/api/reports/2025-09-16"},
		{http.MethodGet, "/api/schedule"},
		{http.MethodPost, "/api/login"},
		{http.MethodGet, "/administrator"},
	} {
		if rec := serve(r, tc.method, tc.path, ""); rec.Code != http.StatusOK {
			t.Errorf("%s %s: expected 200, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestGate_LogsOutcomes(t *testing.T) {
	logger := &recordingLogger{}
	r := newGateEngine(defaultConfig(logger))

	serve(r, http.MethodGet, "/_next/static/chunk.js", "")
	serve(r, http.MethodGet, "/favicon.ico", "")
	serve(r, http.MethodGet, "/", "")
	serve(r, http.MethodPost, "/api/reports", "")
	serve(r, http.MethodPost, "/api/reports", "forged")
	serve(r, http.MethodPost, "/api/reports", "good")

	want := []string{
		middleware.OutcomeOpen,
		middleware.OutcomeUnauthenticated,
		middleware.OutcomeInvalidToken,
		middleware.OutcomeProtected,
	}
	if len(logger.entries) != len(want) {
		t.Fatalf("expected %d entries (static assets skipped), got %d", len(want), len(logger.entries))
	}
	for i, e := range logger.entries {
		if e.Message != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], e.Message)
		}
		if e.UserAgent != "gate-test" {
			t.Errorf("entry %d: expected user agent to be recorded, got %q", i, e.UserAgent)
		}
	}
}

// TestGate_LoggerFailureDoesNotAbort verifies that neither an error nor a
// panic from the access logger blocks the request.
func TestGate_LoggerFailureDoesNotAbort(t *testing.T) {
	for _, logger := range []utils.AccessLogger{failingLogger{}, failingLogger{panics: true}} {
		r := newGateEngine(defaultConfig(logger))

		if rec := serve(r, http.MethodGet, "/", ""); rec.Code != http.StatusOK {
			t.Errorf("open route: expected 200, got %d", rec.Code)
		}
		if rec := serve(r, http.MethodPost, "/api/reports", "good"); rec.Code != http.StatusOK {
			t.Errorf("protected route: expected 200, got %d", rec.Code)
		}
	}
}

func TestProtectedRoute_Matches(t *testing.T) {
	route := middleware.ProtectedRoute{Prefix: "/api/reports", Methods: []string{http.MethodPost}}

	tests := []struct {
		method, path string
		want         bool
	}{
		{http.MethodPost, "/api/reports", true},
		{http.MethodPost, "/api/reports/2025-09-16", true},
		{"post", "/api/reports", true},
		{http.MethodGet, "/api/reports", false},
		{http.MethodPost, "/api/reportsx", false},
	}
	for _, tt := range tests {
		if got := route.Matches(tt.method, tt.path); got != tt.want {
			t.Errorf("Matches(%s, %s): expected %v, got %v", tt.method, tt.path, tt.want, got)
		}
	}
}
