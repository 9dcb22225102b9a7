package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/utils"
)

// Outcome tags written to the access log.
const (
	OutcomeOpen            = "open"
	OutcomeProtected       = "protected"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeInvalidToken    = "invalid-token"
)

// ProtectedRoute requires a session for paths under Prefix. No Methods means
// every method.
type ProtectedRoute struct {
	Prefix  string
	Methods []string
}

func (r ProtectedRoute) Matches(method, path string) bool {
	if !hasPathPrefix(path, r.Prefix) {
		return false
	}
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// hasPathPrefix matches whole segments: "/admin" covers "/admin/users" but not
// "/administrator".
func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || strings.HasSuffix(prefix, "/") || path[len(prefix)] == '/'
}

func DefaultStaticPrefixes() []string {
	return []string{
		"/_next/static",
		"/_next/image",
		"/_next/data",
		"/static/",
		"/assets/",
		"/favicon.ico",
		"/manifest",
	}
}

func DefaultProtectedRoutes() []ProtectedRoute {
	return []ProtectedRoute{
		{Prefix: "/report-input"},
		{Prefix: "/admin"},
		{Prefix: "/api/reports", Methods: []string{http.MethodPost, http.MethodPut}},
		{Prefix: "/api/upload-s3"},
		{Prefix: "/api/admin"},
		{Prefix: "/api/schedule", Methods: []string{http.MethodPost}},
	}
}

type GateConfig struct {
	Tokens TokenVerifier
	Logger utils.AccessLogger

	StaticPrefixes []string
	Protected      []ProtectedRoute

	LoginPath    string
	SecureCookie bool
	Now          func() time.Time
}

// Gate classifies each request as static, protected or open. Static assets
// skip everything. Other requests are logged first, then protected ones need
// a valid session cookie: pages are redirected to the login page and /api/
// routes get a JSON 401.
func Gate(cfg GateConfig) gin.HandlerFunc {
	if cfg.StaticPrefixes == nil {
		cfg.StaticPrefixes = DefaultStaticPrefixes()
	}
	if cfg.Protected == nil {
		cfg.Protected = DefaultProtectedRoutes()
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		for _, prefix := range cfg.StaticPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		protected := false
		for _, route := range cfg.Protected {
			if route.Matches(method, path) {
				protected = true
				break
			}
		}

		var (
			claims  *utils.Claims
			outcome = OutcomeOpen
			hadBad  bool
		)
		if protected {
			outcome = OutcomeProtected
			token, err := c.Cookie(SessionCookieName)
			switch {
			case err != nil || token == "":
				outcome = OutcomeUnauthenticated
			default:
				claims, err = cfg.Tokens.Verify(token)
				if err != nil {
					outcome = OutcomeInvalidToken
					hadBad = true
				}
			}
		}

		logAccess(cfg.Logger, utils.AccessEntry{
			Time:      cfg.Now(),
			IP:        utils.ClientIP(c.Request),
			Method:    method,
			Path:      path,
			UserAgent: c.Request.UserAgent(),
			Message:   outcome,
		})

		if !protected {
			c.Next()
			return
		}

		if claims == nil {
			if hadBad {
				ClearSessionCookie(c, cfg.SecureCookie)
			}
			deny(c, path, cfg.LoginPath)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

func deny(c *gin.Context, path, loginPath string) {
	if hasPathPrefix(path, "/api") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Phiên đăng nhập không hợp lệ hoặc đã hết hạn."})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, loginPath)
	c.Abort()
}

// logAccess never lets the logger break the request.
func logAccess(l utils.AccessLogger, e utils.AccessEntry) {
	if l == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("access logger panic: %v", r)
		}
	}()
	if err := l.LogAccess(e); err != nil {
		log.Printf("access logger: %v", err)
	}
}
