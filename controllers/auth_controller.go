package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/middleware"
	"github.com/lthoa462/homework/models"
	"github.com/lthoa462/homework/utils"
)

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type TokenIssuer interface {
	Issue(userID uint, username string) (string, error)
}

type RateLimiter interface {
	Allow(key string) bool
}

type AuthController struct {
	users        Authenticator
	tokens       TokenIssuer
	limiter      RateLimiter
	maxAge       int
	secureCookie bool
}

func NewAuthController(users Authenticator, tokens TokenIssuer, limiter RateLimiter, maxAge int, secureCookie bool) *AuthController {
	return &AuthController{
		users:        users,
		tokens:       tokens,
		limiter:      limiter,
		maxAge:       maxAge,
		secureCookie: secureCookie,
	}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login is throttled per c.ClientIP(), which only honours forwarding headers
// from the engine's trusted proxies.
func (ctl *AuthController) Login(c *gin.Context) {
	if ctl.limiter != nil && !ctl.limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"message": "Bạn đăng nhập quá nhiều lần, vui lòng thử lại sau."})
		return
	}

	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Vui lòng cung cấp đầy đủ tên đăng nhập và mật khẩu."})
		return
	}

	user, err := ctl.users.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := ctl.tokens.Issue(user.ID, user.Username)
	if err != nil {
		respondError(c, utils.Internal("Không thể tạo phiên đăng nhập.", err))
		return
	}

	middleware.SetSessionCookie(c, token, ctl.maxAge, ctl.secureCookie)
	c.JSON(http.StatusOK, gin.H{
		"message": "Đăng nhập thành công.",
		"user":    user,
	})
}

func (ctl *AuthController) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, ctl.secureCookie)
	c.JSON(http.StatusOK, gin.H{"message": "Đã đăng xuất."})
}
