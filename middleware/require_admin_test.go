package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/middleware"
	"github.com/lthoa462/homework/models"
	"github.com/lthoa462/homework/utils"
)

type mockUsers map[uint]*models.User

func (m mockUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	if id == 999 {
		return nil, errors.New("connection reset")
	}
	u, ok := m[id]
	if !ok {
		return nil, utils.NotFound("Người dùng không tồn tại.")
	}
	return u, nil
}

func callRequireRoles(t *testing.T, users mockUsers, userID uint) int {
	t.Helper()

	r := gin.New()
	r.GET("/api/admin/overview",
		func(c *gin.Context) {
			if userID != 0 {
				c.Set(middleware.ContextUserID, userID)
			}
			c.Next()
		},
		middleware.RequireRoles(users, models.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/overview", nil))
	return rec.Code
}

func TestRequireRoles(t *testing.T) {
	users := mockUsers{
		1: {ID: 1, Username: "admin", Role: models.RoleAdmin, Status: models.StatusActive},
		2: {ID: 2, Username: "gvcn", Role: models.RoleTeacher, Status: models.StatusActive},
		3: {ID: 3, Username: "old", Role: models.RoleAdmin, Status: models.StatusInactive},
	}

	tests := []struct {
		name   string
		userID uint
		want   int
	}{
		{"active admin", 1, http.StatusOK},
		{"teacher", 2, http.StatusForbidden},
		{"inactive admin", 3, http.StatusForbidden},
		{"deleted user", 4, http.StatusUnauthorized},
		{"no session", 0, http.StatusUnauthorized},
		{"lookup failure", 999, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := callRequireRoles(t, users, tt.userID); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
