package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/models"
	"github.com/lthoa462/homework/utils"
)

type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// RequireRoles cho phép chỉ định nhiều vai trò được quyền truy cập.
// Chạy sau Gate: user_id phải có sẵn trong context.
func RequireRoles(users UserLookup, allowedRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Bạn chưa đăng nhập."})
			return
		}

		// Kiểm tra trạng thái user trong DB
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if utils.IsKind(err, utils.KindNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Không tìm thấy người dùng."})
				return
			}
			log.Printf("RequireRoles: lookup user %d: %v", userID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}

		if !user.IsActive() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Tài khoản đã bị tạm khóa."})
			return
		}

		for _, allowed := range allowedRoles {
			if user.Role == allowed {
				c.Set("role", user.Role)
				c.Next()
				return
			}
		}

		// Nếu không khớp role nào
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message": "Bạn không có quyền truy cập tài nguyên này.",
		})
	}
}
