package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/controllers"
	"github.com/lthoa462/homework/middleware"
	"github.com/lthoa462/homework/models"
)

// Dependencies is everything SetupRouter wires into the engine.
type Dependencies struct {
	Gate  gin.HandlerFunc
	Users middleware.UserLookup

	Auth      *controllers.AuthController
	Reports   *controllers.ReportController
	Admin     *controllers.UserController
	Stats     *controllers.StatsController
	Uploads   *controllers.UploadController
	Schedules *controllers.ScheduleController
	Health    *controllers.HealthController
}

func SetupRouter(r *gin.Engine, d Dependencies) *gin.Engine {
	if d.Gate != nil {
		r.Use(d.Gate)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", d.Health.HealthCheck)

	api := r.Group("/api")

	api.POST("/login", d.Auth.Login)
	api.POST("/logout", d.Auth.Logout)

	reports := api.Group("/reports")
	{
		reports.GET("", d.Reports.ListDates)
		reports.GET("/:date", d.Reports.GetByDate)
		reports.POST("", d.Reports.Create)
		reports.PUT("", d.Reports.Update)
	}

	upload := api.Group("/upload-s3")
	{
		upload.POST("", d.Uploads.Upload)
		upload.DELETE("", d.Uploads.Delete)
	}

	schedule := api.Group("/schedule")
	{
		schedule.GET("", d.Schedules.List)
		schedule.POST("", d.Schedules.Create)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.RequireRoles(d.Users, models.RoleAdmin))

		admin.GET("/overview", d.Stats.GetDashboardOverview)

		// Quản lý người dùng
		admin.GET("/users", d.Admin.List)
		admin.POST("/users", d.Admin.Create)
		admin.PUT("/users/:id", d.Admin.Update)
		admin.DELETE("/users/:id", d.Admin.Delete)
	}

	return r
}
