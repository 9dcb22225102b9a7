package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/services"
)

type OverviewSource interface {
	Overview(ctx context.Context) (*services.Overview, error)
}

type StatsController struct {
	overview OverviewSource
}

func NewStatsController(overview OverviewSource) *StatsController {
	return &StatsController{overview: overview}
}

// GetDashboardOverview trả về số liệu tổng quan cho trang quản trị
func (ctl *StatsController) GetDashboardOverview(c *gin.Context) {
	out, err := ctl.overview.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
