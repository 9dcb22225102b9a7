package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/models"
	"github.com/lthoa462/homework/services"
)

type ScheduleStore interface {
	List(ctx context.Context) ([]models.Schedule, error)
	Create(ctx context.Context, in services.CreateScheduleInput) (*models.Schedule, error)
}

type ScheduleController struct {
	schedules ScheduleStore
}

func NewScheduleController(schedules ScheduleStore) *ScheduleController {
	return &ScheduleController{schedules: schedules}
}

func (ctl *ScheduleController) List(c *gin.Context) {
	schedules, err := ctl.schedules.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (ctl *ScheduleController) Create(c *gin.Context) {
	var input services.CreateScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badJSON(c)
		return
	}

	schedule, err := ctl.schedules.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, schedule)
}
