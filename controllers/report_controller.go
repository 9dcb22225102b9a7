package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/middleware"
	"github.com/lthoa462/homework/models"
	"github.com/lthoa462/homework/services"
)

type ReportStore interface {
	CreateReport(ctx context.Context, in services.CreateReportInput) (*models.HomeworkReport, error)
	UpdateReport(ctx context.Context, in services.UpdateReportInput) (*models.HomeworkReport, error)
	ListReportDates(ctx context.Context) ([]services.ReportDate, error)
	GetReportsForDate(ctx context.Context, date string) ([]models.HomeworkReport, error)
}

type ReportController struct {
	reports ReportStore
}

func NewReportController(reports ReportStore) *ReportController {
	return &ReportController{reports: reports}
}

type CreateReportRequest struct {
	ReportDate     string                       `json:"reportDate"`
	IsImportant    bool                         `json:"isImportant"`
	SubjectEntries []services.SubjectEntryInput `json:"subjectEntries"`
	CreatedBy      uint                         `json:"createdBy"`
}

type UpdateReportRequest struct {
	ID             uint                         `json:"id"`
	IsImportant    bool                         `json:"isImportant"`
	SubjectEntries []services.SubjectEntryInput `json:"subjectEntries"`
}

func (ctl *ReportController) ListDates(c *gin.Context) {
	dates, err := ctl.reports.ListReportDates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dates)
}

func (ctl *ReportController) GetByDate(c *gin.Context) {
	reports, err := ctl.reports.GetReportsForDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(reports) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không có báo bài cho ngày này."})
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (ctl *ReportController) Create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	// Người tạo lấy từ phiên đăng nhập, createdBy trong body chỉ dùng khi không có phiên
	createdBy := req.CreatedBy
	if userID, ok := middleware.CurrentUserID(c); ok {
		createdBy = userID
	}

	report, err := ctl.reports.CreateReport(c.Request.Context(), services.CreateReportInput{
		ReportDate:  req.ReportDate,
		IsImportant: req.IsImportant,
		CreatedBy:   createdBy,
		Entries:     req.SubjectEntries,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (ctl *ReportController) Update(c *gin.Context) {
	var req UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	report, err := ctl.reports.UpdateReport(c.Request.Context(), services.UpdateReportInput{
		ID:          req.ID,
		IsImportant: req.IsImportant,
		Entries:     req.SubjectEntries,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
