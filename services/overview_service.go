package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/lthoa462/homework/models"
	"github.com/lthoa462/homework/utils"
)

const (
	usageWindowDays = 7
	recentUserLimit = 5
	topSubjectLimit = 5
)

type (
	Totals struct {
		TotalUsers       int64 `json:"totalUsers"`
		ActiveUsers      int64 `json:"activeUsers"`
		InactiveUsers    int64 `json:"inactiveUsers"`
		ReportsThisWeek  int64 `json:"reportsThisWeek"`
		ImportantReports int64 `json:"importantReports"`
	}

	Point struct {
		Date  time.Time `json:"date"`
		Count int64     `json:"count"`
	}

	SubjectStat struct {
		Subject string `json:"subject"`
		Count   int64  `json:"count"`
	}

	RecentUser struct {
		ID        uint              `json:"id"`
		Username  string            `json:"username"`
		FullName  *string           `json:"fullName"`
		Role      models.UserRole   `json:"role"`
		Status    models.UserStatus `json:"status"`
		CreatedAt time.Time         `json:"createdAt"`
	}

	Overview struct {
		Totals      Totals        `json:"totals"`
		UsageByDay  []Point       `json:"usageByDay"`
		RecentUsers []RecentUser  `json:"recentUsers"`
		TopSubjects []SubjectStat `json:"topSubjects"`
	}
)

type OverviewService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOverviewService(db *gorm.DB) *OverviewService {
	return &OverviewService{db: db, now: time.Now}
}

// WithClock replaces the clock used to decide "today".
func (s *OverviewService) WithClock(now func() time.Time) *OverviewService {
	s.now = now
	return s
}

// UsageWindow returns the half-open range covering the 7 UTC days ending on
// the day of now.
func UsageWindow(now time.Time) (start, end time.Time) {
	today := utils.StartOfUTCDay(now)
	return today.AddDate(0, 0, -(usageWindowDays - 1)), today.AddDate(0, 0, 1)
}

// BuildUsageByDay lays counts (keyed by UTC midnight) over the 7 days starting
// at start. Days without reports get 0.
func BuildUsageByDay(start time.Time, counts map[time.Time]int64) []Point {
	start = utils.StartOfUTCDay(start)
	points := make([]Point, 0, usageWindowDays)
	for i := 0; i < usageWindowDays; i++ {
		day := start.AddDate(0, 0, i)
		points = append(points, Point{Date: day, Count: counts[day]})
	}
	return points
}

// Overview computes the admin dashboard figures. Nothing is cached.
// importantReports counts every report ever flagged, not only this week's.
func (s *OverviewService) Overview(ctx context.Context) (*Overview, error) {
	db := s.db.WithContext(ctx)
	start, end := UsageWindow(s.now())

	var out Overview

	if err := db.Model(&models.User{}).Count(&out.Totals.TotalUsers).Error; err != nil {
		return nil, overviewErr(err)
	}
	if err := db.Model(&models.User{}).
		Where("status = ?", models.StatusActive).
		Count(&out.Totals.ActiveUsers).Error; err != nil {
		return nil, overviewErr(err)
	}
	if err := db.Model(&models.User{}).
		Where("status <> ?", models.StatusActive).
		Count(&out.Totals.InactiveUsers).Error; err != nil {
		return nil, overviewErr(err)
	}
	if err := db.Model(&models.HomeworkReport{}).
		Where("report_date >= ? AND report_date < ?", start, end).
		Count(&out.Totals.ReportsThisWeek).Error; err != nil {
		return nil, overviewErr(err)
	}
	if err := db.Model(&models.HomeworkReport{}).
		Where("is_important = ?", true).
		Count(&out.Totals.ImportantReports).Error; err != nil {
		return nil, overviewErr(err)
	}

	var dates []time.Time
	if err := db.Model(&models.HomeworkReport{}).
		Where("report_date >= ? AND report_date < ?", start, end).
		Pluck("report_date", &dates).Error; err != nil {
		return nil, overviewErr(err)
	}
	counts := make(map[time.Time]int64, usageWindowDays)
	for _, d := range dates {
		counts[utils.StartOfUTCDay(d)]++
	}
	out.UsageByDay = BuildUsageByDay(start, counts)

	out.RecentUsers = []RecentUser{}
	if err := db.Model(&models.User{}).
		Select("id, username, full_name, role, status, created_at").
		Order("created_at DESC, id DESC").
		Limit(recentUserLimit).
		Scan(&out.RecentUsers).Error; err != nil {
		return nil, overviewErr(err)
	}

	out.TopSubjects = []SubjectStat{}
	if err := db.Model(&models.SubjectEntry{}).
		Select("subject_name AS subject, COUNT(*) AS count").
		Group("subject_name").
		Order("count DESC, subject_name ASC").
		Limit(topSubjectLimit).
		Scan(&out.TopSubjects).Error; err != nil {
		return nil, overviewErr(err)
	}

	return &out, nil
}

func overviewErr(err error) error {
	return utils.Internal("Không thể tải dữ liệu tổng quan quản trị.", err)
}
