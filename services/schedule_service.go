package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/lthoa462/homework/models"
	"github.com/lthoa462/homework/utils"
)

const clockLayout = "15:04"

type CreateScheduleInput struct {
	DayOfWeek   *int    `json:"dayOfWeek"`
	SubjectName string  `json:"subjectName"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
}

type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// NewScheduleFromInput validates the request and builds the row.
func NewScheduleFromInput(in CreateScheduleInput) (*models.Schedule, error) {
	if in.DayOfWeek == nil || *in.DayOfWeek < 0 || *in.DayOfWeek > 6 {
		return nil, utils.BadRequest("Thứ trong tuần phải từ 0 (Chủ nhật) đến 6.")
	}
	name := utils.NormalizeText(in.SubjectName)
	if name == "" {
		return nil, utils.BadRequest("Tên môn học không được để trống.")
	}

	start, err := parseClock(in.StartTime, "Giờ bắt đầu")
	if err != nil {
		return nil, err
	}
	end, err := parseClock(in.EndTime, "Giờ kết thúc")
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && *end <= *start {
		return nil, utils.BadRequest("Giờ kết thúc phải sau giờ bắt đầu.")
	}

	return &models.Schedule{
		DayOfWeek:   *in.DayOfWeek,
		SubjectName: name,
		StartTime:   start,
		EndTime:     end,
	}, nil
}

// parseClock accepts HH:MM and returns it zero padded, so string order is
// time order. Nil or blank means "not set".
func parseClock(v *string, field string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s := utils.NormalizeText(*v)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return nil, utils.BadRequest(field + " phải có dạng HH:MM.")
	}
	out := t.Format(clockLayout)
	return &out, nil
}

func (s *ScheduleService) List(ctx context.Context) ([]models.Schedule, error) {
	schedules := []models.Schedule{}
	err := s.db.WithContext(ctx).
		Order("day_of_week ASC").
		Order("start_time ASC NULLS LAST").
		Order("id ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, utils.Internal("Không thể tải thời khoá biểu.", err)
	}
	return schedules, nil
}

func (s *ScheduleService) Create(ctx context.Context, in CreateScheduleInput) (*models.Schedule, error) {
	schedule, err := NewScheduleFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return nil, utils.Internal("Không thể tạo lịch học.", err)
	}
	return schedule, nil
}
