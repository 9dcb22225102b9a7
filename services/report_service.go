package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/lthoa462/homework/models"
	"github.com/lthoa462/homework/utils"
)

type SubjectEntryInput struct {
	SubjectName string   `json:"subjectName"`
	Content     string   `json:"content"`
	ImageURLs   []string `json:"imageUrls"`
	IsHomework  bool     `json:"isHomework"`
}

type CreateReportInput struct {
	ReportDate  string
	IsImportant bool
	CreatedBy   uint
	Entries     []SubjectEntryInput
}

type UpdateReportInput struct {
	ID          uint
	IsImportant bool
	Entries     []SubjectEntryInput
}

// ReportDate is one calendar cell: a day that has at least one report.
type ReportDate struct {
	ReportDate  time.Time `json:"reportDate"`
	IsImportant bool      `json:"isImportant"`
}

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// BuildSubjectEntries validates the entries and converts them to rows in
// submission order. It never touches the database.
func BuildSubjectEntries(entries []SubjectEntryInput) ([]models.SubjectEntry, error) {
	if len(entries) == 0 {
		return nil, utils.BadRequest("Báo bài phải có ít nhất một môn học.")
	}

	rows := make([]models.SubjectEntry, 0, len(entries))
	for i, e := range entries {
		name := utils.NormalizeText(e.SubjectName)
		if name == "" {
			return nil, utils.BadRequest(fmt.Sprintf("Môn học thứ %d chưa có tên.", i+1))
		}
		content := utils.NormalizeText(e.Content)
		if content == "" {
			return nil, utils.BadRequest(fmt.Sprintf("Môn %s chưa có nội dung.", name))
		}

		urls := pq.StringArray{}
		for _, u := range e.ImageURLs {
			u = strings.TrimSpace(u)
			if u == "" {
				return nil, utils.BadRequest(fmt.Sprintf("Môn %s có đường dẫn ảnh trống.", name))
			}
			urls = append(urls, u)
		}

		rows = append(rows, models.SubjectEntry{
			Position:    i,
			SubjectName: name,
			Content:     content,
			ImageURLs:   urls,
			IsHomework:  e.IsHomework,
		})
	}
	return rows, nil
}

// CreateReport inserts the report and its entries in one transaction.
func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*models.HomeworkReport, error) {
	reportDate, err := utils.ParseReportDate(in.ReportDate)
	if err != nil {
		return nil, err
	}
	entries, err := BuildSubjectEntries(in.Entries)
	if err != nil {
		return nil, err
	}
	if in.CreatedBy == 0 {
		return nil, utils.BadRequest("Thiếu người tạo báo bài.")
	}

	report := models.HomeworkReport{
		ReportDate:     reportDate,
		IsImportant:    in.IsImportant,
		CreatedBy:      in.CreatedBy,
		SubjectEntries: entries,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&report).Error
	})
	if err != nil {
		return nil, utils.Internal("Không thể tạo báo bài.", err)
	}
	return &report, nil
}

// UpdateReport replaces every entry of the report and its importance flag.
// Delete and insert share one transaction, so a failure leaves the old
// entries in place.
func (s *ReportService) UpdateReport(ctx context.Context, in UpdateReportInput) (*models.HomeworkReport, error) {
	if in.ID == 0 {
		return nil, utils.BadRequest("Thiếu mã báo bài.")
	}
	entries, err := BuildSubjectEntries(in.Entries)
	if err != nil {
		return nil, err
	}

	var report models.HomeworkReport
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, in.ID).Error; err != nil {
			return err
		}

		if err := tx.Where("report_id = ?", report.ID).Delete(&models.SubjectEntry{}).Error; err != nil {
			return err
		}

		for i := range entries {
			entries[i].ReportID = report.ID
		}
		if err := tx.Create(&entries).Error; err != nil {
			return err
		}

		if err := tx.Model(&report).Update("is_important", in.IsImportant).Error; err != nil {
			return err
		}
		report.IsImportant = in.IsImportant
		report.SubjectEntries = entries
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("Không tìm thấy báo bài.")
	}
	if err != nil {
		return nil, utils.Internal("Không thể cập nhật báo bài.", err)
	}
	return &report, nil
}

// ListReportDates returns one item per UTC day; a day is important when any
// of its rows is.
func (s *ReportService) ListReportDates(ctx context.Context) ([]ReportDate, error) {
	var rows []ReportDate
	err := s.db.WithContext(ctx).
		Model(&models.HomeworkReport{}).
		Select("report_date, is_important").
		Order("report_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, utils.Internal("Không thể tải danh sách ngày báo bài.", err)
	}
	return CollapseReportDates(rows), nil
}

// CollapseReportDates merges rows of the same UTC day and sorts ascending.
func CollapseReportDates(rows []ReportDate) []ReportDate {
	byDay := make(map[time.Time]bool, len(rows))
	for _, r := range rows {
		day := utils.StartOfUTCDay(r.ReportDate)
		byDay[day] = byDay[day] || r.IsImportant
	}

	out := make([]ReportDate, 0, len(byDay))
	for day, important := range byDay {
		out = append(out, ReportDate{ReportDate: day, IsImportant: important})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReportDate.Before(out[j].ReportDate)
	})
	return out
}

// GetReportsForDate returns every report whose date falls on the given UTC
// calendar day. No match is an empty slice, not an error.
func (s *ReportService) GetReportsForDate(ctx context.Context, date string) ([]models.HomeworkReport, error) {
	day, err := utils.ParseReportDate(date)
	if err != nil {
		return nil, err
	}
	start, end := utils.UTCDayRange(day)

	reports := []models.HomeworkReport{}
	err = s.db.WithContext(ctx).
		Where("report_date >= ? AND report_date < ?", start, end).
		Preload("SubjectEntries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Order("created_at ASC, id ASC").
		Find(&reports).Error
	if err != nil {
		return nil, utils.Internal("Không thể tải báo bài.", err)
	}
	return reports, nil
}
