package models

import (
	"time"

	"github.com/lib/pq"
)

// HomeworkReport is one report row for a calendar day. ReportDate is always
// stored at UTC midnight; several rows may share a day.
type HomeworkReport struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReportDate  time.Time `gorm:"type:timestamptz;not null;index" json:"reportDate"`
	IsImportant bool      `gorm:"not null;default:false" json:"isImportant"`
	CreatedBy   uint      `gorm:"not null;index" json:"createdBy"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`

	SubjectEntries []SubjectEntry `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"subjectEntries"`
}

type SubjectEntry struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ReportID    uint           `gorm:"not null;index" json:"reportId"`
	Position    int            `gorm:"not null;default:0" json:"-"`
	SubjectName string         `gorm:"size:150;not null;index" json:"subjectName"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	ImageURLs   pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"imageUrls"`
	IsHomework  bool           `gorm:"not null;default:false" json:"isHomework"`
}
