package models

import "time"

// Schedule is one slot of the weekly timetable. DayOfWeek follows
// time.Weekday (0 = Sunday); times are "HH:MM".
type Schedule struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DayOfWeek   int       `gorm:"not null;index" json:"dayOfWeek"`
	SubjectName string    `gorm:"size:150;not null" json:"subjectName"`
	StartTime   *string   `gorm:"size:5" json:"startTime"`
	EndTime     *string   `gorm:"size:5" json:"endTime"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
