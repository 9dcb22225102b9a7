package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent   UserRole = "student"   // Học sinh
	RoleTeacher   UserRole = "teacher"   // Giáo viên (nhập báo bài)
	RoleAssistant UserRole = "assistant" // Trợ giảng
	RoleAdmin     UserRole = "admin"     // Quản trị hệ thống
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAssistant, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User never serializes its password hash.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	FullName  *string    `gorm:"size:150" json:"fullName"`
	Email     *string    `gorm:"size:150;uniqueIndex" json:"email"`
	Role      UserRole   `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	Status    UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Password  string     `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (u User) IsActive() bool {
	return u.Status == StatusActive
}
