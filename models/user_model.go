package models

import "time"

const (
	RoleAdmin     = "admin"
	RoleHR        = "hr"
	RoleCandidate = "candidate"
)

type User struct {
	Base
	FullName        string  `gorm:"size:255;not null" json:"full_name"`
	Email           string  `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password        string  `gorm:"not null" json:"-"`
	Role            string  `gorm:"size:20;not null;default:'hr'" json:"role"`
	ProfileImageURL *string `gorm:"size:512" json:"profile_image_url"`
	IsActive        bool    `gorm:"default:true" json:"is_active"`

	ResetPasswordToken          *string    `gorm:"size:255;uniqueIndex" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
}
