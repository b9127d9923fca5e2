package models

import "time"

const SettingsID = 1

type Settings struct {
	ID                         uint      `gorm:"primaryKey" json:"-"`
	MarksPerQuestion           float64   `gorm:"not null;default:1" json:"marks_per_question"`
	LoginWindowMinutes         int       `gorm:"not null;default:30" json:"login_window_minutes"`
	DefaultTestDurationMinutes int       `gorm:"not null;default:30" json:"default_test_duration_minutes"`
	UpdatedAt                  time.Time `json:"updated_at"`
}
