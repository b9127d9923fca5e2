package services

import (
	"errors"

	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/anjiri1684/interview_portal/models"
	"gorm.io/gorm"
)

func defaultSettings() models.Settings {
	return models.Settings{
		ID:                         models.SettingsID,
		MarksPerQuestion:           1,
		LoginWindowMinutes:         config.App.LoginWindowMinutes,
		DefaultTestDurationMinutes: 30,
	}
}

// LoadSettings returns the singleton settings row, creating it with defaults
// on first use.
func LoadSettings(db *gorm.DB) (models.Settings, error) {
	var settings models.Settings
	err := db.First(&settings, "id = ?", models.SettingsID).Error
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return settings, err
	}

	settings = defaultSettings()
	if err := db.Create(&settings).Error; err != nil {
		return settings, err
	}
	return settings, nil
}

type SettingsUpdate struct {
	MarksPerQuestion           *float64 `json:"marks_per_question" validate:"omitempty,gt=0"`
	LoginWindowMinutes         *int     `json:"login_window_minutes" validate:"omitempty,gte=0"`
	DefaultTestDurationMinutes *int     `json:"default_test_duration_minutes" validate:"omitempty,gt=0"`
}

func UpdateSettings(db *gorm.DB, update SettingsUpdate) (models.Settings, error) {
	settings, err := LoadSettings(db)
	if err != nil {
		return settings, err
	}
	if update.MarksPerQuestion != nil {
		settings.MarksPerQuestion = *update.MarksPerQuestion
	}
	if update.LoginWindowMinutes != nil {
		settings.LoginWindowMinutes = *update.LoginWindowMinutes
	}
	if update.DefaultTestDurationMinutes != nil {
		settings.DefaultTestDurationMinutes = *update.DefaultTestDurationMinutes
	}
	if err := db.Save(&settings).Error; err != nil {
		return settings, err
	}
	return settings, nil
}
