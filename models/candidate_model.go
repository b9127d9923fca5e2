package models

import (
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	Base
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	Phone      string    `gorm:"size:50" json:"phone"`
	Experience string    `gorm:"size:50" json:"experience"`
	PositionID uuid.UUID `gorm:"type:uuid;not null;index" json:"position_id"`
	Position   *Position `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	Schedule   time.Time `gorm:"not null" json:"schedule"`

	TechnicalQuestions        int `gorm:"default:0" json:"technical_questions"`
	LogicalQuestions          int `gorm:"default:0" json:"logical_questions"`
	QuestionsAskedToCandidate int `gorm:"default:0" json:"questions_asked_to_candidate"`
	DurationMinutes           int `gorm:"default:0" json:"duration_minutes"`

	IsNegativeMarking    bool    `gorm:"default:false" json:"is_negative_marking"`
	NegativeMarkingValue float64 `gorm:"default:0" json:"negative_marking_value"`

	// IsSubmitted is 0 until the first successful submission, then 1.
	IsSubmitted int        `gorm:"default:0" json:"is_submitted"`
	ResumeURL   *string    `gorm:"size:512" json:"resume_url"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`
}

func (c *Candidate) HasSubmitted() bool {
	return c.IsSubmitted == 1
}
