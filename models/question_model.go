package models

import "github.com/google/uuid"

const CategoryLogical = 1

// Question belongs to one position. A nil Category marks a technical question;
// any value marks a logical/aptitude question.
type Question struct {
	Base
	PositionID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"position_id"`
	Category      *int             `json:"category,omitempty"`
	QuestionText  string           `gorm:"type:text" json:"question_text"`
	QuestionImage string           `gorm:"size:512" json:"question_image"`
	Options       []QuestionOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options"`
}

type QuestionOption struct {
	Base
	QuestionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	OptionText  string    `gorm:"type:text" json:"option_text"`
	OptionImage string    `gorm:"size:512" json:"option_image"`
	IsCorrect   bool      `gorm:"not null;default:false" json:"is_correct"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
}

func (q *Question) IsLogical() bool {
	return q.Category != nil
}

func (q *Question) CorrectOption() *QuestionOption {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

func (q *Question) Option(id uuid.UUID) *QuestionOption {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}
