package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ProgressUntouched = 0
	ProgressAnswered  = 1
	ProgressVisited   = 2
)

type ProgressQuestion struct {
	QuestionID       uuid.UUID  `json:"question_id" validate:"required"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
	Status           int        `json:"status" validate:"min=0,max=2"`
}

// CandidateTestProgress is the resumable autosave snapshot, one per
// (candidate, position).
type CandidateTestProgress struct {
	Base
	CandidateID          uuid.UUID                            `gorm:"type:uuid;not null;uniqueIndex:idx_progress_pair,priority:1" json:"candidate_id"`
	PositionID           uuid.UUID                            `gorm:"type:uuid;not null;uniqueIndex:idx_progress_pair,priority:2" json:"position_id"`
	Questions            datatypes.JSONSlice[ProgressQuestion] `json:"questions"`
	CurrentQuestionIndex int                                  `gorm:"not null;default:0" json:"current_question_index"`
	TimeLeft             int                                  `gorm:"not null;default:0" json:"time_left"`
	LastSavedAt          time.Time                            `gorm:"not null;index" json:"last_saved_at"`
}

func (CandidateTestProgress) TableName() string {
	return "candidate_test_progress"
}
