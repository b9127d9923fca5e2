package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AnswerUnanswered = 0
	AnswerAnswered   = 1
)

type TestResult struct {
	Base
	CandidateID   uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	PositionID    uuid.UUID `gorm:"type:uuid;not null;index" json:"position_id"`
	TestAttemptID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"test_attempt_id"`
	AttemptNumber int       `gorm:"not null" json:"attempt_number"`

	Answers []ResultAnswer `gorm:"foreignKey:TestResultID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`

	Score              float64 `json:"score"`
	TotalQuestions     int     `json:"total_questions"`
	AttemptedQuestions int     `json:"attempted_questions"`
	CorrectAnswers     int     `json:"correct_answers"`
	TotalMarks         float64 `json:"total_marks"`
	MarksObtained      float64 `json:"marks_obtained"`
	MaxMarks           float64 `json:"max_marks"`

	TimeTakenSeconds int       `json:"time_taken_in_seconds"`
	RecordingURL     string    `gorm:"size:512" json:"recording_url"`
	IsSubmitted      bool      `gorm:"default:true" json:"is_submitted"`
	SubmittedAt      time.Time `json:"submitted_at"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	Position  *Position  `gorm:"foreignKey:PositionID" json:"position,omitempty"`
}

type ResultAnswer struct {
	Base
	TestResultID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"test_result_id"`
	QuestionID          uuid.UUID  `gorm:"type:uuid;not null" json:"question_id"`
	SortOrder           int        `gorm:"not null" json:"sort_order"`
	QuestionText        string     `gorm:"type:text" json:"question_text"`
	QuestionImage       string     `gorm:"size:512" json:"question_image"`
	SelectedOptionID    *uuid.UUID `gorm:"type:uuid" json:"selected_option_id,omitempty"`
	SelectedOptionText  string     `gorm:"type:text" json:"selected_option_text"`
	SelectedOptionImage string     `gorm:"size:512" json:"selected_option_image"`
	CorrectOptionText   string     `gorm:"type:text" json:"correct_option_text"`
	CorrectOptionImage  string     `gorm:"size:512" json:"correct_option_image"`
	IsCorrect           bool       `json:"is_correct"`
	Status              int        `json:"status"`
	Marks               float64    `json:"marks_obtained"`
}
