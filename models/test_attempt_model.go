package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// TestAttempt is one numbered try by a candidate at a position. Numbers are
// unique per (candidate, position) and at most one row per pair is latest.
type TestAttempt struct {
	Base
	CandidateID   uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_pair_number,priority:1" json:"candidate_id"`
	PositionID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_pair_number,priority:2" json:"position_id"`
	AttemptNumber int           `gorm:"not null;uniqueIndex:idx_attempt_pair_number,priority:3" json:"attempt_number"`
	Status        AttemptStatus `gorm:"size:20;not null;default:'in_progress';index" json:"status"`
	TestResultID  *uuid.UUID    `gorm:"type:uuid" json:"test_result_id,omitempty"`
	StartedAt     time.Time     `gorm:"not null" json:"started_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	IsLatest      bool          `gorm:"not null;default:false;index" json:"is_latest"`

	// QuestionIDs is the sampled question set served for this attempt.
	QuestionIDs datatypes.JSONSlice[uuid.UUID] `json:"question_ids,omitempty"`
}

func (a *TestAttempt) IsTerminal() bool {
	return a.Status == AttemptCompleted || a.Status == AttemptAbandoned
}
