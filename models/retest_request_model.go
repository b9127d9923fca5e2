package models

import (
	"time"

	"github.com/google/uuid"
)

type RetestStatus string

const (
	RetestPending  RetestStatus = "pending"
	RetestApproved RetestStatus = "approved"
	RetestRejected RetestStatus = "rejected"
)

const (
	RetestSourceCandidate  = "candidate"
	RetestSourceSubmission = "submission"
)

// RetestRequest gates a new attempt after a completed one. An approved request
// authorizes exactly one attempt and is marked consumed by it.
type RetestRequest struct {
	Base
	CandidateID uuid.UUID    `gorm:"type:uuid;not null;index:idx_retest_pair" json:"candidate_id"`
	PositionID  uuid.UUID    `gorm:"type:uuid;not null;index:idx_retest_pair" json:"position_id"`
	Status      RetestStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Source      string       `gorm:"size:20;not null;default:'candidate'" json:"source"`
	RequestedAt time.Time    `gorm:"not null" json:"requested_at"`
	ReviewedAt  *time.Time   `json:"reviewed_at,omitempty"`
	ReviewedBy  *uuid.UUID   `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	Reason      *string      `gorm:"type:text" json:"reason,omitempty"`

	ConsumedAt          *time.Time `json:"consumed_at,omitempty"`
	ConsumedByAttemptID *uuid.UUID `gorm:"type:uuid" json:"consumed_by_attempt_id,omitempty"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	Position  *Position  `gorm:"foreignKey:PositionID" json:"position,omitempty"`
}
