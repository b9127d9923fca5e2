package services

import (
	"errors"
	"time"

	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ProgressRetention = 2 * time.Hour

type ProgressSnapshot struct {
	Questions            []models.ProgressQuestion `json:"questions" validate:"required,dive"`
	CurrentQuestionIndex int                       `json:"current_question_index" validate:"min=0"`
	TimeLeft             int                       `json:"time_left" validate:"min=0"`
}

// SaveProgress upserts the pair's snapshot and stamps lastSavedAt.
func SaveProgress(db *gorm.DB, candidateID, positionID uuid.UUID, snapshot *ProgressSnapshot) (*models.CandidateTestProgress, error) {
	if candidateID == uuid.Nil || positionID == uuid.Nil || snapshot == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "candidateId, positionId and progress are required")
	}

	progress := models.CandidateTestProgress{
		CandidateID:          candidateID,
		PositionID:           positionID,
		Questions:            datatypes.JSONSlice[models.ProgressQuestion](snapshot.Questions),
		CurrentQuestionIndex: snapshot.CurrentQuestionIndex,
		TimeLeft:             snapshot.TimeLeft,
		LastSavedAt:          time.Now(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "position_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"questions", "current_question_index", "time_left", "last_saved_at", "updated_at"}),
	}).Create(&progress).Error
	if err != nil {
		return nil, err
	}

	return GetProgress(db, candidateID, positionID)
}

// GetProgress returns nil without error when nothing is saved for the pair.
func GetProgress(db *gorm.DB, candidateID, positionID uuid.UUID) (*models.CandidateTestProgress, error) {
	var progress models.CandidateTestProgress
	err := db.Where("candidate_id = ? AND position_id = ?", candidateID, positionID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func ResetProgress(db *gorm.DB, candidateID, positionID uuid.UUID) error {
	if candidateID == uuid.Nil || positionID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "candidateId and positionId are required")
	}
	return resetProgress(db, candidateID, positionID)
}

func resetProgress(tx *gorm.DB, candidateID, positionID uuid.UUID) error {
	return tx.Where("candidate_id = ? AND position_id = ?", candidateID, positionID).
		Delete(&models.CandidateTestProgress{}).Error
}

// DeleteStaleProgress removes snapshots last saved before cutoff.
func DeleteStaleProgress(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Where("last_saved_at < ?", cutoff).Delete(&models.CandidateTestProgress{})
	return res.RowsAffected, res.Error
}
