package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestRetest opens a pending retest request for the candidate's assigned
// position.
func RequestRetest(db *gorm.DB, candidateID uuid.UUID) (*models.RetestRequest, error) {
	var request *models.RetestRequest

	err := db.Transaction(func(tx *gorm.DB) error {
		var candidate models.Candidate
		if err := tx.First(&candidate, "id = ?", candidateID).Error; err != nil {
			return notFound(err, "Candidate not found")
		}
		positionID := candidate.PositionID

		var pending int64
		err := tx.Model(&models.RetestRequest{}).
			Where("candidate_id = ? AND position_id = ? AND status = ?", candidateID, positionID, models.RetestPending).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "A retest request is already pending")
		}

		var completed int64
		err = tx.Model(&models.TestAttempt{}).
			Where("candidate_id = ? AND position_id = ? AND status = ?", candidateID, positionID, models.AttemptCompleted).
			Count(&completed).Error
		if err != nil {
			return err
		}
		if completed == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No completed test found to retake")
		}

		request = &models.RetestRequest{
			CandidateID: candidateID,
			PositionID:  positionID,
			Status:      models.RetestPending,
			Source:      models.RetestSourceCandidate,
			RequestedAt: time.Now(),
		}
		return tx.Create(request).Error
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// ensurePendingRetest creates a pending request for the pair unless one is
// already pending. It reports whether a request was created.
func ensurePendingRetest(tx *gorm.DB, candidateID, positionID uuid.UUID, source string) (bool, error) {
	var pending int64
	err := tx.Model(&models.RetestRequest{}).
		Where("candidate_id = ? AND position_id = ? AND status = ?", candidateID, positionID, models.RetestPending).
		Count(&pending).Error
	if err != nil || pending > 0 {
		return false, err
	}

	request := models.RetestRequest{
		CandidateID: candidateID,
		PositionID:  positionID,
		Status:      models.RetestPending,
		Source:      source,
		RequestedAt: time.Now(),
	}
	if err := tx.Create(&request).Error; err != nil {
		return false, err
	}
	return true, nil
}

func ApproveRetest(db *gorm.DB, requestID, adminID uuid.UUID) (*models.RetestRequest, error) {
	return reviewRetest(db, requestID, adminID, models.RetestApproved, "")
}

func RejectRetest(db *gorm.DB, requestID, adminID uuid.UUID, reason string) (*models.RetestRequest, error) {
	return reviewRetest(db, requestID, adminID, models.RetestRejected, reason)
}

// reviewRetest moves a pending request to its final status. The status guard
// in the update makes the transition happen at most once.
func reviewRetest(db *gorm.DB, requestID, adminID uuid.UUID, status models.RetestStatus, reason string) (*models.RetestRequest, error) {
	var request models.RetestRequest

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Candidate").Preload("Position").First(&request, "id = ?", requestID).Error; err != nil {
			return notFound(err, "Retest request not found")
		}
		if request.Status != models.RetestPending {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Retest request is already %s", request.Status))
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":      status,
			"reviewed_at": now,
			"reviewed_by": adminID,
		}
		if status == models.RetestRejected && reason != "" {
			updates["reason"] = reason
			request.Reason = &reason
		}

		res := tx.Model(&models.RetestRequest{}).
			Where("id = ? AND status = ?", request.ID, models.RetestPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Retest request is no longer pending")
		}

		if status == models.RetestApproved {
			err := tx.Model(&models.Candidate{}).Where("id = ?", request.CandidateID).Update("is_submitted", 0).Error
			if err != nil {
				return err
			}
			if request.Candidate != nil {
				request.Candidate.IsSubmitted = 0
			}
		}

		request.Status = status
		request.ReviewedAt = &now
		request.ReviewedBy = &adminID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func ListPendingRetests(db *gorm.DB) ([]models.RetestRequest, error) {
	var requests []models.RetestRequest
	err := db.Preload("Candidate").Preload("Position").
		Where("status = ?", models.RetestPending).
		Order("requested_at asc").
		Find(&requests).Error
	return requests, err
}

func ListRetestHistory(db *gorm.DB, offset, limit int) ([]models.RetestRequest, int64, error) {
	var requests []models.RetestRequest
	var total int64

	query := db.Model(&models.RetestRequest{}).Where("status <> ?", models.RetestPending)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Preload("Candidate").Preload("Position").
		Where("status <> ?", models.RetestPending).
		Order("reviewed_at desc").
		Offset(offset).Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

// LatestRetestForCandidate returns the most recent request for the candidate's
// assigned position, or nil when there is none.
func LatestRetestForCandidate(db *gorm.DB, candidateID uuid.UUID) (*models.RetestRequest, error) {
	var candidate models.Candidate
	if err := db.First(&candidate, "id = ?", candidateID).Error; err != nil {
		return nil, notFound(err, "Candidate not found")
	}

	var request models.RetestRequest
	err := db.Where("candidate_id = ? AND position_id = ?", candidateID, candidate.PositionID).
		Order("requested_at desc").
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}
