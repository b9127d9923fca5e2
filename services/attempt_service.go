package services

import (
	"errors"
	"time"

	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAwaitingRetestApproval = fiber.NewError(fiber.StatusForbidden, "Your retest request is awaiting admin approval")
	ErrRetestRequired         = fiber.NewError(fiber.StatusForbidden, "You have already completed this test. Please request a retest")
	ErrAttemptConflict        = fiber.NewError(fiber.StatusConflict, "Another attempt was started at the same time, please retry")
	ErrAlreadySubmitted       = fiber.NewError(fiber.StatusBadRequest, "Test has already been submitted")
)

type StartedAttempt struct {
	Attempt         models.TestAttempt     `json:"attempt"`
	DurationMinutes int                    `json:"duration_minutes"`
	Questions       []QuestionForCandidate `json:"questions"`
}

// CreateAttempt opens the next numbered attempt for the pair. Eligibility,
// numbering, the latest flag and retest consumption commit together, with the
// candidate row locked so concurrent starts serialize.
func CreateAttempt(db *gorm.DB, candidateID, positionID uuid.UUID) (*StartedAttempt, error) {
	return createAttempt(db, candidateID, positionID, nil)
}

// createAttempt samples the question set from the position pool unless
// pinned fixes it.
func createAttempt(db *gorm.DB, candidateID, positionID uuid.UUID, pinned []uuid.UUID) (*StartedAttempt, error) {
	var started StartedAttempt

	err := db.Transaction(func(tx *gorm.DB) error {
		var candidate models.Candidate
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&candidate, "id = ?", candidateID).Error; err != nil {
			return notFound(err, "Candidate not found")
		}
		var position models.Position
		if err := tx.First(&position, "id = ?", positionID).Error; err != nil {
			return notFound(err, "Position not found")
		}

		approval, err := checkAttemptEligibility(tx, candidateID, positionID)
		if err != nil {
			return err
		}

		var lastNumber int
		err = tx.Model(&models.TestAttempt{}).
			Where("candidate_id = ? AND position_id = ?", candidateID, positionID).
			Select("COALESCE(MAX(attempt_number), 0)").
			Scan(&lastNumber).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.TestAttempt{}).
			Where("candidate_id = ? AND position_id = ? AND is_latest = ?", candidateID, positionID, true).
			Update("is_latest", false).Error
		if err != nil {
			return err
		}

		var questions []models.Question
		if len(pinned) > 0 {
			found, err := loadQuestions(tx, positionID, pinned)
			if err != nil {
				return err
			}
			questions = orderByIDs(found, pinned)
		} else {
			pool, err := loadQuestions(tx, positionID, nil)
			if err != nil {
				return err
			}
			questions = SampleQuestions(pool, &candidate)
		}

		attempt := models.TestAttempt{
			CandidateID:   candidateID,
			PositionID:    positionID,
			AttemptNumber: lastNumber + 1,
			Status:        models.AttemptInProgress,
			StartedAt:     time.Now(),
			IsLatest:      true,
			QuestionIDs:   questionIDs(questions),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return ErrAttemptConflict
			}
			return err
		}

		if approval != nil {
			now := time.Now()
			res := tx.Model(&models.RetestRequest{}).
				Where("id = ? AND consumed_at IS NULL", approval.ID).
				Updates(map[string]interface{}{"consumed_at": now, "consumed_by_attempt_id": attempt.ID})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrAttemptConflict
			}
		}

		settings, err := LoadSettings(tx)
		if err != nil {
			return err
		}

		started = StartedAttempt{
			Attempt:         attempt,
			DurationMinutes: DurationFor(&candidate, settings),
			Questions:       ForCandidate(questions),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &started, nil
}

// checkAttemptEligibility returns the approved retest request the new attempt
// must consume, or nil when no completed attempt exists yet.
func checkAttemptEligibility(tx *gorm.DB, candidateID, positionID uuid.UUID) (*models.RetestRequest, error) {
	var completed int64
	err := tx.Model(&models.TestAttempt{}).
		Where("candidate_id = ? AND position_id = ? AND status = ?", candidateID, positionID, models.AttemptCompleted).
		Count(&completed).Error
	if err != nil {
		return nil, err
	}
	if completed == 0 {
		return nil, nil
	}

	var approval models.RetestRequest
	err = tx.Where("candidate_id = ? AND position_id = ? AND status = ? AND consumed_at IS NULL",
		candidateID, positionID, models.RetestApproved).
		Order("requested_at desc").
		First(&approval).Error
	if err == nil {
		return &approval, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var pending int64
	err = tx.Model(&models.RetestRequest{}).
		Where("candidate_id = ? AND position_id = ? AND status = ?", candidateID, positionID, models.RetestPending).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrAwaitingRetestApproval
	}
	return nil, ErrRetestRequired
}

type SubmitInput struct {
	AttemptID        uuid.UUID
	CandidateID      uuid.UUID
	PositionID       uuid.UUID
	Answers          []SubmittedAnswer
	TimeTakenSeconds int
	RecordingURL     string
}

type Submission struct {
	Result    models.TestResult
	Candidate models.Candidate
	Position  models.Position
}

// SubmitAttempt is the single scoring and persistence pipeline for every
// submission route.
func SubmitAttempt(db *gorm.DB, in SubmitInput) (*Submission, error) {
	var sub Submission

	err := db.Transaction(func(tx *gorm.DB) error {
		var attempt models.TestAttempt
		if err := tx.First(&attempt, "id = ?", in.AttemptID).Error; err != nil {
			return notFound(err, "Test attempt not found")
		}
		if attempt.CandidateID != in.CandidateID || attempt.PositionID != in.PositionID {
			return fiber.NewError(fiber.StatusBadRequest, "Test attempt does not belong to this candidate and position")
		}
		if attempt.IsTerminal() {
			if attempt.Status == models.AttemptCompleted {
				return ErrAlreadySubmitted
			}
			return fiber.NewError(fiber.StatusBadRequest, "Test attempt was abandoned")
		}

		if err := tx.First(&sub.Candidate, "id = ?", in.CandidateID).Error; err != nil {
			return notFound(err, "Candidate not found")
		}
		if err := tx.First(&sub.Position, "id = ?", in.PositionID).Error; err != nil {
			return notFound(err, "Position not found")
		}
		settings, err := LoadSettings(tx)
		if err != nil {
			return err
		}

		ids := []uuid.UUID(attempt.QuestionIDs)
		if len(ids) == 0 {
			ids = make([]uuid.UUID, 0, len(in.Answers))
			for _, a := range in.Answers {
				ids = append(ids, a.QuestionID)
			}
		}
		questions, err := loadQuestions(tx, in.PositionID, ids)
		if err != nil {
			return err
		}
		sheet := ScoreAnswers(orderByIDs(questions, ids), in.Answers, PolicyFor(&sub.Candidate, settings))

		now := time.Now()
		res := tx.Model(&models.TestAttempt{}).
			Where("id = ? AND status = ?", attempt.ID, models.AttemptInProgress).
			Updates(map[string]interface{}{"status": models.AttemptCompleted, "completed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadySubmitted
		}

		sub.Result = models.TestResult{
			CandidateID:        in.CandidateID,
			PositionID:         in.PositionID,
			TestAttemptID:      attempt.ID,
			AttemptNumber:      attempt.AttemptNumber,
			Answers:            sheet.ResultAnswers(),
			Score:              sheet.Score,
			TotalQuestions:     sheet.TotalQuestions,
			AttemptedQuestions: sheet.Attempted,
			CorrectAnswers:     sheet.Correct,
			TotalMarks:         sheet.TotalMarks,
			MarksObtained:      sheet.MarksObtained,
			MaxMarks:           sheet.MaxMarks,
			TimeTakenSeconds:   in.TimeTakenSeconds,
			RecordingURL:       in.RecordingURL,
			IsSubmitted:        true,
			SubmittedAt:        now,
		}
		if err := tx.Create(&sub.Result).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return ErrAlreadySubmitted
			}
			return err
		}

		if err := tx.Model(&models.TestAttempt{}).Where("id = ?", attempt.ID).Update("test_result_id", sub.Result.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Candidate{}).Where("id = ?", in.CandidateID).Update("is_submitted", 1).Error; err != nil {
			return err
		}
		sub.Candidate.IsSubmitted = 1
		if err := resetProgress(tx, in.CandidateID, in.PositionID); err != nil {
			return err
		}
		_, err = ensurePendingRetest(tx, in.CandidateID, in.PositionID, models.RetestSourceSubmission)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ResolveAttemptForSubmission returns the caller's latest in-progress attempt
// for the pair. When none exists it opens one whose question set is the
// answered questions, so scoring covers exactly what was submitted.
func ResolveAttemptForSubmission(db *gorm.DB, candidateID, positionID uuid.UUID, answered []uuid.UUID) (*models.TestAttempt, error) {
	var attempt models.TestAttempt
	err := db.Where("candidate_id = ? AND position_id = ? AND status = ?", candidateID, positionID, models.AttemptInProgress).
		Order("attempt_number desc").
		First(&attempt).Error
	if err == nil {
		return &attempt, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	started, err := createAttempt(db, candidateID, positionID, answered)
	if err != nil {
		return nil, err
	}
	return &started.Attempt, nil
}

var errAttemptClosed = fiber.NewError(fiber.StatusBadRequest, "Only in-progress attempts can be reset")

// ResetAttempt abandons an attempt that is still in progress.
func ResetAttempt(db *gorm.DB, attemptID uuid.UUID) (*models.TestAttempt, error) {
	var attempt models.TestAttempt
	if err := db.First(&attempt, "id = ?", attemptID).Error; err != nil {
		return nil, notFound(err, "Test attempt not found")
	}
	if attempt.IsTerminal() {
		return nil, errAttemptClosed
	}

	now := time.Now()
	res := db.Model(&models.TestAttempt{}).
		Where("id = ? AND status = ?", attempt.ID, models.AttemptInProgress).
		Updates(map[string]interface{}{"status": models.AttemptAbandoned, "completed_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errAttemptClosed
	}

	attempt.Status = models.AttemptAbandoned
	attempt.CompletedAt = &now
	return &attempt, nil
}

func ListAttempts(db *gorm.DB, candidateID, positionID uuid.UUID) ([]models.TestAttempt, error) {
	var attempts []models.TestAttempt
	err := db.Where("candidate_id = ? AND position_id = ?", candidateID, positionID).
		Order("attempt_number asc").
		Find(&attempts).Error
	return attempts, err
}
