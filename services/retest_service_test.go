package services

import (
	"strings"
	"testing"

	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// completeAttempt runs one attempt to completion and returns the pending
// request the submission opened.
func completeAttempt(t *testing.T, db *gorm.DB, candidate models.Candidate) models.RetestRequest {
	t.Helper()
	started, err := CreateAttempt(db, candidate.ID, candidate.PositionID)
	if err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	if _, err := SubmitAttempt(db, SubmitInput{AttemptID: started.Attempt.ID, CandidateID: candidate.ID, PositionID: candidate.PositionID}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	var request models.RetestRequest
	if err := db.Where("candidate_id = ? AND status = ?", candidate.ID, models.RetestPending).First(&request).Error; err != nil {
		t.Fatalf("load pending request: %v", err)
	}
	return request
}

func TestRequestRetestValidation(t *testing.T) {
	db := database.NewTestDB(t)
	position, _ := seedPosition(t, db, 1, 0)
	candidate := seedCandidate(t, db, position.ID)

	_, err := RequestRetest(db, candidate.ID)
	wantStatus(t, err, fiber.StatusBadRequest)

	_, err = RequestRetest(db, uuid.New())
	wantStatus(t, err, fiber.StatusNotFound)

	completeAttempt(t, db, candidate)
	_, err = RequestRetest(db, candidate.ID)
	wantStatus(t, err, fiber.StatusBadRequest)
	if !strings.Contains(err.Error(), "already pending") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestApproveRetestResetsSubmission(t *testing.T) {
	db := database.NewTestDB(t)
	position, _ := seedPosition(t, db, 1, 0)
	candidate := seedCandidate(t, db, position.ID)
	request := completeAttempt(t, db, candidate)
	admin := uuid.New()

	approved, err := ApproveRetest(db, request.ID, admin)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.RetestApproved || approved.ReviewedAt == nil || *approved.ReviewedBy != admin {
		t.Fatalf("unexpected approved request %+v", approved)
	}

	var stored models.Candidate
	db.First(&stored, "id = ?", candidate.ID)
	if stored.HasSubmitted() {
		t.Fatalf("approval should let the candidate log in again")
	}

	_, err = ApproveRetest(db, request.ID, admin)
	wantStatus(t, err, fiber.StatusBadRequest)
	if !strings.Contains(err.Error(), "already approved") {
		t.Fatalf("expected current status in message, got %q", err.Error())
	}
	_, err = RejectRetest(db, request.ID, admin, "late")
	wantStatus(t, err, fiber.StatusBadRequest)
}

func TestRejectRetestStoresReason(t *testing.T) {
	db := database.NewTestDB(t)
	position, _ := seedPosition(t, db, 1, 0)
	candidate := seedCandidate(t, db, position.ID)
	request := completeAttempt(t, db, candidate)

	rejected, err := RejectRetest(db, request.ID, uuid.New(), "score too low")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != models.RetestRejected || rejected.Reason == nil || *rejected.Reason != "score too low" {
		t.Fatalf("unexpected rejected request %+v", rejected)
	}

	var stored models.RetestRequest
	db.First(&stored, "id = ?", request.ID)
	if stored.Reason == nil || *stored.Reason != "score too low" {
		t.Fatalf("reason not persisted: %+v", stored)
	}

	_, err = RejectRetest(db, uuid.New(), uuid.New(), "")
	wantStatus(t, err, fiber.StatusNotFound)
}

func TestRetestListings(t *testing.T) {
	db := database.NewTestDB(t)
	position, _ := seedPosition(t, db, 1, 0)
	first := seedCandidate(t, db, position.ID)
	second := seedCandidate(t, db, position.ID)

	none, err := LatestRetestForCandidate(db, first.ID)
	if err != nil || none != nil {
		t.Fatalf("expected no request yet, got %+v (%v)", none, err)
	}

	r1 := completeAttempt(t, db, first)
	completeAttempt(t, db, second)
	if _, err := ApproveRetest(db, r1.ID, uuid.New()); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, err := ListPendingRetests(db)
	if err != nil || len(pending) != 1 || pending[0].CandidateID != second.ID {
		t.Fatalf("unexpected pending list %+v (%v)", pending, err)
	}
	if pending[0].Candidate == nil || pending[0].Position == nil {
		t.Fatalf("pending requests should carry candidate and position")
	}

	history, total, err := ListRetestHistory(db, 0, 10)
	if err != nil || total != 1 || len(history) != 1 || history[0].ID != r1.ID {
		t.Fatalf("unexpected history %+v total %d (%v)", history, total, err)
	}

	latest, err := LatestRetestForCandidate(db, first.ID)
	if err != nil || latest == nil || latest.ID != r1.ID {
		t.Fatalf("unexpected latest request %+v (%v)", latest, err)
	}
}
