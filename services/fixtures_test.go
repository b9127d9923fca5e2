package services

import (
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "secret123"

func seedPosition(t *testing.T, db *gorm.DB, technical, logical int) (models.Position, []models.Question) {
	t.Helper()
	position := models.Position{Name: "Position " + uuid.NewString()}
	if err := db.Create(&position).Error; err != nil {
		t.Fatalf("create position: %v", err)
	}

	cat := models.CategoryLogical
	var questions []models.Question
	for i := 0; i < technical+logical; i++ {
		q := models.Question{
			PositionID:   position.ID,
			QuestionText: "question",
			Options: []models.QuestionOption{
				{OptionText: "right", IsCorrect: true, SortOrder: 0},
				{OptionText: "wrong", SortOrder: 1},
			},
		}
		if i >= technical {
			q.Category = &cat
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
		questions = append(questions, q)
	}
	return position, questions
}

func seedCandidate(t *testing.T, db *gorm.DB, positionID uuid.UUID, opts ...func(*models.Candidate)) models.Candidate {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	candidate := models.Candidate{
		Name:       "Jane Doe",
		Email:      uuid.NewString() + "@example.com",
		Password:   string(hashed),
		PositionID: positionID,
		Schedule:   time.Now().Add(-5 * time.Minute),
	}
	for _, opt := range opts {
		opt(&candidate)
	}
	if err := db.Create(&candidate).Error; err != nil {
		t.Fatalf("create candidate: %v", err)
	}
	return candidate
}

// answersFor answers the first `correct` questions right and the rest wrong.
func answersFor(questions []QuestionForCandidate, stored map[uuid.UUID]models.Question, correct int) []SubmittedAnswer {
	answers := make([]SubmittedAnswer, 0, len(questions))
	for i, q := range questions {
		full := stored[q.ID]
		idx := 1
		if i < correct {
			idx = 0
		}
		id := full.Options[idx].ID
		answers = append(answers, SubmittedAnswer{QuestionID: q.ID, SelectedOptionID: &id})
	}
	return answers
}

func byID(questions []models.Question) map[uuid.UUID]models.Question {
	m := make(map[uuid.UUID]models.Question, len(questions))
	for _, q := range questions {
		m[q.ID] = q
	}
	return m
}

func wantStatus(t *testing.T, err error, code int) {
	t.Helper()
	var fe *fiber.Error
	if !errors.As(err, &fe) || fe.Code != code {
		t.Fatalf("expected fiber error %d, got %v", code, err)
	}
}
