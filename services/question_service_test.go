package services

import (
	"testing"

	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func TestValidateQuestion(t *testing.T) {
	opt := func(text string, correct bool) models.QuestionOption {
		return models.QuestionOption{OptionText: text, IsCorrect: correct}
	}

	tests := []struct {
		name    string
		q       models.Question
		wantErr bool
	}{
		{"text question", models.Question{QuestionText: "2+2?", Options: []models.QuestionOption{opt("4", true), opt("5", false)}}, false},
		{"image only question", models.Question{QuestionImage: "/q.png", Options: []models.QuestionOption{opt("a", true), {OptionImage: "/b.png"}}}, false},
		{"no content", models.Question{QuestionText: "  ", Options: []models.QuestionOption{opt("4", true), opt("5", false)}}, true},
		{"one option", models.Question{QuestionText: "q", Options: []models.QuestionOption{opt("4", true)}}, true},
		{"empty option", models.Question{QuestionText: "q", Options: []models.QuestionOption{opt("4", true), opt("", false)}}, true},
		{"no correct option", models.Question{QuestionText: "q", Options: []models.QuestionOption{opt("4", false), opt("5", false)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(&tt.q)
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr %v, got %v", tt.wantErr, err)
			}
			if err != nil {
				if fe, ok := err.(*fiber.Error); !ok || fe.Code != fiber.StatusBadRequest {
					t.Fatalf("expected 400 fiber error, got %#v", err)
				}
			}
		})
	}
}

func pool(technical, logical int) []models.Question {
	var qs []models.Question
	cat := models.CategoryLogical
	for i := 0; i < technical; i++ {
		qs = append(qs, models.Question{Base: models.Base{ID: uuid.New()}})
	}
	for i := 0; i < logical; i++ {
		qs = append(qs, models.Question{Base: models.Base{ID: uuid.New()}, Category: &cat})
	}
	return qs
}

func TestSampleQuestionsSplitsPools(t *testing.T) {
	candidate := &models.Candidate{TechnicalQuestions: 3, LogicalQuestions: 2}
	picked := SampleQuestions(pool(10, 5), candidate)

	var technical, logical int
	seen := map[uuid.UUID]bool{}
	for _, q := range picked {
		if seen[q.ID] {
			t.Fatalf("question %s sampled twice", q.ID)
		}
		seen[q.ID] = true
		if q.IsLogical() {
			logical++
		} else {
			technical++
		}
	}
	if technical != 3 || logical != 2 {
		t.Fatalf("expected 3 technical and 2 logical, got %d and %d", technical, logical)
	}
}

func TestSampleQuestionsCapsAtPoolSize(t *testing.T) {
	candidate := &models.Candidate{TechnicalQuestions: 8, LogicalQuestions: 8}
	if got := len(SampleQuestions(pool(4, 1), candidate)); got != 5 {
		t.Fatalf("expected whole pool of 5, got %d", got)
	}
}

func TestSampleQuestionsWithoutSplit(t *testing.T) {
	if got := len(SampleQuestions(pool(6, 4), &models.Candidate{QuestionsAskedToCandidate: 7})); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := len(SampleQuestions(pool(6, 4), &models.Candidate{})); got != 10 {
		t.Fatalf("expected whole pool, got %d", got)
	}
}

func TestForCandidateHidesCorrectness(t *testing.T) {
	q := makeQuestions(1)
	view := ForCandidate(q)
	if len(view) != 1 || len(view[0].Options) != 2 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view[0].Options[0].ID != q[0].Options[0].ID {
		t.Fatalf("option ids must be preserved")
	}
}

func TestOrderByIDs(t *testing.T) {
	qs := makeQuestions(3)
	ids := []uuid.UUID{qs[2].ID, uuid.New(), qs[0].ID, qs[2].ID}
	ordered := orderByIDs(qs, ids)
	if len(ordered) != 2 || ordered[0].ID != qs[2].ID || ordered[1].ID != qs[0].ID {
		t.Fatalf("unexpected order %+v", ordered)
	}
}
