package services

import (
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/models"
)

func TestRenderResultHTML(t *testing.T) {
	db := database.NewTestDB(t)
	position, questions := seedPosition(t, db, 2, 0)
	candidate := seedCandidate(t, db, position.ID, func(c *models.Candidate) { c.Name = "Jane <Doe>" })

	started, err := CreateAttempt(db, candidate.ID, position.ID)
	if err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	answers := answersFor(started.Questions[:1], byID(questions), 1)
	sub, err := SubmitAttempt(db, SubmitInput{
		AttemptID:        started.Attempt.ID,
		CandidateID:      candidate.ID,
		PositionID:       position.ID,
		Answers:          answers,
		TimeTakenSeconds: 95,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	result, err := GetResult(db, sub.Result.ID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if len(result.Answers) != 2 || result.Answers[0].SortOrder != 0 {
		t.Fatalf("answers not loaded in order: %+v", result.Answers)
	}

	html, err := RenderResultHTML(result)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body := string(html)
	for _, want := range []string{"Jane &lt;Doe&gt;", position.Name, "50.00%", "Not answered", "1m35s"} {
		if !strings.Contains(body, want) {
			t.Fatalf("report missing %q", want)
		}
	}
	if result.SubmittedAt.After(time.Now()) {
		t.Fatalf("submitted_at in the future")
	}
}

func TestListResultsForCandidate(t *testing.T) {
	db := database.NewTestDB(t)
	position, _ := seedPosition(t, db, 1, 0)
	candidate := seedCandidate(t, db, position.ID)
	completeAttempt(t, db, candidate)

	results, err := ListResultsForCandidate(db, candidate.ID)
	if err != nil || len(results) != 1 {
		t.Fatalf("expected one result, got %d (%v)", len(results), err)
	}
	if results[0].Position == nil || results[0].Position.ID != position.ID {
		t.Fatalf("position not preloaded")
	}
}
