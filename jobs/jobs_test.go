package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/anjiri1684/interview_portal/notifications"
	"github.com/google/uuid"
	"go.uber.org/goleak"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type recordingMailer struct {
	mu sync.Mutex
	to []string
}

func (m *recordingMailer) Send(_ context.Context, toEmail, _, _, _ string) error {
	m.mu.Lock()
	m.to = append(m.to, toEmail)
	m.mu.Unlock()
	return nil
}

func seedCandidate(t *testing.T, db *gorm.DB, email string, schedule time.Time, submitted int) {
	t.Helper()
	position := models.Position{Name: "pos-" + email}
	if err := db.Create(&position).Error; err != nil {
		t.Fatalf("create position: %v", err)
	}
	candidate := models.Candidate{
		Name:        email,
		Email:       email,
		Password:    "x",
		PositionID:  position.ID,
		Schedule:    schedule,
		IsSubmitted: submitted,
	}
	if err := db.Create(&candidate).Error; err != nil {
		t.Fatalf("create candidate: %v", err)
	}
}

func TestSendInterviewReminders(t *testing.T) {
	db := database.NewTestDB(t)
	now := time.Now()

	seedCandidate(t, db, "due@example.com", now.Add(62*time.Minute), 0)
	seedCandidate(t, db, "done@example.com", now.Add(62*time.Minute), 1)
	seedCandidate(t, db, "later@example.com", now.Add(3*time.Hour), 0)
	seedCandidate(t, db, "soon@example.com", now.Add(30*time.Minute), 0)

	rec := &recordingMailer{}
	prev := notifications.EmailClient
	notifications.EmailClient = rec
	defer func() { notifications.EmailClient = prev }()

	sent, err := SendInterviewReminders(db, now)
	if err != nil {
		t.Fatalf("reminders: %v", err)
	}
	if sent != 1 || len(rec.to) != 1 || rec.to[0] != "due@example.com" {
		t.Fatalf("expected one reminder to due@example.com, got %d %v", sent, rec.to)
	}
}

func TestSweepStaleProgress(t *testing.T) {
	db := database.NewTestDB(t)
	now := time.Now()

	fresh := models.CandidateTestProgress{
		CandidateID: uuid.New(), PositionID: uuid.New(),
		Questions:   datatypes.JSONSlice[models.ProgressQuestion]{},
		LastSavedAt: now.Add(-30 * time.Minute),
	}
	stale := models.CandidateTestProgress{
		CandidateID: uuid.New(), PositionID: uuid.New(),
		Questions:   datatypes.JSONSlice[models.ProgressQuestion]{},
		LastSavedAt: now.Add(-3 * time.Hour),
	}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatalf("create fresh: %v", err)
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("create stale: %v", err)
	}

	deleted, err := SweepStaleProgress(db, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected one stale row deleted, got %d", deleted)
	}
	var left int64
	db.Model(&models.CandidateTestProgress{}).Count(&left)
	if left != 1 {
		t.Fatalf("expected fresh progress kept, %d rows left", left)
	}
}

func TestSchedulerStopsCleanly(t *testing.T) {
	db := database.NewTestDB(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c, err := Start(db)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(c.Entries()) != 2 {
		t.Fatalf("expected two scheduled jobs, got %d", len(c.Entries()))
	}
	<-c.Stop().Done()
}
