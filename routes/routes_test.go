package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/handlers"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/anjiri1684/interview_portal/notifications"
	"github.com/anjiri1684/interview_portal/services"
	"github.com/anjiri1684/interview_portal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const candidatePassword = "candidate-pass"

type harness struct {
	t          *testing.T
	app        *fiber.App
	adminToken string
	uploads    string
	position   models.Position
	questions  []models.Question
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	config.App.JWTSecret = "routes-test-secret"
	config.App.HRNotifyEmail = ""
	database.DB = database.NewTestDB(t)

	fs, err := storage.NewFSStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	storage.Default = fs

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	Setup(app, fs.Dir())
	h := &harness{t: t, app: app, uploads: fs.Dir()}

	if _, err := services.CreateUser(database.DB, services.NewUser{
		FullName: "Ada Admin", Email: "admin@example.com", Password: "admin-pass", Role: models.RoleAdmin,
	}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	var login struct {
		Token string `json:"token"`
	}
	h.expect(h.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "admin@example.com", "password": "admin-pass"}), http.StatusOK, &login)
	h.adminToken = login.Token

	h.expect(h.do(http.MethodPost, "/api/position", h.adminToken, fiber.Map{"name": "Backend Engineer"}), http.StatusCreated, &h.position)
	for i := 0; i < 4; i++ {
		var q models.Question
		h.expect(h.do(http.MethodPost, "/api/question", h.adminToken, fiber.Map{
			"position_id":   h.position.ID,
			"question_text": fmt.Sprintf("Question %d", i),
			"options": []fiber.Map{
				{"option_text": "right", "is_correct": true},
				{"option_text": "wrong"},
			},
		}), http.StatusCreated, &q)
		h.questions = append(h.questions, q)
	}
	return h
}

func (h *harness) do(method, path, token string, body interface{}) *http.Response {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	if err != nil {
		h.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// doForm sends a multipart request with the given fields and an optional file.
func (h *harness) doForm(path, token string, fields map[string]string, fileField, fileName string, content []byte) *http.Response {
	h.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			h.t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			h.t.Fatalf("create file part: %v", err)
		}
		part.Write(content)
	}
	if err := w.Close(); err != nil {
		h.t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	if err != nil {
		h.t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func (h *harness) expect(resp *http.Response, status int, out interface{}) {
	h.t.Helper()
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != status {
		h.t.Fatalf("expected %d, got %d: %s", status, resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			h.t.Fatalf("decode %s: %v", raw, err)
		}
	}
}

// seedCandidate stores a candidate whose login window is open now.
func (h *harness) seedCandidate(email string) models.Candidate {
	h.t.Helper()
	hashed, _ := bcrypt.GenerateFromPassword([]byte(candidatePassword), bcrypt.MinCost)
	candidate := models.Candidate{
		Name:       "Jane Doe",
		Email:      email,
		Password:   string(hashed),
		PositionID: h.position.ID,
		Schedule:   time.Now().Add(-time.Minute),
	}
	if err := database.DB.Create(&candidate).Error; err != nil {
		h.t.Fatalf("create candidate: %v", err)
	}
	return candidate
}

func (h *harness) candidateLogin(email string) string {
	h.t.Helper()
	var login struct {
		Token           string `json:"token"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	h.expect(h.do(http.MethodPost, "/api/candidates/login", "", fiber.Map{"email": email, "password": candidatePassword}), http.StatusOK, &login)
	if login.DurationMinutes != 30 {
		h.t.Fatalf("expected default duration 30, got %d", login.DurationMinutes)
	}
	return login.Token
}

func (h *harness) correctOption(questionID uuid.UUID) uuid.UUID {
	for _, q := range h.questions {
		if q.ID == questionID {
			return q.CorrectOption().ID
		}
	}
	h.t.Fatalf("unknown question %s", questionID)
	return uuid.Nil
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	h.expect(h.do(http.MethodGet, "/health", "", nil), http.StatusOK, nil)
}

func TestCandidateTestLifecycle(t *testing.T) {
	h := newHarness(t)
	candidate := h.seedCandidate("jane@example.com")
	token := h.candidateLogin(candidate.Email)

	var started services.StartedAttempt
	h.expect(h.do(http.MethodPost, "/api/test-attempt/create", token, nil), http.StatusCreated, &started)
	if started.Attempt.AttemptNumber != 1 || len(started.Questions) != 4 {
		t.Fatalf("unexpected attempt %+v with %d questions", started.Attempt, len(started.Questions))
	}

	progressPath := fmt.Sprintf("/api/test-progress/get/%s/%s", candidate.ID, h.position.ID)
	h.expect(h.do(http.MethodGet, progressPath, token, nil), http.StatusNoContent, nil)
	h.expect(h.do(http.MethodPost, "/api/test-progress/save", token, fiber.Map{
		"progress": fiber.Map{
			"questions":              []fiber.Map{{"question_id": started.Questions[0].ID, "status": models.ProgressVisited}},
			"current_question_index": 0,
			"time_left":              1500,
		},
	}), http.StatusOK, nil)
	var saved models.CandidateTestProgress
	h.expect(h.do(http.MethodGet, progressPath, token, nil), http.StatusOK, &saved)
	if saved.TimeLeft != 1500 {
		t.Fatalf("unexpected saved progress %+v", saved)
	}

	answers := []fiber.Map{}
	for _, q := range started.Questions[:3] {
		answers = append(answers, fiber.Map{"question_id": q.ID, "selected_option_id": h.correctOption(q.ID)})
	}
	var result models.TestResult
	h.expect(h.do(http.MethodPost, "/api/test-attempt/submit", token, fiber.Map{
		"attempt_id":            started.Attempt.ID,
		"answers":               answers,
		"time_taken_in_seconds": 300,
	}), http.StatusCreated, &result)
	if result.Score != 75 || result.CorrectAnswers != 3 || result.AttemptNumber != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	h.expect(h.do(http.MethodGet, progressPath, token, nil), http.StatusNoContent, nil)
	h.expect(h.do(http.MethodPost, "/api/test-attempt/submit", token, fiber.Map{"attempt_id": started.Attempt.ID}), http.StatusBadRequest, nil)
	h.expect(h.do(http.MethodPost, "/api/candidates/login", "", fiber.Map{"email": candidate.Email, "password": candidatePassword}), http.StatusForbidden, nil)

	var pending []models.RetestRequest
	h.expect(h.do(http.MethodGet, "/api/admin/retest-requests/pending", h.adminToken, nil), http.StatusOK, &pending)
	if len(pending) != 1 || pending[0].CandidateID != candidate.ID {
		t.Fatalf("expected the submission to open a retest request, got %+v", pending)
	}
	h.expect(h.do(http.MethodPut, "/api/admin/retest-requests/"+pending[0].ID.String()+"/approve", h.adminToken, nil), http.StatusOK, nil)

	token = h.candidateLogin(candidate.Email)
	var retest services.StartedAttempt
	h.expect(h.do(http.MethodPost, "/api/test-attempt/create", token, nil), http.StatusCreated, &retest)
	if retest.Attempt.AttemptNumber != 2 {
		t.Fatalf("expected attempt 2, got %d", retest.Attempt.AttemptNumber)
	}

	var attempts []models.TestAttempt
	h.expect(h.do(http.MethodGet, fmt.Sprintf("/api/test-attempt/candidate/%s/position/%s", candidate.ID, h.position.ID), h.adminToken, nil), http.StatusOK, &attempts)
	if len(attempts) != 2 || attempts[0].IsLatest || !attempts[1].IsLatest {
		t.Fatalf("unexpected attempt list %+v", attempts)
	}

	var results []models.TestResult
	h.expect(h.do(http.MethodGet, "/api/test/"+candidate.ID.String(), token, nil), http.StatusOK, &results)
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	resp := h.do(http.MethodGet, "/api/test/result/"+results[0].ID.String()+"/report?format=html", h.adminToken, nil)
	h.expect(resp, http.StatusOK, nil)
}

func TestLegacySubmitOpensAttempt(t *testing.T) {
	h := newHarness(t)
	candidate := h.seedCandidate("legacy@example.com")
	token := h.candidateLogin(candidate.Email)

	q := h.questions[0]
	var result models.TestResult
	h.expect(h.do(http.MethodPost, "/api/test", token, fiber.Map{
		"answers": []fiber.Map{{"question_id": q.ID, "selected_option_id": q.CorrectOption().ID}},
	}), http.StatusCreated, &result)
	if result.AttemptNumber != 1 || result.CorrectAnswers != 1 || result.TestAttemptID == uuid.Nil {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestLegacySubmitScoresAnsweredQuestions(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 10; i++ {
		candidate := h.seedCandidate(fmt.Sprintf("subset%d@example.com", i))
		if err := database.DB.Model(&candidate).Update("questions_asked_to_candidate", 2).Error; err != nil {
			t.Fatalf("update candidate: %v", err)
		}
		token := h.candidateLogin(candidate.Email)

		answers := []fiber.Map{}
		for _, q := range h.questions[2:] {
			answers = append(answers, fiber.Map{"question_id": q.ID, "selected_option_id": q.CorrectOption().ID})
		}
		var result models.TestResult
		h.expect(h.do(http.MethodPost, "/api/test", token, fiber.Map{"answers": answers}), http.StatusCreated, &result)
		if result.CorrectAnswers != 2 || result.TotalQuestions != 2 || result.Score != 100 {
			t.Fatalf("run %d: expected 2/2 correct at 100, got %d/%d at %v",
				i, result.CorrectAnswers, result.TotalQuestions, result.Score)
		}
	}
}

type inboxMailer struct {
	mu   sync.Mutex
	sent map[string]string
}

func (m *inboxMailer) Send(_ context.Context, toEmail, _, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[toEmail] = subject
	return nil
}

func (m *inboxMailer) waitFor(t *testing.T, emails ...string) map[string]string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		m.mu.Lock()
		got := make(map[string]string, len(m.sent))
		for k, v := range m.sent {
			got[k] = v
		}
		m.mu.Unlock()

		missing := false
		for _, e := range emails {
			if _, ok := got[e]; !ok {
				missing = true
			}
		}
		if !missing {
			return got
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for mail to %v, got %v", emails, got)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSubmissionMailsCandidate(t *testing.T) {
	h := newHarness(t)
	inbox := &inboxMailer{sent: map[string]string{}}
	prev := notifications.EmailClient
	notifications.EmailClient = inbox
	defer func() { notifications.EmailClient = prev }()

	candidate := h.seedCandidate("mailme@example.com")
	token := h.candidateLogin(candidate.Email)
	var started services.StartedAttempt
	h.expect(h.do(http.MethodPost, "/api/test-attempt/create", token, nil), http.StatusCreated, &started)
	h.expect(h.do(http.MethodPost, "/api/test-attempt/submit", token, fiber.Map{"attempt_id": started.Attempt.ID}), http.StatusCreated, nil)

	got := inbox.waitFor(t, candidate.Email)
	if got[candidate.Email] != "Test submitted: "+candidate.Name {
		t.Fatalf("unexpected subject %q", got[candidate.Email])
	}

	config.App.HRNotifyEmail = "hr-inbox@example.com"
	defer func() { config.App.HRNotifyEmail = "" }()
	other := h.seedCandidate("copied@example.com")
	token = h.candidateLogin(other.Email)
	h.expect(h.do(http.MethodPost, "/api/test", token, fiber.Map{"answers": []fiber.Map{}}), http.StatusCreated, nil)
	inbox.waitFor(t, other.Email, "hr-inbox@example.com")
}

func TestSubmitWithUploadedRecordingURL(t *testing.T) {
	h := newHarness(t)
	candidate := h.seedCandidate("signed@example.com")
	token := h.candidateLogin(candidate.Email)

	var started services.StartedAttempt
	h.expect(h.do(http.MethodPost, "/api/test-attempt/create", token, nil), http.StatusCreated, &started)
	h.expect(h.do(http.MethodPost, "/api/test-attempt/submit", token, fiber.Map{
		"attempt_id":    started.Attempt.ID,
		"recording_url": "not a url",
	}), http.StatusBadRequest, nil)

	const url = "https://res.cloudinary.com/demo/video/upload/recordings/abc.webm"
	var result models.TestResult
	h.expect(h.do(http.MethodPost, "/api/test-attempt/submit", token, fiber.Map{
		"attempt_id":    started.Attempt.ID,
		"recording_url": url,
	}), http.StatusCreated, &result)
	if result.RecordingURL != url {
		t.Fatalf("expected recording url %q, got %q", url, result.RecordingURL)
	}

	other := h.seedCandidate("signed-form@example.com")
	token = h.candidateLogin(other.Email)
	h.expect(h.doForm("/api/test", token, map[string]string{"answers": "[]", "recording_url": url}, "", "", nil), http.StatusCreated, &result)
	if result.RecordingURL != url {
		t.Fatalf("expected multipart recording url %q, got %q", url, result.RecordingURL)
	}
}

func TestRejectedSubmissionDiscardsRecording(t *testing.T) {
	h := newHarness(t)
	candidate := h.seedCandidate("twice@example.com")
	token := h.candidateLogin(candidate.Email)

	var started services.StartedAttempt
	h.expect(h.do(http.MethodPost, "/api/test-attempt/create", token, nil), http.StatusCreated, &started)
	fields := map[string]string{"attempt_id": started.Attempt.ID.String(), "answers": "[]"}

	var result models.TestResult
	h.expect(h.doForm("/api/test-attempt/submit", token, fields, "recording", "take1.webm", []byte("first")), http.StatusCreated, &result)
	if result.RecordingURL == "" {
		t.Fatalf("expected the recording to be stored")
	}
	h.expect(h.doForm("/api/test-attempt/submit", token, fields, "recording", "take2.webm", []byte("second")), http.StatusBadRequest, nil)

	entries, err := os.ReadDir(filepath.Join(h.uploads, storage.Recordings))
	if err != nil {
		t.Fatalf("read recordings: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the accepted recording to remain, found %d files", len(entries))
	}
}

func TestCandidateIsPinnedToOwnTest(t *testing.T) {
	h := newHarness(t)
	jane := h.seedCandidate("jane@example.com")
	other := h.seedCandidate("other@example.com")
	token := h.candidateLogin(jane.Email)

	h.expect(h.do(http.MethodGet, fmt.Sprintf("/api/test-progress/get/%s/%s", other.ID, h.position.ID), token, nil), http.StatusForbidden, nil)
	h.expect(h.do(http.MethodPost, "/api/test-attempt/create", token, fiber.Map{"candidate_id": other.ID}), http.StatusForbidden, nil)
	h.expect(h.do(http.MethodGet, "/api/test/"+other.ID.String(), token, nil), http.StatusForbidden, nil)
}

func TestRoleChecks(t *testing.T) {
	h := newHarness(t)
	candidate := h.seedCandidate("jane@example.com")
	token := h.candidateLogin(candidate.Email)

	h.expect(h.do(http.MethodGet, "/api/hr/candidates", "", nil), http.StatusBadRequest, nil)
	h.expect(h.do(http.MethodGet, "/api/hr/candidates", token, nil), http.StatusForbidden, nil)
	h.expect(h.do(http.MethodGet, "/api/admin/retest-requests/pending", token, nil), http.StatusForbidden, nil)
	h.expect(h.do(http.MethodGet, "/api/settings", token, nil), http.StatusForbidden, nil)
	h.expect(h.do(http.MethodGet, "/api/candidates/retest/my-request", h.adminToken, nil), http.StatusForbidden, nil)
	h.expect(h.do(http.MethodGet, "/api/candidates/retest/my-request", token, nil), http.StatusNotFound, nil)
}

func TestHRManagesCandidates(t *testing.T) {
	h := newHarness(t)

	var hr models.User
	h.expect(h.do(http.MethodPost, "/api/auth/register", h.adminToken, fiber.Map{
		"full_name": "Hana HR", "email": "hr@example.com", "password": "hr-pass1", "role": "hr",
	}), http.StatusCreated, &hr)
	var login struct {
		Token string `json:"token"`
	}
	h.expect(h.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "hr@example.com", "password": "hr-pass1"}), http.StatusOK, &login)
	hrToken := login.Token

	h.expect(h.do(http.MethodPost, "/api/auth/register", hrToken, fiber.Map{
		"full_name": "Sneaky", "email": "sneaky@example.com", "password": "sneaky1",
	}), http.StatusForbidden, nil)

	body := fiber.Map{
		"name":                "Sam Okoth",
		"email":               "sam@example.com",
		"position_id":         h.position.ID,
		"schedule":            time.Now().Add(2 * time.Hour).Format(time.RFC3339),
		"technical_questions": 2,
		"logical_questions":   1,
	}
	var created models.Candidate
	h.expect(h.do(http.MethodPost, "/api/hr/candidates", hrToken, body), http.StatusCreated, &created)
	if created.QuestionsAskedToCandidate != 3 {
		t.Fatalf("unexpected candidate %+v", created)
	}
	h.expect(h.do(http.MethodPost, "/api/hr/candidates", hrToken, body), http.StatusBadRequest, nil)

	var page struct {
		Data  []models.Candidate `json:"data"`
		Total int64              `json:"total"`
	}
	h.expect(h.do(http.MethodGet, "/api/hr/candidates?search=okoth", hrToken, nil), http.StatusOK, &page)
	if page.Total != 1 || len(page.Data) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}

	h.expect(h.do(http.MethodPut, "/api/hr/candidates/"+created.ID.String(), hrToken, fiber.Map{"questions_asked_to_candidate": 5}), http.StatusBadRequest, nil)
	h.expect(h.do(http.MethodDelete, "/api/position/"+h.position.ID.String(), hrToken, nil), http.StatusBadRequest, nil)
	h.expect(h.do(http.MethodDelete, "/api/hr/candidates/"+created.ID.String(), hrToken, nil), http.StatusNoContent, nil)
	h.expect(h.do(http.MethodGet, "/api/hr/candidates/"+created.ID.String(), hrToken, nil), http.StatusNotFound, nil)
}

func TestInvitationRegistration(t *testing.T) {
	h := newHarness(t)

	var invite struct {
		Token string `json:"token"`
	}
	h.expect(h.do(http.MethodPost, "/api/hr/candidates/invite", h.adminToken, fiber.Map{
		"email": "invitee@example.com", "position_id": h.position.ID,
	}), http.StatusOK, &invite)

	h.expect(h.do(http.MethodPost, "/api/candidates/register", "", fiber.Map{
		"token": "garbage", "name": "Invitee", "password": candidatePassword,
	}), http.StatusBadRequest, nil)
	h.expect(h.do(http.MethodPost, "/api/candidates/register", "", fiber.Map{
		"token": invite.Token, "name": "Invitee", "password": candidatePassword,
	}), http.StatusCreated, nil)

	h.candidateLogin("invitee@example.com")
}
