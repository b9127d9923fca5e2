package handlers

import (
	"encoding/json"
	"strconv"

	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/notifications"
	"github.com/anjiri1684/interview_portal/services"
	"github.com/anjiri1684/interview_portal/storage"
	"github.com/anjiri1684/interview_portal/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateAttemptRequest struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	PositionID  uuid.UUID `json:"position_id"`
}

func CreateAttempt(c *fiber.Ctx) error {
	var req CreateAttemptRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	candidateID, positionID, err := candidateScope(c, req.CandidateID, req.PositionID)
	if err != nil {
		return err
	}

	started, err := services.CreateAttempt(database.DB, candidateID, positionID)
	if err != nil {
		return err
	}
	websocket.Events.Publish(websocket.EventAttemptStarted, started.Attempt)
	return c.Status(fiber.StatusCreated).JSON(started)
}

type submissionForm struct {
	AttemptID        uuid.UUID
	CandidateID      uuid.UUID
	PositionID       uuid.UUID
	Answers          []services.SubmittedAnswer
	TimeTakenSeconds int
	// RecordingURL names a recording already uploaded through a signed
	// upload. A file in the request takes precedence.
	RecordingURL string
}

type SubmitRequest struct {
	AttemptID        uuid.UUID                  `json:"attempt_id"`
	CandidateID      uuid.UUID                  `json:"candidate_id"`
	PositionID       uuid.UUID                  `json:"position_id"`
	Answers          []services.SubmittedAnswer `json:"answers" validate:"dive"`
	TimeTakenSeconds int                        `json:"time_taken_in_seconds" validate:"gte=0"`
	RecordingURL     string                     `json:"recording_url" validate:"omitempty,url"`
}

// readSubmission accepts JSON or multipart. In multipart requests "answers" is
// a JSON array and ids are plain form values.
func readSubmission(c *fiber.Ctx) (*submissionForm, error) {
	if c.Is("json") {
		var req SubmitRequest
		if err := bind(c, &req); err != nil {
			return nil, err
		}
		return &submissionForm{req.AttemptID, req.CandidateID, req.PositionID, req.Answers, req.TimeTakenSeconds, req.RecordingURL}, nil
	}

	var form submissionForm
	for field, dst := range map[string]*uuid.UUID{
		"attempt_id":   &form.AttemptID,
		"candidate_id": &form.CandidateID,
		"position_id":  &form.PositionID,
	} {
		if raw := c.FormValue(field); raw != "" {
			id, err := parseUUID(raw, field)
			if err != nil {
				return nil, err
			}
			*dst = id
		}
	}
	if raw := c.FormValue("answers"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &form.Answers); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "answers must be a JSON array")
		}
	}
	if raw := c.FormValue("time_taken_in_seconds"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "time_taken_in_seconds must be a non-negative integer")
		}
		form.TimeTakenSeconds = seconds
	}
	if raw := c.FormValue("recording_url"); raw != "" {
		if err := validate.Var(raw, "url"); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "recording_url must be a URL")
		}
		form.RecordingURL = raw
	}
	return &form, nil
}

// submit runs the scoring pipeline, then announces the result. The recording
// file in recordingField is stored before anything is written to the database
// and discarded again if the submission is rejected.
func submit(c *fiber.Ctx, form *submissionForm, recordingField string) error {
	recordingURL, recordingKey, err := storeUpload(c, recordingField, storage.Recordings)
	if err != nil {
		return err
	}
	if recordingURL == "" {
		recordingURL = form.RecordingURL
	}

	sub, err := services.SubmitAttempt(database.DB, services.SubmitInput{
		AttemptID:        form.AttemptID,
		CandidateID:      form.CandidateID,
		PositionID:       form.PositionID,
		Answers:          form.Answers,
		TimeTakenSeconds: form.TimeTakenSeconds,
		RecordingURL:     recordingURL,
	})
	if err != nil {
		discardUpload(c, recordingKey)
		return err
	}

	websocket.Events.Publish(websocket.EventAttemptSubmitted, fiber.Map{
		"candidate_id":   sub.Result.CandidateID,
		"position_id":    sub.Result.PositionID,
		"attempt_number": sub.Result.AttemptNumber,
		"score":          sub.Result.Score,
	})
	go notifySubmission(sub, config.App.HRNotifyEmail)

	return c.Status(fiber.StatusCreated).JSON(sub.Result)
}

// notifySubmission mails the result to the candidate, copying hrEmail when
// set.
func notifySubmission(sub *services.Submission, hrEmail string) {
	msg, err := notifications.ResultEmail(notifications.ResultData{
		Name:     sub.Candidate.Name,
		Position: sub.Position.Name,
		Attempt:  sub.Result.AttemptNumber,
		Score:    sub.Result.Score,
		Correct:  sub.Result.CorrectAnswers,
		Total:    sub.Result.TotalQuestions,
	})
	notifications.Deliver(sub.Candidate.Name, sub.Candidate.Email, msg, err)
	if hrEmail != "" {
		notifications.Deliver("", hrEmail, msg, err)
	}
}

// SubmitAttempt handles the attempt-based submission with a "recording" file.
func SubmitAttempt(c *fiber.Ctx) error {
	form, err := readSubmission(c)
	if err != nil {
		return err
	}
	if form.AttemptID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "attempt_id is required")
	}
	form.CandidateID, form.PositionID, err = candidateScope(c, form.CandidateID, form.PositionID)
	if err != nil {
		return err
	}
	return submit(c, form, "recording")
}

func ListAttempts(c *fiber.Ctx) error {
	candidateID, err := paramUUID(c, "candidateId")
	if err != nil {
		return err
	}
	positionID, err := paramUUID(c, "positionId")
	if err != nil {
		return err
	}
	if candidateID, positionID, err = candidateScope(c, candidateID, positionID); err != nil {
		return err
	}

	attempts, err := services.ListAttempts(database.DB, candidateID, positionID)
	if err != nil {
		return err
	}
	return c.JSON(attempts)
}

func ResetAttempt(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	attempt, err := services.ResetAttempt(database.DB, id)
	if err != nil {
		return err
	}
	websocket.Events.Publish(websocket.EventAttemptReset, attempt)
	return c.JSON(attempt)
}
