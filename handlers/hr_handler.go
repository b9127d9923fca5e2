package handlers

import (
	"fmt"
	"time"

	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/notifications"
	"github.com/anjiri1684/interview_portal/services"
	"github.com/anjiri1684/interview_portal/storage"
	"github.com/anjiri1684/interview_portal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateCandidateRequest struct {
	Name                      string    `json:"name" form:"name" validate:"required,min=2"`
	Email                     string    `json:"email" form:"email" validate:"required,email"`
	Phone                     string    `json:"phone" form:"phone"`
	Experience                string    `json:"experience" form:"experience"`
	PositionID                string    `json:"position_id" form:"position_id" validate:"required,uuid"`
	Schedule                  string    `json:"schedule" form:"schedule" validate:"required"`
	TechnicalQuestions        int       `json:"technical_questions" form:"technical_questions"`
	LogicalQuestions          int       `json:"logical_questions" form:"logical_questions"`
	QuestionsAskedToCandidate int       `json:"questions_asked_to_candidate" form:"questions_asked_to_candidate"`
	DurationMinutes           int       `json:"duration_minutes" form:"duration_minutes" validate:"gte=0"`
	IsNegativeMarking         bool      `json:"is_negative_marking" form:"is_negative_marking"`
	NegativeMarkingValue      float64   `json:"negative_marking_value" form:"negative_marking_value"`
}

// CreateCandidate accepts JSON or multipart with an optional "resume" file and
// emails the generated credentials.
func CreateCandidate(c *fiber.Ctx) error {
	var req CreateCandidateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	schedule, err := time.Parse(time.RFC3339, req.Schedule)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "schedule must be an RFC 3339 timestamp")
	}

	resumeURL, resumeKey, err := storeUpload(c, "resume", storage.Resumes)
	if err != nil {
		return err
	}
	in := services.CandidateInput{
		Name:                      req.Name,
		Email:                     req.Email,
		Phone:                     req.Phone,
		Experience:                req.Experience,
		PositionID:                uuid.MustParse(req.PositionID),
		Schedule:                  schedule,
		TechnicalQuestions:        req.TechnicalQuestions,
		LogicalQuestions:          req.LogicalQuestions,
		QuestionsAskedToCandidate: req.QuestionsAskedToCandidate,
		DurationMinutes:           req.DurationMinutes,
		IsNegativeMarking:         req.IsNegativeMarking,
		NegativeMarkingValue:      req.NegativeMarkingValue,
	}
	if resumeURL != "" {
		in.ResumeURL = &resumeURL
	}
	creator := middleware.CurrentIdentity(c).UserID
	in.CreatedByID = &creator

	candidate, password, err := services.CreateCandidate(database.DB, in, time.Now())
	if err != nil {
		discardUpload(c, resumeKey)
		return err
	}

	msg, err := notifications.CredentialsEmail(notifications.CredentialsData{
		Name:     candidate.Name,
		Email:    candidate.Email,
		Password: password,
		Position: candidate.Position.Name,
		Schedule: candidate.Schedule.Format("Jan 2, 2006 15:04 MST"),
		Link:     config.App.FrontendURL + "/candidate/login",
	})
	go notifications.Deliver(candidate.Name, candidate.Email, msg, err)

	return c.Status(fiber.StatusCreated).JSON(candidate)
}

func ListCandidates(c *fiber.Ctx) error {
	page, limit, offset := utils.Page(c.Query("page"), c.Query("limit"))
	candidates, total, err := services.ListCandidates(database.DB, c.Query("search"), offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":  candidates,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

func GetCandidate(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	candidate, err := services.GetCandidate(database.DB, id)
	if err != nil {
		return err
	}
	return c.JSON(candidate)
}

// UpdateCandidate applies a partial JSON update. A multipart request only
// replaces the stored "resume" file.
func UpdateCandidate(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req services.CandidateUpdate
	if c.Is("json") {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	resumeURL, err := saveUpload(c, "resume", storage.Resumes)
	if err != nil {
		return err
	}
	if resumeURL != "" {
		req.ResumeURL = &resumeURL
	}

	candidate, err := services.UpdateCandidate(database.DB, id, req, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(candidate)
}

func DeleteCandidate(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeleteCandidate(database.DB, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type InviteRequest struct {
	Email      string     `json:"email" validate:"required,email"`
	PositionID string     `json:"position_id" validate:"required,uuid"`
	Schedule   *time.Time `json:"schedule"`
}

// InviteCandidate emails a signed registration link for a position.
func InviteCandidate(c *fiber.Ctx) error {
	var req InviteRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	position, err := services.GetPosition(database.DB, uuid.MustParse(req.PositionID))
	if err != nil {
		return err
	}

	inv := services.Invitation{Email: req.Email, PositionID: position.ID}
	if req.Schedule != nil {
		if err := services.ValidateSchedule(*req.Schedule, time.Now()); err != nil {
			return err
		}
		inv.Schedule = *req.Schedule
	}
	token, err := services.IssueInviteToken(inv, config.App.JWTSecret, config.App.InviteTokenTTL)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/candidate/register?token=%s", config.App.FrontendURL, token)
	msg, err := notifications.InvitationEmail(notifications.InvitationData{
		Position: position.Name,
		Link:     link,
		Expires:  time.Now().Add(config.App.InviteTokenTTL).Format("Jan 2, 2006 15:04 MST"),
	})
	go notifications.Deliver("", req.Email, msg, err)

	return c.JSON(fiber.Map{"message": "Invitation sent", "token": token})
}
