package handlers

import (
	"time"

	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/services"
	"github.com/anjiri1684/interview_portal/websocket"
	"github.com/gofiber/fiber/v2"
)

// CandidateLogin issues a token scoped to the candidate's assigned position.
func CandidateLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	candidate, err := services.LoginCandidate(database.DB, req.Email, req.Password, time.Now())
	if err != nil {
		return err
	}
	settings, err := services.LoadSettings(database.DB)
	if err != nil {
		return err
	}
	duration := services.DurationFor(candidate, settings)

	token, err := services.IssueCandidateToken(candidate, duration, config.App.CandidateTokenGrace, config.App.JWTSecret)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"token":            token,
		"candidate":        candidate,
		"duration_minutes": duration,
	})
}

type CandidateRegisterRequest struct {
	Token      string `json:"token" validate:"required"`
	Name       string `json:"name" validate:"required,min=2"`
	Password   string `json:"password" validate:"required,min=6"`
	Phone      string `json:"phone"`
	Experience string `json:"experience"`
}

// RegisterCandidate completes a self-registration started by an HR invitation.
func RegisterCandidate(c *fiber.Ctx) error {
	var req CandidateRegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	inv, err := services.ParseInviteToken(req.Token, config.App.JWTSecret)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	candidate, err := services.RegisterCandidate(database.DB, inv, services.Registration{
		Name:       req.Name,
		Password:   req.Password,
		Phone:      req.Phone,
		Experience: req.Experience,
	}, time.Now())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(candidate)
}

func RequestRetest(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	request, err := services.RequestRetest(database.DB, id.CandidateID)
	if err != nil {
		return err
	}
	websocket.Events.Publish(websocket.EventRetestRequested, request)
	return c.Status(fiber.StatusCreated).JSON(request)
}

func MyRetestRequest(c *fiber.Ctx) error {
	request, err := services.LatestRetestForCandidate(database.DB, middleware.CurrentIdentity(c).CandidateID)
	if err != nil {
		return err
	}
	if request == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No retest request found"})
	}
	return c.JSON(request)
}
