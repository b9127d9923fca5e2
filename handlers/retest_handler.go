package handlers

import (
	config "github.com/anjiri1684/interview_portal/configs"
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/anjiri1684/interview_portal/notifications"
	"github.com/anjiri1684/interview_portal/services"
	"github.com/anjiri1684/interview_portal/utils"
	"github.com/anjiri1684/interview_portal/websocket"
	"github.com/gofiber/fiber/v2"
)

func ListPendingRetests(c *fiber.Ctx) error {
	requests, err := services.ListPendingRetests(database.DB)
	if err != nil {
		return err
	}
	return c.JSON(requests)
}

func RetestHistory(c *fiber.Ctx) error {
	page, limit, offset := utils.Page(c.Query("page"), c.Query("limit"))
	requests, total, err := services.ListRetestHistory(database.DB, offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":  requests,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

func ApproveRetest(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	request, err := services.ApproveRetest(database.DB, id, middleware.CurrentIdentity(c).UserID)
	if err != nil {
		return err
	}
	announceRetestDecision(request, websocket.EventRetestApproved)
	return c.JSON(request)
}

type RejectRetestRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

func RejectRetest(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req RejectRetestRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	request, err := services.RejectRetest(database.DB, id, middleware.CurrentIdentity(c).UserID, req.Reason)
	if err != nil {
		return err
	}
	announceRetestDecision(request, websocket.EventRetestRejected)
	return c.JSON(request)
}

func announceRetestDecision(request *models.RetestRequest, event string) {
	websocket.Events.Publish(event, request)
	if request.Candidate == nil {
		return
	}

	data := notifications.RetestData{
		Name:   request.Candidate.Name,
		Status: string(request.Status),
		Link:   config.App.FrontendURL + "/candidate/login",
	}
	if request.Position != nil {
		data.Position = request.Position.Name
	}
	if request.Reason != nil {
		data.Reason = *request.Reason
	}
	msg, err := notifications.RetestDecisionEmail(data)
	go notifications.Deliver(request.Candidate.Name, request.Candidate.Email, msg, err)
}
