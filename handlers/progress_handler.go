package handlers

import (
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaveProgressRequest struct {
	CandidateID uuid.UUID                  `json:"candidate_id"`
	PositionID  uuid.UUID                  `json:"position_id"`
	Progress    *services.ProgressSnapshot `json:"progress" validate:"required"`
}

func SaveProgress(c *fiber.Ctx) error {
	var req SaveProgressRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	candidateID, positionID, err := candidateScope(c, req.CandidateID, req.PositionID)
	if err != nil {
		return err
	}

	progress, err := services.SaveProgress(database.DB, candidateID, positionID, req.Progress)
	if err != nil {
		return err
	}
	return c.JSON(progress)
}

// GetProgress answers 204 when nothing is saved so the client starts fresh.
func GetProgress(c *fiber.Ctx) error {
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

	progress, err := services.GetProgress(database.DB, candidateID, positionID)
	if err != nil {
		return err
	}
	if progress == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(progress)
}

type ResetProgressRequest struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	PositionID  uuid.UUID `json:"position_id"`
}

func ResetProgress(c *fiber.Ctx) error {
	var req ResetProgressRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	candidateID, positionID, err := candidateScope(c, req.CandidateID, req.PositionID)
	if err != nil {
		return err
	}
	if err := services.ResetProgress(database.DB, candidateID, positionID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Progress reset"})
}
