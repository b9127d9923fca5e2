package handlers

import (
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/services"
	"github.com/gofiber/fiber/v2"
)

func CreatePosition(c *fiber.Ctx) error {
	var req services.PositionInput
	if err := bind(c, &req); err != nil {
		return err
	}
	position, err := services.CreatePosition(database.DB, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(position)
}

func ListPositions(c *fiber.Ctx) error {
	positions, err := services.ListPositions(database.DB)
	if err != nil {
		return err
	}
	return c.JSON(positions)
}

func GetPosition(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	position, err := services.GetPosition(database.DB, id)
	if err != nil {
		return err
	}
	return c.JSON(position)
}

func UpdatePosition(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req services.PositionInput
	if err := bind(c, &req); err != nil {
		return err
	}
	position, err := services.UpdatePosition(database.DB, id, req)
	if err != nil {
		return err
	}
	return c.JSON(position)
}

func DeletePosition(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := services.DeletePosition(database.DB, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
