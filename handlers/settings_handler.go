package handlers

import (
	"github.com/anjiri1684/interview_portal/database"
	"github.com/anjiri1684/interview_portal/services"
	"github.com/gofiber/fiber/v2"
)

func GetSettings(c *fiber.Ctx) error {
	settings, err := services.LoadSettings(database.DB)
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

func UpdateSettings(c *fiber.Ctx) error {
	var req services.SettingsUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	settings, err := services.UpdateSettings(database.DB, req)
	if err != nil {
		return err
	}
	return c.JSON(settings)
}
