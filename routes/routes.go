package routes

import (
	"github.com/anjiri1684/interview_portal/handlers"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
)

var staffRoles = []string{models.RoleAdmin, models.RoleHR}

// Setup registers every route. uploadDir is served at /uploads.
func Setup(app *fiber.App, uploadDir string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Static("/uploads", uploadDir)

	AuthRoutes(app)
	CandidateRoutes(app)
	HRRoutes(app)
	PositionRoutes(app)
	AssessmentRoutes(app)
	AdminRoutes(app)
	UploadRoutes(app)

	app.Get("/ws/events", middleware.ProtectedQuery(), handlers.UpgradeEvents, handlers.StreamEvents)
}
