package routes

import (
	"github.com/anjiri1684/interview_portal/handlers"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/gofiber/fiber/v2"
)

func HRRoutes(app *fiber.App) {
	hr := app.Group("/api/hr", middleware.Protected(), middleware.RequireRoles(staffRoles...))

	hr.Put("/profile/image", handlers.UpdateProfileImage)

	candidates := hr.Group("/candidates")
	candidates.Post("/invite", handlers.InviteCandidate)
	candidates.Post("", handlers.CreateCandidate)
	candidates.Get("", handlers.ListCandidates)
	candidates.Get("/:id", handlers.GetCandidate)
	candidates.Put("/:id", handlers.UpdateCandidate)
	candidates.Delete("/:id", handlers.DeleteCandidate)
}
