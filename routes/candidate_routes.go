package routes

import (
	"github.com/anjiri1684/interview_portal/handlers"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
)

func CandidateRoutes(app *fiber.App) {
	candidates := app.Group("/api/candidates")
	candidates.Post("/login", handlers.CandidateLogin)
	candidates.Post("/register", handlers.RegisterCandidate)

	retest := candidates.Group("/retest", middleware.Protected(), middleware.RequireRoles(models.RoleCandidate))
	retest.Post("/request", handlers.RequestRetest)
	retest.Get("/my-request", handlers.MyRetestRequest)
}
