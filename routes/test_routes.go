package routes

import (
	"github.com/anjiri1684/interview_portal/handlers"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
)

// AssessmentRoutes serves attempts, submissions, results and autosave. They are
// shared by candidates and staff; handlers pin candidates to their own pair.
func AssessmentRoutes(app *fiber.App) {
	attempts := app.Group("/api/test-attempt", middleware.Protected())
	attempts.Post("/create", handlers.CreateAttempt)
	attempts.Post("/submit", handlers.SubmitAttempt)
	attempts.Get("/candidate/:candidateId/position/:positionId", handlers.ListAttempts)
	attempts.Post("/:id/reset", middleware.RequireRoles(models.RoleAdmin), handlers.ResetAttempt)

	progress := app.Group("/api/test-progress", middleware.Protected())
	progress.Post("/save", handlers.SaveProgress)
	progress.Get("/get/:candidateId/:positionId", handlers.GetProgress)
	progress.Delete("/reset", handlers.ResetProgress)

	tests := app.Group("/api/test", middleware.Protected())
	tests.Post("", handlers.SubmitTest)
	tests.Get("/result/:id/report", middleware.RequireRoles(staffRoles...), handlers.ResultReport)
	tests.Get("/result/:id", middleware.RequireRoles(staffRoles...), handlers.GetResult)
	tests.Get("/:candidateId", handlers.ListResults)
}
