package routes

import (
	"github.com/anjiri1684/interview_portal/handlers"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/gofiber/fiber/v2"
)

func PositionRoutes(app *fiber.App) {
	positions := app.Group("/api/position", middleware.Protected(), middleware.RequireRoles(staffRoles...))
	positions.Post("", handlers.CreatePosition)
	positions.Get("", handlers.ListPositions)
	positions.Get("/:id", handlers.GetPosition)
	positions.Put("/:id", handlers.UpdatePosition)
	positions.Delete("/:id", handlers.DeletePosition)

	questions := app.Group("/api/question", middleware.Protected(), middleware.RequireRoles(staffRoles...))
	questions.Post("", handlers.CreateQuestion)
	questions.Get("", handlers.ListQuestions)
	questions.Get("/:id", handlers.GetQuestion)
	questions.Put("/:id", handlers.UpdateQuestion)
	questions.Delete("/:id", handlers.DeleteQuestion)
}
