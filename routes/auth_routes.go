package routes

import (
	"github.com/anjiri1684/interview_portal/handlers"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", handlers.LoginUser)
	auth.Post("/forgot-password", handlers.ForgotPassword)
	auth.Post("/reset-password", handlers.ResetPassword)
	auth.Post("/register", middleware.Protected(), middleware.RequireRoles(models.RoleAdmin), handlers.RegisterUser)
	auth.Get("/me", middleware.Protected(), middleware.RequireRoles(staffRoles...), handlers.GetProfile)
}
