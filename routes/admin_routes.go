package routes

import (
	"github.com/anjiri1684/interview_portal/handlers"
	"github.com/anjiri1684/interview_portal/middleware"
	"github.com/anjiri1684/interview_portal/models"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	retests := app.Group("/api/admin/retest-requests", middleware.Protected(), middleware.RequireRoles(staffRoles...))
	retests.Get("/pending", handlers.ListPendingRetests)
	retests.Get("/history", handlers.RetestHistory)
	retests.Put("/:id/approve", handlers.ApproveRetest)
	retests.Put("/:id/reject", handlers.RejectRetest)

	settings := app.Group("/api/settings", middleware.Protected(), middleware.RequireRoles(models.RoleAdmin))
	settings.Get("", handlers.GetSettings)
	settings.Put("", handlers.UpdateSettings)
}

func UploadRoutes(app *fiber.App) {
	app.Get("/api/uploads/signature", middleware.Protected(), handlers.GenerateUploadSignature)
}
