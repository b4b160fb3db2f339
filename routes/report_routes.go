package routes

import (
	"parts-ledger/config"
	"parts-ledger/controllers"
	"parts-ledger/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReportRoutes(app *fiber.App, db *gorm.DB) {
	reportController := controllers.NewReportController(db)

	api := app.Group(config.MAIN_ROUTES+"/reports", middleware.AuthMiddleware)

	api.Get("/daily-summary", reportController.DailySummary)
	api.Post("/daily-summary/send", middleware.AdminMiddleware, reportController.SendDailySummary)
}
