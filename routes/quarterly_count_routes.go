package routes

import (
	"parts-ledger/config"
	"parts-ledger/controllers"
	"parts-ledger/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupQuarterlyCountRoutes(app *fiber.App, db *gorm.DB) {
	countController := controllers.NewQuarterlyCountController(db)

	api := app.Group(config.MAIN_ROUTES+"/counts", middleware.AuthMiddleware)

	api.Post("/", middleware.AdminMiddleware, countController.CreateCount)
	api.Get("/", countController.GetAllCounts)
	api.Get("/:id", countController.GetCountByID)
	api.Get("/:id/summary", countController.GetSummary)
	api.Get("/:id/excel", countController.ExportExcel)
	api.Post("/:id/records", middleware.AdminMiddleware, countController.AddRecord)
	api.Delete("/:id/records/:recordId", middleware.AdminMiddleware, countController.RemoveRecord)
	api.Put("/:id/counts", middleware.AdminMiddleware, countController.RecordCounts)
	api.Post("/:id/complete", middleware.AdminMiddleware, countController.CompleteCount)
	api.Post("/:id/cancel", middleware.AdminMiddleware, countController.CancelCount)
	api.Delete("/:id", middleware.AdminMiddleware, countController.DeleteCount)
}
