package routes

import (
	"parts-ledger/config"
	"parts-ledger/controllers"
	"parts-ledger/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupInventoryRoutes(app *fiber.App, db *gorm.DB) {
	inventoryController := controllers.NewInventoryController(db)
	transferController := controllers.NewTransferController(db)

	api := app.Group(config.MAIN_ROUTES+"/inventory", middleware.AuthMiddleware)

	api.Get("/", inventoryController.GetInventory)
	api.Get("/excel", inventoryController.ExportExcel)
	api.Get("/quantity", inventoryController.GetQuantity)
	api.Get("/verify", inventoryController.Verify)
	api.Post("/move", inventoryController.Move)
	api.Post("/adjust", middleware.AdminMiddleware, inventoryController.Adjust)
	api.Post("/transfer", transferController.Transfer)
}
