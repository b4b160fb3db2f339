package routes

import (
	"parts-ledger/config"
	"parts-ledger/controllers"
	"parts-ledger/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReceivingRoutes(app *fiber.App, db *gorm.DB) {
	receivingController := controllers.NewReceivingController(db)

	api := app.Group(config.MAIN_ROUTES+"/receiving", middleware.AuthMiddleware)

	api.Post("/", receivingController.Receive)
	api.Post("/excel", receivingController.ReceiveFromExcel)
}
