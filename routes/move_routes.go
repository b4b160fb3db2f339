package routes

import (
	"parts-ledger/config"
	"parts-ledger/controllers"
	"parts-ledger/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMoveRoutes(app *fiber.App, db *gorm.DB) {
	moveController := controllers.NewMoveController(db)

	api := app.Group(config.MAIN_ROUTES+"/moves", middleware.AuthMiddleware)

	api.Get("/", moveController.History)
	api.Post("/:id/undo", middleware.AdminMiddleware, moveController.Undo)
}
