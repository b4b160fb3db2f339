package routes

import (
	"parts-ledger/config"
	"parts-ledger/controllers"
	"parts-ledger/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPartRoutes(app *fiber.App, db *gorm.DB) {
	partController := controllers.NewPartController(db)

	api := app.Group(config.MAIN_ROUTES+"/parts", middleware.AuthMiddleware)

	api.Post("/", partController.CreatePart)
	api.Get("/", partController.GetAllParts)
	api.Get("/:id", partController.GetPartByID)
	api.Put("/:id", partController.UpdatePart)
	api.Delete("/:id", middleware.AdminMiddleware, partController.DeletePart)
}
