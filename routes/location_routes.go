package routes

import (
	"parts-ledger/config"
	"parts-ledger/controllers"
	"parts-ledger/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupLocationRoutes(app *fiber.App, db *gorm.DB) {
	locationController := controllers.NewLocationController(db)

	api := app.Group(config.MAIN_ROUTES+"/locations", middleware.AuthMiddleware)

	api.Post("/", locationController.CreateLocation)
	api.Get("/", locationController.GetAllLocations)
	api.Get("/:id", locationController.GetLocationByID)
	api.Put("/:id", locationController.UpdateLocation)
	api.Delete("/:id", middleware.AdminMiddleware, locationController.DeleteLocation)
}
