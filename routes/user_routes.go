package routes

import (
	"parts-ledger/config"
	"parts-ledger/controllers"
	"parts-ledger/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, db *gorm.DB) {
	userController := controllers.NewUserController(db)

	// User management is admin-only
	api := app.Group(config.MAIN_ROUTES+"/users", middleware.AuthMiddleware, middleware.AdminMiddleware)

	api.Post("/", userController.CreateUser)
	api.Get("/", userController.GetAllUsers)
	api.Get("/:id", userController.GetUserByID)
	api.Put("/:id", userController.UpdateUser)
	api.Delete("/:id", userController.DeleteUser)
}
