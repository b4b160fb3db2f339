package routes

import (
	"parts-ledger/config"
	"parts-ledger/controllers"
	"parts-ledger/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controllers.NewAuthController(db)

	api := app.Group(config.MAIN_ROUTES + "/auth")

	api.Post("/login", authController.Login)
	api.Get("/logout", authController.Logout)
	api.Get("/me", middleware.AuthMiddleware, authController.Me)
}
