package main

import (
	"fmt"
	"log"

	"parts-ledger/config"
	"parts-ledger/controllers/idgen"
	"parts-ledger/database"
	"parts-ledger/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {
	config.LoadConfig()

	app := fiber.New()

	database.EnsureDatabaseExists(config.DBName)

	db, err := database.OpenDatabaseConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)
	if config.SeedDemoData {
		database.SeedDemoData(db)
	}

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupUserRoutes(app, db)
	routes.SetupPartRoutes(app, db)
	routes.SetupLocationRoutes(app, db)
	routes.SetupInventoryRoutes(app, db)
	routes.SetupMoveRoutes(app, db)
	routes.SetupQuarterlyCountRoutes(app, db)
	routes.SetupReceivingRoutes(app, db)
	routes.SetupReportRoutes(app, db)

	port := config.APP_PORT
	fmt.Println("Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
