package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/workchoque/workchoque-api/internal/ai"
	"github.com/workchoque/workchoque-api/internal/config"
	"github.com/workchoque/workchoque-api/internal/database"
	"github.com/workchoque/workchoque-api/internal/logging"
	"github.com/workchoque/workchoque-api/internal/routes"
	"github.com/workchoque/workchoque-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	logger, err := logging.Init(cfg.LogDirectory)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("Error connecting to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("Error running migrations", zap.Error(err))
	}

	client, err := ai.NewClient(cfg, logger)
	if err != nil {
		logger.Fatal("Error configuring AI client", zap.Error(err))
	}

	services.Init(database.DB, client, logger)

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	routes.Setup(app)

	logger.Info("Server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
