package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/careerhub/internal/config"
	"github.com/example/careerhub/internal/database"
	"github.com/example/careerhub/internal/handlers"
	"github.com/example/careerhub/internal/logger"
	"github.com/example/careerhub/internal/repository"
	"github.com/example/careerhub/internal/routes"
	"github.com/example/careerhub/internal/services"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db := database.Connect(cfg.DatabaseURL)

	users := repository.NewUsers(db)
	mailer := services.NewEmailService(cfg)
	verification := services.NewVerificationService(users, mailer, zlog)

	app := fiber.New(fiber.Config{
		AppName:      "CareerHub Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	routes.Register(app, cfg, users, verification)

	zlog.Info("starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zlog.Fatal("fiber listen failed", zap.Error(err))
	}
}
