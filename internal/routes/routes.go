package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/careerhub/internal/config"
	"github.com/example/careerhub/internal/handlers"
	"github.com/example/careerhub/internal/middleware"
	"github.com/example/careerhub/internal/repository"
	"github.com/example/careerhub/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, cfg *config.Config, users repository.Users, verification *services.VerificationService) {
	authHandler := handlers.NewAuthHandler(users, verification, cfg)
	profileHandler := handlers.NewProfileHandler(users)

	api := app.Group("/api/v1")

	user := api.Group("/user")
	user.Post("/register", authHandler.Register)
	user.Post("/login", authHandler.Login)
	user.Get("/logout", authHandler.Logout)
	user.Post("/verify-otp", authHandler.VerifyOTP)
	user.Post("/resend-otp", authHandler.ResendOTP)

	protected := user.Group("", middleware.AuthMiddleware(cfg))
	protected.Get("/profile", profileHandler.GetProfile)
	protected.Post("/profile/update", profileHandler.UpdateProfile)
}
