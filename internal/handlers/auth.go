package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/careerhub/internal/config"
	"github.com/example/careerhub/internal/middleware"
	"github.com/example/careerhub/internal/models"
	"github.com/example/careerhub/internal/repository"
	"github.com/example/careerhub/internal/services"
	"github.com/example/careerhub/internal/utils"
)

// AuthHandler bundles dependencies for account endpoints.
type AuthHandler struct {
	users repository.Users
	svc   *services.VerificationService
	cfg   *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users repository.Users, svc *services.VerificationService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, svc: svc, cfg: cfg}
}

// ErrorHandler renders fiber errors in the success/message envelope every
// endpoint uses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

type registerRequest struct {
	FullName    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// Register creates a new account and issues a session token. The account
// starts unverified; the verification code is emailed in the background.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.svc.Register(c.Context(), services.RegisterInput{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        models.Role(req.Role),
	})
	switch {
	case errors.Is(err, services.ErrMissingFields):
		return fiber.NewError(fiber.StatusBadRequest, "Something is missing")
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.NewError(fiber.StatusBadRequest, "User already exists with this email.")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "Server error during registration")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}
	h.setAuthCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":              true,
		"message":              "Account created successfully. Please verify your email with the OTP sent to your inbox.",
		"user":                 userPayload(user),
		"requiresVerification": true,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login authenticates an existing account. The claimed role must match the
// role fixed at registration.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" || req.Role == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Something is missing")
	}

	user, err := h.users.FindByEmail(c.Context(), utils.NormalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return fiber.NewError(fiber.StatusBadRequest, "Incorrect email or password.")
	}
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusBadRequest, "Incorrect email or password.")
	}

	if models.Role(req.Role) != user.Role {
		return fiber.NewError(fiber.StatusBadRequest, "Account doesn't exist with current role.")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}
	h.setAuthCookie(c, token)

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Welcome back %s", user.FullName),
		"user":    userPayload(user),
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully.",
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	// Clients have been seen submitting the OTP as a JSON number; it is
	// coerced to a trimmed string before comparison.
	OTP interface{} `json:"otp"`
}

// VerifyOTP validates the submitted code and marks the account verified.
// Failure modes share the 400 status and differ only in message.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	err := h.svc.Verify(c.Context(), req.Email, coerceString(req.OTP))
	switch {
	case errors.Is(err, services.ErrMissingFields):
		return fiber.NewError(fiber.StatusBadRequest, "Email and OTP are required")
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.NewError(fiber.StatusBadRequest, "User not found")
	case errors.Is(err, services.ErrNoPendingCode):
		return fiber.NewError(fiber.StatusBadRequest, "No OTP found. Please request a new one.")
	case errors.Is(err, services.ErrCodeExpired):
		return fiber.NewError(fiber.StatusBadRequest, "OTP has expired. Please request a new one.")
	case errors.Is(err, services.ErrCodeMismatch):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP. Please check and try again.")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "Server error during email verification")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email verified successfully!",
	})
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

// ResendOTP issues a replacement code. The email send is synchronous, so a
// delivery failure fails the request.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req resendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	err := h.svc.Resend(c.Context(), req.Email)
	switch {
	case errors.Is(err, services.ErrMissingFields):
		return fiber.NewError(fiber.StatusBadRequest, "Email is required")
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrAlreadyVerified):
		return fiber.NewError(fiber.StatusBadRequest, "Email is already verified")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "Server error while resending OTP")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully to your email",
	})
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.cfg.TokenExpires),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// userPayload renders a user for API responses, without the password hash
// or the pending verification code.
func userPayload(user *models.User) fiber.Map {
	var skills []string
	if user.Skills != "" {
		skills = strings.Split(user.Skills, ",")
	}

	return fiber.Map{
		"id":          user.ID,
		"fullname":    user.FullName,
		"email":       user.Email,
		"phoneNumber": user.PhoneNumber,
		"role":        user.Role,
		"isVerified":  user.IsVerified,
		"profile": fiber.Map{
			"bio":          user.Bio,
			"skills":       skills,
			"resume":       user.ResumeURL,
			"resumeName":   user.ResumeName,
			"profilePhoto": user.PhotoURL,
		},
	}
}

func coerceString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%.0f", v))
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
