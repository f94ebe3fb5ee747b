package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/careerhub/internal/middleware"
	"github.com/example/careerhub/internal/repository"
	"github.com/example/careerhub/internal/utils"
)

// ProfileHandler manages the authenticated user's profile endpoints.
type ProfileHandler struct {
	users repository.Users
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(users repository.Users) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// GetProfile returns the authenticated user's account.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.users.FindByID(c.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		return fiber.NewError(fiber.StatusBadRequest, "User not found.")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userPayload(user),
	})
}

type updateProfileRequest struct {
	FullName    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Bio         string `json:"bio"`
	Skills      string `json:"skills"`
	ResumeURL   string `json:"resumeUrl"`
	ResumeName  string `json:"resumeName"`
	PhotoURL    string `json:"photoUrl"`
}

// UpdateProfile updates the fields present in the request. File uploads are
// handled elsewhere; resume and photo arrive as plain URLs.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Email != "" {
		updates["email"] = utils.NormalizeEmail(req.Email)
	}
	if req.PhoneNumber != "" {
		updates["phone_number"] = req.PhoneNumber
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}
	if req.Skills != "" {
		updates["skills"] = req.Skills
	}
	if req.ResumeURL != "" {
		updates["resume_url"] = req.ResumeURL
		updates["resume_name"] = req.ResumeName
	}
	if req.PhotoURL != "" {
		updates["photo_url"] = req.PhotoURL
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	updates["updated_at"] = time.Now()

	if err := h.users.UpdateFields(c.Context(), userID, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "User not found.")
		}
		return err
	}

	user, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully.",
		"user":    userPayload(user),
	})
}
