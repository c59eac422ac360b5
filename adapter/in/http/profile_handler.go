package http

import (
	in "devconnect_server/core/port/in"
	"devconnect_server/infra/middleware"
	"devconnect_server/pkg/apperr"
	"devconnect_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles HTTP requests for profile operations
type ProfileHandler struct {
	service in.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service in.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Register registers profile routes
func (h *ProfileHandler) Register(router fiber.Router, authRequired fiber.Handler) {
	profile := router.Group("/profile")

	// Public reads
	profile.Get("/", h.List)
	profile.Get("/user/:user_id", h.GetByUserID)
	profile.Get("/github/:username", h.GithubRepos)

	// Authenticated
	profile.Get("/me", authRequired, h.GetMine)
	profile.Post("/", authRequired, h.Upsert)
	profile.Delete("/", authRequired, h.DeleteAccount)

	profile.Put("/experience", authRequired, h.AddExperience)
	profile.Delete("/experience/:entry_id", authRequired, h.RemoveExperience)
	profile.Put("/education", authRequired, h.AddEducation)
	profile.Delete("/education/:entry_id", authRequired, h.RemoveEducation)
}

// =============================================================================
// Profile CRUD
// =============================================================================

// List returns every profile with its owner snapshot
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	views, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return response.OK(c, views)
}

// GetByUserID returns one user's profile
func (h *ProfileHandler) GetByUserID(c *fiber.Ctx) error {
	view, err := h.service.GetByUserID(c.Context(), c.Params("user_id"))
	if err != nil {
		return err
	}
	return response.OK(c, view)
}

// GetMine returns the caller's profile
func (h *ProfileHandler) GetMine(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetMine(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.OK(c, view)
}

// Upsert creates or updates the caller's profile
func (h *ProfileHandler) Upsert(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req in.UpsertProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	profile, err := h.service.Upsert(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return response.OK(c, profile)
}

// DeleteAccount removes the caller's posts, profile and user record
func (h *ProfileHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteAccount(c.Context(), userID); err != nil {
		return err
	}
	return response.OK(c, fiber.Map{"message": "user removed"})
}

// =============================================================================
// Experience / Education
// =============================================================================

// AddExperience prepends a work entry to the caller's profile
func (h *ProfileHandler) AddExperience(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req in.ExperienceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	profile, err := h.service.AddExperience(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return response.OK(c, profile)
}

// RemoveExperience removes a work entry by id
func (h *ProfileHandler) RemoveExperience(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.RemoveExperience(c.Context(), userID, c.Params("entry_id"))
	if err != nil {
		return err
	}
	return response.OK(c, profile)
}

// AddEducation prepends a schooling entry to the caller's profile
func (h *ProfileHandler) AddEducation(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req in.EducationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	profile, err := h.service.AddEducation(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return response.OK(c, profile)
}

// RemoveEducation removes a schooling entry by id
func (h *ProfileHandler) RemoveEducation(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.RemoveEducation(c.Context(), userID, c.Params("entry_id"))
	if err != nil {
		return err
	}
	return response.OK(c, profile)
}

// =============================================================================
// Github
// =============================================================================

// GithubRepos returns a user's latest public repositories
func (h *ProfileHandler) GithubRepos(c *fiber.Ctx) error {
	repos, err := h.service.GithubRepos(c.Context(), c.Params("username"))
	if err != nil {
		return err
	}
	return response.OK(c, repos)
}
