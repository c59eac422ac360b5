// Package http implements the inbound HTTP adapters.
package http

import (
	in "devconnect_server/core/port/in"
	"devconnect_server/infra/middleware"
	"devconnect_server/pkg/apperr"
	"devconnect_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration and sessions
type AuthHandler struct {
	service in.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service in.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register registers auth routes
func (h *AuthHandler) Register(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/users", h.RegisterUser)

	auth := router.Group("/auth")
	auth.Post("/", h.Login)
	auth.Get("/", authRequired, h.Current)
}

// RegisterUser creates a new account and returns a signed token
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var req in.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	resp, err := h.service.Register(c.Context(), &req)
	if err != nil {
		return err
	}
	return response.Created(c, resp)
}

// Login verifies a credential pair and returns a signed token
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req in.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	resp, err := h.service.Login(c.Context(), &req)
	if err != nil {
		return err
	}
	return response.OK(c, resp)
}

// Current returns the authenticated user
func (h *AuthHandler) Current(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	user, err := h.service.CurrentUser(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.OK(c, user)
}
