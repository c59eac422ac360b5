package http

import (
	in "devconnect_server/core/port/in"
	"devconnect_server/infra/middleware"
	"devconnect_server/pkg/apperr"
	"devconnect_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for feed operations
type PostHandler struct {
	service in.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(service in.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Register registers post routes. The whole feed requires
// authentication.
func (h *PostHandler) Register(router fiber.Router, authRequired fiber.Handler) {
	posts := router.Group("/posts", authRequired)

	posts.Post("/", h.Create)
	posts.Get("/", h.List)
	posts.Get("/:id", h.Get)
	posts.Delete("/:id", h.Delete)

	posts.Put("/like/:id", h.Like)
	posts.Put("/unlike/:id", h.Unlike)

	posts.Post("/comment/:id", h.AddComment)
	posts.Delete("/comment/:id/:comment_id", h.RemoveComment)
}

// =============================================================================
// Post CRUD
// =============================================================================

// Create publishes a post authored by the caller
func (h *PostHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req in.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	post, err := h.service.Create(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return response.Created(c, post)
}

// List returns the feed, newest first
func (h *PostHandler) List(c *fiber.Ctx) error {
	posts, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return response.OK(c, posts)
}

// Get returns one post
func (h *PostHandler) Get(c *fiber.Ctx) error {
	post, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.OK(c, post)
}

// Delete removes the caller's own post
func (h *PostHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), userID, c.Params("id")); err != nil {
		return err
	}
	return response.OK(c, fiber.Map{"message": "post removed"})
}

// =============================================================================
// Likes
// =============================================================================

// Like marks the post as liked by the caller
func (h *PostHandler) Like(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	likes, err := h.service.Like(c.Context(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return response.OK(c, likes)
}

// Unlike removes the caller's like
func (h *PostHandler) Unlike(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	likes, err := h.service.Unlike(c.Context(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return response.OK(c, likes)
}

// =============================================================================
// Comments
// =============================================================================

// AddComment prepends a comment to the post
func (h *PostHandler) AddComment(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req in.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	comments, err := h.service.AddComment(c.Context(), userID, c.Params("id"), &req)
	if err != nil {
		return err
	}
	return response.Created(c, comments)
}

// RemoveComment removes the caller's own comment
func (h *PostHandler) RemoveComment(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	comments, err := h.service.RemoveComment(c.Context(), userID, c.Params("id"), c.Params("comment_id"))
	if err != nil {
		return err
	}
	return response.OK(c, comments)
}
