package in

import (
	"context"
	"strings"

	"devconnect_server/core/domain"
	"devconnect_server/pkg/apperr"

	"github.com/google/uuid"
)

// PostService defines the interface for feed operations.
type PostService interface {
	// === Post CRUD ===
	Create(ctx context.Context, userID uuid.UUID, req *CreatePostRequest) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	Get(ctx context.Context, postID string) (*domain.Post, error)
	Delete(ctx context.Context, userID uuid.UUID, postID string) error

	// === Likes ===
	Like(ctx context.Context, userID uuid.UUID, postID string) ([]domain.Like, error)
	Unlike(ctx context.Context, userID uuid.UUID, postID string) ([]domain.Like, error)

	// === Comments ===
	AddComment(ctx context.Context, userID uuid.UUID, postID string, req *CommentRequest) ([]domain.Comment, error)
	RemoveComment(ctx context.Context, userID uuid.UUID, postID, commentID string) ([]domain.Comment, error)
}

type CreatePostRequest struct {
	Text string `json:"text"`
}

func (r *CreatePostRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return apperr.ValidationFailed(apperr.FieldError{Field: "text", Message: "text is required"})
	}
	return nil
}

type CommentRequest struct {
	Text string `json:"text"`
}

func (r *CommentRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return apperr.ValidationFailed(apperr.FieldError{Field: "text", Message: "text is required"})
	}
	return nil
}
