package out

import (
	"context"

	"devconnect_server/core/domain"

	"github.com/google/uuid"
)

// PostRepository defines the interface for post persistence.
// GetByID returns (nil, nil) when the post does not exist.
//
// Like and comment mutators are atomic single-document operations. The
// boolean result reports whether the guarded update matched: AddLike
// returns false when the caller already likes the post (or the post is
// gone), RemoveLike returns false when no like from the caller exists,
// and the comment/removal variants return false when the post or
// comment is missing. Two concurrent likes from different users must
// both land.
type PostRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	Create(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	AddLike(ctx context.Context, postID string, like domain.Like) (bool, error)
	RemoveLike(ctx context.Context, postID string, userID uuid.UUID) (bool, error)
	AddComment(ctx context.Context, postID string, comment domain.Comment) (bool, error)
	RemoveComment(ctx context.Context, postID string, commentID string) (bool, error)
}
