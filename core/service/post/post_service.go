package post

import (
	"context"
	"fmt"
	"time"

	"devconnect_server/core/domain"
	"devconnect_server/core/port/in"
	"devconnect_server/core/port/out"
	"devconnect_server/pkg/apperr"

	"github.com/google/uuid"
)

// Service implements in.PostService
type Service struct {
	postRepo out.PostRepository
	userRepo out.UserRepository
}

// NewService creates a new PostService
func NewService(postRepo out.PostRepository, userRepo out.UserRepository) in.PostService {
	return &Service{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// =============================================================================
// Post CRUD
// =============================================================================

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *in.CreatePostRequest) (*domain.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}

	post := &domain.Post{
		ID:       uuid.NewString(),
		UserID:   userID,
		Text:     req.Text,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Likes:    []domain.Like{},
		Comments: []domain.Comment{},
		Date:     time.Now(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, postID string) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, apperr.NotFound("post")
	}
	return post, nil
}

func (s *Service) Delete(ctx context.Context, userID uuid.UUID, postID string) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return apperr.Forbidden("only the author can delete a post")
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// =============================================================================
// Likes
// =============================================================================

func (s *Service) Like(ctx context.Context, userID uuid.UUID, postID string) ([]domain.Like, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}

	// The repository applies the like only when no like from this user
	// exists yet, so concurrent likes from different users both land.
	applied, err := s.postRepo.AddLike(ctx, postID, domain.Like{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("add like: %w", err)
	}
	if !applied {
		// The guard also misses when the post was deleted between the
		// pre-check and the update.
		if _, err := s.Get(ctx, postID); err != nil {
			return nil, err
		}
		return nil, apperr.AlreadyLiked()
	}
	return s.likes(ctx, postID)
}

func (s *Service) Unlike(ctx context.Context, userID uuid.UUID, postID string) ([]domain.Like, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}

	removed, err := s.postRepo.RemoveLike(ctx, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("remove like: %w", err)
	}
	if !removed {
		if _, err := s.Get(ctx, postID); err != nil {
			return nil, err
		}
		return nil, apperr.NotLiked()
	}
	return s.likes(ctx, postID)
}

// =============================================================================
// Comments
// =============================================================================

func (s *Service) AddComment(ctx context.Context, userID uuid.UUID, postID string, req *in.CommentRequest) ([]domain.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get commenter: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}

	comment := domain.Comment{
		ID:     uuid.NewString(),
		UserID: userID,
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Date:   time.Now(),
	}
	ok, err := s.postRepo.AddComment(ctx, postID, comment)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	if !ok {
		return nil, apperr.NotFound("post")
	}
	return s.comments(ctx, postID)
}

func (s *Service) RemoveComment(ctx context.Context, userID uuid.UUID, postID, commentID string) ([]domain.Comment, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := post.FindComment(commentID)
	if comment == nil {
		return nil, apperr.NotFound("comment")
	}
	if comment.UserID != userID {
		return nil, apperr.Forbidden("only the author can remove a comment")
	}

	removed, err := s.postRepo.RemoveComment(ctx, postID, commentID)
	if err != nil {
		return nil, fmt.Errorf("remove comment: %w", err)
	}
	if !removed {
		// Lost a race with another removal.
		return nil, apperr.NotFound("comment")
	}
	return s.comments(ctx, postID)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Service) likes(ctx context.Context, postID string) ([]domain.Like, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (s *Service) comments(ctx context.Context, postID string) ([]domain.Comment, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}
