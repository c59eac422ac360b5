package profile

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

const profileListCacheKey = "profiles:all"

// Service implements in.ProfileService
type Service struct {
	profileRepo out.ProfileRepository
	userRepo    out.UserRepository
	postRepo    out.PostRepository
	github      out.GithubProvider
	cache       out.Cache
	cacheTTL    time.Duration
	repoLimit   int
}

// NewService creates a new ProfileService. The cache is optional; a nil
// cache disables list caching.
func NewService(
	profileRepo out.ProfileRepository,
	userRepo out.UserRepository,
	postRepo out.PostRepository,
	github out.GithubProvider,
	cache out.Cache,
	cacheTTL time.Duration,
	repoLimit int,
) in.ProfileService {
	return &Service{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		postRepo:    postRepo,
		github:      github,
		cache:       cache,
		cacheTTL:    cacheTTL,
		repoLimit:   repoLimit,
	}
}

// =============================================================================
// Profile CRUD
// =============================================================================

func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, req *in.UpsertProfileRequest) (*domain.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	now := time.Now()
	if profile == nil {
		profile = &domain.Profile{
			ID:        uuid.NewString(),
			UserID:    userID,
			CreatedAt: now,
		}
	}

	// Scalar fields overwrite only when present in the request. Status
	// and skills are mandatory and always overwrite.
	profile.Status = req.Status
	profile.Skills = req.SkillList()
	if req.Company != nil {
		profile.Company = req.Company
	}
	if req.Website != nil {
		profile.Website = req.Website
	}
	if req.Location != nil {
		profile.Location = req.Location
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.GithubUsername != nil {
		profile.GithubUsername = req.GithubUsername
	}
	profile.Social.Merge(req.Social())
	profile.UpdatedAt = now

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	s.invalidateListCache(ctx)
	return profile, nil
}

func (s *Service) GetMine(ctx context.Context, userID uuid.UUID) (*in.ProfileView, error) {
	return s.view(ctx, userID)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*in.ProfileView, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		// A malformed id can never name a profile.
		return nil, apperr.NotFound("profile")
	}
	return s.view(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*in.ProfileView, error) {
	if s.cache != nil {
		var cached []*in.ProfileView
		if ok, err := s.cache.GetJSON(ctx, profileListCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load profile owners: %w", err)
	}

	views := make([]*in.ProfileView, 0, len(profiles))
	for _, p := range profiles {
		user, ok := users[p.UserID]
		if !ok {
			// Orphaned profile, owner row already gone.
			continue
		}
		views = append(views, &in.ProfileView{Profile: p, User: user.Ref()})
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, profileListCacheKey, views, s.cacheTTL)
	}
	return views, nil
}

func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	// Posts first, then the profile, then the identity row. Partial
	// failure leaves the account intact enough to retry.
	if err := s.postRepo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete posts: %w", err)
	}
	if err := s.profileRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.invalidateListCache(ctx)
	return nil
}

// =============================================================================
// Experience / Education
// =============================================================================

func (s *Service) AddExperience(ctx context.Context, userID uuid.UUID, req *in.ExperienceRequest) (*domain.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ok, err := s.profileRepo.AddExperience(ctx, userID, req.Entry())
	if err != nil {
		return nil, fmt.Errorf("add experience: %w", err)
	}
	if !ok {
		return nil, apperr.NotFound("profile")
	}
	s.invalidateListCache(ctx)
	return s.reload(ctx, userID)
}

func (s *Service) RemoveExperience(ctx context.Context, userID uuid.UUID, entryID string) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		return nil, apperr.NotFound("profile")
	}
	ok, err := s.profileRepo.RemoveExperience(ctx, userID, entryID)
	if err != nil {
		return nil, fmt.Errorf("remove experience: %w", err)
	}
	if !ok {
		return nil, apperr.NotFound("experience entry")
	}
	s.invalidateListCache(ctx)
	return s.reload(ctx, userID)
}

func (s *Service) AddEducation(ctx context.Context, userID uuid.UUID, req *in.EducationRequest) (*domain.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ok, err := s.profileRepo.AddEducation(ctx, userID, req.Entry())
	if err != nil {
		return nil, fmt.Errorf("add education: %w", err)
	}
	if !ok {
		return nil, apperr.NotFound("profile")
	}
	s.invalidateListCache(ctx)
	return s.reload(ctx, userID)
}

func (s *Service) RemoveEducation(ctx context.Context, userID uuid.UUID, entryID string) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		return nil, apperr.NotFound("profile")
	}
	ok, err := s.profileRepo.RemoveEducation(ctx, userID, entryID)
	if err != nil {
		return nil, fmt.Errorf("remove education: %w", err)
	}
	if !ok {
		return nil, apperr.NotFound("education entry")
	}
	s.invalidateListCache(ctx)
	return s.reload(ctx, userID)
}

// =============================================================================
// Github
// =============================================================================

func (s *Service) GithubRepos(ctx context.Context, username string) ([]domain.GithubRepo, error) {
	if username == "" {
		return nil, apperr.ValidationFailed(apperr.FieldError{Field: "username", Message: "username is required"})
	}
	repos, err := s.github.ListRepos(ctx, username, s.repoLimit)
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Service) view(ctx context.Context, userID uuid.UUID) (*in.ProfileView, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		return nil, apperr.NotFound("profile")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile owner: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}
	return &in.ProfileView{Profile: profile, User: user.Ref()}, nil
}

func (s *Service) reload(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	if profile == nil {
		return nil, apperr.NotFound("profile")
	}
	return profile, nil
}

func (s *Service) invalidateListCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, profileListCacheKey)
	}
}
