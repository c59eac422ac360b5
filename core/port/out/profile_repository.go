package out

import (
	"context"

	"devconnect_server/core/domain"

	"github.com/google/uuid"
)

// ProfileRepository defines the interface for profile persistence.
// GetByUserID returns (nil, nil) when the user has no profile.
//
// The sub-document mutators are atomic single-document operations: the
// boolean result reports whether the guarded update matched, so callers
// can distinguish a missing profile or entry without a read-then-write
// race.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)

	// Upsert creates or replaces the profile keyed on its user.
	Upsert(ctx context.Context, profile *domain.Profile) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// Experience / education entries, newest-first.
	AddExperience(ctx context.Context, userID uuid.UUID, exp domain.Experience) (bool, error)
	RemoveExperience(ctx context.Context, userID uuid.UUID, entryID string) (bool, error)
	AddEducation(ctx context.Context, userID uuid.UUID, edu domain.Education) (bool, error)
	RemoveEducation(ctx context.Context, userID uuid.UUID, entryID string) (bool, error)
}
