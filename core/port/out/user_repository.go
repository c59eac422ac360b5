package out

import (
	"context"

	"devconnect_server/core/domain"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence.
// Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
