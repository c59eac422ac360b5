package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"devconnect_server/core/domain"
	"devconnect_server/core/port/out"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// UserRepository implements out.UserRepository
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) out.UserRepository {
	return &UserRepository{db: db}
}

// =============================================================================
// Row Model
// =============================================================================

type userRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Avatar    string    `db:"avatar"`
	Password  string    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *userRow) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", r.ID, err)
	}
	return &domain.User{
		ID:        id,
		Name:      r.Name,
		Email:     r.Email,
		Avatar:    r.Avatar,
		Password:  r.Password,
		CreatedAt: r.CreatedAt,
	}, nil
}

// =============================================================================
// Queries
// =============================================================================

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, email, avatar, password, created_at
		FROM users
		WHERE id = $1`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return row.toDomain()
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error) {
	result := make(map[uuid.UUID]*domain.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id.String()
	}
	query, inArgs, err := sqlx.In(`
		SELECT id, name, email, avatar, password, created_at
		FROM users
		WHERE id IN (?)`, args)
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query, inArgs...); err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}

	for i := range rows {
		user, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		result[user.ID] = user
	}
	return result, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, avatar, password, created_at
		FROM users
		WHERE email = $1`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return row.toDomain()
}

// =============================================================================
// Mutations
// =============================================================================

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, avatar, password, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID.String(), user.Name, user.Email, user.Avatar, user.Password, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id.String()); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// =============================================================================
// Interface Compliance
// =============================================================================

var _ out.UserRepository = (*UserRepository)(nil)
