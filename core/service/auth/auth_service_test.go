package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"devconnect_server/core/domain"
	"devconnect_server/core/port/in"
	"devconnect_server/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[uuid.UUID]*domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result[id] = u
		}
	}
	return result, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func newTestService() in.AuthService {
	// MinCost keeps the hashing fast in tests.
	return NewService(newFakeUserRepo(), testSecret, time.Hour, bcrypt.MinCost)
}

// =============================================================================
// Registration
// =============================================================================

func TestRegister(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Register(context.Background(), &in.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("token should be issued on registration")
	}
	if resp.User.Name != "Alice" {
		t.Errorf("name = %q, want Alice", resp.User.Name)
	}
	if resp.User.Password == "secret123" {
		t.Error("password must be stored hashed")
	}

	// Gravatar hashes the normalized email, so case must not matter.
	if !strings.HasPrefix(resp.User.Avatar, "https://www.gravatar.com/avatar/") {
		t.Errorf("avatar = %q, want a gravatar URL", resp.User.Avatar)
	}
	if !strings.HasSuffix(resp.User.Avatar, "?s=200&r=pg&d=mm") {
		t.Errorf("avatar = %q, want size/rating/default params", resp.User.Avatar)
	}
}

func TestRegisterValidationReportsAllFields(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name       string
		req        *in.RegisterRequest
		wantFields int
	}{
		{
			name:       "everything missing",
			req:        &in.RegisterRequest{},
			wantFields: 3,
		},
		{
			name:       "bad email and short password",
			req:        &in.RegisterRequest{Name: "Alice", Email: "not-an-email", Password: "abc"},
			wantFields: 2,
		},
		{
			name:       "short password only",
			req:        &in.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "abc"},
			wantFields: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			appErr := apperr.AsAppError(err)
			if appErr.Code != apperr.CodeValidationFailed {
				t.Fatalf("err = %v, want VALIDATION_FAILED", err)
			}
			fields, ok := appErr.Details["errors"].([]apperr.FieldError)
			if !ok || len(fields) != tt.wantFields {
				t.Fatalf("reported fields = %v, want %d", appErr.Details["errors"], tt.wantFields)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	req := &in.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret123"}

	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), req)
	if !apperr.IsCode(err, apperr.CodeAlreadyExists) {
		t.Fatalf("err = %v, want ALREADY_EXISTS", err)
	}
}

// =============================================================================
// Login
// =============================================================================

func TestLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &in.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	resp, err := svc.Login(ctx, &in.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// The token must verify with the signing secret and carry the user
	// id as its subject.
	parsed, err := jwt.ParseWithClaims(resp.Token, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	if claims.Subject != resp.User.ID.String() {
		t.Errorf("subject = %q, want %q", claims.Subject, resp.User.ID)
	}
}

func TestLoginInvalidCredential(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &in.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	tests := []struct {
		name string
		req  *in.LoginRequest
	}{
		{"unknown email", &in.LoginRequest{Email: "nobody@example.com", Password: "secret123"}},
		{"wrong password", &in.LoginRequest{Email: "alice@example.com", Password: "wrong-pass"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.req)
			if !apperr.IsCode(err, apperr.CodeInvalidCredential) {
				t.Fatalf("err = %v, want INVALID_CREDENTIAL", err)
			}
		})
	}
}

// =============================================================================
// Current user
// =============================================================================

func TestCurrentUser(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &in.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := svc.CurrentUser(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q", user.Email)
	}

	if _, err := svc.CurrentUser(ctx, uuid.New()); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}
