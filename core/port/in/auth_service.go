package in

import (
	"context"
	"net/mail"
	"strings"

	"devconnect_server/core/domain"
	"devconnect_server/pkg/apperr"

	"github.com/google/uuid"
)

// AuthService defines the interface for registration and token issuing.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// AuthResponse carries the signed token alongside the user it
// authenticates.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate reports every violated field at once.
func (r *RegisterRequest) Validate() error {
	var fields []apperr.FieldError
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "name is required"})
	}
	if !validEmail(r.Email) {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "a valid email is required"})
	}
	if len(r.Password) < 6 {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "password must be at least 6 characters"})
	}
	if len(fields) > 0 {
		return apperr.ValidationFailed(fields...)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var fields []apperr.FieldError
	if !validEmail(r.Email) {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "a valid email is required"})
	}
	if r.Password == "" {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "password is required"})
	}
	if len(fields) > 0 {
		return apperr.ValidationFailed(fields...)
	}
	return nil
}

func validEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}
