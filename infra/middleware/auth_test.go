package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devconnect_server/pkg/apperr"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, subject string, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// newAuthedApp wires JWTAuth in front of a handler that echoes the
// resolved caller id.
func newAuthedApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/me", JWTAuth(testSecret), func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}
		return c.SendString(userID.String())
	})
	return app
}

// errorCode decodes the error response body and returns its code.
func errorCode(t *testing.T, body io.Reader) string {
	t.Helper()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode body %q: %v", data, err)
	}
	return resp.Error.Code
}

func TestJWTAuth(t *testing.T) {
	userID := uuid.New()

	// A missing token is UNAUTHENTICATED; a token that fails to verify
	// is INVALID_CREDENTIAL.
	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apperr.CodeUnauthenticated,
		},
		{
			name:       "valid bearer token",
			header:     "Authorization",
			value:      "Bearer " + signToken(t, testSecret, userID.String(), time.Hour),
			wantStatus: http.StatusOK,
		},
		{
			name:       "legacy x-auth-token header",
			header:     "x-auth-token",
			value:      signToken(t, testSecret, userID.String(), time.Hour),
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong signing secret",
			header:     "Authorization",
			value:      "Bearer " + signToken(t, "other-secret", userID.String(), time.Hour),
			wantStatus: http.StatusUnauthorized,
			wantCode:   apperr.CodeInvalidCredential,
		},
		{
			name:       "expired token",
			header:     "Authorization",
			value:      "Bearer " + signToken(t, testSecret, userID.String(), -time.Hour),
			wantStatus: http.StatusUnauthorized,
			wantCode:   apperr.CodeInvalidCredential,
		},
		{
			name:       "subject is not a uuid",
			header:     "Authorization",
			value:      "Bearer " + signToken(t, testSecret, "not-a-uuid", time.Hour),
			wantStatus: http.StatusUnauthorized,
			wantCode:   apperr.CodeInvalidCredential,
		},
		{
			name:       "garbage token",
			header:     "Authorization",
			value:      "Bearer not.a.token",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apperr.CodeInvalidCredential,
		},
	}

	app := newAuthedApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if code := errorCode(t, resp.Body); code != tt.wantCode {
					t.Errorf("error code = %q, want %q", code, tt.wantCode)
				}
			}
		})
	}
}

func TestJWTAuthResolvesCaller(t *testing.T) {
	userID := uuid.New()
	app := newAuthedApp()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID.String(), time.Hour))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	if got := string(body[:n]); got != userID.String() {
		t.Errorf("resolved user id = %q, want %q", got, userID)
	}
}

func TestOptionalJWTAuth(t *testing.T) {
	userID := uuid.New()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/feed", OptionalJWTAuth(testSecret), func(c *fiber.Ctx) error {
		if id, ok := c.Locals("user_id").(uuid.UUID); ok {
			return c.SendString(id.String())
		}
		return c.SendString("anonymous")
	})

	// Anonymous requests pass through.
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymous status = %d, want 200", resp.StatusCode)
	}

	// A valid token resolves the caller.
	req = httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID.String(), time.Hour))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	if got := string(body[:n]); got != userID.String() {
		t.Errorf("resolved user id = %q, want %q", got, userID)
	}
}
