package middleware

import (
	"fmt"
	"strings"

	"devconnect_server/pkg/apperr"
	"devconnect_server/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// extractToken pulls the credential from the Authorization header or,
// for older clients, the x-auth-token header.
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Get("x-auth-token")
}

func parseToken(tokenString, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unsupported signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return uuid.Nil, fmt.Errorf("missing subject claim")
	}
	return uuid.Parse(sub)
}

// JWTAuth validates HS256 tokens and stores the caller's id in
// c.Locals("user_id"). A missing token is unauthenticated; a token
// that fails to verify is an invalid credential.
func JWTAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == "OPTIONS" {
			return c.Next()
		}

		tokenString := extractToken(c)
		if tokenString == "" {
			return apperr.Unauthenticated("missing authorization token")
		}

		userID, err := parseToken(tokenString, secret)
		if err != nil {
			logger.WithError(err).Warn("JWT validation failed")
			return apperr.InvalidCredential("invalid authorization token")
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

// OptionalJWTAuth resolves the caller when a valid token is present but
// lets anonymous requests through.
func OptionalJWTAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return c.Next()
		}

		if userID, err := parseToken(tokenString, secret); err == nil {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
}

// UserID returns the authenticated caller's id set by JWTAuth.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return uuid.Nil, apperr.Unauthenticated("missing authentication")
	}
	return userID, nil
}
