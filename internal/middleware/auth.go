// Package middleware provides authentication, logging, metrics and tracing
// middleware for the application.
package middleware

import (
	"strings"

	"devnest/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// Locals keys set by the auth middleware.
const (
	LocalExternalID = "externalID"
	LocalClaims     = "identityClaims"
)

// IdentityClaims is the profile payload the identity provider embeds in its
// tokens. Only the subject is guaranteed; the rest is used by user sync.
type IdentityClaims struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

func parseBearer(c *fiber.Ctx) (*IdentityClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}

	ic := &IdentityClaims{Subject: sub}
	if v, ok := claims["email"].(string); ok {
		ic.Email = v
	}
	if v, ok := claims["given_name"].(string); ok {
		ic.FirstName = v
	}
	if v, ok := claims["family_name"].(string); ok {
		ic.LastName = v
	}
	if v, ok := claims["picture"].(string); ok {
		ic.AvatarURL = v
	}
	return ic, nil
}

// AuthRequired enforces a valid identity-provider token on protected routes.
// The external identity key ("sub") is stored in Locals for handlers to
// resolve against the account store.
func AuthRequired(c *fiber.Ctx) error {
	claims, err := parseBearer(c)
	if err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	c.Locals(LocalExternalID, claims.Subject)
	c.Locals(LocalClaims, claims)
	return c.Next()
}

// AuthOptional resolves the caller's identity when a valid token is present
// and proceeds anonymously otherwise. Used on routes that personalize but do
// not require login, such as the feed.
func AuthOptional(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	claims, err := parseBearer(c)
	if err != nil {
		// A malformed token degrades to anonymous rather than failing the read.
		return c.Next()
	}
	c.Locals(LocalExternalID, claims.Subject)
	c.Locals(LocalClaims, claims)
	return c.Next()
}
