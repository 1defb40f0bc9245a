package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/domain"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

const principalKey = "auth_principal"

// ActorVerifier confirms that a token subject still exists and is active.
type ActorVerifier interface {
	VerifyActor(ctx context.Context, actor domain.Actor) error
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	verifier ActorVerifier
}

// NewAuthMiddleware constructs middleware. verifier may be nil.
func NewAuthMiddleware(tokens *TokenManager, verifier ActorVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, verifier: verifier}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	actor := domain.Actor{ID: claims.Subject, Role: claims.Role}
	if m.verifier != nil {
		if err := m.verifier.VerifyActor(c.UserContext(), actor); err != nil {
			return err
		}
	}

	c.Locals(principalKey, actor)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated actor.
func PrincipalFromContext(c *fiber.Ctx) (domain.Actor, bool) {
	actor, ok := c.Locals(principalKey).(domain.Actor)
	return actor, ok
}
