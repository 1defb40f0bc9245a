package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, expiresAt, err := tm.Encrypt("tech-1", domain.RoleTechnician)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "tech-1", claims.Subject)
	assert.Equal(t, domain.RoleTechnician, claims.Role)
}

func TestTokenManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	token, _, err := tm.Encrypt("tech-1", domain.RoleTechnician)
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.ParseToken(token)
	assert.Error(t, err)

	other := NewTokenManager("other-secret", 1)
	foreign, _, err := other.Encrypt("tech-1", domain.RoleTechnician)
	require.NoError(t, err)
	_, err = NewTokenManager("secret", 1).ParseToken(foreign)
	assert.Error(t, err)
}

type verifierFunc func(ctx context.Context, actor domain.Actor) error

func (f verifierFunc) VerifyActor(ctx context.Context, actor domain.Actor) error {
	return f(ctx, actor)
}

func newTestApp(tm *TokenManager, verifier ActorVerifier, roles ...domain.Role) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	mw := NewAuthMiddleware(tm, verifier)
	app.Get("/me", mw.Handle, RequireRole(roles...), func(c *fiber.Ctx) error {
		actor, _ := PrincipalFromContext(c)
		return c.SendString(string(actor.Role) + ":" + actor.ID)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, header string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	adminToken, _, err := tm.Encrypt("admin-1", domain.RoleAdmin)
	require.NoError(t, err)
	customerToken, _, err := tm.Encrypt("customer-1", domain.RoleCustomer)
	require.NoError(t, err)

	app := newTestApp(tm, nil, domain.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "Token abc").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "Bearer garbage").StatusCode)
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, "Bearer "+customerToken).StatusCode)
	assert.Equal(t, http.StatusOK, doRequest(t, app, "Bearer "+adminToken).StatusCode)
}

func TestAuthMiddleware_VerifierRejects(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, _, err := tm.Encrypt("tech-1", domain.RoleTechnician)
	require.NoError(t, err)

	app := newTestApp(tm, verifierFunc(func(context.Context, domain.Actor) error {
		return apperrors.NewUnauthorized("account disabled")
	}))
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "Bearer "+token).StatusCode)

	app = newTestApp(tm, verifierFunc(func(_ context.Context, actor domain.Actor) error {
		if actor.ID != "tech-1" {
			return errors.New("unexpected actor")
		}
		return nil
	}))
	assert.Equal(t, http.StatusOK, doRequest(t, app, "Bearer "+token).StatusCode)
}
