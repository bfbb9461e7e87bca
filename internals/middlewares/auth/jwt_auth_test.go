package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "edumanager_backend/internals/helpers"
)

const testSecret = "test-access-secret"

func signAccess(t *testing.T, typ string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"typ":  typ,
		"id":   uuid.NewString(),
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func newProtectedApp(checker func(ctx context.Context, raw string) (bool, error)) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	// request context dengan deadline, seperti RequestID
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	app.Get("/me", AuthJWT(AuthJWTOpts{Secret: testSecret, BlacklistChecker: checker}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func status(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp.StatusCode
}

func TestAuthJWTBlacklist(t *testing.T) {
	token := signAccess(t, "access")

	tests := []struct {
		name    string
		checker func(ctx context.Context, raw string) (bool, error)
		want    int
	}{
		{"not revoked", func(context.Context, string) (bool, error) { return false, nil }, fiber.StatusOK},
		{"revoked", func(context.Context, string) (bool, error) { return true, nil }, fiber.StatusUnauthorized},
		{"store error rejects", func(context.Context, string) (bool, error) {
			return false, errors.New("redis: connection refused")
		}, fiber.StatusServiceUnavailable},
		{"request deadline reaches store", func(ctx context.Context, raw string) (bool, error) {
			if _, ok := ctx.Deadline(); !ok {
				return false, errors.New("no deadline")
			}
			if raw != token {
				return false, errors.New("unexpected token")
			}
			return false, nil
		}, fiber.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := status(t, newProtectedApp(tc.checker), token); got != tc.want {
				t.Fatalf("status = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAuthJWTRejects(t *testing.T) {
	app := newProtectedApp(nil)
	if got := status(t, app, ""); got != fiber.StatusUnauthorized {
		t.Fatalf("missing token: %d", got)
	}
	if got := status(t, app, signAccess(t, "refresh")); got != fiber.StatusUnauthorized {
		t.Fatalf("refresh token: %d", got)
	}
	if got := status(t, app, "not-a-jwt"); got != fiber.StatusUnauthorized {
		t.Fatalf("garbage token: %d", got)
	}
}
