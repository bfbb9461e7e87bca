// internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"edumanager_backend/internals/configs"
	authModel "edumanager_backend/internals/features/users/auth/model"
	authRepo "edumanager_backend/internals/features/users/auth/repository"
	userModel "edumanager_backend/internals/features/users/user/model"
	helpers "edumanager_backend/internals/helpers"
)

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

/* ==========================
   Small Helpers
========================== */

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	}
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET is not set")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv("JWT_REFRESH_SECRET"))
	}
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_REFRESH_SECRET is not set")
	}
	return secret, nil
}

func accessTTL() time.Duration  { return configs.GetDurationEnv("ACCESS_TOKEN_TTL", accessTTLDefault) }
func refreshTTL() time.Duration { return configs.GetDurationEnv("REFRESH_TOKEN_TTL", refreshTTLDefault) }

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func computeRefreshHash(token, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return hex.EncodeToString(m.Sum(nil))
}

/* ==========================
   Claims
========================== */

func buildAccessClaims(user userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":       TokenTypeAccess,
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"jti":       uuid.NewString(),
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTL()).Unix(),
	}
}

func buildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ": TokenTypeRefresh,
		"sub": userID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTL()).Unix(),
	}
}

type issuedTokens struct {
	Access  string
	Refresh string
}

// issueTokens signs an access/refresh pair, stores the refresh hash and sets cookies.
func issueTokens(c *fiber.Ctx, db *gorm.DB, user userModel.UserModel) (*issuedTokens, error) {
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return nil, err
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return nil, err
	}
	now := nowUTC()

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(user, now)).SignedString([]byte(jwtSecret))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to sign access token")
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(user.ID, now)).SignedString([]byte(refreshSecret))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to sign refresh token")
	}

	if err := authRepo.CreateRefreshToken(c.UserContext(), db, &authModel.RefreshTokenModel{
		UserID:    user.ID,
		TokenHash: computeRefreshHash(refreshToken, refreshSecret),
		ExpiresAt: now.Add(refreshTTL()),
		UserAgent: strptr(truncate(c.Get(fiber.HeaderUserAgent), 255)),
		IP:        strptr(c.IP()),
	}); err != nil {
		return nil, err
	}

	setAuthCookies(c, accessToken, refreshToken, now)
	return &issuedTokens{Access: accessToken, Refresh: refreshToken}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func cookieSecure() bool {
	return configs.GetBoolEnv("COOKIE_SECURE", true)
}

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     helpers.CookieAccessToken,
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   cookieSecure(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  now.Add(accessTTL()),
	})
	c.Cookie(&fiber.Cookie{
		Name:     helpers.CookieRefreshToken,
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   cookieSecure(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/api/auth",
		Expires:  now.Add(refreshTTL()),
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := nowUTC().Add(-time.Hour)
	for name, path := range map[string]string{
		helpers.CookieAccessToken:  "/",
		helpers.CookieRefreshToken: "/api/auth",
	} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Secure:   cookieSecure(),
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     path,
			Expires:  expired,
			MaxAge:   -1,
		})
	}
}

// remainingTTL: sisa umur token dari klaim exp (tanpa verifikasi ulang signature).
func remainingTTL(rawToken string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return accessTTL()
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return accessTTL()
	}
	ttl := time.Until(time.Unix(int64(exp), 0))
	if ttl < 0 {
		return 0
	}
	return ttl
}

/* ==========================
   REFRESH TOKEN
========================== */

// POST /api/auth/refresh-token
func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	raw := helpers.GetRefreshTokenFromCookie(c)
	if raw == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.BodyParser(&body)
		raw = strings.TrimSpace(body.RefreshToken)
	}
	if raw == "" {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "refresh token missing")
	}

	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helpers.WriteAppError(c, err)
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(refreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "refresh token invalid")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	if typ, _ := claims["typ"].(string); typ != TokenTypeRefresh {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "refresh token invalid")
	}

	ctx := c.UserContext()
	rt, err := authRepo.FindActiveRefreshToken(ctx, db, computeRefreshHash(raw, refreshSecret), nowUTC())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "refresh token unknown or revoked")
	}
	if err != nil {
		return helpers.WriteAppError(c, err)
	}

	user, err := authRepo.FindUserByID(ctx, db, rt.UserID)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "user not found")
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "account is disabled")
	}

	// ROTATE: token lama tidak bisa dipakai lagi
	if err := authRepo.RevokeRefreshToken(ctx, db, rt.ID, nowUTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.JsonError(c, fiber.StatusUnauthorized, "refresh token already used")
		}
		log.Printf("[WARN] refresh: revoke old token failed: %v", err)
	}

	issued, err := issueTokens(c, db, *user)
	if err != nil {
		return helpers.WriteAppError(c, err)
	}
	return helpers.JsonOK(c, "token refreshed", fiber.Map{
		"access_token":  issued.Access,
		"refresh_token": issued.Refresh,
	})
}
