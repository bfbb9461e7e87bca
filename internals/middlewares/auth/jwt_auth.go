package auth

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "edumanager_backend/internals/helpers"
)

const LocRole = "role"

type AuthJWTOpts struct {
	Secret              string
	BlacklistChecker    func(ctx context.Context, rawToken string) (bool, error) // return true if blacklisted
	AllowCookieFallback bool                                // pakai cookie access_token jika tidak ada Bearer
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := helper.BearerToken(c)
		if raw == "" && o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies(helper.CookieAccessToken))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		// 2) Cek blacklist (opsional). Store error = tolak, token yang sudah logout tidak boleh lolos.
		if o.BlacklistChecker != nil {
			black, err := o.BlacklistChecker(c.UserContext(), raw)
			if err != nil {
				log.Printf("[WARN] blacklist check failed: %v", err)
				return fiber.NewError(fiber.StatusServiceUnavailable, "token check unavailable, try again")
			}
			if black {
				return fiber.NewError(fiber.StatusUnauthorized, "token revoked")
			}
		}

		// 3) Parse + verifikasi algoritma
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token claims")
		}
		// refresh token tidak boleh dipakai sebagai access token
		if typ := strClaim(claims, "typ"); typ != "" && typ != "access" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token type")
		}

		// user_id: ambil id/sub dalam urutan preferensi
		uid := strClaim(claims, "id")
		if uid == "" {
			uid = strClaim(claims, "sub")
		}
		if _, err := uuid.Parse(uid); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid user id in token")
		}

		c.Locals("jwt_claims", claims)
		c.Locals(helper.LocUserID, uid)
		c.Locals(LocRole, strClaim(claims, "role"))
		helper.SetRawAccessToken(c, raw)

		return c.Next()
	}
}

// util kecil untuk ambil string claim
func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
