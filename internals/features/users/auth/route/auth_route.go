// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumanager_backend/internals/features/users/auth/blacklist"
	controller "edumanager_backend/internals/features/users/auth/controller"
	rateLimiter "edumanager_backend/internals/middlewares"
)

// AuthRoutes: protect adalah AuthJWT yang sudah dikonfigurasi (dipasang hanya di grup protected).
func AuthRoutes(r fiber.Router, db *gorm.DB, bl blacklist.Store, protect ...fiber.Handler) {
	authController := controller.NewAuthController(db, bl)

	// ==========================
	// PUBLIC
	// Base: /api/auth
	// ==========================
	baseAuth := r.Group("/auth")

	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/refresh-token", authController.RefreshToken)
	baseAuth.Post("/forgot-password", rateLimiter.ForgotPasswordRateLimiter(), authController.ForgotPassword)
	baseAuth.Post("/reset-password", authController.ResetPassword)

	// idempotent: tetap bisa clear cookies walau token sudah expired
	baseAuth.Post("/logout", authController.Logout)

	// ==========================
	// PROTECTED
	// ==========================
	protectedAuth := r.Group("/auth", protect...)

	protectedAuth.Post("/change-password", authController.ChangePassword)
	protectedAuth.Get("/me", authController.Me)
	protectedAuth.Put("/profile", authController.UpdateProfile)
}
