// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumanager_backend/internals/configs"
	"edumanager_backend/internals/constants"
	"edumanager_backend/internals/features/users/auth/blacklist"
	authMiddleware "edumanager_backend/internals/middlewares/auth"
	routeDetails "edumanager_backend/internals/route/details"
)

var startTime = time.Now()

// SetupRoutes: bl boleh nil (tanpa blacklist check).
func SetupRoutes(app *fiber.App, db *gorm.DB, bl blacklist.Store, cfg configs.AppConfig) {
	startTime = time.Now()

	BaseRoutes(app, db)

	opts := authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}
	if bl != nil {
		opts.BlacklistChecker = blacklist.Checker(bl)
	}
	protect := authMiddleware.AuthJWT(opts)

	api := app.Group("/api")

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(api, db, bl, protect)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := api.Group("",
		protect,
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("student records"), constants.AdminOnly...),
	)

	log.Println("[INFO] Mounting Student routes...")
	routeDetails.StudentRoutes(admin, db, cfg.RollAllocAttempts)
}
