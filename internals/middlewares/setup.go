package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"edumanager_backend/internals/configs"
	"edumanager_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global: recover paling luar.
func SetupMiddlewares(app *fiber.App, cfg configs.AppConfig) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID())
	if configs.IsDevelopment() {
		app.Use(logger.LoggerMiddleware())
	}
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(GlobalRateLimiter())
}
