package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumanager_backend/internals/features/users/auth/blacklist"
	authRoute "edumanager_backend/internals/features/users/auth/route"
)

func AuthRoutes(api fiber.Router, db *gorm.DB, bl blacklist.Store, protect fiber.Handler) {
	authRoute.AuthRoutes(api, db, bl, protect)
}
