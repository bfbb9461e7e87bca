package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentRoute "edumanager_backend/internals/features/students/students/route"
)

// StudentRoutes: admin sudah lolos AuthJWT + OnlyRoles(admin).
func StudentRoutes(admin fiber.Router, db *gorm.DB, maxAttempts int) {
	studentRoute.StudentRoutes(admin, db, maxAttempts)
}
