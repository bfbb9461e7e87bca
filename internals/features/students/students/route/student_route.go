package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumanager_backend/internals/features/students/students/controller"
	"edumanager_backend/internals/features/students/students/repository"
	"edumanager_backend/internals/features/students/students/service"
)

// StudentRoutes mounts the roster endpoints on an authenticated router (/api).
func StudentRoutes(r fiber.Router, db *gorm.DB, maxAttempts int) {
	svc := service.NewStudentService(repository.NewStudentRepository(db), maxAttempts)
	ctl := controller.NewStudentController(svc)

	g := r.Group("/students")
	g.Get("/", ctl.List)
	g.Get("/summary", ctl.Summary)
	g.Get("/subjects", ctl.Subjects)
	g.Get("/export.csv", ctl.ExportCSV)
	g.Get("/export.xlsx", ctl.ExportXLSX)
	g.Post("/", ctl.Create)
	g.Get("/:rollNumber", ctl.GetByRoll)
	g.Put("/:rollNumber", ctl.Update)
	g.Delete("/:rollNumber", ctl.Delete)
}
