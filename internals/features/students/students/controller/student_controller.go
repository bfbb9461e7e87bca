package controller

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"edumanager_backend/internals/features/students/export"
	"edumanager_backend/internals/features/students/roster"
	"edumanager_backend/internals/features/students/students/dto"
	"edumanager_backend/internals/features/students/students/service"
	helper "edumanager_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
   ========================= */

type StudentController struct {
	Service *service.StudentService
}

func NewStudentController(svc *service.StudentService) *StudentController {
	return &StudentController{Service: svc}
}

/* =========================
   Helpers
   ========================= */

func parseRollParam(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Params("rollNumber"))
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "rollNumber must be a positive integer")
	}
	return n, nil
}

// rosterQuery: ?search=&sort_by=&order=asc|desc&subject=true
func rosterQuery(c *fiber.Ctx, p helper.Params) roster.Query {
	isSubject := c.QueryBool("subject", false)
	key := p.SortBy
	// subject names boleh dikirim apa adanya; nama kolom bawaan dikenali otomatis
	if key != "" && !isSubject && !roster.IsNamedKey(key) {
		isSubject = true
	}
	return roster.Query{
		Search:       c.Query("search"),
		SortKey:      key,
		Direction:    p.SortOrder,
		IsSubjectKey: isSubject,
	}
}

/* =========================
   Routes Handlers
   ========================= */

// GET /api/students
func (h *StudentController) List(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}

	p := helper.ParseFiber(c, "", "asc", helper.DefaultOpts)
	q := rosterQuery(c, p)

	view, err := h.Service.Roster(c.UserContext(), ownerID, q)
	if err != nil {
		return helper.WriteAppError(c, err)
	}

	start, end := p.Window(len(view.Rows))
	meta := helper.BuildMeta(int64(len(view.Rows)), p)

	includes := dto.RosterIncludes{Subjects: view.Subjects, Summary: view.Summary}
	if q.SortKey != "" {
		includes.Sort = &dto.SortInfo{Key: q.SortKey, Direction: q.Direction, IsSubjectKey: q.IsSubjectKey}
	}
	return helper.JsonList(c, "ok", dto.FromRows(view.Rows[start:end]), &meta, includes)
}

// GET /api/students/summary
func (h *StudentController) Summary(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}
	view, err := h.Service.Roster(c.UserContext(), ownerID, roster.Query{})
	if err != nil {
		return helper.WriteAppError(c, err)
	}
	return helper.JsonOK(c, "ok", view.Summary)
}

// GET /api/students/subjects
func (h *StudentController) Subjects(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}
	view, err := h.Service.Roster(c.UserContext(), ownerID, roster.Query{})
	if err != nil {
		return helper.WriteAppError(c, err)
	}
	return helper.JsonOK(c, "ok", view.Subjects)
}

// GET /api/students/export.csv
func (h *StudentController) ExportCSV(c *fiber.Ctx) error {
	return h.export(c, "csv")
}

// GET /api/students/export.xlsx
func (h *StudentController) ExportXLSX(c *fiber.Ctx) error {
	return h.export(c, "xlsx")
}

func (h *StudentController) export(c *fiber.Ctx, format string) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}

	p := helper.ParseFiber(c, "", "asc", helper.ExportOpts)
	view, err := h.Service.Roster(c.UserContext(), ownerID, rosterQuery(c, p))
	if err != nil {
		return helper.WriteAppError(c, err)
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "xlsx":
		err = export.WriteXLSX(&buf, view.Rows, view.Subjects)
		contentType = export.ContentTypeXLSX
	default:
		err = export.WriteCSV(&buf, view.Rows, view.Subjects)
		contentType = export.ContentTypeCSV
	}
	if err != nil {
		return helper.WriteAppError(c, err)
	}

	name := "students"
	if slug := helper.GenerateSlug(c.Query("filename")); slug != "" {
		name = slug
	}
	filename := fmt.Sprintf("%s-%s.%s", name, time.Now().Format("20060102"), format)

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// POST /api/students
func (h *StudentController) Create(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}

	var req dto.StudentCreateReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}

	m, err := h.Service.Create(c.UserContext(), ownerID, req)
	if err != nil {
		return helper.WriteAppError(c, err)
	}
	return helper.JsonCreated(c, "student created", dto.FromModel(m))
}

// GET /api/students/:rollNumber
func (h *StudentController) GetByRoll(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}
	roll, err := parseRollParam(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}

	m, err := h.Service.Get(c.UserContext(), ownerID, roll)
	if err != nil {
		return helper.WriteAppError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// PUT /api/students/:rollNumber
func (h *StudentController) Update(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}
	roll, err := parseRollParam(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}

	var req dto.StudentUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}

	m, err := h.Service.Update(c.UserContext(), ownerID, roll, req)
	if err != nil {
		return helper.WriteAppError(c, err)
	}
	return helper.JsonUpdated(c, "student updated", dto.FromModel(m))
}

// DELETE /api/students/:rollNumber
func (h *StudentController) Delete(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}
	roll, err := parseRollParam(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}

	if err := h.Service.Delete(c.UserContext(), ownerID, roll); err != nil {
		return helper.WriteAppError(c, err)
	}
	return helper.JsonDeleted(c, "student deleted", fiber.Map{"roll_number": roll})
}
