package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"edumanager_backend/internals/configs"
	database "edumanager_backend/internals/databases"
	"edumanager_backend/internals/features/users/auth/blacklist"
	helper "edumanager_backend/internals/helpers"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Data    json.RawMessage     `json:"data"`
}

type student struct {
	RollNumber int                `json:"roll_number"`
	Name       string             `json:"name"`
	Course     string             `json:"course"`
	Marks      map[string]float64 `json:"marks"`
	Total      float64            `json:"total"`
	Percentage string             `json:"percentage"`
	Grade      string             `json:"grade"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("APP_ENV", "development")
	configs.JWTSecret = "test-access-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	SetupRoutes(app, db, blacklist.NewGormStore(db), configs.AppConfig{RollAllocAttempts: 5})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope, *http.Response) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	} else {
		env.Data = raw
	}
	return resp.StatusCode, env, resp
}

func registerAndLogin(t *testing.T, app *fiber.App, user, password string) string {
	t.Helper()
	status, env, _ := do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"user_name": user, "email": user + "@example.com", "password": password,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register %s: status %d (%s)", user, status, env.Message)
	}
	return login(t, app, user, password)
}

func login(t *testing.T, app *fiber.App, identifier, password string) string {
	t.Helper()
	status, env, _ := do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"identifier": identifier, "password": password,
	})
	if status != fiber.StatusOK {
		t.Fatalf("login %s: status %d (%s)", identifier, status, env.Message)
	}
	var data struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		t.Fatalf("login payload %s: %v", env.Data, err)
	}
	return data.AccessToken
}

func decodeStudent(t *testing.T, env envelope) student {
	t.Helper()
	var s student
	if err := json.Unmarshal(env.Data, &s); err != nil {
		t.Fatalf("decode student %s: %v", env.Data, err)
	}
	return s
}

func TestStudentLifecycle(t *testing.T) {
	app := newTestApp(t)
	alice := registerAndLogin(t, app, "alice", "secret123")
	bob := registerAndLogin(t, app, "bob", "secret456")

	t.Run("requires token", func(t *testing.T) {
		status, _, _ := do(t, app, http.MethodGet, "/api/students", "", nil)
		if status != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
	})

	status, env, _ := do(t, app, http.MethodPost, "/api/students", alice, map[string]any{
		"name": "Ayu", "course": "IPA", "marks": map[string]any{"Math": 80, "Eng": 60},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create: status %d (%s %v)", status, env.Message, env.Errors)
	}
	ayu := decodeStudent(t, env)
	if ayu.RollNumber != 1 || ayu.Percentage != "70.00" || ayu.Grade != "B" || ayu.Total != 140 {
		t.Fatalf("created = %+v", ayu)
	}

	t.Run("validation", func(t *testing.T) {
		status, env, _ := do(t, app, http.MethodPost, "/api/students", alice, map[string]any{
			"name": "", "course": "IPA", "marks": map[string]any{"Math": "eighty"},
		})
		if status != fiber.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", status)
		}
		if _, ok := env.Errors["name"]; !ok {
			t.Fatalf("errors = %v, want name", env.Errors)
		}
		if _, ok := env.Errors["marks.Math"]; !ok {
			t.Fatalf("errors = %v, want marks.Math", env.Errors)
		}
	})

	t.Run("bad roll param", func(t *testing.T) {
		status, _, _ := do(t, app, http.MethodGet, "/api/students/abc", alice, nil)
		if status != fiber.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
	})

	t.Run("other owner gets 404", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			status, _, _ := do(t, app, method, "/api/students/1", bob, nil)
			if status != fiber.StatusNotFound {
				t.Fatalf("%s: status = %d, want 404", method, status)
			}
		}
		status, _, _ := do(t, app, http.MethodPut, "/api/students/1", bob, map[string]any{"name": "x"})
		if status != fiber.StatusNotFound {
			t.Fatalf("PUT: status = %d, want 404", status)
		}
	})

	status, env, _ = do(t, app, http.MethodPost, "/api/students", alice, map[string]any{
		"name": "Budi", "course": "IPS", "marks": map[string]any{"Art": 95},
	})
	if status != fiber.StatusCreated || decodeStudent(t, env).RollNumber != 2 {
		t.Fatalf("second create: status %d data %s", status, env.Data)
	}

	t.Run("list sorted with includes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/students?sort_by=percentage&order=desc", nil)
		req.Header.Set("Authorization", "Bearer "+alice)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		var body struct {
			Data     []student `json:"data"`
			Includes struct {
				Subjects []string `json:"subjects"`
				Summary  struct {
					Count             int    `json:"count"`
					AveragePercentage string `json:"average_percentage"`
					TopPerformerName  string `json:"top_performer_name"`
				} `json:"summary"`
			} `json:"includes"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if len(body.Data) != 2 || body.Data[0].Name != "Budi" {
			t.Fatalf("data = %+v", body.Data)
		}
		if got := strings.Join(body.Includes.Subjects, ","); got != "Art,Eng,Math" {
			t.Fatalf("subjects = %s", got)
		}
		s := body.Includes.Summary
		if s.Count != 2 || s.AveragePercentage != "82.50" || s.TopPerformerName != "Budi" {
			t.Fatalf("summary = %+v", s)
		}
	})

	t.Run("bob sees empty roster", func(t *testing.T) {
		status, env, _ := do(t, app, http.MethodGet, "/api/students/summary", bob, nil)
		if status != fiber.StatusOK {
			t.Fatalf("status = %d", status)
		}
		var s struct {
			Count             int    `json:"count"`
			AveragePercentage string `json:"average_percentage"`
			TopPerformerName  string `json:"top_performer_name"`
		}
		_ = json.Unmarshal(env.Data, &s)
		if s.Count != 0 || s.AveragePercentage != "0.00" || s.TopPerformerName != "-" {
			t.Fatalf("summary = %+v", s)
		}
	})

	t.Run("csv export", func(t *testing.T) {
		status, env, resp := do(t, app, http.MethodGet, "/api/students/export.csv", alice, nil)
		if status != fiber.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "students-") || !strings.Contains(cd, ".csv") {
			t.Fatalf("content-disposition = %q", cd)
		}
		lines := strings.Split(strings.TrimSpace(string(env.Data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("csv lines = %d: %q", len(lines), env.Data)
		}
		if want := "Roll Number,Name,Course,Art,Eng,Math,Total,Percentage,Grade"; strings.TrimSpace(lines[0]) != want {
			t.Fatalf("header = %q, want %q", lines[0], want)
		}
		if want := "1,Ayu,IPA,0,60,80,140,70.00%,B"; strings.TrimSpace(lines[1]) != want {
			t.Fatalf("row = %q, want %q", lines[1], want)
		}
	})

	t.Run("update replaces marks", func(t *testing.T) {
		status, env, _ := do(t, app, http.MethodPut, "/api/students/1", alice, map[string]any{
			"marks": map[string]any{"Math": 100},
		})
		if status != fiber.StatusOK {
			t.Fatalf("status = %d (%v)", status, env.Errors)
		}
		s := decodeStudent(t, env)
		if s.Name != "Ayu" || s.Percentage != "100.00" || s.Grade != "A+" || len(s.Marks) != 1 {
			t.Fatalf("updated = %+v", s)
		}
	})

	t.Run("delete", func(t *testing.T) {
		status, _, _ := do(t, app, http.MethodDelete, "/api/students/2", alice, nil)
		if status != fiber.StatusOK {
			t.Fatalf("delete status = %d", status)
		}
		status, _, _ = do(t, app, http.MethodGet, "/api/students/2", alice, nil)
		if status != fiber.StatusNotFound {
			t.Fatalf("get after delete = %d, want 404", status)
		}
	})
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app, "carol", "secret123")

	t.Run("duplicate register", func(t *testing.T) {
		status, _, _ := do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
			"user_name": "carol", "password": "another123",
		})
		if status != fiber.StatusConflict {
			t.Fatalf("status = %d, want 409", status)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		status, _, _ := do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"identifier": "carol", "password": "nope12345",
		})
		if status != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
	})

	t.Run("me and profile", func(t *testing.T) {
		status, env, _ := do(t, app, http.MethodGet, "/api/auth/me", token, nil)
		if status != fiber.StatusOK || !strings.Contains(string(env.Data), `"carol"`) {
			t.Fatalf("me: %d %s", status, env.Data)
		}
		status, env, _ = do(t, app, http.MethodPut, "/api/auth/profile", token, map[string]string{"email": "c@example.com"})
		if status != fiber.StatusOK || !strings.Contains(string(env.Data), "c@example.com") {
			t.Fatalf("profile: %d %s", status, env.Data)
		}
	})

	t.Run("forgot and reset password", func(t *testing.T) {
		status, env, _ := do(t, app, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "c@example.com"})
		if status != fiber.StatusOK {
			t.Fatalf("forgot: %d", status)
		}
		var data struct {
			ResetToken string `json:"reset_token"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil || data.ResetToken == "" {
			t.Fatalf("forgot payload %s: %v", env.Data, err)
		}

		status, _, _ = do(t, app, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
			"token": data.ResetToken, "new_password": "brandnew1",
		})
		if status != fiber.StatusOK {
			t.Fatalf("reset: %d", status)
		}
		// token sekali pakai
		status, _, _ = do(t, app, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
			"token": data.ResetToken, "new_password": "brandnew2",
		})
		if status != fiber.StatusBadRequest {
			t.Fatalf("reuse reset token: %d, want 400", status)
		}
		token = login(t, app, "carol", "brandnew1")
	})

	t.Run("logout revokes access token", func(t *testing.T) {
		status, _, _ := do(t, app, http.MethodPost, "/api/auth/logout", token, nil)
		if status != fiber.StatusOK {
			t.Fatalf("logout: %d", status)
		}
		status, _, _ = do(t, app, http.MethodGet, "/api/auth/me", token, nil)
		if status != fiber.StatusUnauthorized {
			t.Fatalf("me after logout: %d, want 401", status)
		}
	})
}

func TestRefreshTokenRotation(t *testing.T) {
	app := newTestApp(t)
	if status, env, _ := do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"user_name": "dina", "password": "secret123",
	}); status != fiber.StatusCreated {
		t.Fatalf("register: %d %s", status, env.Message)
	}

	_, env, _ := do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"identifier": "dina", "password": "secret123",
	})
	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(env.Data, &tokens); err != nil || tokens.RefreshToken == "" {
		t.Fatalf("login payload %s: %v", env.Data, err)
	}

	t.Run("refresh token is not an access token", func(t *testing.T) {
		status, _, _ := do(t, app, http.MethodGet, "/api/auth/me", tokens.RefreshToken, nil)
		if status != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
	})

	status, env, _ := do(t, app, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{
		"refresh_token": tokens.RefreshToken,
	})
	if status != fiber.StatusOK {
		t.Fatalf("refresh: %d %s", status, env.Message)
	}

	status, _, _ = do(t, app, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{
		"refresh_token": tokens.RefreshToken,
	})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("reused refresh token: %d, want 401", status)
	}
}

func TestChangePassword(t *testing.T) {
	app := newTestApp(t)
	if status, env, _ := do(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"user_name": "eko", "password": "secret123",
	}); status != fiber.StatusCreated {
		t.Fatalf("register: %d %s", status, env.Message)
	}
	_, env, _ := do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"identifier": "eko", "password": "secret123",
	})
	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(env.Data, &tokens); err != nil || tokens.RefreshToken == "" {
		t.Fatalf("login payload %s: %v", env.Data, err)
	}

	t.Run("requires token", func(t *testing.T) {
		status, _, _ := do(t, app, http.MethodPost, "/api/auth/change-password", "", map[string]string{
			"current_password": "secret123", "new_password": "changed123",
		})
		if status != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
	})

	t.Run("wrong current password", func(t *testing.T) {
		status, _, _ := do(t, app, http.MethodPost, "/api/auth/change-password", tokens.AccessToken, map[string]string{
			"current_password": "wrong1234", "new_password": "changed123",
		})
		if status != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
	})

	t.Run("weak new password", func(t *testing.T) {
		status, env, _ := do(t, app, http.MethodPost, "/api/auth/change-password", tokens.AccessToken, map[string]string{
			"current_password": "secret123", "new_password": "short",
		})
		if status != fiber.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", status)
		}
		if _, ok := env.Errors["new_password"]; !ok {
			t.Fatalf("errors = %v, want new_password", env.Errors)
		}
	})

	status, env, _ := do(t, app, http.MethodPost, "/api/auth/change-password", tokens.AccessToken, map[string]string{
		"current_password": "secret123", "new_password": "changed123",
	})
	if status != fiber.StatusOK {
		t.Fatalf("change password: %d %s", status, env.Message)
	}

	t.Run("old refresh token revoked", func(t *testing.T) {
		status, _, _ := do(t, app, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{
			"refresh_token": tokens.RefreshToken,
		})
		if status != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
	})

	t.Run("login uses new password", func(t *testing.T) {
		status, _, _ := do(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"identifier": "eko", "password": "secret123",
		})
		if status != fiber.StatusUnauthorized {
			t.Fatalf("old password: %d, want 401", status)
		}
		login(t, app, "eko", "changed123")
	})
}
