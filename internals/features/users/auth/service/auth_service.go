// internals/features/users/auth/service/auth_service.go
package service

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"edumanager_backend/internals/configs"
	"edumanager_backend/internals/features/users/auth/blacklist"
	authHelper "edumanager_backend/internals/features/users/auth/helper"
	authRepo "edumanager_backend/internals/features/users/auth/repository"
	userDTO "edumanager_backend/internals/features/users/user/dto"
	userModel "edumanager_backend/internals/features/users/user/model"
	helpers "edumanager_backend/internals/helpers"
)

func bcryptCost() int { return configs.GetIntEnv("BCRYPT_COST", bcrypt.DefaultCost) }

/* ==========================
   REGISTER
========================== */

// POST /api/auth/register
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var req userDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()

	ve := helpers.NewValidationError()
	if err := helpers.ValidateStruct(&req); err != nil {
		var fields *helpers.ValidationError
		if !errors.As(err, &fields) {
			return helpers.WriteAppError(c, err)
		}
		ve.Merge(fields)
	}
	if _, done := ve.Fields["password"]; !done {
		if err := authHelper.ValidatePasswordStrength(req.Password); err != nil {
			ve.Add("password", err.Error())
		}
	}
	if ve.HasErrors() {
		return helpers.JsonValidationError(c, ve.Fields)
	}

	ctx := c.UserContext()
	if taken, err := authRepo.IsUsernameTaken(ctx, db, req.UserName, uuid.Nil); err != nil {
		return helpers.WriteAppError(c, err)
	} else if taken {
		return helpers.JsonError(c, fiber.StatusConflict, "user_name already registered")
	}
	if taken, err := authRepo.IsEmailTaken(ctx, db, req.Email, uuid.Nil); err != nil {
		return helpers.WriteAppError(c, err)
	} else if taken {
		return helpers.JsonError(c, fiber.StatusConflict, "email already registered")
	}

	hash, err := authHelper.HashPassword(req.Password, bcryptCost())
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "password hashing failed")
	}

	user := req.ToModel(hash)
	if err := authRepo.CreateUser(ctx, db, user); err != nil {
		// balapan dua register dengan nama sama: unique index yang menang
		if helpers.IsUniqueViolation(err) {
			return helpers.JsonError(c, fiber.StatusConflict, "user_name or email already registered")
		}
		return helpers.WriteAppError(c, err)
	}

	log.Printf("[INFO] register: user=%s", user.ID)
	return helpers.JsonCreated(c, "registration successful", userDTO.FromModel(user))
}

/* ==========================
   LOGIN
========================== */

// POST /api/auth/login
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "invalid input format")
	}
	input.Identifier = strings.TrimSpace(input.Identifier)

	ve := helpers.NewValidationError()
	if input.Identifier == "" {
		ve.Add("identifier", "is required")
	}
	if input.Password == "" {
		ve.Add("password", "is required")
	}
	if ve.HasErrors() {
		return helpers.JsonValidationError(c, ve.Fields)
	}

	user, err := authRepo.FindUserByEmailOrUsername(c.UserContext(), db, input.Identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ERROR] login lookup: %v", err)
		}
		return helpers.JsonError(c, fiber.StatusUnauthorized, "invalid identifier or password")
	}
	if err := authHelper.CheckPasswordHash(user.Password, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "invalid identifier or password")
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "account is disabled")
	}

	issued, err := issueTokens(c, db, *user)
	if err != nil {
		return helpers.WriteAppError(c, err)
	}

	return helpers.JsonOK(c, "login successful", fiber.Map{
		"access_token":  issued.Access,
		"refresh_token": issued.Refresh,
		"user":          userDTO.FromModel(user),
	})
}

/* ==========================
   LOGOUT
========================== */

// POST /api/auth/logout: idempotent, selalu clear cookies.
func Logout(db *gorm.DB, bl blacklist.Store, c *fiber.Ctx) error {
	ctx := c.UserContext()

	if accessToken := helpers.GetRawAccessToken(c); accessToken != "" && bl != nil {
		if ttl := remainingTTL(accessToken); ttl > 0 {
			if err := bl.Add(ctx, accessToken, ttl); err != nil {
				log.Printf("[WARN] logout: blacklist token failed: %v", err)
			}
		}
	} else if accessToken == "" {
		log.Println("[INFO] logout tanpa access token; lanjut clear cookies")
	}

	if rt := helpers.GetRefreshTokenFromCookie(c); rt != "" {
		if secret, err := getRefreshSecret(); err == nil {
			if err := authRepo.DeleteRefreshTokenByHash(ctx, db, computeRefreshHash(rt, secret)); err != nil {
				log.Printf("[WARN] logout: delete refresh token failed: %v", err)
			}
		}
	}

	clearAuthCookies(c)
	return helpers.JsonOK(c, "logout successful", nil)
}

/* ==========================
   ME / PROFILE
========================== */

// GET /api/auth/me
func Me(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helpers.GetUserIDFromToken(c)
	if err != nil {
		return helpers.WriteAppError(c, err)
	}
	user, err := authRepo.FindUserByID(c.UserContext(), db, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helpers.JsonError(c, fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return helpers.WriteAppError(c, err)
	}
	return helpers.JsonOK(c, "ok", userDTO.FromModel(user))
}

// PUT /api/auth/profile
func UpdateProfile(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helpers.GetUserIDFromToken(c)
	if err != nil {
		return helpers.WriteAppError(c, err)
	}

	var req userDTO.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if req.UserName != nil && *req.UserName == "" {
		return helpers.JsonValidationError(c, map[string][]string{"user_name": {"must not be empty"}})
	}
	if err := helpers.ValidateStruct(&req); err != nil {
		return helpers.WriteAppError(c, err)
	}

	ctx := c.UserContext()
	user, err := authRepo.FindUserByID(ctx, db, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helpers.JsonError(c, fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return helpers.WriteAppError(c, err)
	}

	if req.UserName != nil {
		if taken, err := authRepo.IsUsernameTaken(ctx, db, *req.UserName, user.ID); err != nil {
			return helpers.WriteAppError(c, err)
		} else if taken {
			return helpers.JsonError(c, fiber.StatusConflict, "user_name already registered")
		}
	}
	if req.Email != nil {
		if taken, err := authRepo.IsEmailTaken(ctx, db, *req.Email, user.ID); err != nil {
			return helpers.WriteAppError(c, err)
		} else if taken {
			return helpers.JsonError(c, fiber.StatusConflict, "email already registered")
		}
	}

	req.Apply(user)
	if err := authRepo.UpdateProfile(ctx, db, user); err != nil {
		if helpers.IsUniqueViolation(err) {
			return helpers.JsonError(c, fiber.StatusConflict, "user_name or email already registered")
		}
		return helpers.WriteAppError(c, err)
	}
	return helpers.JsonUpdated(c, "profile updated", userDTO.FromModel(user))
}

// ActiveUser: ambil user dan tolak akun nonaktif.
func ActiveUser(db *gorm.DB, c *fiber.Ctx, userID uuid.UUID) (*userModel.UserModel, error) {
	user, err := authRepo.FindUserByID(c.UserContext(), db, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, "account is disabled")
	}
	return user, nil
}
