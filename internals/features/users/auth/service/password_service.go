package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumanager_backend/internals/configs"
	authHelper "edumanager_backend/internals/features/users/auth/helper"
	authRepo "edumanager_backend/internals/features/users/auth/repository"
	helper "edumanager_backend/internals/helpers"
)

const resetTokenTTL = time.Hour

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ========================== CHANGE PASSWORD ==========================
func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid input format")
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.WriteAppError(c, err)
	}

	if err := authHelper.ValidatePasswordStrength(input.NewPassword); err != nil {
		return helper.JsonValidationError(c, map[string][]string{"new_password": {err.Error()}})
	}

	user, err := ActiveUser(db, c, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "user not found")
		}
		return helper.WriteAppError(c, err)
	}

	// Cek password lama
	if err := authHelper.CheckPasswordHash(user.Password, input.CurrentPassword); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "current password incorrect")
	}

	newHash, err := authHelper.HashPassword(input.NewPassword, bcryptCost())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to hash new password")
	}

	ctx := c.UserContext()
	if err := authRepo.UpdateUserPassword(ctx, db, userID, newHash); err != nil {
		return helper.WriteAppError(c, err)
	}
	// sesi lain wajib login ulang
	if err := authRepo.RevokeAllRefreshTokens(ctx, db, userID, nowUTC()); err != nil {
		log.Printf("[WARN] change-password: revoke refresh tokens failed: %v", err)
	}

	return helper.JsonUpdated(c, "password changed successfully", nil)
}

// ========================== FORGOT PASSWORD ==========================
// Jawaban selalu sama, email terdaftar atau tidak.
// Token mentah hanya dikembalikan saat APP_ENV=development (belum ada mailer).
func ForgotPassword(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request format")
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := helper.ValidateStruct(&input); err != nil {
		return helper.WriteAppError(c, err)
	}

	ctx := c.UserContext()
	data := fiber.Map{}

	user, err := authRepo.FindUserByEmail(ctx, db, input.Email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("[INFO] forgot-password: email tidak terdaftar")
	case err != nil:
		return helper.WriteAppError(c, err)
	case user.IsActive:
		token, err := newResetToken()
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to generate reset token")
		}
		expiresAt := nowUTC().Add(resetTokenTTL)
		if err := authRepo.SetResetToken(ctx, db, user.ID, hashResetToken(token), expiresAt); err != nil {
			return helper.WriteAppError(c, err)
		}
		if configs.IsDevelopment() {
			data["reset_token"] = token
			data["expires_at"] = expiresAt
		}
	}

	return helper.JsonOK(c, "if the email is registered, a reset token has been issued", data)
}

// ========================== RESET PASSWORD ==========================
func ResetPassword(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request format")
	}
	input.Token = strings.TrimSpace(input.Token)

	ve := helper.NewValidationError()
	if input.Token == "" {
		ve.Add("token", "is required")
	}
	if err := authHelper.ValidatePasswordStrength(input.NewPassword); err != nil {
		ve.Add("new_password", err.Error())
	}
	if ve.HasErrors() {
		return helper.JsonValidationError(c, ve.Fields)
	}

	ctx := c.UserContext()
	user, err := authRepo.FindUserByResetTokenHash(ctx, db, hashResetToken(input.Token), nowUTC())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusBadRequest, "reset token invalid or expired")
	}
	if err != nil {
		return helper.WriteAppError(c, err)
	}

	hashed, err := authHelper.HashPassword(input.NewPassword, bcryptCost())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to hash password")
	}

	// UpdateUserPassword juga menghapus reset token (sekali pakai)
	if err := authRepo.UpdateUserPassword(ctx, db, user.ID, hashed); err != nil {
		return helper.WriteAppError(c, err)
	}
	if err := authRepo.RevokeAllRefreshTokens(ctx, db, user.ID, nowUTC()); err != nil {
		log.Printf("[WARN] reset-password: revoke refresh tokens failed: %v", err)
	}

	return helper.JsonUpdated(c, "password reset successfully", nil)
}
