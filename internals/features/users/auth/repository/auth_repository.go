// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "edumanager_backend/internals/features/users/auth/model"
	userModel "edumanager_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

// FindUserByEmailOrUsername: identifier bisa username atau email.
func FindUserByEmailOrUsername(ctx context.Context, db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).
		Where("user_name = ? OR email = ?", identifier, identifier).
		Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByResetTokenHash hanya mengembalikan token yang belum kedaluwarsa.
func FindUserByResetTokenHash(ctx context.Context, db *gorm.DB, hash string, now time.Time) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).
		Where("reset_token_hash = ? AND reset_token_expires_at > ?", hash, now).
		Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, user *userModel.UserModel) error {
	return db.WithContext(ctx).Create(user).Error
}

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, newHash string) error {
	return db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password":               newHash,
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
		}).Error
}

func SetResetToken(ctx context.Context, db *gorm.DB, userID uuid.UUID, hash string, expiresAt time.Time) error {
	return db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_token_hash":       hash,
			"reset_token_expires_at": expiresAt,
		}).Error
}

func UpdateProfile(ctx context.Context, db *gorm.DB, user *userModel.UserModel) error {
	return db.WithContext(ctx).
		Model(user).
		Select("user_name", "email", "updated_at").
		Updates(user).Error
}

// IsUsernameTaken: cek apakah username sudah dipakai user lain
func IsUsernameTaken(ctx context.Context, db *gorm.DB, username string, exceptID uuid.UUID) (bool, error) {
	if username == "" {
		return false, errors.New("username cannot be empty")
	}
	var n int64
	err := db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("user_name = ? AND id <> ?", username, exceptID).
		Count(&n).Error
	return n > 0, err
}

func IsEmailTaken(ctx context.Context, db *gorm.DB, email string, exceptID uuid.UUID) (bool, error) {
	if email == "" {
		return false, nil
	}
	var n int64
	err := db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&n).Error
	return n > 0, err
}

/* ====================== REFRESH TOKEN ====================== */

func CreateRefreshToken(ctx context.Context, db *gorm.DB, token *authModel.RefreshTokenModel) error {
	return db.WithContext(ctx).Create(token).Error
}

// FindActiveRefreshToken: belum di-revoke dan belum expired
func FindActiveRefreshToken(ctx context.Context, db *gorm.DB, hash string, now time.Time) (*authModel.RefreshTokenModel, error) {
	var rt authModel.RefreshTokenModel
	if err := db.WithContext(ctx).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hash, now).
		Take(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func RevokeRefreshToken(ctx context.Context, db *gorm.DB, id uuid.UUID, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&authModel.RefreshTokenModel{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func DeleteRefreshTokenByHash(ctx context.Context, db *gorm.DB, hash string) error {
	return db.WithContext(ctx).
		Where("token_hash = ?", hash).
		Delete(&authModel.RefreshTokenModel{}).Error
}

// RevokeAllRefreshTokens dipakai setelah ganti/reset password.
func RevokeAllRefreshTokens(ctx context.Context, db *gorm.DB, userID uuid.UUID, now time.Time) error {
	return db.WithContext(ctx).
		Model(&authModel.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

/* ====================== CLEANUP ====================== */

func CleanupRefreshTokens(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ? OR revoked_at IS NOT NULL", now).
		Delete(&authModel.RefreshTokenModel{})
	return res.RowsAffected, res.Error
}

func CleanupExpiredResetTokens(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("reset_token_expires_at IS NOT NULL AND reset_token_expires_at <= ?", now).
		Updates(map[string]any{
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
		})
	return res.RowsAffected, res.Error
}
