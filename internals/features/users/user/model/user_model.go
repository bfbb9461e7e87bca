package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edumanager_backend/internals/constants"
)

const DefaultRole = constants.RoleAdmin

// UserModel merepresentasikan tabel users (akun admin pemilik roster).
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string    `gorm:"column:user_name;size:50;not null;uniqueIndex:uq_users_user_name" json:"user_name"`
	Email    *string   `gorm:"column:email;size:255;uniqueIndex:uq_users_email" json:"email,omitempty"`
	Password string    `gorm:"column:password;not null" json:"-"`
	Role     string    `gorm:"column:role;size:20;not null;default:'admin'" json:"role"`
	IsActive bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`

	// reset password satu kali pakai; hanya hash yang disimpan
	ResetTokenHash      *string    `gorm:"column:reset_token_hash;size:64;index" json:"-"`
	ResetTokenExpiresAt *time.Time `gorm:"column:reset_token_expires_at" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = DefaultRole
	}
	return nil
}

// EmailValue returns the email or "".
func (u *UserModel) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
