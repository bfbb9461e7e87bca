package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	uModel "edumanager_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// RegisterRequest: POST /api/auth/register
type RegisterRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *RegisterRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// ToModel: password harus sudah di-hash oleh caller.
func (r *RegisterRequest) ToModel(passwordHash string) *uModel.UserModel {
	m := &uModel.UserModel{
		UserName: r.UserName,
		Password: passwordHash,
		Role:     uModel.DefaultRole,
		IsActive: true,
	}
	if r.Email != "" {
		email := r.Email
		m.Email = &email
	}
	return m
}

// UpdateProfileRequest: PUT /api/auth/profile
type UpdateProfileRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
}

func (r *UpdateProfileRequest) Normalize() {
	if r.UserName != nil {
		s := strings.TrimSpace(*r.UserName)
		r.UserName = &s
	}
	if r.Email != nil {
		s := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &s
	}
}

// Apply: email "" berarti hapus email.
func (r *UpdateProfileRequest) Apply(m *uModel.UserModel) {
	if r.UserName != nil && *r.UserName != "" {
		m.UserName = *r.UserName
	}
	if r.Email != nil {
		if *r.Email == "" {
			m.Email = nil
		} else {
			email := *r.Email
			m.Email = &email
		}
	}
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(m *uModel.UserModel) UserResponse {
	return UserResponse{
		ID:        m.ID,
		UserName:  m.UserName,
		Email:     m.EmailValue(),
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
