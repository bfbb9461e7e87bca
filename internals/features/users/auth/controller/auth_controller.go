package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"edumanager_backend/internals/features/users/auth/blacklist"
	"edumanager_backend/internals/features/users/auth/service"
)

type AuthController struct {
	DB        *gorm.DB
	Blacklist blacklist.Store
}

func NewAuthController(db *gorm.DB, bl blacklist.Store) *AuthController {
	return &AuthController{DB: db, Blacklist: bl}
}

// ========================== AUTH ==========================

func (ac *AuthController) Register(c *fiber.Ctx) error {
	return service.Register(ac.DB, c)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.DB, c)
}

func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	return service.RefreshToken(ac.DB, c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.DB, ac.Blacklist, c)
}

// ========================== PASSWORD ==========================

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	return service.ChangePassword(ac.DB, c)
}

func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	return service.ForgotPassword(ac.DB, c)
}

func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	return service.ResetPassword(ac.DB, c)
}

// ========================== PROFILE ==========================

func (ac *AuthController) Me(c *fiber.Ctx) error {
	return service.Me(ac.DB, c)
}

func (ac *AuthController) UpdateProfile(c *fiber.Ctx) error {
	return service.UpdateProfile(ac.DB, c)
}
