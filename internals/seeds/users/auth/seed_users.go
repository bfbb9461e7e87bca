package user

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authHelper "edumanager_backend/internals/features/users/auth/helper"
	authRepo "edumanager_backend/internals/features/users/auth/repository"
	"edumanager_backend/internals/features/users/user/model"
)

type UserSeed struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SeedUsersFromJSON membuat akun admin yang belum ada (cek by user_name).
func SeedUsersFromJSON(db *gorm.DB, filePath string, bcryptCost int) error {
	log.Println("[SEED] membaca file user:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}

	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	ctx := context.Background()
	for _, data := range inputs {
		data.UserName = strings.TrimSpace(data.UserName)
		if taken, err := authRepo.IsUsernameTaken(ctx, db, data.UserName, uuid.Nil); err != nil {
			return err
		} else if taken {
			log.Printf("[SEED] user '%s' sudah ada, dilewati.", data.UserName)
			continue
		}

		hashedPassword, err := authHelper.HashPassword(data.Password, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password %s: %w", data.UserName, err)
		}

		newUser := model.UserModel{
			UserName: data.UserName,
			Password: hashedPassword,
			Role:     model.DefaultRole,
			IsActive: true,
		}
		if email := strings.ToLower(strings.TrimSpace(data.Email)); email != "" {
			newUser.Email = &email
		}

		if err := authRepo.CreateUser(ctx, db, &newUser); err != nil {
			return fmt.Errorf("insert user %s: %w", data.UserName, err)
		}
		log.Printf("[SEED] berhasil insert user '%s'", data.UserName)
	}
	return nil
}
