package seeds

import (
	"log"
	"path/filepath"

	"gorm.io/gorm"

	students "edumanager_backend/internals/seeds/students"
	users "edumanager_backend/internals/seeds/users/auth"
)

type Options struct {
	Dir         string // root folder seeds, default "internals/seeds"
	BcryptCost  int
	MaxAttempts int
}

func RunAllSeeds(db *gorm.DB, opt Options) error {
	if opt.Dir == "" {
		opt.Dir = "internals/seeds"
	}

	//* User
	if err := users.SeedUsersFromJSON(db, filepath.Join(opt.Dir, "users/auth/data_users.json"), opt.BcryptCost); err != nil {
		return err
	}

	//* Students
	if err := students.SeedStudentsFromJSON(db, filepath.Join(opt.Dir, "students/data_students.json"), opt.MaxAttempts); err != nil {
		return err
	}

	log.Println("[SEED] selesai")
	return nil
}
