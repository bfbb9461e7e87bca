package students

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authRepo "edumanager_backend/internals/features/users/auth/repository"
	"edumanager_backend/internals/features/students/students/dto"
	"edumanager_backend/internals/features/students/students/repository"
	"edumanager_backend/internals/features/students/students/service"
)

type StudentSeed struct {
	Owner  string         `json:"owner"` // user_name admin pemilik roster
	Name   string         `json:"name"`
	Course string         `json:"course"`
	Marks  map[string]any `json:"marks"`
}

// SeedStudentsFromJSON menambah siswa lewat service (roll number dialokasikan normal).
// Owner yang sudah punya siswa dilewati supaya seed aman dijalankan ulang.
func SeedStudentsFromJSON(db *gorm.DB, filePath string, maxAttempts int) error {
	log.Println("[SEED] membaca file siswa:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}

	var inputs []StudentSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	ctx := context.Background()
	repo := repository.NewStudentRepository(db)
	svc := service.NewStudentService(repo, maxAttempts)

	// owner -> boleh di-seed?
	allowed := map[string]bool{}
	owners := map[string]uuid.UUID{}
	for _, data := range inputs {
		ok, checked := allowed[data.Owner]
		if !checked {
			ok = false
			owner, err := authRepo.FindUserByEmailOrUsername(ctx, db, data.Owner)
			if err != nil {
				log.Printf("[SEED] owner '%s' tidak ditemukan, dilewati.", data.Owner)
			} else {
				rolls, err := repo.RollNumbers(ctx, owner.ID)
				if err != nil {
					return err
				}
				if len(rolls) > 0 {
					log.Printf("[SEED] roster '%s' sudah berisi, dilewati.", data.Owner)
				} else {
					ok = true
					owners[data.Owner] = owner.ID
				}
			}
			allowed[data.Owner] = ok
		}
		if !ok {
			continue
		}

		m, err := svc.Create(ctx, owners[data.Owner], dto.StudentCreateReq{Name: data.Name, Course: data.Course, Marks: data.Marks})
		if err != nil {
			return fmt.Errorf("insert student %s: %w", data.Name, err)
		}
		log.Printf("[SEED] %s: #%d %s", data.Owner, m.StudentRollNumber, m.StudentName)
	}
	return nil
}
