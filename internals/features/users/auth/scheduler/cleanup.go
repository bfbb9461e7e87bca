package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"edumanager_backend/internals/features/users/auth/blacklist"
	authRepo "edumanager_backend/internals/features/users/auth/repository"
)

// RunCleanup sekali jalan: blacklist kadaluarsa, refresh token mati, reset token basi.
func RunCleanup(ctx context.Context, db *gorm.DB, bl blacklist.Store) {
	now := time.Now().UTC()

	if bl != nil {
		if n, err := bl.Purge(ctx); err != nil {
			log.Printf("[CLEANUP ERROR] token blacklist: %v", err)
		} else if n > 0 {
			log.Printf("[CLEANUP] %d token blacklist kadaluarsa dihapus", n)
		}
	}

	if n, err := authRepo.CleanupRefreshTokens(ctx, db, now); err != nil {
		log.Printf("[CLEANUP ERROR] refresh tokens: %v", err)
	} else if n > 0 {
		log.Printf("[CLEANUP] %d refresh token dihapus", n)
	}

	if n, err := authRepo.CleanupExpiredResetTokens(ctx, db, now); err != nil {
		log.Printf("[CLEANUP ERROR] reset tokens: %v", err)
	} else if n > 0 {
		log.Printf("[CLEANUP] %d reset token kadaluarsa dibersihkan", n)
	}
}

// StartCleanupScheduler mendaftarkan RunCleanup ke cron dan langsung Start.
// Caller wajib memanggil Stop() saat shutdown.
func StartCleanupScheduler(db *gorm.DB, bl blacklist.Store, schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		log.Println("[CLEANUP] menjalankan pembersihan token...")
		RunCleanup(ctx, db, bl)
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[INFO] cleanup scheduler aktif (%s)", schedule)
	return c, nil
}
