package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"golang.org/x/crypto/bcrypt"

	"edumanager_backend/internals/configs"
	database "edumanager_backend/internals/databases"
	"edumanager_backend/internals/features/users/auth/blacklist"
	scheduler "edumanager_backend/internals/features/users/auth/scheduler"
	helper "edumanager_backend/internals/helpers"
	middlewares "edumanager_backend/internals/middlewares"
	routes "edumanager_backend/internals/route"
	"edumanager_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("[ERROR] config: %v", err)
	}

	// X-Forwarded-For hanya dipercaya dari TRUSTED_PROXIES
	app := fiber.New(middlewares.WithTrustedProxies(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		DisableStartupMessage: true,
	}, cfg.TrustedProxies))

	middlewares.SetupMiddlewares(app, cfg)

	// ⚙️ performa: gzip + 304 caching
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔌 DB connect + pool + warm-up
	db := database.ConnectDB()
	database.TunePool()
	if cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("[ERROR] auto migrate: %v", err)
		}
	}

	// `go run . seed` → isi data contoh lalu keluar
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seeds.RunAllSeeds(db, seeds.Options{
			BcryptCost:  configs.GetIntEnv("BCRYPT_COST", bcrypt.DefaultCost),
			MaxAttempts: cfg.RollAllocAttempts,
		}); err != nil {
			log.Fatalf("[ERROR] seed: %v", err)
		}
		database.Close()
		return
	}

	database.WarmUpQueries()

	// blacklist: Redis kalau tersedia, selain itu tabel token_blacklist
	var bl blacklist.Store = blacklist.NewGormStore(db)
	rdb := database.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword)
	if rdb != nil {
		bl = blacklist.NewRedisStore(rdb)
	}

	// ⏱ scheduler setelah DB siap
	cleanup, err := scheduler.StartCleanupScheduler(db, bl, cfg.CleanupCron)
	if err != nil {
		log.Fatalf("[ERROR] cleanup scheduler (%q): %v", cfg.CleanupCron, err)
	}

	// ✅ Routes
	routes.SetupRoutes(app, db, bl, cfg)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("[INFO] listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: server, cron, redis, pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	<-cleanup.Stop().Done()
	if rdb != nil {
		_ = rdb.Close()
	}
	database.Close()
}
