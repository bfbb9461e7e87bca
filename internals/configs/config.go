package configs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
	AppEnv           string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	switch {
	case os.Getenv("RAILWAY_ENVIRONMENT") != "":
		log.Println("[INFO] running in Railway, memakai ENV dari sistem")
	case strings.EqualFold(os.Getenv("APP_ENV"), "production"):
		log.Println("[INFO] APP_ENV=production, .env tidak dibaca")
	default:
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] .env tidak ditemukan, memakai ENV dari sistem")
		} else {
			log.Println("[INFO] .env berhasil dimuat")
		}
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	AppEnv = strings.ToLower(GetEnv("APP_ENV", "production"))

	if JWTSecret == "" {
		log.Println("[ERROR] JWT_SECRET belum diset!")
	}
	if JWTRefreshSecret == "" {
		log.Println("[ERROR] JWT_REFRESH_SECRET belum diset!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q bukan angka, pakai default %d", key, v, def)
		return def
	}
	return n
}

func GetBoolEnv(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetDurationEnv menerima format time.ParseDuration ("15m", "24h").
func GetDurationEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[WARN] %s=%q bukan durasi valid, pakai default %s", key, v, def)
		return def
	}
	return d
}

// IsDevelopment membaca APP_ENV langsung supaya test bisa t.Setenv.
func IsDevelopment() bool {
	env := AppEnv
	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		env = strings.ToLower(v)
	}
	return env == "development" || env == "dev"
}

// =======================
// APP CONFIG
// =======================

type AppConfig struct {
	Port              string
	CORSOrigins       []string
	TrustedProxies    []string
	RedisAddr         string
	RedisPassword     string
	CleanupCron       string
	RollAllocAttempts int
	AutoMigrate       bool
}

// Load membaca AppConfig dari ENV dan menolak nilai yang bikin server gagal boot.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		Port:              GetEnv("PORT", "8080"),
		CORSOrigins:       splitCSV(GetEnv("CORS_ORIGINS", "http://localhost:5173")),
		TrustedProxies:    splitCSV(GetEnv("TRUSTED_PROXIES")),
		RedisAddr:         strings.TrimSpace(GetEnv("REDIS_ADDR")),
		RedisPassword:     GetEnv("REDIS_PASSWORD"),
		CleanupCron:       GetEnv("CLEANUP_CRON", "@every 1h"),
		RollAllocAttempts: GetIntEnv("ROLL_ALLOC_MAX_ATTEMPTS", 5),
		AutoMigrate:       GetBoolEnv("AUTO_MIGRATE", true),
	}
	return cfg, cfg.Validate()
}

func (c AppConfig) Validate() error {
	// cookie auth butuh AllowCredentials, jadi origin harus eksplisit
	if len(c.CORSOrigins) == 0 {
		return errors.New("CORS_ORIGINS kosong: isi minimal satu origin")
	}
	for _, o := range c.CORSOrigins {
		if o == "*" {
			return errors.New(`CORS_ORIGINS tidak boleh "*" karena credentials diizinkan`)
		}
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: %q bukan IP/CIDR", p)
		}
	}
	return nil
}

func splitCSV(s string) []string {
	out := make([]string, 0, 4)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if IsDevelopment() {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
