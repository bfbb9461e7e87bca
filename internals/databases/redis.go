package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis mengembalikan nil kalau addr kosong atau server tidak bisa di-ping;
// caller lalu jatuh ke blacklist berbasis tabel.
func ConnectRedis(addr, password string) *redis.Client {
	if addr == "" {
		log.Println("[INFO] REDIS_ADDR kosong, token blacklist memakai PostgreSQL")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] redis ping gagal (%v), fallback ke PostgreSQL", err)
		_ = rdb.Close()
		return nil
	}

	log.Println("[INFO] redis connected.")
	return rdb
}
