package middlewares

import "github.com/gofiber/fiber/v2"

// WithTrustedProxies hanya membaca X-Forwarded-For kalau request datang dari proxy yang dikenal.
// Tanpa daftar proxy, c.IP() = alamat koneksi, jadi header palsu tidak bisa dipakai lolos dari limiter.
func WithTrustedProxies(cfg fiber.Config, proxies []string) fiber.Config {
	if len(proxies) == 0 {
		cfg.ProxyHeader = ""
		cfg.EnableTrustedProxyCheck = false
		cfg.TrustedProxies = nil
		return cfg
	}
	cfg.ProxyHeader = fiber.HeaderXForwardedFor
	cfg.EnableTrustedProxyCheck = true
	cfg.TrustedProxies = proxies
	return cfg
}
