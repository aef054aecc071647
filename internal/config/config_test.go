package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("PRODUCT_CACHE_TTL_SECONDS", "")

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.ProductCacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestFromEnvLeavesSecretUnset(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg := FromEnv()
	assert.Empty(t, cfg.JWTSecret)
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET is required")
}

func TestValidate(t *testing.T) {
	strong := strings.Repeat("s", MinJWTSecretLen)
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"ok", Config{JWTSecret: strong, AccessTokenTTL: time.Hour}, ""},
		{"missing secret", Config{AccessTokenTTL: time.Hour}, "JWT_SECRET is required"},
		{"short secret", Config{JWTSecret: "dev-secret-change-me", AccessTokenTTL: time.Hour}, "at least 32 bytes"},
		{"zero ttl", Config{JWTSecret: strong}, "ACCESS_TOKEN_TTL_MINUTES"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestShopFromEnv(t *testing.T) {
	t.Setenv("SHOP_API_URL", "http://api:8080")
	t.Setenv("SHOP_HOME", "/tmp/shop")
	t.Setenv("SHOP_CART_STORE", "SQLite")

	cfg := ShopFromEnv()
	assert.Equal(t, "http://api:8080", cfg.APIURL)
	assert.Equal(t, "/tmp/shop", cfg.Home)
	assert.Equal(t, "sqlite", cfg.CartStore)
}
