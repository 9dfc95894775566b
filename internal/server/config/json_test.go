package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":  "www.example:9000",
		"database_dsn":        "shop.db",
		"redis_addr":          "redis:6379",
		"session_ttl":         "45m",
		"session_cookie_name": "sid",
		"secure_cookies":      true,
		"bcrypt_cost":         12,
		"cors_allowed_origin": "http://shop.example",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "shop.db", cfg.DatabaseDSN)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, 45*time.Minute, cfg.SessionTTL)
		assert.Equal(t, "sid", cfg.SessionCookieName)
		assert.True(t, cfg.SecureCookies)
		assert.Equal(t, 12, cfg.BCryptCost)
		assert.Equal(t, "http://shop.example", cfg.CORSAllowedOrigin)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP:  "defaults:1234",
			DatabaseDSN:       "shop.db",
			RedisAddr:         "localhost:6379",
			SessionTTL:        30 * time.Minute,
			SessionCookieName: "session_id",
			BCryptCost:        10,
			CORSAllowedOrigin: "http://front.local",
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "shop.db", cfg.DatabaseDSN)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
		assert.Equal(t, "session_id", cfg.SessionCookieName)
		assert.Equal(t, 10, cfg.BCryptCost)
		assert.Equal(t, "http://front.local", cfg.CORSAllowedOrigin)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
