package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, "subscriptor", cfg.Auth.DefaultRole)
	require.Equal(t, 3600, cfg.Auth.TokenTTLSeconds)
	require.Equal(t, 5, cfg.Auth.LockoutThreshold)
	require.Equal(t, 604800, cfg.Cache.TTLSeconds)
	require.Equal(t, 6, cfg.Password.MinLength)
	require.True(t, cfg.Password.RequireDigit)
	require.True(t, cfg.Password.RequireLowercase)
	require.True(t, cfg.Password.RequireUppercase)
	require.False(t, cfg.Password.RequireSymbol)
	require.Empty(t, cfg.Auth.JWTSecret)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VIDEOAPI_AUTH_JWTSECRET", "env-secret")
	t.Setenv("VIDEOAPI_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("VIDEOAPI_AUTH_LOCKOUTTHRESHOLD", "10")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	require.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	require.Equal(t, 10, cfg.Auth.LockoutThreshold)
}
