package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working directory
// and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "http://127.0.0.1:5001", cfg.AIBackend.BaseURL)
	assert.False(t, cfg.AIBackend.AutoUpscale)

	assert.Equal(t, 3, cfg.AIBackend.Upscale.MaxAttempts)
	assert.Equal(t, 2048, cfg.AIBackend.Upscale.TargetMinDimension)
	assert.Equal(t, int64(2_000_000), cfg.AIBackend.Upscale.TargetBytes)
	assert.Equal(t, 4096, cfg.AIBackend.Upscale.MaxMinDimension)

	assert.Equal(t, "google/nano-banana", cfg.ModelRun.StandardModel)
	assert.Equal(t, "google/nano-banana-pro", cfg.ModelRun.ProModel)
	assert.Equal(t, "paystack", cfg.Billing.Provider)
	assert.Equal(t, "NGN", cfg.Billing.Currency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "legacy-secret")
	t.Setenv("AI_BACKEND_URL", "http://backend:9000/")
	t.Setenv("AI_AUTO_UPSCALE", "1")
	t.Setenv("ADMIN_EMAILS", " Admin@Example.com, ,ops@example.com ")
	t.Setenv("APP_URL", "https://studio.example.com/")
	t.Setenv("STUDIO_MODEL_RUN_TOKEN", "r8_token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "legacy-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "http://backend:9000", cfg.AIBackend.BaseURL)
	assert.True(t, cfg.AIBackend.AutoUpscale)
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, cfg.Auth.AdminEmails)
	assert.Equal(t, "https://studio.example.com", cfg.Billing.AppURL)
	assert.Equal(t, "r8_token", cfg.ModelRun.Token)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Database: "studio", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u dbname=studio sslmode=disable", cfg.DSN())

	cfg.Password = "p"
	assert.Equal(t, "host=db port=5432 user=u dbname=studio sslmode=disable password=p", cfg.DSN())
}

func TestParseList(t *testing.T) {
	assert.Nil(t, ParseList(""))
	assert.Equal(t, []string{"a", "b"}, ParseList("a, ,b,"))
}
