package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_AuthRequiredByDefault(t *testing.T) {
	t.Setenv("AUTH_REQUIRED", "")
	assert.True(t, Load().AuthRequired)

	t.Setenv("AUTH_REQUIRED", "not-a-bool")
	assert.True(t, Load().AuthRequired)
}

func TestLoad_AuthOptOut(t *testing.T) {
	t.Setenv("AUTH_REQUIRED", "false")
	assert.False(t, Load().AuthRequired)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 20, cfg.MaxUploadMB)
}

func TestRedacted(t *testing.T) {
	cfg := AppConfig{GeminiAPIKey: "k", RedisPassword: "p", DatabaseURL: "postgres://u:pw@h/db"}.Redacted()
	assert.Equal(t, "***", cfg.GeminiAPIKey)
	assert.Equal(t, "***", cfg.RedisPassword)
	assert.Equal(t, "***", cfg.DatabaseURL)
	assert.Empty(t, cfg.LLMAPIKey)
}
