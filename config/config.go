package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type AppConfig struct {
	Port        string
	DBDriver    string // sqlite|postgres
	DBPath      string
	DatabaseURL string

	LogLevel  string
	LogFormat string // json|console

	AuthRequired bool

	AIProvider     string // gemini|openai|mock
	GeminiAPIKey   string
	GeminiEndpoint string
	GeminiModel    string
	LLMEndpoint    string
	LLMAPIKey      string
	LLMModel       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BackupDriver      string // none|fs|s3
	BackupDir         string
	BackupS3Bucket    string
	BackupS3Region    string
	BackupS3Endpoint  string
	BackupS3PathStyle bool

	MaxUploadMB int
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("[cfg] no .env file loaded")
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	getInt := func(k string, def int) int {
		if v, err := strconv.Atoi(get(k, "")); err == nil {
			return v
		}
		return def
	}
	getBool := func(k string, def bool) bool {
		if v, err := strconv.ParseBool(get(k, "")); err == nil {
			return v
		}
		return def
	}
	cfg := AppConfig{
		Port:        get("PORT", "8080"),
		DBDriver:    strings.ToLower(get("DB_DRIVER", "sqlite")),
		DBPath:      get("DB_PATH", "agrimind.db"),
		DatabaseURL: get("DATABASE_URL", ""),

		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "json"),

		// local development opts out with AUTH_REQUIRED=false
		AuthRequired: getBool("AUTH_REQUIRED", true),

		AIProvider:     strings.ToLower(get("AI_PROVIDER", "mock")),
		GeminiAPIKey:   get("GEMINI_API_KEY", ""),
		GeminiEndpoint: get("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com"),
		GeminiModel:    get("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		LLMEndpoint:    get("LLM_ENDPOINT", ""),
		LLMAPIKey:      get("LLM_API_KEY", ""),
		LLMModel:       get("LLM_MODEL", "gpt-4o-mini"),

		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		BackupDriver:      strings.ToLower(get("BACKUP_DRIVER", "none")),
		BackupDir:         get("BACKUP_DIR", "backups"),
		BackupS3Bucket:    get("BACKUP_S3_BUCKET", ""),
		BackupS3Region:    get("BACKUP_S3_REGION", "us-east-1"),
		BackupS3Endpoint:  get("BACKUP_S3_ENDPOINT", ""),
		BackupS3PathStyle: strings.EqualFold(get("BACKUP_S3_PATH_STYLE", "false"), "true"),

		MaxUploadMB: getInt("MAX_UPLOAD_MB", 20),
	}
	return cfg
}

// Redacted returns a copy safe to log.
func (c AppConfig) Redacted() AppConfig {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	c.GeminiAPIKey = mask(c.GeminiAPIKey)
	c.LLMAPIKey = mask(c.LLMAPIKey)
	c.RedisPassword = mask(c.RedisPassword)
	if c.DatabaseURL != "" {
		c.DatabaseURL = mask(c.DatabaseURL)
	}
	return c
}
