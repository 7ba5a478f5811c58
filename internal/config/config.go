package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	CatalogPath    string // optional extra YAML/JSON catalog merged over the built-in one
	ReportBasePath string // fs root for stored PDF reports

	HistoryLimit     int
	ProficiencyLevel string

	EnableAuth      bool
	AuthHMACSecret  string
	LearnerUser     string
	LearnerPassHash string // bcrypt

	CORSOrigins []string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	AITimeout     time.Duration
	AIPingOnStart bool
}

// AIEnabled reports whether a Gemini key was configured.
func (c Config) AIEnabled() bool { return c.GeminiAPIKey != "" }

// FromEnv reads an optional .env file, then the process environment.
func FromEnv() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env: %v", err)
	}
	return Config{
		HTTPAddr:         envOr("HTTP_ADDR", ":8080"),
		DBDriver:         envOr("DB_DRIVER", "sqlite"),
		DBDSN:            envOr("DB_DSN", ""),
		CatalogPath:      os.Getenv("CATALOG_PATH"),
		ReportBasePath:   envOr("REPORT_BASE_PATH", "./data"),
		HistoryLimit:     envInt("HISTORY_LIMIT", 10),
		ProficiencyLevel: envOr("PROFICIENCY_LEVEL", "beginner"),
		EnableAuth:       envBool("ENABLE_AUTH", false),
		AuthHMACSecret:   envOr("AUTH_HMAC_SECRET", "dev-secret-change-me"),
		LearnerUser:      envOr("LEARNER_USER", "learner"),
		LearnerPassHash:  os.Getenv("LEARNER_PASS_HASH"),
		CORSOrigins:      csvOr("CORS_ORIGINS", "http://localhost:3000"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOr("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:    envOr("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AITimeout:        envDuration("AI_TIMEOUT", 30*time.Second),
		AIPingOnStart:    envBool("AI_PING_ON_START", false),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
