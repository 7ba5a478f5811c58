package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "DB_DRIVER", "HISTORY_LIMIT", "GEMINI_API_KEY", "GEMINI_MODEL", "AI_TIMEOUT", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.HTTPAddr != ":8080" || c.DBDriver != "sqlite" || c.HistoryLimit != 10 {
		t.Fatalf("defaults = %+v", c)
	}
	if c.GeminiModel != "gemini-1.5-flash" || c.AITimeout != 30*time.Second {
		t.Fatalf("ai defaults = %+v", c)
	}
	if c.AIEnabled() {
		t.Fatal("AI must be disabled without a key")
	}
	if len(c.CORSOrigins) != 1 || c.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("cors = %v", c.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "5")
	t.Setenv("AI_TIMEOUT", "2s")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("ENABLE_AUTH", "yes")
	t.Setenv("CORS_ORIGINS", " http://a , ,http://b")
	c := FromEnv()
	if c.HistoryLimit != 5 || c.AITimeout != 2*time.Second || !c.AIEnabled() || !c.EnableAuth {
		t.Fatalf("overrides = %+v", c)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "http://b" {
		t.Fatalf("cors = %v", c.CORSOrigins)
	}
	t.Setenv("HISTORY_LIMIT", "-3")
	if FromEnv().HistoryLimit != 10 {
		t.Fatal("non-positive limit should fall back to default")
	}
}
