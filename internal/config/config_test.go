package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
redis:
  addr: localhost:6379
room:
  question_duration: 30s
  rank_by_score: true
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" || !cfg.Room.RankByScore {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if d := Duration(cfg.Room.QuestionDuration, 40*time.Second); d != 30*time.Second {
		t.Fatalf("expected 30s question duration, got %v", d)
	}
}

func TestDurationFallback(t *testing.T) {
	for _, raw := range []string{"", "soon", "-5s"} {
		if d := Duration(raw, time.Minute); d != time.Minute {
			t.Errorf("Duration(%q) = %v, want fallback", raw, d)
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("redis:\n  addr: file:6379\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REDIS_ADDR", "env:6379")
	t.Setenv("POSTGRES_URL", "postgres://quiz@db/quiz")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Redis.Addr != "env:6379" || cfg.Postgres.URL != "postgres://quiz@db/quiz" {
		t.Fatalf("expected env overrides, got redis=%q postgres=%q", cfg.Redis.Addr, cfg.Postgres.URL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
