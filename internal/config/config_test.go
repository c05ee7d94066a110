package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dropDatabas3/backoffice/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.App.Env != "dev" {
		t.Fatalf("env = %q, want dev", cfg.App.Env)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.Kind != "memory" {
		t.Fatalf("cache kind = %q", cfg.Cache.Kind)
	}
	if cfg.Sync.Workers != 8 || cfg.Sync.RelayBatch != 50 {
		t.Fatalf("sync = %+v", cfg.Sync)
	}
	if cfg.AccessTTL() != time.Hour {
		t.Fatalf("access ttl = %v", cfg.AccessTTL())
	}
	if cfg.RelayInterval() != 2*time.Second {
		t.Fatalf("relay interval = %v", cfg.RelayInterval())
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  env: prod
server:
  addr: ":9000"
  cors_allowed_origins: ["https://admin.example.com"]
log:
  level: warn
storage:
  dsn: "postgres://localhost/backoffice"
jwt:
  issuer: "my-backoffice"
  secret: "s3cret"
  access_ttl: "30m"
sync:
  workers: 4
  relay_interval: "500ms"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.App.Env != "prod" || cfg.Server.Addr != ":9000" || cfg.Log.Level != "warn" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Storage.DSN != "postgres://localhost/backoffice" {
		t.Fatalf("dsn = %q", cfg.Storage.DSN)
	}
	if cfg.AccessTTL() != 30*time.Minute {
		t.Fatalf("access ttl = %v", cfg.AccessTTL())
	}
	if cfg.RelayInterval() != 500*time.Millisecond {
		t.Fatalf("relay interval = %v", cfg.RelayInterval())
	}
	if len(cfg.Server.CORSAllowedOrigins) != 1 {
		t.Fatalf("cors = %v", cfg.Server.CORSAllowedOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7777")
	t.Setenv("STORAGE_DSN", "postgres://env/db")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SYNC_WORKERS", "16")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":7777" {
		t.Fatalf("addr = %q, env must win", cfg.Server.Addr)
	}
	if cfg.Storage.DSN != "postgres://env/db" {
		t.Fatalf("dsn = %q", cfg.Storage.DSN)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Fatalf("secret = %q", cfg.JWT.Secret)
	}
	if cfg.Sync.Workers != 16 {
		t.Fatalf("workers = %d", cfg.Sync.Workers)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load("/does/not/exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
