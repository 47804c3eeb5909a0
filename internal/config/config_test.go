package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageBackendValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_BACKEND", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORAGE_BACKEND")
	}
}

func TestLoad_PostgresRequiresDBURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_BACKEND", StoragePostgres)
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORAGE_BACKEND=postgres without DB_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageBackend != StorageMemory {
		t.Fatalf("unexpected default storage backend: %s", cfg.StorageBackend)
	}
	if cfg.ReportConfirmTTL != 24*time.Hour {
		t.Fatalf("unexpected default confirm ttl: %s", cfg.ReportConfirmTTL)
	}
	if cfg.MatchEditGrace != time.Hour {
		t.Fatalf("unexpected default edit grace: %s", cfg.MatchEditGrace)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected default http addr: %s", cfg.HTTPAddr)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected default CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_DurationsMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("REPORT_CONFIRM_TTL", "-1h")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative REPORT_CONFIRM_TTL")
	}
}

func TestLoad_AdminAccountIDsCSV(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ADMIN_ACCOUNT_IDS", "acct-1, acct-2 ,,acct-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := []string{"acct-1", "acct-2", "acct-3"}
	if len(cfg.AdminAccountIDs) != len(want) {
		t.Fatalf("unexpected admin ids: %v", cfg.AdminAccountIDs)
	}
	for i, id := range want {
		if cfg.AdminAccountIDs[i] != id {
			t.Fatalf("unexpected admin ids: %v", cfg.AdminAccountIDs)
		}
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without server address")
	}
}
