package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 8000 {
		t.Fatalf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.ETL.PreviewRows != 20 || cfg.ETL.SampleSize != 100 {
		t.Fatalf("etl = %+v", cfg.ETL)
	}
	if cfg.ETL.LookupColumnStart != 1 || cfg.ETL.LookupColumnEnd != 22 {
		t.Fatalf("lookup window = [%d, %d), want [1, 22)", cfg.ETL.LookupColumnStart, cfg.ETL.LookupColumnEnd)
	}
	if cfg.Insights.LowMatchRate != 70 || cfg.Insights.HighNotFoundRate != 10 {
		t.Fatalf("insights = %+v", cfg.Insights)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ETL_TOOL_PORT", "9100")
	t.Setenv("ETL_TOOL_DATA_DIR", "/var/etl")
	t.Setenv("ETL_TOOL_DEV_MODE", "true")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9100 {
		t.Fatalf("port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Data.DataDir != "/var/etl" {
		t.Fatalf("data dir = %q", cfg.Data.DataDir)
	}
	if !cfg.Server.DevMode {
		t.Fatal("dev mode not enabled")
	}
}

func TestApplyEnvOverridesIgnoresInvalidPort(t *testing.T) {
	t.Setenv("ETL_TOOL_PORT", "not-a-port")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	if cfg.Server.Port != 8000 {
		t.Fatalf("port = %d, want default 8000", cfg.Server.Port)
	}
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")

	dir, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("EnsureDataDir failed: %v", err)
	}
	for _, sub := range []string{"uploads", "exports"} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Fatalf("subdir %s missing: %v", sub, err)
		}
	}
}
