package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"PACK_GRID_STEP", "PACK_HORIZONTAL_GAP", "PACK_MAX_UNITS", "CONTAINER_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if cfg.Packing.GridStep != 0.05 {
		t.Fatalf("expected default grid step 0.05, got %v", cfg.Packing.GridStep)
	}
	if cfg.Packing.MaxUnits != defaultMaxUnits {
		t.Fatalf("expected default max units %d, got %d", defaultMaxUnits, cfg.Packing.MaxUnits)
	}
	if cfg.Container.Length != 5.898 || cfg.Container.Width != 2.352 || cfg.Container.Height != 2.393 {
		t.Fatalf("unexpected default container: %+v", cfg.Container)
	}
	if !cfg.EnableRequestLogging {
		t.Fatalf("expected request logging enabled by default")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected info log level, got %s", cfg.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("PACK_GRID_STEP", "0.1")
	t.Setenv("PACK_MAX_UNITS", "50")
	t.Setenv("CONTAINER_SIZE", "12.03x2.35x2.39")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if cfg.Packing.GridStep != 0.1 {
		t.Fatalf("expected grid step 0.1, got %v", cfg.Packing.GridStep)
	}
	if cfg.Packing.MaxUnits != 50 {
		t.Fatalf("expected max units 50, got %d", cfg.Packing.MaxUnits)
	}
	if cfg.Container.Length != 12.03 {
		t.Fatalf("expected container length 12.03, got %v", cfg.Container.Length)
	}
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PACK_MAX_UNITS", "lots")
	t.Setenv("CONTAINER_SIZE", "big")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Packing.MaxUnits != defaultMaxUnits {
		t.Fatalf("expected default max units, got %d", cfg.Packing.MaxUnits)
	}
	if cfg.Container.Length != 5.898 {
		t.Fatalf("expected default container, got %+v", cfg.Container)
	}
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")

	path := writeYAML(t, `
port: "8181"
write_timeout: 45s
enable_request_logging: false
log_level: debug
rate_limit:
  burst: 5
packing:
  grid_step: 0.02
  horizontal_gap: 0
  max_units: 0
container:
  length: 2.5
`)

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8181" {
		t.Fatalf("expected YAML port to override env, got %s", cfg.Port)
	}
	if cfg.WriteTimeout != 45*time.Second {
		t.Fatalf("unexpected write timeout: %s", cfg.WriteTimeout)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected request logging disabled")
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %s", cfg.LogLevel)
	}
	if cfg.RateLimitRPS != defaultRateLimitRPS {
		t.Fatalf("omitted rps should keep default, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 5 {
		t.Fatalf("expected burst 5, got %d", cfg.RateLimitBurst)
	}
	if cfg.Packing.GridStep != 0.02 || cfg.Packing.HorizontalGap != 0 || cfg.Packing.MaxUnits != 0 {
		t.Fatalf("unexpected packing config: %+v", cfg.Packing)
	}
	if cfg.Container.Length != 2.5 || cfg.Container.Width != 2.352 {
		t.Fatalf("expected partial container override, got %+v", cfg.Container)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	clearEnv(t)

	cases := []struct {
		name    string
		content string
	}{
		{name: "syntax", content: "port: [unterminated"},
		{name: "duration", content: "idle_timeout: soon"},
		{name: "grid step", content: "packing:\n  grid_step: 5"},
		{name: "gap", content: "packing:\n  horizontal_gap: -0.1"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			path := writeYAML(t, tc.content)
			if _, err := Load(&CLIOverrides{ConfigFile: path}); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}

	if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadCLIOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PACK_GRID_STEP", "0.2")

	path := writeYAML(t, "packing:\n  grid_step: 0.1\n")
	port := "9999"
	step := 0.025
	maxUnits := 10
	container := "3x2x1"

	cfg, err := Load(&CLIOverrides{
		ConfigFile:   path,
		Port:         &port,
		GridStep:     &step,
		MaxUnits:     &maxUnits,
		ContainerStr: &container,
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != port {
		t.Fatalf("expected CLI port, got %s", cfg.Port)
	}
	if cfg.Packing.GridStep != step {
		t.Fatalf("expected CLI grid step, got %v", cfg.Packing.GridStep)
	}
	if cfg.Packing.MaxUnits != maxUnits {
		t.Fatalf("expected CLI max units, got %d", cfg.Packing.MaxUnits)
	}
	if cfg.Container.Length != 3 || cfg.Container.Width != 2 || cfg.Container.Height != 1 {
		t.Fatalf("unexpected container: %+v", cfg.Container)
	}

	bad := "3x2"
	if _, err := Load(&CLIOverrides{ContainerStr: &bad}); err == nil {
		t.Fatalf("expected error for malformed container flag")
	}
}

func TestParseContainer(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := parseContainer(" 5.898X2.352x2.393 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Length != 5.898 || got.Width != 2.352 || got.Height != 2.393 {
			t.Fatalf("unexpected container: %+v", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, raw := range []string{"", "1x2", "1x2xa", "1x0x2", "1x-2x3"} {
			if _, err := parseContainer(raw); err == nil {
				t.Fatalf("expected error for %q", raw)
			}
		}
	})
}

func TestPackingOptions(t *testing.T) {
	cfg := PackingConfig{GridStep: 0.1, HorizontalGap: 0.02, MinDimension: 0.05}
	if got := len(cfg.Options()); got != 3 {
		t.Fatalf("expected 3 options, got %d", got)
	}
}
