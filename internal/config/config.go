package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/container-packer/internal/packing"
	"github.com/eugenenazirov/container-packer/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultMaxUnits       = 500

	minGridStep = 0.01
	maxGridStep = 1.0
	maxGap      = 0.5
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	LogLevel             string
	RateLimitRPS         float64
	RateLimitBurst       int
	Packing              PackingConfig
	Container            packing.Container
}

// PackingConfig tunes the packing engine and the requests it accepts.
type PackingConfig struct {
	GridStep      float64
	HorizontalGap float64
	MinDimension  float64
	// MaxUnits caps the expanded unit count per request; 0 disables the cap.
	MaxUnits int
}

// Options converts the configuration into engine options.
func (p PackingConfig) Options() []packing.Option {
	return []packing.Option{
		packing.WithGridStep(p.GridStep),
		packing.WithHorizontalGap(p.HorizontalGap),
		packing.WithMinDimension(p.MinDimension),
	}
}

// yamlConfig represents the YAML configuration file structure. Pointers
// distinguish an omitted key from an explicit zero.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	LogLevel             string        `yaml:"log_level"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
	Packing              yamlPacking   `yaml:"packing"`
	Container            yamlContainer `yaml:"container"`
}

type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

type yamlPacking struct {
	GridStep      *float64 `yaml:"grid_step"`
	HorizontalGap *float64 `yaml:"horizontal_gap"`
	MinDimension  *float64 `yaml:"min_dimension"`
	MaxUnits      *int     `yaml:"max_units"`
}

type yamlContainer struct {
	Length float64 `yaml:"length"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
	GridStep       *float64
	MaxUnits       *int
	ContainerStr   *string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables
	applyEnvConfig(&cfg)

	// Load from YAML file if specified (overrides env)
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	opts := packing.DefaultOptions()
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         30 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		LogLevel:             "info",
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		Packing: PackingConfig{
			GridStep:      opts.GridStep,
			HorizontalGap: opts.HorizontalGap,
			MinDimension:  opts.MinDimension,
			MaxUnits:      defaultMaxUnits,
		},
		Container: storage.DefaultContainer(),
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"shutdown_grace_period", yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"read_header_timeout", yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"write_timeout", yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	if p := yamlCfg.Packing; p.GridStep != nil {
		cfg.Packing.GridStep = *p.GridStep
	}
	if p := yamlCfg.Packing; p.HorizontalGap != nil {
		cfg.Packing.HorizontalGap = *p.HorizontalGap
	}
	if p := yamlCfg.Packing; p.MinDimension != nil {
		cfg.Packing.MinDimension = *p.MinDimension
	}
	if p := yamlCfg.Packing; p.MaxUnits != nil {
		cfg.Packing.MaxUnits = *p.MaxUnits
	}

	c := yamlCfg.Container
	if c.Length > 0 {
		cfg.Container.Length = c.Length
	}
	if c.Width > 0 {
		cfg.Container.Width = c.Width
	}
	if c.Height > 0 {
		cfg.Container.Height = c.Height
	}
	return nil
}

// applyEnvConfig applies environment variable configuration. Unparseable
// values are ignored.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if step := strings.TrimSpace(os.Getenv("PACK_GRID_STEP")); step != "" {
		if value, err := strconv.ParseFloat(step, 64); err == nil {
			cfg.Packing.GridStep = value
		}
	}

	if gap := strings.TrimSpace(os.Getenv("PACK_HORIZONTAL_GAP")); gap != "" {
		if value, err := strconv.ParseFloat(gap, 64); err == nil {
			cfg.Packing.HorizontalGap = value
		}
	}

	if maxUnits := strings.TrimSpace(os.Getenv("PACK_MAX_UNITS")); maxUnits != "" {
		if value, err := strconv.Atoi(maxUnits); err == nil && value >= 0 {
			cfg.Packing.MaxUnits = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CONTAINER_SIZE")); raw != "" {
		if c, err := parseContainer(raw); err == nil {
			cfg.Container = c
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.GridStep != nil && *overrides.GridStep > 0 {
		cfg.Packing.GridStep = *overrides.GridStep
	}

	if overrides.MaxUnits != nil && *overrides.MaxUnits >= 0 {
		cfg.Packing.MaxUnits = *overrides.MaxUnits
	}

	if overrides.ContainerStr != nil && *overrides.ContainerStr != "" {
		c, err := parseContainer(*overrides.ContainerStr)
		if err != nil {
			return fmt.Errorf("parse container: %w", err)
		}
		cfg.Container = c
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.Packing.GridStep < minGridStep || cfg.Packing.GridStep > maxGridStep {
		return fmt.Errorf("grid step must be between %v and %v metres, got %v", minGridStep, maxGridStep, cfg.Packing.GridStep)
	}
	if cfg.Packing.HorizontalGap < 0 || cfg.Packing.HorizontalGap > maxGap {
		return fmt.Errorf("horizontal gap must be between 0 and %v metres, got %v", maxGap, cfg.Packing.HorizontalGap)
	}
	if cfg.Packing.MinDimension < 0 {
		return fmt.Errorf("min dimension must be >= 0")
	}
	if cfg.Packing.MaxUnits < 0 {
		return fmt.Errorf("max units must be >= 0")
	}
	if cfg.Container.Length <= 0 || cfg.Container.Width <= 0 || cfg.Container.Height <= 0 {
		return fmt.Errorf("container dimensions must be positive")
	}
	return nil
}

// parseContainer parses "LxWxH" in metres, e.g. "5.898x2.352x2.393".
func parseContainer(raw string) (packing.Container, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(raw)), "x")
	if len(parts) != 3 {
		return packing.Container{}, fmt.Errorf("expected LxWxH, got %q", raw)
	}

	var dims [3]float64
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return packing.Container{}, fmt.Errorf("invalid dimension %q", part)
		}
		if value <= 0 {
			return packing.Container{}, fmt.Errorf("dimension must be positive, got %v", value)
		}
		dims[i] = value
	}
	return packing.Container{Length: dims[0], Width: dims[1], Height: dims[2]}, nil
}
