// Package config loads service settings from .env, an optional YAML file and
// the environment, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port               string        `yaml:"port"`
	RendererPath       string        `yaml:"renderer_path"`
	RenderTimeout      time.Duration `yaml:"render_timeout"`
	ScratchDir         string        `yaml:"scratch_dir"`
	MaxUploadMB        int64         `yaml:"max_upload_mb"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	LogLevel           string        `yaml:"log_level"`
	LogFormat          string        `yaml:"log_format"`
}

func Defaults() Config {
	return Config{
		Port:            "8081",
		RenderTimeout:   120 * time.Second,
		ScratchDir:      filepath.Join(os.TempDir(), "costudi"),
		MaxUploadMB:     64,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load reads .env (if present), then CONFIG_FILE (if set), then env vars.
func Load() (Config, error) {
	_ = godotenv.Load()
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getenv("PORT", c.Port)
	c.RendererPath = getenv("RENDERER_PATH", c.RendererPath)
	c.ScratchDir = getenv("SCRATCH_DIR", c.ScratchDir)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("LOG_FORMAT", c.LogFormat)

	var err error
	if c.RenderTimeout, err = durationEnv("RENDER_TIMEOUT", c.RenderTimeout); err != nil {
		return err
	}
	if c.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		return err
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_MB: %w", err)
		}
		c.MaxUploadMB = n
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err)
		}
		c.RateLimitPerMinute = n
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Port == "":
		return fmt.Errorf("port must be set")
	case c.RenderTimeout <= 0:
		return fmt.Errorf("render timeout must be positive, got %s", c.RenderTimeout)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	case c.MaxUploadMB <= 0:
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadMB)
	case c.RateLimitPerMinute < 0:
		return fmt.Errorf("rate limit cannot be negative")
	case c.ScratchDir == "":
		return fmt.Errorf("scratch dir must be set")
	}
	return nil
}

// MaxUploadBytes is the multipart memory limit.
func (c Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
