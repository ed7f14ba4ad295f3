package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Backend   BackendConfig   `yaml:"backend"`
	Session   SessionConfig   `yaml:"session"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port         int      `yaml:"port"`
	AllowRemote  bool     `yaml:"allow_remote"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// BackendConfig points at the ingestion API. Timeout 0 means no client-side
// timeout.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Path string `yaml:"path"`
}

// DashboardConfig controls what the preview shows. PreviewLimit 0 renders
// every row the backend returned.
type DashboardConfig struct {
	CategoryField string `yaml:"category_field"`
	PreviewLimit  int    `yaml:"preview_limit"`
}

const DefaultCategoryField = "potential_category"

func Default() *Config {
	return &Config{
		Server:    ServerConfig{Port: 3000},
		Log:       LogConfig{Level: "info", Console: true, MaxSizeMB: 50, MaxBackups: 3, MaxAgeDays: 14},
		Backend:   BackendConfig{BaseURL: "http://localhost:8000"},
		Session:   SessionConfig{Path: defaultSessionPath()},
		Dashboard: DashboardConfig{CategoryField: DefaultCategoryField, PreviewLimit: 200},
	}
}

// Load applies, in order: defaults, the first readable YAML file, then
// environment overrides. A file that exists but does not parse is an error.
func Load(configFile string) (*Config, error) {
	c := Default()

	paths := []string{"etc/config-dev.yaml", "/etc/customer-insights/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if configFile != "" {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			continue
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		break
	}

	envOverride(&c.Backend.BaseURL, "BACKEND_BASE_URL")
	envOverrideDuration(&c.Backend.Timeout, "BACKEND_TIMEOUT")
	envOverride(&c.Session.Path, "SESSION_PATH")
	envOverride(&c.Dashboard.CategoryField, "CATEGORY_FIELD")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")

	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Dashboard.CategoryField == "" {
		c.Dashboard.CategoryField = DefaultCategoryField
	}
	return c, nil
}

func (c *Config) Addr() string {
	if c.Server.AllowRemote {
		return fmt.Sprintf(":%d", c.Server.Port)
	}
	return fmt.Sprintf("127.0.0.1:%d", c.Server.Port)
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "customer-insights", "session.yaml")
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
