package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Log      LogConfig      `yaml:"log"`
}

// PathsConfig holds binary locations. Empty values are resolved via PATH.
type PathsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
	YtDlp   string `yaml:"yt_dlp"`
}

// DefaultsConfig holds default values
type DefaultsConfig struct {
	DownloadDir       string  `yaml:"download_dir"`
	Quality           string  `yaml:"quality"`
	Overwrite         bool    `yaml:"overwrite"`
	Timeout           string  `yaml:"timeout"` // empty for none
	FallbackFrameRate float64 `yaml:"fallback_frame_rate"`
	MaxOutputMB       int64   `yaml:"max_output_mb"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			DownloadDir:       "videos",
			Quality:           "default",
			Overwrite:         false,
			FallbackFrameRate: 30,
			MaxOutputMB:       256,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// AppDir returns the application directory (~/.tubekit)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tubekit"
	}
	return filepath.Join(home, ".tubekit")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// Load reads config from file, returns default if not exists
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if _, err := cfg.GetTimeout(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes config to file
func (c *Config) Save(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetTimeout returns the per-process deadline, zero when unset
func (c *Config) GetTimeout() (time.Duration, error) {
	if c.Defaults.Timeout == "" {
		return 0, nil
	}
	return ParseDuration(c.Defaults.Timeout)
}

// MaxOutputBytes returns the capture cap in bytes, zero for the executor default
func (c *Config) MaxOutputBytes() int64 {
	if c.Defaults.MaxOutputMB <= 0 {
		return 0
	}
	return c.Defaults.MaxOutputMB << 20
}

var durationPattern = regexp.MustCompile(`^(\d+)(s|m|h|d)$`)

// ParseDuration parses duration strings like "90s", "30m", "2h", "1d"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 90s, 30m, 2h)", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch unit {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}
