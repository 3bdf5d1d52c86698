package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// AutoServer asks the client to find the relay over mDNS.
const AutoServer = "auto"

// Config captures the client settings read from config.toml.
type Config struct {
	Server        string
	CanvasWidth   int
	CanvasHeight  int
	PollInterval  time.Duration
	NotResponding time.Duration
	LogDir        string
}

const (
	defaultConfigPath    = "~/.config/penplot/config.toml"
	defaultLogDir        = "~/.local/share/penplot/logs"
	defaultServer        = "127.0.0.1:8080"
	defaultCanvasSize    = 650
	defaultPollInterval  = 600 * time.Millisecond
	defaultNotResponding = 2 * time.Second
	minPollInterval      = 50 * time.Millisecond
)

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Server:        defaultServer,
		CanvasWidth:   defaultCanvasSize,
		CanvasHeight:  defaultCanvasSize,
		PollInterval:  defaultPollInterval,
		NotResponding: defaultNotResponding,
		LogDir:        mustExpand(defaultLogDir),
	}
}

// Load locates and parses the client config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Server          string `toml:"server"`
		CanvasWidth     int    `toml:"canvas_width"`
		CanvasHeight    int    `toml:"canvas_height"`
		PollIntervalMS  int    `toml:"poll_interval_ms"`
		NotRespondingMS int    `toml:"not_responding_ms"`
		LogDir          string `toml:"log_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if server := strings.TrimSpace(raw.Server); server != "" {
		cfg.Server = server
	}
	if raw.CanvasWidth > 0 {
		cfg.CanvasWidth = raw.CanvasWidth
	}
	if raw.CanvasHeight > 0 {
		cfg.CanvasHeight = raw.CanvasHeight
	}
	if raw.PollIntervalMS > 0 {
		cfg.PollInterval = time.Duration(raw.PollIntervalMS) * time.Millisecond
		if cfg.PollInterval < minPollInterval {
			cfg.PollInterval = minPollInterval
		}
	}
	if raw.NotRespondingMS > 0 {
		cfg.NotResponding = time.Duration(raw.NotRespondingMS) * time.Millisecond
	}
	if logDir := strings.TrimSpace(raw.LogDir); logDir != "" {
		cfg.LogDir = mustExpand(logDir)
	}

	return cfg, nil
}

// Discover reports whether the relay address must be found on the LAN.
func (c Config) Discover() bool {
	return strings.EqualFold(strings.TrimSpace(c.Server), AutoServer)
}

// LogPath returns the path to the client log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/penplot.log")
	}
	return filepath.Join(c.LogDir, "penplot.log")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
