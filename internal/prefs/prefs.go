// Package prefs handles penplot user preferences persistence.
// Preferences are stored in ~/.config/penplot/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/penplot/internal/stroke"
)

// Prefs holds user preferences toggled from the TUI.
type Prefs struct {
	Theme        string `toml:"theme"`
	SiftQuantity int    `toml:"sift_quantity"`
	ShowPoints   bool   `toml:"show_points"`
	MultiClient  bool   `toml:"multi_client"`
}

const (
	defaultPrefsPath    = "~/.config/penplot/prefs.toml"
	defaultTheme        = "Nightfox"
	defaultSiftQuantity = stroke.DefaultSiftQuantity
	maxSiftQuantity     = 99
)

// Default returns the preferences used on first run.
func Default() Prefs {
	return Prefs{
		Theme:        defaultTheme,
		SiftQuantity: defaultSiftQuantity,
		MultiClient:  true,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	prefs := Default()

	file, err := os.Open(resolved)
	if err != nil {
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	return prefs.normalized(), nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// ClampSift bounds a sift quantity to the accepted range.
func ClampSift(n int) int {
	switch {
	case n < 1:
		return 1
	case n > maxSiftQuantity:
		return maxSiftQuantity
	}
	return n
}

func (p Prefs) normalized() Prefs {
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	if p.SiftQuantity == 0 {
		p.SiftQuantity = defaultSiftQuantity
	}
	p.SiftQuantity = ClampSift(p.SiftQuantity)
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
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
