// Package prefs handles ffscope user preferences persistence.
// Preferences are stored in ~/.config/ffscope/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences that survive restarts.
type Prefs struct {
	Theme         string `toml:"theme"`
	DataView      string `toml:"data_view"`
	CreatedFilter string `toml:"created_filter"`
	PageSize      int    `toml:"page_size,omitempty"`
}

const (
	defaultPrefsPath     = "~/.config/ffscope/prefs.toml"
	defaultTheme         = "Nightfox"
	defaultDataView      = "list"
	defaultCreatedFilter = "24hours"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{
		Theme:         defaultTheme,
		DataView:      defaultDataView,
		CreatedFilter: defaultCreatedFilter,
	}
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) Prefs {
	prefs := Defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}

	file, err := os.Open(resolved)
	if err != nil {
		return prefs
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Defaults()
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if strings.TrimSpace(prefs.DataView) == "" {
		prefs.DataView = defaultDataView
	}
	if strings.TrimSpace(prefs.CreatedFilter) == "" {
		prefs.CreatedFilter = defaultCreatedFilter
	}
	if prefs.PageSize < 0 {
		prefs.PageSize = 0
	}

	return prefs
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

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
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
