package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Theme is the colour scheme preference
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ErrUnknownTheme is returned for themes other than dark and light
var ErrUnknownTheme = errors.New("theme must be dark or light")

// Preferences are user settings persisted as YAML between runs
type Preferences struct {
	path string

	mu sync.Mutex
	k  *koanf.Koanf
}

// LoadPreferences reads path if it exists, falling back to defaults
func LoadPreferences(path string) (*Preferences, error) {
	k := koanf.New(".")
	if err := k.Set("theme", string(ThemeDark)); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load preferences %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return &Preferences{path: path, k: k}, nil
}

// Theme returns the stored theme, dark unless set otherwise
func (p *Preferences) Theme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := Theme(p.k.String("theme"))
	if t != ThemeLight {
		return ThemeDark
	}
	return t
}

// SetTheme stores and persists the theme
func (p *Preferences) SetTheme(t Theme) error {
	if t != ThemeDark && t != ThemeLight {
		return ErrUnknownTheme
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.k.Set("theme", string(t)); err != nil {
		return err
	}
	return p.save()
}

// save must be called with mu held
func (p *Preferences) save() error {
	data, err := p.k.Marshal(yaml.Parser())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o600)
}
