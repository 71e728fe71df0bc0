package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const DefaultLabel = "Default"

var ErrNoConfig = errors.New("no config selected")

// Store manages labelled YAML profiles under Root/configs and remembers the
// active label in Root/current_config.
type Store struct {
	Root string
}

func DefaultStore() *Store {
	return &Store{Root: ConfigRoot()}
}

func ConfigRoot() string {
	// Windows
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "mangagrab")
	}

	// Linux/macOS XDG
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mangagrab")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mangagrab")
}

func (s *Store) ConfigsDir() string {
	return filepath.Join(s.Root, "configs")
}

func (s *Store) currentLabelFile() string {
	return filepath.Join(s.Root, "current_config")
}

func (s *Store) path(label string) string {
	return filepath.Join(s.ConfigsDir(), label+".yaml")
}

func (s *Store) ensureDirs() error {
	return os.MkdirAll(s.ConfigsDir(), 0755)
}

func (s *Store) CurrentLabel() (string, error) {
	if err := s.ensureDirs(); err != nil {
		return "", err
	}

	b, err := os.ReadFile(s.currentLabelFile())
	if os.IsNotExist(err) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

func (s *Store) ActivePath() (string, error) {
	label, err := s.CurrentLabel()
	if err != nil || label == "" {
		return "", ErrNoConfig
	}

	return s.path(label), nil
}

func (s *Store) PathByLabel(label string) (string, error) {
	if err := checkLabel(label); err != nil {
		return "", err
	}

	p := s.path(label)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("config %q does not exist", label)
	}

	return p, nil
}

type ConfigInfo struct {
	Label  string
	Path   string
	Active bool
}

func (s *Store) List() ([]ConfigInfo, error) {
	if err := s.ensureDirs(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.ConfigsDir())
	if err != nil {
		return nil, err
	}

	activeLabel, _ := s.CurrentLabel()
	var out []ConfigInfo

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		label := strings.TrimSuffix(name, ".yaml")
		out = append(out, ConfigInfo{
			Label:  label,
			Path:   filepath.Join(s.ConfigsDir(), name),
			Active: label == activeLabel,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (s *Store) Switch(label string) error {
	if _, err := s.PathByLabel(label); err != nil {
		return err
	}

	return os.WriteFile(s.currentLabelFile(), []byte(label), 0644)
}

// Create writes cfg under a new label. It refuses to overwrite.
func (s *Store) Create(label string, cfg *Config) (string, error) {
	if err := checkLabel(label); err != nil {
		return "", err
	}
	if err := s.ensureDirs(); err != nil {
		return "", err
	}

	p := s.path(label)
	if _, err := os.Stat(p); err == nil {
		return "", fmt.Errorf("config %q already exists", label)
	}

	if err := SaveYAML(cfg, p); err != nil {
		return "", err
	}

	return p, nil
}

func (s *Store) Rename(oldLabel, newLabel string) error {
	if err := checkLabel(newLabel); err != nil {
		return err
	}

	oldPath, err := s.PathByLabel(oldLabel)
	if err != nil {
		return err
	}

	newPath := s.path(newLabel)
	if _, err := os.Stat(newPath); err == nil {
		return fmt.Errorf("config %q already exists", newLabel)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return err
	}

	if active, _ := s.CurrentLabel(); active == oldLabel {
		return os.WriteFile(s.currentLabelFile(), []byte(newLabel), 0644)
	}

	return nil
}

// Remove deletes a profile; removing the active one falls back to Default.
func (s *Store) Remove(label string) error {
	if label == DefaultLabel {
		return errors.New("cannot remove the Default config")
	}

	p, err := s.PathByLabel(label)
	if err != nil {
		return err
	}

	if active, _ := s.CurrentLabel(); active == label {
		if err := s.Switch(DefaultLabel); err != nil {
			return fmt.Errorf("failed switching to Default: %w", err)
		}
	}

	return os.Remove(p)
}

// InitDefault creates and activates the Default profile. If it already
// exists it is only activated and os.ErrExist is returned.
func (s *Store) InitDefault() (string, error) {
	if err := s.ensureDirs(); err != nil {
		return "", err
	}

	p := s.path(DefaultLabel)
	if _, err := os.Stat(p); err == nil {
		_ = os.WriteFile(s.currentLabelFile(), []byte(DefaultLabel), 0644)
		return p, os.ErrExist
	}

	if err := SaveYAML(DefaultConfig(), p); err != nil {
		return "", err
	}

	return p, os.WriteFile(s.currentLabelFile(), []byte(DefaultLabel), 0644)
}

func checkLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return errors.New("label cannot be empty")
	}
	if strings.ContainsAny(label, `/\`) {
		return fmt.Errorf("label %q must not contain path separators", label)
	}

	return nil
}
