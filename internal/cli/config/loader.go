package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ".ltrgate", "cli.yaml")
}

// DefaultQuotaDir returns the default quota store directory.
func DefaultQuotaDir() string {
	return filepath.Join(homeDir(), ".ltrgate", "quota")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Load reads the CLI config at path, or DefaultConfigPath when path is
// empty. A missing file yields Default. Sealed API keys are opened; keys
// written in clear by hand are kept as is.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cli config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse cli config %s: %w", path, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}
	return openKeys(cfg, path)
}

// Save writes cfg to path with owner-only permissions. The file is
// replaced atomically. API keys are sealed with the key in KeyPath(path),
// which is created on first use.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	sealed, err := sealKeys(cfg, path)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(sealed)
	if err != nil {
		return fmt.Errorf("encode cli config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cli-*.yaml")
	if err != nil {
		return fmt.Errorf("write cli config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cli config: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("write cli config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write cli config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
