package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yndnr/ltrgate-go/pkg/crypto/adaptive"
)

// keyFileName holds the key that seals API keys in the config file. It
// lives next to the config file.
const keyFileName = "cli.key"

var apiKeyAAD = []byte("ltrgate-cli:api_key")

// KeyPath returns the sealing key path for the config file at path.
func KeyPath(path string) string {
	return filepath.Join(filepath.Dir(path), keyFileName)
}

func readKey(path string) ([]byte, error) {
	key, err := os.ReadFile(KeyPath(path))
	if err != nil {
		return nil, err
	}
	if len(key) != adaptive.KeySize {
		return nil, fmt.Errorf("sealing key %s: %w", KeyPath(path), adaptive.ErrKeySize)
	}
	return key, nil
}

func readOrCreateKey(path string) ([]byte, error) {
	key, err := readKey(path)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return key, err
	}

	key, err = adaptive.GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(KeyPath(path), key, 0600); err != nil {
		return nil, fmt.Errorf("write sealing key: %w", err)
	}
	return key, nil
}

// hasPlainKeys reports whether any API key would be written in clear.
func (c *CLIConfig) hasPlainKeys() bool {
	if c.APIKey != "" && !adaptive.IsSealed(c.APIKey) {
		return true
	}
	for _, p := range c.Profiles {
		if p.APIKey != "" && !adaptive.IsSealed(p.APIKey) {
			return true
		}
	}
	return false
}

func (c *CLIConfig) hasSealedKeys() bool {
	if adaptive.IsSealed(c.APIKey) {
		return true
	}
	for _, p := range c.Profiles {
		if adaptive.IsSealed(p.APIKey) {
			return true
		}
	}
	return false
}

// mapKeys returns a copy of c with fn applied to every non-empty API key.
func (c *CLIConfig) mapKeys(fn func(string) (string, error)) (*CLIConfig, error) {
	out := *c
	var err error
	if out.APIKey != "" {
		if out.APIKey, err = fn(out.APIKey); err != nil {
			return nil, fmt.Errorf("api_key: %w", err)
		}
	}

	out.Profiles = make(map[string]Profile, len(c.Profiles))
	for name, p := range c.Profiles {
		if p.APIKey != "" {
			if p.APIKey, err = fn(p.APIKey); err != nil {
				return nil, fmt.Errorf("profiles.%s.api_key: %w", name, err)
			}
		}
		out.Profiles[name] = p
	}
	return &out, nil
}

func sealKeys(cfg *CLIConfig, path string) (*CLIConfig, error) {
	if !cfg.hasPlainKeys() {
		return cfg, nil
	}
	key, err := readOrCreateKey(path)
	if err != nil {
		return nil, err
	}
	return cfg.mapKeys(func(v string) (string, error) {
		if adaptive.IsSealed(v) {
			return v, nil
		}
		return adaptive.SealString(key, v, apiKeyAAD)
	})
}

func openKeys(cfg *CLIConfig, path string) (*CLIConfig, error) {
	if !cfg.hasSealedKeys() {
		return cfg, nil
	}
	key, err := readKey(path)
	if err != nil {
		return nil, fmt.Errorf("open sealed api keys: %w", err)
	}
	return cfg.mapKeys(func(v string) (string, error) {
		if !adaptive.IsSealed(v) {
			return v, nil
		}
		return adaptive.OpenString(key, v, apiKeyAAD)
	})
}
