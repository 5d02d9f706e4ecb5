package config

import "time"

// CLIConfig is the configuration for ltrgate-cli.
type CLIConfig struct {
	Server string `yaml:"server"`
	APIKey string `yaml:"api_key"`
	Output string `yaml:"output"` // table, json, yaml

	// CAFile is a PEM bundle trusted for https servers.
	CAFile string `yaml:"ca_file,omitempty"`

	Quota QuotaConfig `yaml:"quota"`

	Profiles       map[string]Profile `yaml:"profiles,omitempty"`
	CurrentProfile string             `yaml:"current_profile,omitempty"`
}

// Profile is a named server connection. Empty fields keep the top-level
// value.
type Profile struct {
	Server string `yaml:"server"`
	APIKey string `yaml:"api_key,omitempty"`
	CAFile string `yaml:"ca_file,omitempty"`
}

// QuotaConfig locates the client-local quota store.
type QuotaConfig struct {
	// StoreDir is the Badger directory. Empty uses DefaultQuotaDir.
	StoreDir     string        `yaml:"store_dir,omitempty"`
	Max          int           `yaml:"max"`
	Debounce     time.Duration `yaml:"debounce"`
	NewAccessURL string        `yaml:"new_access_url,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: "http://localhost:3000",
		Output: "table",
		Quota: QuotaConfig{
			Max:      5,
			Debounce: 1200 * time.Millisecond,
		},
		Profiles: make(map[string]Profile),
	}
}

// Resolve returns cfg with the named profile applied. An empty name uses
// CurrentProfile. Unknown names are an error.
func (c *CLIConfig) Resolve(name string) (*CLIConfig, error) {
	out := *c
	if name == "" {
		name = c.CurrentProfile
	}
	if name == "" {
		return &out, nil
	}

	p, ok := c.Profiles[name]
	if !ok {
		return nil, &UnknownProfileError{Name: name}
	}
	if p.Server != "" {
		out.Server = p.Server
	}
	if p.APIKey != "" {
		out.APIKey = p.APIKey
	}
	if p.CAFile != "" {
		out.CAFile = p.CAFile
	}
	return &out, nil
}

// UnknownProfileError reports a profile missing from the file.
type UnknownProfileError struct {
	Name string
}

func (e *UnknownProfileError) Error() string {
	return "unknown profile " + e.Name
}
