package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ltrgate-go/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the CLI config file",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a config file with the current settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
			{
				Name:   "show",
				Usage:  "Show the effective settings",
				Action: configShow,
			},
		},
	}
}

func configInit(c *cli.Context) error {
	s, err := LoadSettings(c)
	if err != nil {
		return err
	}

	if _, err := os.Stat(s.ConfigPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s exists, use --force to overwrite", s.ConfigPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg := *s.CLIConfig
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]config.Profile)
	}
	if err := config.Save(&cfg, s.ConfigPath); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", s.ConfigPath)
	return nil
}

// EffectiveConfig is printed by config show.
type EffectiveConfig struct {
	ConfigFile   string `json:"configFile"`
	Server       string `json:"server"`
	APIKey       string `json:"apiKey"`
	CAFile       string `json:"caFile"`
	Output       string `json:"output"`
	QuotaDir     string `json:"quotaDir"`
	QuotaMax     int    `json:"quotaMax"`
	QuotaBounce  string `json:"quotaDebounce"`
	NewAccessURL string `json:"newAccessUrl"`
}

func configShow(c *cli.Context) error {
	s, err := LoadSettings(c)
	if err != nil {
		return err
	}

	apiKey := ""
	if s.APIKey != "" {
		apiKey = "****"
	}
	quotaDir := s.Quota.StoreDir
	if quotaDir == "" {
		quotaDir = config.DefaultQuotaDir()
	}

	return s.Print(c, EffectiveConfig{
		ConfigFile:   s.ConfigPath,
		Server:       s.Server,
		APIKey:       apiKey,
		CAFile:       s.CAFile,
		Output:       string(s.Format),
		QuotaDir:     quotaDir,
		QuotaMax:     s.Quota.Max,
		QuotaBounce:  s.Quota.Debounce.String(),
		NewAccessURL: s.Quota.NewAccessURL,
	})
}
