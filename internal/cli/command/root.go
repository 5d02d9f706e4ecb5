package command

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ltrgate-go/internal/cli/config"
	"github.com/yndnr/ltrgate-go/internal/cli/connection"
	"github.com/yndnr/ltrgate-go/internal/cli/output"
	"github.com/yndnr/ltrgate-go/internal/infra/buildinfo"
	"github.com/yndnr/ltrgate-go/internal/infra/tlsconf"
	"github.com/yndnr/ltrgate-go/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "ltrgate-cli",
		Usage:   "Issue, check and account ltrgate access links",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			TokenCommand(),
			LinkCommand(),
			QuotaCommand(),
			ServerCommand(),
			SecretCommand(),
			AdminCommand(),
			ConfigCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file (default ~/.ltrgate/cli.yaml)",
			EnvVars: []string{"LTRGATE_CLI_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "Named profile from the CLI config file",
			EnvVars: []string{"LTRGATE_PROFILE"},
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "ltrgate server address (e.g., http://localhost:3000)",
			EnvVars: []string{"LTRGATE_SERVER"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Aliases: []string{"K"},
			Usage:   "Issuer API key sent as a bearer token",
			EnvVars: []string{"LTRGATE_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "ca-file",
			Usage: "PEM bundle trusted for https servers",
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "Skip TLS certificate verification",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// Settings are the effective options of one invocation: the config file
// and profile, overridden by flags and environment.
type Settings struct {
	*config.CLIConfig

	ConfigPath string
	Format     output.Format
	Wide       bool
	Insecure   bool
	Verbose    bool
}

// LoadSettings resolves the settings for c.
func LoadSettings(c *cli.Context) (*Settings, error) {
	path := c.String("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}

	file, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg, err := file.Resolve(c.String("profile"))
	if err != nil {
		return nil, err
	}

	if v := c.String("server"); v != "" {
		cfg.Server = v
	}
	if v := c.String("api-key"); v != "" {
		cfg.APIKey = v
	}
	if v := c.String("ca-file"); v != "" {
		cfg.CAFile = v
	}
	if v := c.String("output"); v != "" {
		cfg.Output = v
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	return &Settings{
		CLIConfig:  cfg,
		ConfigPath: path,
		Format:     format,
		Wide:       c.Bool("wide"),
		Insecure:   c.Bool("insecure"),
		Verbose:    c.Bool("verbose"),
	}, nil
}

// Client returns an HTTP client for the configured server.
func (s *Settings) Client() (*connection.HTTPClient, error) {
	tlsCfg, err := tlsconf.ClientConfig(tlsconf.ClientOptions{
		CAFile:             s.CAFile,
		InsecureSkipVerify: s.Insecure,
	})
	if err != nil {
		return nil, err
	}
	return connection.NewHTTPClient(s.Server, s.APIKey, connection.WithTLSConfig(tlsCfg)), nil
}

// Logger returns a logger writing to w: warnings only, or debug when
// verbose.
func (s *Settings) Logger(w io.Writer) *slog.Logger {
	level := "warn"
	if s.Verbose {
		level = "debug"
	}
	l, err := logger.New(logger.Config{Level: level, Format: "text", Output: w})
	if err != nil {
		return slog.New(slog.NewTextHandler(w, nil))
	}
	return logger.Slog(l)
}

// Print writes data to the app writer in the configured format.
func (s *Settings) Print(c *cli.Context, data any) error {
	return output.NewFormatter(s.Format, s.Wide).Format(c.App.Writer, data)
}

// requireArg returns the first positional argument or a usage error.
func requireArg(c *cli.Context, name string) (string, error) {
	v := c.Args().First()
	if v == "" {
		return "", fmt.Errorf("%s required", name)
	}
	return v, nil
}
