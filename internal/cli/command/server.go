package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ltrgate-go/internal/cli/connection"
)

// ServerCommand returns the server subcommand group.
func ServerCommand() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"srv"},
		Usage:   "Query a running server",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Show liveness, readiness and version",
				Action: serverHealth,
			},
		},
	}
}

// HealthResult is printed by server health.
type HealthResult struct {
	Server  string `json:"server"`
	Status  string `json:"status"`
	Version string `json:"version"`
	Ready   bool   `json:"ready"`
	Reason  string `json:"reason,omitempty"`
}

func serverHealth(c *cli.Context) error {
	s, err := LoadSettings(c)
	if err != nil {
		return err
	}
	client, err := s.Client()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, connection.DefaultTimeout)
	defer cancel()

	var health struct {
		Data struct {
			Status  string `json:"status"`
			Version string `json:"version"`
		} `json:"data"`
	}
	resp, err := client.Get(ctx, healthPath, nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, &health); err != nil {
		return err
	}

	result := HealthResult{
		Server:  client.BaseURL(),
		Status:  health.Data.Status,
		Version: health.Data.Version,
		Ready:   true,
	}

	resp, err = client.Get(ctx, readyPath, nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		result.Ready = false
		result.Reason = err.Error()
	}

	return s.Print(c, result)
}
