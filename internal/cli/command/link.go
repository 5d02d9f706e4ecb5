package command

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ltrgate-go/internal/cli/connection"
)

// Server routes used by the remote commands.
const (
	generateLinkPath = "/api/generate-link"
	pinnedLinkPath   = "/api/generate-link-wix"
	inspectPath      = "/api/token/inspect"
	healthPath       = "/api/health"
	readyPath        = "/api/ready"
)

// LinkCommand returns the link subcommand group.
func LinkCommand() *cli.Command {
	return &cli.Command{
		Name:  "link",
		Usage: "Generate access links on a running server",
		Subcommands: []*cli.Command{
			{
				Name:    "generate",
				Aliases: []string{"gen"},
				Usage:   "Ask the server for a new link",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "duration",
						Aliases: []string{"d"},
						Usage:   "Validity in minutes (server default when empty)",
					},
					&cli.BoolFlag{
						Name:  "pinned",
						Usage: "Use the pinned-origin endpoint",
					},
				},
				Action: linkGenerate,
			},
		},
	}
}

// LinkResult is printed by link generate.
type LinkResult struct {
	Link            string `json:"link"`
	DurationMinutes int    `json:"durationMinutes"`
	ExpiresAt       int64  `json:"expiresAt,omitempty"`
}

func linkGenerate(c *cli.Context) error {
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

	duration := strings.TrimSpace(c.String("duration"))

	var body struct {
		Link            string `json:"link"`
		DurationMinutes int    `json:"durationMinutes"`
		ExpiresAt       int64  `json:"expiresAt"`
	}

	if c.Bool("pinned") {
		var payload map[string]any
		if duration != "" {
			payload = map[string]any{"duration": duration}
		}
		resp, err := client.Post(ctx, pinnedLinkPath, payload)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		if err := connection.ParseResponse(resp, &body); err != nil {
			return err
		}
	} else {
		query := url.Values{}
		if duration != "" {
			query.Set("duration", duration)
		}
		resp, err := client.Get(ctx, generateLinkPath, query)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		if err := connection.ParseResponse(resp, &body); err != nil {
			return err
		}
	}

	return s.Print(c, LinkResult{
		Link:            body.Link,
		DurationMinutes: body.DurationMinutes,
		ExpiresAt:       body.ExpiresAt,
	})
}
