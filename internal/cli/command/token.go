package command

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ltrgate-go/internal/cli/connection"
	"github.com/yndnr/ltrgate-go/internal/core/domain"
	"github.com/yndnr/ltrgate-go/internal/core/service"
)

// TokenCommand returns the token subcommand group.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:    "token",
		Aliases: []string{"tok"},
		Usage:   "Issue and check access tokens locally",
		Subcommands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Sign a new token and print its link",
				Flags: []cli.Flag{
					secretFlag(),
					&cli.StringFlag{
						Name:    "duration",
						Aliases: []string{"d"},
						Usage:   "Validity in minutes (invalid values fall back to the default)",
					},
					&cli.IntFlag{
						Name:  "default-minutes",
						Value: service.DefaultDurationMinutes,
						Usage: "Minutes used when --duration is absent or invalid",
					},
					&cli.StringFlag{
						Name:    "site-url",
						Usage:   "Origin of the generated link",
						EnvVars: []string{"SITE_URL", "LTRGATE_SITE_URL"},
					},
				},
				Action: tokenIssue,
			},
			{
				Name:      "verify",
				Usage:     "Check a token's signature and expiry",
				ArgsUsage: "TOKEN",
				Flags:     []cli.Flag{secretFlag()},
				Action:    tokenVerify,
			},
			{
				Name:      "inspect",
				Usage:     "Show a token's expiry without the secret",
				ArgsUsage: "TOKEN",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "remote",
						Usage: "Ask the server, which also checks the signature",
					},
				},
				Action: tokenInspect,
			},
		},
	}
}

func secretFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "secret",
		Usage:   "Token signing secret",
		EnvVars: []string{"TOKEN_SECRET", "LTRGATE_TOKEN_SECRET"},
	}
}

// IssueResult is printed by token issue.
type IssueResult struct {
	Link            string    `json:"link"`
	Token           string    `json:"token" table:"wide"`
	DurationMinutes int       `json:"durationMinutes"`
	ExpiresAt       int64     `json:"expiresAt"`
	Expires         time.Time `json:"expires"`
}

func tokenIssue(c *cli.Context) error {
	s, err := LoadSettings(c)
	if err != nil {
		return err
	}

	minutes := service.NormalizeDuration(c.String("duration"), c.Int("default-minutes"))
	siteURL := service.ResolveSiteURL(c.String("site-url"), "", "", "")

	issued, err := service.NewIssuer(c.String("secret")).IssueLink(minutes, siteURL)
	if err != nil {
		return err
	}

	return s.Print(c, IssueResult{
		Link:            issued.Link,
		Token:           issued.Token,
		DurationMinutes: issued.DurationMinutes,
		ExpiresAt:       issued.ExpiresAt,
		Expires:         time.UnixMilli(issued.ExpiresAt).UTC(),
	})
}

// CheckResult is printed by token verify and token inspect.
type CheckResult struct {
	Valid       bool      `json:"valid"`
	Reason      string    `json:"reason,omitempty"`
	ExpiresAt   int64     `json:"expiresAt"`
	Expires     time.Time `json:"expires"`
	RemainingMs int64     `json:"remainingMs" table:"wide"`
	Remaining   string    `json:"remaining"`
}

func tokenVerify(c *cli.Context) error {
	s, err := LoadSettings(c)
	if err != nil {
		return err
	}
	tok, err := requireArg(c, "TOKEN")
	if err != nil {
		return err
	}

	ins := service.NewVerifier(c.String("secret")).Inspect(tok)
	result := checkResult(ins.Valid, ins.Reason, ins.ExpiresAt, ins.RemainingMs)
	if err := s.Print(c, result); err != nil {
		return err
	}
	if !ins.Valid {
		return fmt.Errorf("token rejected: %s", ins.Reason)
	}
	return nil
}

func tokenInspect(c *cli.Context) error {
	s, err := LoadSettings(c)
	if err != nil {
		return err
	}
	tok, err := requireArg(c, "TOKEN")
	if err != nil {
		return err
	}

	if c.Bool("remote") {
		return tokenInspectRemote(c, s, tok)
	}

	at, err := domain.DecodeToken(tok)
	if err != nil {
		return err
	}
	remaining := at.Remaining(time.Now())
	return s.Print(c, InspectResult{
		Expired:     remaining <= 0,
		ExpiresAt:   at.ExpiresAt,
		Expires:     at.ExpiresAtTime().UTC(),
		RemainingMs: remaining.Milliseconds(),
		Remaining:   remaining.Round(time.Second).String(),
	})
}

// InspectResult is printed by a local token inspect. The signature is not
// checked.
type InspectResult struct {
	Expired     bool      `json:"expired"`
	ExpiresAt   int64     `json:"expiresAt"`
	Expires     time.Time `json:"expires"`
	RemainingMs int64     `json:"remainingMs" table:"wide"`
	Remaining   string    `json:"remaining"`
}

func tokenInspectRemote(c *cli.Context, s *Settings, tok string) error {
	client, err := s.Client()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, connection.DefaultTimeout)
	defer cancel()

	resp, err := client.Get(ctx, inspectPath, url.Values{"token": {tok}})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var body struct {
		Valid       bool  `json:"valid"`
		ExpiresAt   int64 `json:"expiresAt"`
		RemainingMs int64 `json:"remainingMs"`
	}
	if err := connection.ParseResponse(resp, &body); err != nil {
		return err
	}
	return s.Print(c, checkResult(body.Valid, "", body.ExpiresAt, body.RemainingMs))
}

func checkResult(valid bool, reason string, expiresAt, remainingMs int64) CheckResult {
	r := CheckResult{
		Valid:       valid,
		Reason:      reason,
		ExpiresAt:   expiresAt,
		RemainingMs: remainingMs,
		Remaining:   (time.Duration(remainingMs) * time.Millisecond).Round(time.Second).String(),
	}
	if expiresAt > 0 {
		r.Expires = time.UnixMilli(expiresAt).UTC()
	}
	return r
}
