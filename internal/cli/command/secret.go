package command

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ltrgate-go/internal/core/service"
	"github.com/yndnr/ltrgate-go/pkg/token"
)

// minSecretBytes is the shortest secret secret generate will produce.
const minSecretBytes = 16

// SecretCommand returns the secret subcommand group.
func SecretCommand() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: "Manage the token signing secret",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Print a random secret for token.secret",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "bytes",
						Value: token.DefaultLength,
						Usage: "Random bytes before encoding",
					},
				},
				Action: secretGenerate,
			},
		},
	}
}

func secretGenerate(c *cli.Context) error {
	n := c.Int("bytes")
	if n < minSecretBytes {
		return fmt.Errorf("--bytes must be at least %d", minSecretBytes)
	}
	secret, err := token.GenerateWithLength(n)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, secret)
	return nil
}

// AdminCommand returns the admin subcommand group.
func AdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Admin area helpers",
		Subcommands: []*cli.Command{
			{
				Name:      "hash-code",
				Usage:     "Hash an admin code for admin.code",
				ArgsUsage: "[CODE]",
				Description: "Reads the code from the argument, or from the first line of stdin\n" +
					"when no argument is given.",
				Action: adminHashCode,
			},
		},
	}
}

func adminHashCode(c *cli.Context) error {
	code := c.Args().First()
	if code == "" {
		line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("CODE required")
		}
		code = strings.TrimSpace(line)
	}

	hash, err := service.HashAdminCode(code)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, hash)
	return nil
}
