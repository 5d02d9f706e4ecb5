package benchmark

import (
	"io"
	"log/slog"
	"time"

	"github.com/yndnr/ltrgate-go/internal/core/service"
)

const benchSecret = "benchmark-secret"

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// issueTokens mints n tokens valid for an hour.
func issueTokens(n int) []string {
	issuer := service.NewIssuer(benchSecret)
	tokens := make([]string, n)
	for i := range tokens {
		issued, err := issuer.Issue(60)
		if err != nil {
			panic(err)
		}
		tokens[i] = issued.Token
	}
	return tokens
}

// expiredToken returns a correctly signed token that expired a minute ago.
func expiredToken() string {
	past := func() time.Time { return time.Now().Add(-2 * time.Minute) }
	issued, err := service.NewIssuer(benchSecret, service.WithClock(past)).Issue(1)
	if err != nil {
		panic(err)
	}
	return issued.Token
}
