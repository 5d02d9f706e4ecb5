package command

import (
	"fmt"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ltrgate-go/internal/cli/config"
	"github.com/yndnr/ltrgate-go/internal/cli/output"
	"github.com/yndnr/ltrgate-go/internal/core/domain"
	"github.com/yndnr/ltrgate-go/internal/storage"
	"github.com/yndnr/ltrgate-go/pkg/quota"
)

// QuotaCommand returns the quota subcommand group.
func QuotaCommand() *cli.Command {
	return &cli.Command{
		Name:  "quota",
		Usage: "Track the per-token usage quota in the local store",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the remaining quota of a token",
				Flags:  quotaFlags(),
				Action: quotaShow,
			},
			{
				Name:  "complete",
				Usage: "Record completed responses against a token's quota",
				Description: "Replays one page session: the counter is restored, then each response\n" +
					"completes --interval after the previous one. The first completion of a\n" +
					"session is the greeting and is never counted.",
				Flags: append(quotaFlags(),
					&cli.IntFlag{
						Name:    "responses",
						Aliases: []string{"n"},
						Value:   2,
						Usage:   "Number of completed responses, greeting included",
					},
					&cli.DurationFlag{
						Name:  "interval",
						Value: 1500 * time.Millisecond,
						Usage: "Time between completions",
					},
				),
				Action: quotaComplete,
			},
			{
				Name:   "list",
				Usage:  "List every tracked token",
				Flags:  quotaFlags(),
				Action: quotaList,
			},
		},
	}
}

func quotaFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Access token (empty tracks the no-token bucket)",
		},
		&cli.StringFlag{
			Name:    "store-dir",
			Usage:   "Quota store directory (default ~/.ltrgate/quota)",
			EnvVars: []string{"LTRGATE_QUOTA_DIR"},
		},
		&cli.StringFlag{
			Name:  "engine",
			Value: storage.EngineBadger,
			Usage: "Store engine: badger, or memory for a dry run",
		},
		&cli.IntFlag{
			Name:  "max",
			Usage: "Quota ceiling (5 for chat, 1 for the image variant)",
		},
		&cli.DurationFlag{
			Name:  "debounce",
			Usage: "Window in which further completions are dropped",
		},
	}
}

// QuotaStatus is printed by the quota commands.
type QuotaStatus struct {
	Key          string `json:"key" table:"wide"`
	Token        string `json:"token"`
	Remaining    int    `json:"remaining"`
	Max          int    `json:"max"`
	State        string `json:"state"`
	Blocked      bool   `json:"blocked"`
	NewAccessURL string `json:"newAccessUrl,omitempty"`
}

// quotaSession is an open store plus the effective quota settings.
type quotaSession struct {
	kv       storage.KVEngine
	store    *storage.QuotaStore
	settings *Settings
	max      int
	debounce time.Duration
}

func openQuota(c *cli.Context) (*quotaSession, error) {
	s, err := LoadSettings(c)
	if err != nil {
		return nil, err
	}

	dir := c.String("store-dir")
	if dir == "" {
		dir = s.Quota.StoreDir
	}
	if dir == "" {
		dir = config.DefaultQuotaDir()
	}

	kvCfg := storage.DefaultKVConfig(dir)
	kvCfg.Engine = c.String("engine")
	kvCfg.Badger.GCInterval = 0

	kv, err := storage.Open(kvCfg, s.Logger(c.App.ErrWriter))
	if err != nil {
		return nil, fmt.Errorf("open quota store: %w", err)
	}

	qs := &quotaSession{
		kv:       kv,
		store:    storage.NewQuotaStore(kv),
		settings: s,
		max:      s.Quota.Max,
		debounce: s.Quota.Debounce,
	}
	if c.IsSet("max") {
		qs.max = c.Int("max")
	}
	if c.IsSet("debounce") {
		qs.debounce = c.Duration("debounce")
	}
	if qs.max < 1 {
		qs.max = quota.DefaultMax
	}
	return qs, nil
}

func (q *quotaSession) Close() error {
	return q.kv.Close()
}

func (q *quotaSession) tracker(token string, opts ...quota.Option) *quota.Tracker {
	opts = append([]quota.Option{quota.WithMax(q.max), quota.WithDebounce(q.debounce)}, opts...)
	return quota.New(q.store, token, opts...)
}

func (q *quotaSession) status(t *quota.Tracker, token string) QuotaStatus {
	st := QuotaStatus{
		Key:       t.Key(),
		Token:     displayToken(token),
		Remaining: t.Remaining(),
		Max:       t.Max(),
		State:     t.State().String(),
		Blocked:   t.Blocked(),
	}
	if st.Blocked {
		st.NewAccessURL = q.settings.Quota.NewAccessURL
	}
	return st
}

func displayToken(token string) string {
	if token == "" || token == quota.NoTokenSentinel {
		return quota.NoTokenSentinel
	}
	return domain.MaskToken(token)
}

func quotaShow(c *cli.Context) error {
	q, err := openQuota(c)
	if err != nil {
		return err
	}
	defer q.Close()

	token := c.String("token")
	t := q.tracker(token)
	if _, err := t.Restore(c.Context); err != nil {
		return err
	}
	return q.settings.Print(c, q.status(t, token))
}

// CompleteResult is printed by quota complete.
type CompleteResult struct {
	Outcomes []string    `json:"outcomes"`
	Status   QuotaStatus `json:"status"`
}

func quotaComplete(c *cli.Context) error {
	q, err := openQuota(c)
	if err != nil {
		return err
	}
	defer q.Close()

	clock := newStepClock(time.Now())
	token := c.String("token")
	t := q.tracker(token, quota.WithClock(clock.Now))

	if _, err := t.Restore(c.Context); err != nil {
		return err
	}

	result := CompleteResult{}
	for i := 0; i < c.Int("responses"); i++ {
		if i > 0 {
			clock.Advance(c.Duration("interval"))
		}
		outcome, err := t.Complete(c.Context)
		if err != nil {
			return err
		}
		result.Outcomes = append(result.Outcomes, outcome.String())
	}
	result.Status = q.status(t, token)

	if q.settings.Format != output.FormatTable {
		return q.settings.Print(c, result)
	}
	for i, o := range result.Outcomes {
		fmt.Fprintf(c.App.Writer, "response %d: %s\n", i+1, o)
	}
	return q.settings.Print(c, result.Status)
}

func quotaList(c *cli.Context) error {
	q, err := openQuota(c)
	if err != nil {
		return err
	}
	defer q.Close()

	entries, err := q.store.List(c.Context)
	if err != nil {
		return err
	}

	rows := make([]QuotaStatus, 0, len(entries))
	for _, e := range entries {
		remaining := quota.ParseRemaining(e.Raw, q.max)
		rows = append(rows, QuotaStatus{
			Key:       e.Key,
			Token:     displayToken(e.Token),
			Remaining: remaining,
			Max:       q.max,
			Blocked:   remaining <= 0,
		})
	}
	return q.settings.Print(c, rows)
}

// stepClock is a manual clock for replaying completions without sleeping.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock(start time.Time) *stepClock {
	return &stepClock{now: start}
}

func (s *stepClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *stepClock) Advance(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)
	s.mu.Unlock()
}
