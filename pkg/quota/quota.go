package quota

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"
)

// Defaults observed in the chat deployment. The image variant runs with Max 1.
const (
	DefaultMax      = 5
	DefaultDebounce = 1200 * time.Millisecond
)

const (
	// EventName is the notification name emitted on restore and on every decrement.
	EventName = "ltr-quota-update"

	// KeyPrefix prefixes every persisted counter key.
	KeyPrefix = "ltr_quota_remaining:"

	// NoTokenSentinel keys the counter when no token is present.
	NoTokenSentinel = "no-token"
)

// Store persists counters as text, one entry per key.
type Store interface {
	// Load returns the stored value; ok is false when the key was never written.
	Load(ctx context.Context, key string) (value string, ok bool, err error)

	// Save writes the value for key.
	Save(ctx context.Context, key, value string) error
}

// KeyFor returns the storage key for a token.
func KeyFor(token string) string {
	if token == "" {
		token = NoTokenSentinel
	}
	return KeyPrefix + token
}

// TokenFromKey is the inverse of KeyFor. ok is false for foreign keys.
func TokenFromKey(key string) (token string, ok bool) {
	return strings.CutPrefix(key, KeyPrefix)
}

// Clamp floors n and clamps it to [0, max]. Non-finite values yield max.
func Clamp(n float64, max int) int {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return max
	}
	f := math.Floor(n)
	if f < 0 {
		return 0
	}
	if f > float64(max) {
		return max
	}
	return int(f)
}

// ParseRemaining converts a stored value into a clamped counter.
// Unparseable text is treated as non-finite; blank text reads as zero.
func ParseRemaining(raw string, max int) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return max
	}
	return Clamp(n, max)
}

// State is the lifecycle state of a counter.
type State int

const (
	StateFresh State = iota
	StateActive
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateActive:
		return "active"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Outcome describes what a completion event did.
type Outcome int

const (
	// OutcomeIgnoredFirst is the greeting completion, never counted.
	OutcomeIgnoredFirst Outcome = iota
	// OutcomeDebounced is a completion inside the debounce window.
	OutcomeDebounced
	// OutcomeCounted decremented the counter.
	OutcomeCounted
	// OutcomeExhausted arrived with the counter already at zero.
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnoredFirst:
		return "ignored_first"
	case OutcomeDebounced:
		return "debounced"
	case OutcomeCounted:
		return "counted"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Cause tells listeners why an event was emitted.
type Cause string

const (
	CauseRestore   Cause = "restore"
	CauseDecrement Cause = "decrement"
)

// Event is the notification emitted with the current counter value.
type Event struct {
	Name      string
	Key       string
	Remaining int
	Cause     Cause
	At        time.Time
}
