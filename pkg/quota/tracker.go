package quota

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Tracker enforces the usage quota of one key.
type Tracker struct {
	store     Store
	key       string
	max       int
	debounce  time.Duration
	now       func() time.Time
	notifiers []func(Event)

	mu           sync.Mutex
	state        State
	remaining    int
	restored     bool
	ignoredFirst bool
	counted      bool
	lastCountAt  time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithMax sets the quota ceiling. Values below 1 are ignored.
func WithMax(max int) Option {
	return func(t *Tracker) {
		if max >= 1 {
			t.max = max
		}
	}
}

// WithDebounce sets the minimum interval between two counted completions.
func WithDebounce(d time.Duration) Option {
	return func(t *Tracker) {
		if d >= 0 {
			t.debounce = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithNotifier registers a listener for quota events. Listeners run
// synchronously after the tracker lock is released.
func WithNotifier(fn func(Event)) Option {
	return func(t *Tracker) {
		if fn != nil {
			t.notifiers = append(t.notifiers, fn)
		}
	}
}

// New creates a tracker for the given token. An empty token maps to the
// no-token sentinel key.
func New(store Store, token string, opts ...Option) *Tracker {
	t := &Tracker{
		store:    store,
		key:      KeyFor(token),
		max:      DefaultMax,
		debounce: DefaultDebounce,
		now:      time.Now,
		state:    StateFresh,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.remaining = t.max
	return t
}

// Restore loads the persisted counter, initializing it to Max on first
// observation of the key. It resets the greeting guard, as a page mount does.
func (t *Tracker) Restore(ctx context.Context) (int, error) {
	t.mu.Lock()
	ev, err := t.restoreLocked(ctx)
	t.mu.Unlock()

	if err != nil {
		return 0, err
	}
	t.emit(ev)
	return ev.Remaining, nil
}

func (t *Tracker) restoreLocked(ctx context.Context) (Event, error) {
	raw, ok, err := t.store.Load(ctx, t.key)
	if err != nil {
		return Event{}, fmt.Errorf("quota: load %s: %w", t.key, err)
	}

	remaining := t.max
	if ok {
		remaining = ParseRemaining(raw, t.max)
	} else if err := t.store.Save(ctx, t.key, strconv.Itoa(t.max)); err != nil {
		return Event{}, fmt.Errorf("quota: init %s: %w", t.key, err)
	}

	t.remaining = remaining
	t.restored = true
	t.ignoredFirst = false
	t.counted = false
	t.setStateLocked()

	return t.eventLocked(CauseRestore), nil
}

// Complete records one completed unit of work.
//
// The counter is persisted before the event is emitted. If persisting fails
// the in-memory counter keeps the decrement and the error is returned with
// OutcomeCounted.
func (t *Tracker) Complete(ctx context.Context) (Outcome, error) {
	var events []Event

	t.mu.Lock()
	if !t.restored {
		ev, err := t.restoreLocked(ctx)
		if err != nil {
			t.mu.Unlock()
			return OutcomeExhausted, err
		}
		events = append(events, ev)
	}

	outcome, ev, err := t.completeLocked(ctx)
	if ev != nil {
		events = append(events, *ev)
	}
	t.mu.Unlock()

	for _, e := range events {
		t.emit(e)
	}
	return outcome, err
}

func (t *Tracker) completeLocked(ctx context.Context) (Outcome, *Event, error) {
	if !t.ignoredFirst {
		t.ignoredFirst = true
		return OutcomeIgnoredFirst, nil, nil
	}

	if t.remaining <= 0 {
		return OutcomeExhausted, nil, nil
	}

	now := t.now()
	if t.counted && now.Sub(t.lastCountAt) < t.debounce {
		return OutcomeDebounced, nil, nil
	}
	t.counted = true
	t.lastCountAt = now

	t.remaining--
	if t.remaining < 0 {
		t.remaining = 0
	}
	t.setStateLocked()

	var saveErr error
	if err := t.store.Save(ctx, t.key, strconv.Itoa(t.remaining)); err != nil {
		saveErr = fmt.Errorf("quota: save %s: %w", t.key, err)
	}

	ev := t.eventLocked(CauseDecrement)
	return OutcomeCounted, &ev, saveErr
}

// Remaining returns the current counter value.
func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Blocked reports whether action-triggering UI must be disabled.
func (t *Tracker) Blocked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.restored && t.remaining <= 0
}

// State returns the lifecycle state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Key returns the storage key of this tracker.
func (t *Tracker) Key() string { return t.key }

// Max returns the quota ceiling.
func (t *Tracker) Max() int { return t.max }

func (t *Tracker) setStateLocked() {
	if t.remaining <= 0 {
		t.state = StateExhausted
	} else {
		t.state = StateActive
	}
}

func (t *Tracker) eventLocked(cause Cause) Event {
	return Event{
		Name:      EventName,
		Key:       t.key,
		Remaining: t.remaining,
		Cause:     cause,
		At:        t.now(),
	}
}

func (t *Tracker) emit(ev Event) {
	for _, fn := range t.notifiers {
		fn(ev)
	}
}
