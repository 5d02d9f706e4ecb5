package command

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const quotaToken = "4102444800000.c2lnbmF0dXJl"

func quotaArgs(dir string, sub string, extra ...string) []string {
	args := []string{"-o", "json", "quota", sub, "--store-dir", dir}
	return append(args, extra...)
}

func TestQuota_ShowInitializes(t *testing.T) {
	a := newTestApp(t)
	dir := filepath.Join(t.TempDir(), "quota")

	got := decodeOutput[QuotaStatus](t, a.mustRun(quotaArgs(dir, "show", "--token", quotaToken)...))
	if got.Remaining != 5 || got.Max != 5 || got.Blocked {
		t.Errorf("show = %+v, want 5 of 5", got)
	}
	if got.Key != "ltr_quota_remaining:"+quotaToken {
		t.Errorf("Key = %q", got.Key)
	}
	if got.Token != "4102444800000.***" {
		t.Errorf("Token = %q, want masked", got.Token)
	}
}

func TestQuota_Complete(t *testing.T) {
	tests := []struct {
		name          string
		extra         []string
		wantOutcomes  []string
		wantRemaining int
	}{
		{
			name:          "greeting only",
			extra:         []string{"-n", "1"},
			wantOutcomes:  []string{"ignored_first"},
			wantRemaining: 5,
		},
		{
			name:          "spaced responses count",
			extra:         []string{"-n", "3", "--interval", "2s"},
			wantOutcomes:  []string{"ignored_first", "counted", "counted"},
			wantRemaining: 3,
		},
		{
			name:          "rapid responses debounce",
			extra:         []string{"-n", "3", "--interval", "100ms"},
			wantOutcomes:  []string{"ignored_first", "counted", "debounced"},
			wantRemaining: 4,
		},
		{
			name:          "custom debounce",
			extra:         []string{"-n", "3", "--interval", "100ms", "--debounce", "50ms"},
			wantOutcomes:  []string{"ignored_first", "counted", "counted"},
			wantRemaining: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			dir := filepath.Join(t.TempDir(), "quota")

			args := quotaArgs(dir, "complete", append([]string{"--token", quotaToken}, tt.extra...)...)
			got := decodeOutput[CompleteResult](t, a.mustRun(args...))

			if !reflect.DeepEqual(got.Outcomes, tt.wantOutcomes) {
				t.Errorf("Outcomes = %v, want %v", got.Outcomes, tt.wantOutcomes)
			}
			if got.Status.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %d, want %d", got.Status.Remaining, tt.wantRemaining)
			}

			show := decodeOutput[QuotaStatus](t, a.mustRun(quotaArgs(dir, "show", "--token", quotaToken)...))
			if show.Remaining != tt.wantRemaining {
				t.Errorf("persisted Remaining = %d, want %d", show.Remaining, tt.wantRemaining)
			}
		})
	}
}

func TestQuota_ExhaustedShowsNewAccessURL(t *testing.T) {
	a := newTestApp(t)
	a.writeConfig(`
quota:
  max: 1
  new_access_url: https://shop.example.com/new
`)
	dir := filepath.Join(t.TempDir(), "quota")

	got := decodeOutput[CompleteResult](t, a.mustRun(quotaArgs(dir, "complete", "-n", "3", "--interval", "2s")...))
	wantOutcomes := []string{"ignored_first", "counted", "exhausted"}
	if !reflect.DeepEqual(got.Outcomes, wantOutcomes) {
		t.Errorf("Outcomes = %v, want %v", got.Outcomes, wantOutcomes)
	}
	if !got.Status.Blocked || got.Status.State != "exhausted" {
		t.Errorf("Status = %+v, want blocked", got.Status)
	}
	if got.Status.NewAccessURL != "https://shop.example.com/new" {
		t.Errorf("NewAccessURL = %q", got.Status.NewAccessURL)
	}
	if got.Status.Token != "no-token" {
		t.Errorf("Token = %q, want no-token", got.Status.Token)
	}
}

func TestQuota_List(t *testing.T) {
	a := newTestApp(t)
	dir := filepath.Join(t.TempDir(), "quota")

	a.mustRun(quotaArgs(dir, "complete", "--token", quotaToken, "-n", "2", "--interval", "2s")...)
	a.mustRun(quotaArgs(dir, "show")...)

	rows := decodeOutput[[]QuotaStatus](t, a.mustRun(quotaArgs(dir, "list")...))
	if len(rows) != 2 {
		t.Fatalf("list = %+v, want 2 entries", rows)
	}
	byToken := map[string]int{}
	for _, r := range rows {
		byToken[r.Token] = r.Remaining
	}
	if byToken["4102444800000.***"] != 4 || byToken["no-token"] != 5 {
		t.Errorf("list = %v, want token at 4 and no-token at 5", byToken)
	}
}

func TestQuota_NoCommandRaisesCounter(t *testing.T) {
	for _, cmd := range App().Commands {
		if cmd.Name != "quota" {
			continue
		}
		for _, sub := range cmd.Subcommands {
			switch sub.Name {
			case "show", "complete", "list":
			default:
				t.Errorf("unexpected quota subcommand %q", sub.Name)
			}
		}
	}

	a := newTestApp(t)
	dir := filepath.Join(t.TempDir(), "quota")

	got := decodeOutput[CompleteResult](t, a.mustRun(quotaArgs(dir, "complete", "--token", quotaToken, "--max", "1", "-n", "3", "--interval", "2s")...))
	if got.Status.Remaining != 0 || !got.Status.Blocked {
		t.Fatalf("status = %+v, want exhausted", got.Status)
	}

	for i := 0; i < 2; i++ {
		again := decodeOutput[QuotaStatus](t, a.mustRun(quotaArgs(dir, "show", "--token", quotaToken, "--max", "1")...))
		if again.Remaining != 0 || !again.Blocked {
			t.Errorf("show #%d = %+v, want still exhausted", i+1, again)
		}
	}
}

func TestQuota_TableOutput(t *testing.T) {
	a := newTestApp(t)
	dir := filepath.Join(t.TempDir(), "quota")

	out := a.mustRun("quota", "complete", "--store-dir", dir, "-n", "2", "--interval", "2s")
	for _, want := range []string{"response 1: ignored_first", "response 2: counted", "remaining", "4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %q, missing %q", out, want)
		}
	}
}

func TestQuota_MemoryEngine(t *testing.T) {
	a := newTestApp(t)

	got := decodeOutput[QuotaStatus](t, a.mustRun("-o", "json", "quota", "show", "--engine", "memory", "--max", "1"))
	if got.Remaining != 1 || got.Max != 1 {
		t.Errorf("show = %+v, want 1 of 1", got)
	}

	if _, err := a.run("quota", "show", "--engine", "bogus"); err == nil {
		t.Error("show --engine bogus error = nil")
	}
}

func TestStepClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newStepClock(start)
	c.Advance(1500 * time.Millisecond)
	if got := c.Now(); !got.Equal(start.Add(1500 * time.Millisecond)) {
		t.Errorf("Now() = %v, want %v", got, start.Add(1500*time.Millisecond))
	}
}
