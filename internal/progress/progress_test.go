package progress

import (
	"testing"
	"time"

	"github.com/Kryruin/Elice-MiniProject/internal/models"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func rec(status models.Status, percent int) models.ProgressRecord {
	return models.ProgressRecord{Status: status, Percent: percent}
}

func TestMerge(t *testing.T) {
	tc := []struct {
		name    string
		current models.ProgressRecord
		partial Partial
		want    models.ProgressRecord
	}{
		{
			name:    "percent update on untracked item",
			current: Default(),
			partial: Percent(25),
			want:    rec(models.StatusInProgress, 25),
		},
		{
			name:    "reaching 100 flips to done",
			current: rec(models.StatusInProgress, 75),
			partial: Percent(100),
			want:    rec(models.StatusDone, 100),
		},
		{
			name:    "explicit done with low percent",
			current: rec(models.StatusInProgress, 10),
			partial: Status(models.StatusDone),
			want:    rec(models.StatusDone, 10),
		},
		{
			name:    "explicit status wins below 100",
			current: rec(models.StatusNotStarted, 0),
			partial: Set(models.StatusInProgress, 50),
			want:    rec(models.StatusInProgress, 50),
		},
		{
			name:    "reset leaves done",
			current: rec(models.StatusDone, 100),
			partial: Reset(),
			want:    rec(models.StatusInProgress, 0),
		},
		{
			name:    "lowering percent never infers a backward status",
			current: rec(models.StatusDone, 100),
			partial: Percent(40),
			want:    rec(models.StatusDone, 40),
		},
		{
			name:    "explicit in_progress cannot override 100",
			current: rec(models.StatusInProgress, 90),
			partial: Set(models.StatusInProgress, 100),
			want:    rec(models.StatusDone, 100),
		},
		{
			name:    "explicit not_started with zero percent",
			current: rec(models.StatusInProgress, 0),
			partial: Set(models.StatusNotStarted, 0),
			want:    rec(models.StatusNotStarted, 0),
		},
		{
			name:    "explicit not_started keeps percent",
			current: rec(models.StatusInProgress, 50),
			partial: Status(models.StatusNotStarted),
			want:    rec(models.StatusNotStarted, 50),
		},
		{
			name:    "explicit not_started with percent",
			current: rec(models.StatusDone, 100),
			partial: Set(models.StatusNotStarted, 30),
			want:    rec(models.StatusNotStarted, 30),
		},
		{
			name:    "empty partial keeps current",
			current: rec(models.StatusInProgress, 30),
			partial: Partial{},
			want:    rec(models.StatusInProgress, 30),
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.current, tt.partial, now)
			if got.Status != tt.want.Status || got.Percent != tt.want.Percent {
				t.Errorf("Merge() = {%s %d}, want {%s %d}", got.Status, got.Percent, tt.want.Status, tt.want.Percent)
			}
			if !got.UpdatedAt.Equal(now) {
				t.Errorf("Merge() UpdatedAt = %v, want %v", got.UpdatedAt, now)
			}
		})
	}
}

func TestMergeProperties(t *testing.T) {
	statuses := []models.Status{models.StatusNotStarted, models.StatusInProgress, models.StatusDone}

	t.Run("done iff 100 or explicitly done", func(t *testing.T) {
		for _, cur := range statuses {
			for p := 0; p <= 100; p += 5 {
				for _, explicit := range append([]models.Status{""}, statuses...) {
					partial := Percent(p)
					if explicit != "" {
						partial = Set(explicit, p)
					}
					got := Merge(rec(cur, 50), partial, now)

					wantDone := p == 100 || explicit == models.StatusDone || (explicit == "" && cur == models.StatusDone)
					if (got.Status == models.StatusDone) != wantDone {
						t.Errorf("cur=%s p=%d explicit=%q: status %s, wantDone %v", cur, p, explicit, got.Status, wantDone)
					}
				}
			}
		}
	})

	t.Run("reset always yields in_progress at zero", func(t *testing.T) {
		for _, cur := range statuses {
			for _, p := range []int{0, 25, 99, 100} {
				got := Merge(rec(cur, p), Reset(), now)
				if got.Status != models.StatusInProgress || got.Percent != 0 {
					t.Errorf("reset from {%s %d} = {%s %d}", cur, p, got.Status, got.Percent)
				}
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		partials := []Partial{Percent(25), Percent(100), Reset(), Complete(), Status(models.StatusInProgress)}
		for _, cur := range statuses {
			for _, partial := range partials {
				once := Merge(rec(cur, 60), partial, now)
				twice := Merge(once, partial, now.Add(time.Minute))
				if once.Status != twice.Status || once.Percent != twice.Percent {
					t.Errorf("not idempotent from %s: {%s %d} then {%s %d}", cur, once.Status, once.Percent, twice.Status, twice.Percent)
				}
			}
		}
	})
}

func TestScenario(t *testing.T) {
	records := models.ProgressMap{}

	current := Lookup(records, "unseen")
	if current.Status != models.StatusNotStarted || current.Percent != 0 {
		t.Fatalf("default record = %+v", current)
	}

	current = Merge(current, Percent(25), now)
	if current.Status != models.StatusInProgress || current.Percent != 25 {
		t.Fatalf("after 25%% = %+v", current)
	}

	current = Merge(current, Percent(100), now)
	if current.Status != models.StatusDone || current.Percent != 100 {
		t.Fatalf("after 100%% = %+v", current)
	}

	current = Merge(current, Reset(), now)
	if current.Status != models.StatusInProgress || current.Percent != 0 {
		t.Fatalf("after reset = %+v", current)
	}
}

func TestAdvance(t *testing.T) {
	tc := []struct {
		name    string
		current int
		step    int
		want    int
	}{
		{name: "from zero", current: 0, step: 25, want: 25},
		{name: "clamps at 100", current: 90, step: 25, want: 100},
		{name: "already complete", current: 100, step: 25, want: 100},
		{name: "non-positive step uses default", current: 10, step: 0, want: 35},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			partial := Advance(rec(models.StatusInProgress, tt.current), tt.step)
			if partial.Status != nil {
				t.Error("Advance() should not set a status")
			}
			if *partial.Percent != tt.want {
				t.Errorf("Advance() percent = %d, want %d", *partial.Percent, tt.want)
			}
		})
	}

	t.Run("90 percent advances to done", func(t *testing.T) {
		cur := rec(models.StatusInProgress, 90)
		got := Merge(cur, Advance(cur, DefaultStep), now)
		if got.Percent != 100 || got.Status != models.StatusDone {
			t.Errorf("advance from 90 = {%s %d}, want {done 100}", got.Status, got.Percent)
		}
	})
}

func TestToggleComplete(t *testing.T) {
	done := Merge(Default(), ToggleComplete(Default()), now)
	if done.Status != models.StatusDone || done.Percent != 100 {
		t.Errorf("toggle from default = {%s %d}", done.Status, done.Percent)
	}

	back := Merge(done, ToggleComplete(done), now)
	if back.Status != models.StatusInProgress || back.Percent != 0 {
		t.Errorf("toggle from done = {%s %d}", back.Status, back.Percent)
	}
}

func TestClamp(t *testing.T) {
	for in, want := range map[int]int{-5: 0, 0: 0, 42: 42, 100: 100, 140: 100} {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%d) = %d, want %d", in, got, want)
		}
	}
}
