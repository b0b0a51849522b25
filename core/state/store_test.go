package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gridpilot/gridpilot/core/model"
)

func snapAt(t time.Time, soc float64) model.EnergySnapshot {
	return model.EnergySnapshot{
		Timestamp:    t,
		SolarKWh:     10,
		LoadKWh:      80,
		GridPrice:    0.15,
		CO2Intensity: 400,
		BatterySoC:   soc,
	}
}

func TestStore_CurrentBeforeFirstCommit(t *testing.T) {
	init := snapAt(time.Unix(1000, 0), 50)
	s := New(4, init)
	if got := s.Current(); got != init {
		t.Fatalf("expected initial snapshot, got %#v", got)
	}
	if s.Len() != 0 {
		t.Fatalf("history should be empty before first commit")
	}
}

func TestStore_CommitAdvancesCurrent(t *testing.T) {
	base := time.Unix(1000, 0)
	s := New(4, snapAt(base, 50))
	next := snapAt(base.Add(time.Minute), 55)
	if err := s.Commit(next); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if got := s.Current(); got != next {
		t.Fatalf("current not swapped: %#v", got)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 history entry, got %d", s.Len())
	}
}

func TestStore_CommitRejectsNonMonotonic(t *testing.T) {
	base := time.Unix(1000, 0)
	s := New(4, snapAt(base, 50))
	first := snapAt(base.Add(time.Minute), 55)
	if err := s.Commit(first); err != nil {
		t.Fatalf("commit: %v", err)
	}
	for _, ts := range []time.Time{base, base.Add(time.Minute), base.Add(30 * time.Second)} {
		err := s.Commit(snapAt(ts, 60))
		if !errors.Is(err, model.ErrInvalidSnapshot) {
			t.Fatalf("expected ErrInvalidSnapshot for %v, got %v", ts, err)
		}
	}
	// Failed commits leave the store untouched.
	if got := s.Current(); got != first {
		t.Fatalf("store mutated by failed commit: %#v", got)
	}
	if s.Len() != 1 {
		t.Fatalf("history mutated by failed commit: %d", s.Len())
	}
}

func TestStore_HistoryEvictsOldest(t *testing.T) {
	base := time.Unix(1000, 0)
	s := New(3, snapAt(base, 50))
	for i := 1; i <= 5; i++ {
		if err := s.Commit(snapAt(base.Add(time.Duration(i)*time.Minute), float64(50+i))); err != nil {
			t.Fatalf("commit %d: %v", i, err)
		}
	}
	h := s.History(3)
	if len(h) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(h))
	}
	// Chronological, holding the last three commits.
	for i, want := range []float64{53, 54, 55} {
		if h[i].BatterySoC != want {
			t.Fatalf("entry %d: soc %v, want %v", i, h[i].BatterySoC, want)
		}
	}
	if !h[0].Timestamp.Before(h[1].Timestamp) || !h[1].Timestamp.Before(h[2].Timestamp) {
		t.Fatalf("history not chronological")
	}
}

func TestStore_HistoryWindowLargerThanSize(t *testing.T) {
	base := time.Unix(1000, 0)
	s := New(10, snapAt(base, 50))
	_ = s.Commit(snapAt(base.Add(time.Minute), 51))
	if got := len(s.History(10)); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if s.History(0) != nil {
		t.Fatalf("zero window should return nil")
	}
}

func TestStore_ConcurrentReaders(t *testing.T) {
	base := time.Unix(1000, 0)
	s := New(16, snapAt(base, 50))
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				cur := s.Current()
				// A torn snapshot would show a mix of tick values.
				if cur.BatterySoC != cur.SolarKWh-10 && cur.BatterySoC != 50 {
					t.Errorf("inconsistent snapshot: %#v", cur)
					return
				}
				_ = s.History(16)
			}
		}()
	}
	for i := 1; i <= 200; i++ {
		snap := snapAt(base.Add(time.Duration(i)*time.Second), 0)
		snap.SolarKWh = float64(i%20) + 10
		snap.BatterySoC = snap.SolarKWh - 10
		if err := s.Commit(snap); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}
	close(done)
	wg.Wait()
}
