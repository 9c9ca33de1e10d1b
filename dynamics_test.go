package affinity

import (
	"testing"
	"time"
)

// ══════════════════════════════════════════════
// Dynamics pipeline tests
// ══════════════════════════════════════════════

// newDynamicsEngine returns an engine with an in-memory store, bounds
// [-100, 100] and the given current score, ready for applyDynamics calls.
func newDynamicsEngine(score int) *Engine {
	e := NewEngine(NewInMemoryAffinityStore(), "mei", "user_42", RelationshipConfig{MinValue: -100})
	e.state.Value = score
	return e
}

func TestDynamics_ZeroBasePassesThrough(t *testing.T) {
	e := newDynamicsEngine(0)
	if got := e.applyDynamics(0, time.Unix(1700000000, 0)); got != 0 {
		t.Fatalf("expected zero base to stay zero, got %d", got)
	}
}

func TestDynamics_GainsShrinkNearCeiling(t *testing.T) {
	now := time.Unix(1700000000, 0)

	low := newDynamicsEngine(0).applyDynamics(10, now)
	high := newDynamicsEngine(95).applyDynamics(10, now)

	if high >= low {
		t.Fatalf("expected smaller gain near ceiling: low=%d high=%d", low, high)
	}
	if high <= 0 {
		t.Fatalf("positive base must stay positive, got %d", high)
	}
}

func TestDynamics_LossesBiteHarderNearCeiling(t *testing.T) {
	now := time.Unix(1700000000, 0)

	gain := newDynamicsEngine(95).applyDynamics(10, now)
	loss := newDynamicsEngine(95).applyDynamics(-10, now)

	if -loss <= gain {
		t.Fatalf("expected loss to outweigh gain at high score: gain=%d loss=%d", gain, loss)
	}
}

func TestDynamics_LossesHoldNearFloor(t *testing.T) {
	now := time.Unix(1700000000, 0)

	atZero := newDynamicsEngine(0).applyDynamics(-5, now)
	atFloor := newDynamicsEngine(-95).applyDynamics(-5, now)

	if -atFloor < -atZero {
		t.Fatalf("negative deltas must not soften near the floor: atZero=%d atFloor=%d", atZero, atFloor)
	}
}

func TestDynamics_CooldownDampens(t *testing.T) {
	now := time.Unix(1700000000, 0)

	cool := newDynamicsEngine(0)
	cool.state.LastChangeTS = unixSeconds(now.Add(-5 * time.Second))
	damped := cool.applyDynamics(10, now)

	calm := newDynamicsEngine(0)
	calm.state.LastChangeTS = unixSeconds(now.Add(-60 * time.Second))
	full := calm.applyDynamics(10, now)

	if damped >= full {
		t.Fatalf("expected rapid-fire delta damped: damped=%d full=%d", damped, full)
	}
	if damped <= 0 {
		t.Fatalf("cooldown must shrink, not erase: got %d", damped)
	}
}

func TestDynamics_DiminishingReturnsOnRecentGains(t *testing.T) {
	now := time.Unix(1700000000, 0)

	fresh := newDynamicsEngine(0).applyDynamics(10, now)

	busy := newDynamicsEngine(0)
	for i := 0; i < 3; i++ {
		busy.state.RecentEvents = append(busy.state.RecentEvents,
			RecentEvent{TS: unixSeconds(now.Add(-time.Minute)), Delta: 3})
	}
	tired := busy.applyDynamics(10, now)

	if tired >= fresh {
		t.Fatalf("expected diminishing returns after recent gains: fresh=%d tired=%d", fresh, tired)
	}
}

func TestDynamics_PositiveRepetitionSuppressed(t *testing.T) {
	now := time.Unix(1700000000, 0)

	once := newDynamicsEngine(0)
	once.state.RepeatCount = 1
	first := once.applyDynamics(10, now)

	parrot := newDynamicsEngine(0)
	parrot.state.RepeatCount = 3
	repeated := parrot.applyDynamics(10, now)

	if repeated >= first {
		t.Fatalf("expected repeated praise suppressed: first=%d repeated=%d", first, repeated)
	}
}

func TestDynamics_NegativeRepetitionCompounds(t *testing.T) {
	now := time.Unix(1700000000, 0)

	once := newDynamicsEngine(0)
	once.state.RepeatCount = 1
	first := once.applyDynamics(-3, now)

	parrot := newDynamicsEngine(0)
	parrot.state.RepeatCount = 3
	repeated := parrot.applyDynamics(-3, now)

	if repeated > first {
		t.Fatalf("expected repeated insults to bite at least as hard: first=%d repeated=%d", first, repeated)
	}
}

func TestDynamics_StreakAmplifies(t *testing.T) {
	now := time.Unix(1700000000, 0)

	cold := newDynamicsEngine(0).applyDynamics(5, now)

	warm := newDynamicsEngine(0)
	warm.state.PosStreak = 4
	hot := warm.applyDynamics(5, now)

	if hot < cold {
		t.Fatalf("expected streak bonus to amplify: cold=%d hot=%d", cold, hot)
	}
}

func TestDynamics_BoundedByMaxDelta(t *testing.T) {
	now := time.Unix(1700000000, 0)

	// Stack every amplifying modifier on a negative base at the floor side.
	e := newDynamicsEngine(0)
	e.state.NegStreak = 10
	e.state.RepeatCount = 5
	got := e.applyDynamics(-10, now)
	if got < -10 {
		t.Fatalf("final delta must stay within the per-event cap, got %d", got)
	}
}
