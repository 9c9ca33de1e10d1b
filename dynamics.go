package affinity

import (
	"math"
	"time"
)

// ──────────────────────────────────────────────
// Relationship dynamics — multiplicative modifier pipeline
// ──────────────────────────────────────────────

// applyDynamics turns a base sentiment delta into the final applied delta.
// Pure function of current state plus inputs; it never mutates state.
//
// Design intent: affinity is harder to raise the higher it already is,
// easier to lower the higher it is, suppressed by rapid-fire repetition of
// identical input, damped immediately after any change, and mildly amplified
// by sustained directional momentum. Repeated negativity compounds instead
// of damping.
func (e *Engine) applyDynamics(base int, now time.Time) int {
	if base == 0 {
		return 0
	}

	st := e.state
	cfg := e.cfg
	maxDelta := e.relCfg.MaxDeltaPerEvent

	ratio := 0.0
	if e.relCfg.MaxValue > 0 {
		ratio = clampF(float64(st.Value)/float64(e.relCfg.MaxValue), 0, 1)
	}

	inCooldown := false
	if st.LastChangeTS > 0 {
		inCooldown = unixSeconds(now)-st.LastChangeTS < cfg.CooldownWindow.Seconds()
	}

	var levelMult, diminish, repeatMult, cooldownMult, streakMult float64
	if base > 0 {
		levelMult = clampF(1.1-ratio*0.6, 0.35, 1.2)
		recentPos := st.recentCount(now, cfg.RecentWindow, +1)
		diminish = 1 / (1 + float64(recentPos)/3)
		repeatMult = 1.0
		if st.RepeatCount >= 2 {
			repeatMult = 0.55
		}
		streakMult = 1 + math.Min(0.2, float64(st.PosStreak)*0.05)
	} else {
		levelMult = clampF(0.65+(1-ratio)*0.7, 0.6, 1.6)
		recentNeg := st.recentCount(now, cfg.RecentWindow, -1)
		diminish = 1 / (1 + float64(recentNeg)/5)
		// Repeated negativity compounds, it is not damped.
		repeatMult = 1.0
		if st.RepeatCount >= 2 {
			repeatMult = 1.15
		}
		streakMult = 1 + math.Min(0.35, float64(st.NegStreak)*0.12)
	}
	cooldownMult = 1.0
	if inCooldown {
		cooldownMult = 0.35
	}

	final := float64(base) * levelMult * diminish * repeatMult * cooldownMult * streakMult
	out := int(math.Round(final))
	if out == 0 && math.Abs(final) >= 0.6 {
		// A clearly-intended signal must not vanish under the modifiers.
		if final > 0 {
			out = 1
		} else {
			out = -1
		}
	}
	return clampInt(out, -maxDelta, maxDelta)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
