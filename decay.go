package affinity

import "time"

// ──────────────────────────────────────────────
// Inactivity decay — lazy drift toward neutral
// ──────────────────────────────────────────────

// evalDecay moves the score toward zero after long inactivity. Invoked at
// the start of every update cycle; there is no background timer.
//
// One unit of decay per elapsed DecayInterval, capped at DecayMaxPerEval per
// evaluation so a months-long gap cannot wipe the score in one call. Never
// overshoots zero. LastDecayTS advances whether or not decay fired, so the
// same inactivity window is never counted twice.
//
// Returns the decay applied (signed, toward zero).
func (s *RelationshipState) evalDecay(now time.Time, cfg EngineConfig) int {
	nowF := unixSeconds(now)
	ref := s.LastDecayTS
	if ref == 0 {
		ref = s.LastEventTS
	}
	defer func() { s.LastDecayTS = nowF }()

	if ref == 0 {
		// Never interacted — nothing to decay from.
		return 0
	}
	inactive := nowF - ref
	interval := cfg.DecayInterval.Seconds()
	if inactive < interval || s.Value == 0 {
		return 0
	}

	steps := int(inactive / interval)
	if steps > cfg.DecayMaxPerEval {
		steps = cfg.DecayMaxPerEval
	}

	applied := 0
	if s.Value > 0 {
		applied = -steps
		if s.Value+applied < 0 {
			applied = -s.Value
		}
	} else {
		applied = steps
		if s.Value+applied > 0 {
			applied = -s.Value
		}
	}
	s.Value += applied
	return applied
}
