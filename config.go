package affinity

import (
	"sort"
	"time"
)

// ──────────────────────────────────────────────
// Configuration — relationship bands + engine tuning knobs
// ──────────────────────────────────────────────

// AffinityBand maps a score range to a descriptive attitude text.
// Bands are sorted ascending by MaxThreshold; the first band whose
// MaxThreshold >= score wins.
type AffinityBand struct {
	MaxThreshold int    `json:"max" yaml:"max"`
	Description  string `json:"description" yaml:"description"`
}

// RelationshipConfig is the immutable per-relationship configuration,
// typically built from a character card.
type RelationshipConfig struct {
	// Bands in ascending threshold order. MaxValue derives from the last
	// band's threshold when left zero.
	Bands []AffinityBand

	// MinValue is the score floor. Zero by default; set negative to enable
	// the hostile tone-directive ladder.
	MinValue int

	// MaxValue is the score ceiling. Derived from Bands when zero;
	// degrades to 100 when no bands are configured.
	MaxValue int

	// MaxDeltaPerEvent is the symmetric per-event delta cap, default 10.
	MaxDeltaPerEvent int
}

// Normalize sorts bands and fills derived/degraded defaults. Returns the
// receiver for chaining.
func (c RelationshipConfig) Normalize() RelationshipConfig {
	sort.SliceStable(c.Bands, func(i, j int) bool {
		return c.Bands[i].MaxThreshold < c.Bands[j].MaxThreshold
	})
	if c.MaxValue <= 0 {
		if n := len(c.Bands); n > 0 {
			c.MaxValue = c.Bands[n-1].MaxThreshold
		}
	}
	if c.MaxValue <= 0 {
		c.MaxValue = 100
	}
	if c.MaxValue < 1 {
		c.MaxValue = 1
	}
	if c.MinValue > 0 {
		c.MinValue = 0
	}
	if c.MaxDeltaPerEvent <= 0 {
		c.MaxDeltaPerEvent = 10
	}
	return c
}

// EngineConfig holds the empirically chosen tuning knobs. These are
// defaults, not contracts — tests assert behavior shape, not exact products.
type EngineConfig struct {
	// DecayInterval is the inactivity span that triggers one decay step.
	DecayInterval time.Duration
	// DecayMaxPerEval caps the total decay applied in one catch-up
	// evaluation, regardless of how many steps elapsed.
	DecayMaxPerEval int
	// CooldownWindow damps any delta arriving this soon after a change.
	CooldownWindow time.Duration
	// RepeatWindow is the horizon for identical-utterance repeat counting.
	RepeatWindow time.Duration
	// RecentWindow is the diminishing-returns sliding window horizon.
	RecentWindow time.Duration
	// RecentMaxEvents caps the rolling window length.
	RecentMaxEvents int
	// NeutralNudge is the base delta for substantive utterances with no
	// sentiment hits. Non-hostility is rewarded; filler is inert.
	NeutralNudge int
}

// DefaultEngineConfig returns production defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DecayInterval:   12 * time.Hour,
		DecayMaxPerEval: 10,
		CooldownWindow:  30 * time.Second,
		RepeatWindow:    120 * time.Second,
		RecentWindow:    10 * time.Minute,
		RecentMaxEvents: 50,
		NeutralNudge:    1,
	}
}

func (c EngineConfig) normalize() EngineConfig {
	d := DefaultEngineConfig()
	if c.DecayInterval <= 0 {
		c.DecayInterval = d.DecayInterval
	}
	if c.DecayMaxPerEval <= 0 {
		c.DecayMaxPerEval = d.DecayMaxPerEval
	}
	if c.CooldownWindow <= 0 {
		c.CooldownWindow = d.CooldownWindow
	}
	if c.RepeatWindow <= 0 {
		c.RepeatWindow = d.RepeatWindow
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = d.RecentWindow
	}
	if c.RecentMaxEvents <= 0 {
		c.RecentMaxEvents = d.RecentMaxEvents
	}
	if c.NeutralNudge <= 0 {
		c.NeutralNudge = d.NeutralNudge
	}
	return c
}
