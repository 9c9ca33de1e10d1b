package affinity

import (
	"log"
	"math"
	"strings"
	"time"

	"go.uber.org/atomic"
)

// ──────────────────────────────────────────────
// Engine — the per-relationship affinity state machine
// ──────────────────────────────────────────────

// Engine owns the affinity state for exactly one directed relationship
// (one character, one correspondent). It reads, decays, updates and persists
// state through an AffinityStore.
//
// Callers must serialize all operations for a given relationship: state
// mutation is read-modify-write over external storage with no concurrency
// token, and unserialized access loses updates. Different relationships are
// fully independent. AffinitySession wraps an Engine with that locking.
//
// Usage:
//
//	engine := affinity.NewEngine(store, "mei", "user_42", cfg)
//	engine.Load()
//	delta, applied := engine.DetermineChange("我今天很开心", counts, time.Now())
type Engine struct {
	store          AffinityStore
	characterID    string
	relationshipID string
	namespace      string

	relCfg RelationshipConfig
	cfg    EngineConfig

	loaded *atomic.Bool
	state  *RelationshipState

	// lastDelta distinguishes "no applicable change" (nil) from a real
	// zero-delta update, for the display suffix.
	lastDelta *int
}

// NewEngine creates an engine for one relationship. Call Load before use;
// DetermineChange loads lazily as a fallback.
func NewEngine(store AffinityStore, characterID, relationshipID string, relCfg RelationshipConfig, cfg ...EngineConfig) *Engine {
	ec := DefaultEngineConfig()
	if len(cfg) > 0 {
		ec = cfg[0].normalize()
	}
	return &Engine{
		store:          store,
		characterID:    characterID,
		relationshipID: relationshipID,
		namespace:      Namespace(characterID, relationshipID),
		relCfg:         relCfg.Normalize(),
		cfg:            ec,
		loaded:         atomic.NewBool(false),
		state:          NewRelationshipState(),
	}
}

// Load reads the persisted record. Absent or malformed records degrade to
// neutral defaults (persisted immediately); legacy bare-score records are
// upgraded in place. The score is clamped into configured bounds after load,
// and a clamp that changed the value is persisted.
//
// Affinity tracking must never block the conversation, so Load has no error
// to return — every failure mode degrades.
func (e *Engine) Load() {
	defer e.loaded.Store(true)

	raw, err := e.store.Get(e.namespace, StateKey)
	if err != nil {
		log.Printf("[AffinityEngine] store read failed, using defaults | ns=%s err=%v", e.namespace, err)
		e.state = NewRelationshipState()
		return
	}
	if raw == nil {
		e.state = NewRelationshipState()
		e.persist()
		return
	}

	st, upgraded, err := DecodeState(raw)
	if err != nil {
		log.Printf("[AffinityEngine] %v, resetting to defaults | ns=%s", err, e.namespace)
		e.state = NewRelationshipState()
		e.persist()
		return
	}
	e.state = st
	if upgraded {
		log.Printf("[AffinityEngine] legacy record upgraded | ns=%s value=%d", e.namespace, st.Value)
	}

	clamped := clampInt(st.Value, e.relCfg.MinValue, e.relCfg.MaxValue)
	changed := clamped != st.Value
	st.Value = clamped
	if upgraded || changed {
		e.persist()
	}
}

// SentimentCounts is the (positive, negative) lexical hit pair from a
// sentiment source.
type SentimentCounts struct {
	Positive int `json:"positive_num"`
	Negative int `json:"negative_num"`
}

// DetermineChange is the single mutating entry point: derive a delta from
// the correspondent's latest utterance and its sentiment counts, run it
// through the dynamics pipeline, apply it bounded, and persist.
//
// An empty utterance is "nothing happened": returns (0, false) and touches
// nothing. A processed utterance whose net delta is zero returns (0, true).
func (e *Engine) DetermineChange(utterance string, counts SentimentCounts, now time.Time) (int, bool) {
	if strings.TrimSpace(utterance) == "" {
		e.lastDelta = nil
		return 0, false
	}
	if !e.loaded.Load() {
		e.Load()
	}

	st := e.state
	if d := st.evalDecay(now, e.cfg); d != 0 {
		log.Printf("[AffinityEngine] inactivity decay %+d -> %d | ns=%s", d, st.Value, e.namespace)
		e.persist()
	}

	base := e.baseDelta(utterance, counts)
	final := e.applyDynamics(base, now)

	st.trackRepetition(utterance, now, e.cfg.RepeatWindow)
	st.LastEventTS = unixSeconds(now)

	if final != 0 {
		e.mutate(final, now)
	} else {
		// Zero-delta update: streaks ease toward zero, never below.
		if st.PosStreak > 0 {
			st.PosStreak--
		}
		if st.NegStreak > 0 {
			st.NegStreak--
		}
	}

	st.RecentEvents = append(st.RecentEvents, RecentEvent{TS: unixSeconds(now), Delta: final})
	st.trimRecentEvents(now, e.cfg.RecentWindow, e.cfg.RecentMaxEvents)

	e.persist()
	d := final
	e.lastDelta = &d
	return final, true
}

// baseDelta maps sentiment counts onto a raw bounded delta.
func (e *Engine) baseDelta(utterance string, counts SentimentCounts) int {
	pos, neg := counts.Positive, counts.Negative
	if pos < 0 {
		pos = 0
	}
	if neg < 0 {
		neg = 0
	}
	total := pos + neg

	if total == 0 {
		if isTrivialUtterance(utterance) {
			return 0
		}
		return e.cfg.NeutralNudge
	}

	baseScore := float64(pos-neg) / float64(total)
	intensity := math.Min(1, float64(total)/3)
	sentiment := baseScore * intensity

	raw := int(math.Round(sentiment * float64(e.relCfg.MaxDeltaPerEvent)))
	if raw == 0 && pos != neg {
		// A net nonzero signal must never silently vanish.
		if pos > neg {
			raw = 1
		} else {
			raw = -1
		}
	}
	return clampInt(raw, -e.relCfg.MaxDeltaPerEvent, e.relCfg.MaxDeltaPerEvent)
}

// mutate applies a bounded delta, stamps the change time, and updates
// streaks. Only called for nonzero deltas.
func (e *Engine) mutate(delta int, now time.Time) {
	st := e.state
	st.Value = clampInt(st.Value+delta, e.relCfg.MinValue, e.relCfg.MaxValue)
	st.LastChangeTS = unixSeconds(now)
	if delta > 0 {
		st.PosStreak++
		st.NegStreak = 0
	} else {
		st.NegStreak++
		st.PosStreak = 0
	}
}

// persist writes the full versioned record. Write failures are logged and
// swallowed — in-memory state stays authoritative for this process.
func (e *Engine) persist() {
	raw, err := e.state.Encode()
	if err != nil {
		log.Printf("[AffinityEngine] encode failed | ns=%s err=%v", e.namespace, err)
		return
	}
	if err := e.store.Set(e.namespace, StateKey, raw); err != nil {
		log.Printf("[AffinityEngine] store write failed | ns=%s err=%v", e.namespace, err)
	}
}

// Score returns the current affinity value.
func (e *Engine) Score() int {
	return e.state.Value
}

// MaxValue returns the configured score ceiling.
func (e *Engine) MaxValue() int {
	return e.relCfg.MaxValue
}

// MinValue returns the configured score floor.
func (e *Engine) MinValue() int {
	return e.relCfg.MinValue
}

// State returns a copy of the current relationship state.
func (e *Engine) State() RelationshipState {
	st := *e.state
	st.RecentEvents = append([]RecentEvent(nil), e.state.RecentEvents...)
	return st
}

// Reset zeroes the score, stamps the change time, and persists. Counters and
// schema versioning are preserved per the state lifecycle.
func (e *Engine) Reset(now time.Time) {
	if !e.loaded.Load() {
		e.Load()
	}
	e.state.Value = 0
	e.state.LastChangeTS = unixSeconds(now)
	e.lastDelta = nil
	e.persist()
	log.Printf("[AffinityEngine] reset | ns=%s", e.namespace)
}

// SetScore moves the score to an absolute target via one bounded mutation
// (admin operation). Returns the resulting score.
func (e *Engine) SetScore(target int, now time.Time) int {
	if !e.loaded.Load() {
		e.Load()
	}
	delta := clampInt(target, e.relCfg.MinValue, e.relCfg.MaxValue) - e.state.Value
	if delta != 0 {
		e.mutate(delta, now)
	}
	e.persist()
	return e.state.Value
}
