package affinity

import (
	"encoding/json"
	"fmt"
	"time"
)

// ──────────────────────────────────────────────
// RelationshipState — persisted per-relationship affinity state
// ──────────────────────────────────────────────

// CurrentSchemaVersion is the version tag written into every persisted record.
const CurrentSchemaVersion = 1

// RecentEvent is one applied delta in the rolling diminishing-returns window.
type RecentEvent struct {
	TS    float64 `json:"ts"` // unix seconds
	Delta int     `json:"delta"`
}

// RelationshipState holds everything the engine tracks for one relationship.
// Timestamps are unix seconds (float) to keep the persisted record portable.
type RelationshipState struct {
	Version          int           `json:"version"`
	Value            int           `json:"value"`
	LastEventTS      float64       `json:"last_event_ts"`
	LastChangeTS     float64       `json:"last_change_ts"`
	LastDecayTS      float64       `json:"last_decay_ts"`
	RecentEvents     []RecentEvent `json:"recent_events"`
	PosStreak        int           `json:"pos_streak"`
	NegStreak        int           `json:"neg_streak"`
	LastUserTextNorm string        `json:"last_user_text_norm"`
	RepeatCount      int           `json:"repeat_count"`
	RepeatLastTS     float64       `json:"repeat_last_ts"`
}

// NewRelationshipState returns the neutral default state for a relationship
// that has never been seen before.
func NewRelationshipState() *RelationshipState {
	return &RelationshipState{
		Version:      CurrentSchemaVersion,
		RecentEvents: []RecentEvent{},
	}
}

// Encode serializes the state as the versioned JSON record.
func (s *RelationshipState) Encode() ([]byte, error) {
	s.Version = CurrentSchemaVersion
	if s.RecentEvents == nil {
		s.RecentEvents = []RecentEvent{}
	}
	return json.Marshal(s)
}

// legacyRecord is the superseded first-generation record: a bare score with
// no version tag.
type legacyRecord struct {
	Value int `json:"value"`
}

// recordProbe distinguishes the two record generations at the decode
// boundary. A missing "version" key means legacy.
type recordProbe struct {
	Version *int `json:"version"`
}

// DecodeState parses a persisted record. Legacy records keep their numeric
// score and get all other fields defaulted; the second return reports that
// an upgrade happened so callers can persist the new format.
func DecodeState(data []byte) (*RelationshipState, bool, error) {
	var probe recordProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false, fmt.Errorf("malformed affinity record: %w", err)
	}

	if probe.Version == nil {
		var legacy legacyRecord
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, false, fmt.Errorf("malformed legacy affinity record: %w", err)
		}
		st := NewRelationshipState()
		st.Value = legacy.Value
		return st, true, nil
	}

	var st RelationshipState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, false, fmt.Errorf("malformed versioned affinity record: %w", err)
	}
	if st.RecentEvents == nil {
		st.RecentEvents = []RecentEvent{}
	}
	return &st, false, nil
}

// trimRecentEvents drops window entries older than horizon (best-effort,
// clipped lazily) and caps the count.
func (s *RelationshipState) trimRecentEvents(now time.Time, window time.Duration, maxEvents int) {
	horizon := unixSeconds(now) - window.Seconds()
	kept := s.RecentEvents[:0]
	for _, ev := range s.RecentEvents {
		if ev.TS >= horizon {
			kept = append(kept, ev)
		}
	}
	s.RecentEvents = kept
	if maxEvents > 0 && len(s.RecentEvents) > maxEvents {
		s.RecentEvents = s.RecentEvents[len(s.RecentEvents)-maxEvents:]
	}
}

// recentCount returns how many window entries have the given delta sign
// (+1 positive, -1 negative).
func (s *RelationshipState) recentCount(now time.Time, window time.Duration, sign int) int {
	horizon := unixSeconds(now) - window.Seconds()
	n := 0
	for _, ev := range s.RecentEvents {
		if ev.TS < horizon {
			continue
		}
		if (sign > 0 && ev.Delta > 0) || (sign < 0 && ev.Delta < 0) {
			n++
		}
	}
	return n
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
