package affinity

import (
	"log"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// AffinitySession — per-relationship facade over sentiment + engine
// ──────────────────────────────────────────────

// AffinitySession wires a sentiment source and an Engine into the
// per-message flow, and serializes access so the engine sees one operation
// at a time for its relationship.
//
// Usage:
//
//	session := affinity.NewAffinitySession(store, "mei", "user_42", cfg, lexicon)
//	frags := session.OnUserMessage("我今天很开心")
//	prompt := basePrompt + "\n\n" + frags.Text()
type AffinitySession struct {
	CharacterID    string
	RelationshipID string

	mu        sync.Mutex
	engine    *Engine
	sentiment SentimentSource
}

// NewAffinitySession creates and loads a session for one relationship.
// A nil sentiment source degrades to zero counts on every message.
func NewAffinitySession(store AffinityStore, characterID, relationshipID string, relCfg RelationshipConfig, src SentimentSource, cfg ...EngineConfig) *AffinitySession {
	engine := NewEngine(store, characterID, relationshipID, relCfg, cfg...)
	engine.Load()
	return &AffinitySession{
		CharacterID:    characterID,
		RelationshipID: relationshipID,
		engine:         engine,
		sentiment:      src,
	}
}

// Engine exposes the underlying engine for direct queries. Mutating calls
// must go through the session.
func (s *AffinitySession) Engine() *Engine {
	return s.engine
}

// OnUserMessage runs the full update cycle for one correspondent utterance:
// sentiment counts, affinity delta, prompt fragment assembly. A sentiment
// failure degrades to zero counts and never blocks the flow.
func (s *AffinitySession) OnUserMessage(text string) *PromptFragments {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var counts SentimentCounts
	if s.sentiment != nil {
		c, err := s.sentiment.Sentiment(text)
		if err != nil {
			log.Printf("[AffinitySession] sentiment failed, treating as neutral | rel=%s err=%v", s.RelationshipID, err)
		} else {
			counts = c
		}
	}

	delta, applied := s.engine.DetermineChange(text, counts, now)

	frags := NewPromptFragments()
	frags.AddSystem(s.engine.BandDescription())
	frags.AddSystem(s.engine.ToneDirective())
	frags.SetKV("sdk.affinity.score", s.engine.Score())
	frags.SetKV("sdk.affinity.max", s.engine.MaxValue())
	frags.SetKV("sdk.affinity.delta", delta)
	frags.SetKV("sdk.affinity.applied", applied)

	st := s.engine.State()
	if st.RepeatCount >= 2 {
		frags.AddWarning("affinity.repeat_suppressed")
	}
	if applied && delta != 0 {
		log.Printf("[AffinitySession] affinity %+d -> %d | rel=%s", delta, s.engine.Score(), s.RelationshipID)
	}
	return frags
}

// DisplaySuffix returns the score tag for the last processed message.
func (s *AffinitySession) DisplaySuffix() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.DisplaySuffix()
}

// Reset zeroes the relationship's score.
func (s *AffinitySession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset(time.Now())
}

// SetScore moves the score to an absolute target (admin operation).
func (s *AffinitySession) SetScore(target int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.SetScore(target, time.Now())
}
