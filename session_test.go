package affinity

import (
	"errors"
	"testing"
)

// ══════════════════════════════════════════════
// AffinitySession tests
// ══════════════════════════════════════════════

type stubSentiment struct {
	counts SentimentCounts
	err    error
}

func (s *stubSentiment) Sentiment(string) (SentimentCounts, error) {
	return s.counts, s.err
}

func sessionRelConfig() RelationshipConfig {
	return RelationshipConfig{
		MinValue: -100,
		Bands: []AffinityBand{
			{MaxThreshold: 50, Description: "普通朋友"},
			{MaxThreshold: 100, Description: "亲密无间"},
		},
	}
}

func TestSession_FragmentsCarryScoreAndBand(t *testing.T) {
	src := &stubSentiment{counts: SentimentCounts{Positive: 3}}
	session := NewAffinitySession(NewInMemoryAffinityStore(), "mei", "user_42", sessionRelConfig(), src)

	frags := session.OnUserMessage("太好了真棒厉害")

	score, ok := frags.KV["sdk.affinity.score"].(int)
	if !ok || score <= 0 {
		t.Fatalf("expected positive score in KV, got %v", frags.KV["sdk.affinity.score"])
	}
	if frags.KV["sdk.affinity.max"] != 100 {
		t.Fatalf("expected max 100, got %v", frags.KV["sdk.affinity.max"])
	}
	if frags.KV["sdk.affinity.applied"] != true {
		t.Fatalf("expected applied=true, got %v", frags.KV["sdk.affinity.applied"])
	}
	if frags.Text() != "普通朋友" {
		t.Fatalf("expected band description injected, got %q", frags.Text())
	}
	if suffix := session.DisplaySuffix(); suffix == "" {
		t.Fatal("expected a display suffix after an applied update")
	}
}

func TestSession_SentimentFailureDegradesToNeutral(t *testing.T) {
	src := &stubSentiment{err: errors.New("classifier offline")}
	session := NewAffinitySession(NewInMemoryAffinityStore(), "mei", "user_42", sessionRelConfig(), src)

	frags := session.OnUserMessage("随便聊点什么吧")
	// Substantive text with zero counts still earns the neutral nudge.
	if frags.KV["sdk.affinity.delta"] != 1 {
		t.Fatalf("expected neutral nudge despite sentiment failure, got %v", frags.KV["sdk.affinity.delta"])
	}
}

func TestSession_NilSentimentSource(t *testing.T) {
	session := NewAffinitySession(NewInMemoryAffinityStore(), "mei", "user_42", sessionRelConfig(), nil)
	frags := session.OnUserMessage("今天天气不错")
	if frags.KV["sdk.affinity.applied"] != true {
		t.Fatal("nil sentiment source must not break the flow")
	}
}

func TestSession_RepeatWarning(t *testing.T) {
	src := &stubSentiment{counts: SentimentCounts{Positive: 1}}
	session := NewAffinitySession(NewInMemoryAffinityStore(), "mei", "user_42", sessionRelConfig(), src)

	session.OnUserMessage("你真好")
	frags := session.OnUserMessage("你真好")

	found := false
	for _, w := range frags.Warnings {
		if w == "affinity.repeat_suppressed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected repeat warning, got %v", frags.Warnings)
	}
}

func TestSession_ResetAndSetScore(t *testing.T) {
	src := &stubSentiment{counts: SentimentCounts{Positive: 3}}
	session := NewAffinitySession(NewInMemoryAffinityStore(), "mei", "user_42", sessionRelConfig(), src)

	session.OnUserMessage("太好了")
	if session.Engine().Score() == 0 {
		t.Fatal("setup: expected a nonzero score")
	}

	session.Reset()
	if session.Engine().Score() != 0 {
		t.Fatalf("expected zero after reset, got %d", session.Engine().Score())
	}

	if got := session.SetScore(70); got != 70 {
		t.Fatalf("expected score 70, got %d", got)
	}
}

func TestSession_ToneDirectiveInjectedWhenHostile(t *testing.T) {
	src := &stubSentiment{counts: SentimentCounts{Negative: 3}}
	session := NewAffinitySession(NewInMemoryAffinityStore(), "mei", "user_42", sessionRelConfig(), src)

	frags := session.OnUserMessage("讨厌你滚开")
	if len(frags.SystemAdditions) < 2 {
		t.Fatalf("expected band plus tone directive, got %v", frags.SystemAdditions)
	}
}
