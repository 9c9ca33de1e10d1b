package affinity

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// ──────────────────────────────────────────────
// Utterance fingerprinting — repeat detection, trivial-message check
// ──────────────────────────────────────────────

// fillerRunes are interjections that carry no engagement on their own.
// An utterance composed entirely of these (plus punctuation) is trivial.
var fillerRunes = map[rune]bool{
	'嗯': true, '哦': true, '呃': true, '啊': true, '哈': true,
	'呵': true, '嘿': true, '哼': true, '唉': true, '额': true,
	'呀': true, '嘛': true, '吧': true, '呢': true, '哇': true,
}

// normalizeUtterance lowercases and strips punctuation, symbols and
// whitespace so superficial variations of the same message collide.
func normalizeUtterance(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fingerprintUtterance returns a fixed-length hex digest of the normalized
// utterance, or "" when nothing survives normalization.
func fingerprintUtterance(text string) string {
	norm := normalizeUtterance(text)
	if norm == "" {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(norm))
}

// isTrivialUtterance reports whether the utterance is inert: empty after
// normalization, a single rune, or pure filler.
func isTrivialUtterance(text string) bool {
	norm := normalizeUtterance(text)
	runes := []rune(norm)
	if len(runes) <= 1 {
		return true
	}
	for _, r := range runes {
		if !fillerRunes[r] {
			return false
		}
	}
	return true
}

// trackRepetition updates fingerprint bookkeeping on state. Called on every
// processed utterance, whether or not the delta ends up zero.
func (s *RelationshipState) trackRepetition(text string, now time.Time, window time.Duration) {
	fp := fingerprintUtterance(text)
	nowF := unixSeconds(now)

	if fp == "" {
		s.LastUserTextNorm = ""
		s.RepeatCount = 0
		s.RepeatLastTS = nowF
		return
	}

	within := s.RepeatLastTS > 0 && nowF-s.RepeatLastTS <= window.Seconds()
	if fp == s.LastUserTextNorm && within {
		s.RepeatCount++
	} else {
		s.RepeatCount = 1
	}
	s.LastUserTextNorm = fp
	s.RepeatLastTS = nowF
}
