package affinity

import (
	_ "embed"
	"log"
	"strings"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Sentiment Signal Source — lexicon hit counting
// ──────────────────────────────────────────────

// SentimentSource produces (positive, negative) lexical hit counts for an
// utterance. Implementations may be local lexicons or remote classifiers;
// the engine treats the computation as opaque and fallible.
type SentimentSource interface {
	Sentiment(text string) (SentimentCounts, error)
}

//go:embed assets/positive.yaml
var defaultPositiveYAML []byte

//go:embed assets/negative.yaml
var defaultNegativeYAML []byte

//go:embed assets/meaningless.yaml
var defaultMeaninglessYAML []byte

type lexiconFile struct {
	Positive    []string `yaml:"positive"`
	Negative    []string `yaml:"negative"`
	Meaningless []string `yaml:"meaningless"`
}

// LexiconSource counts sentiment phrase occurrences against bilingual
// dictionaries. Meaningless fillers are stripped before matching so that
// "嗯嗯 喜欢" and "喜欢" score the same.
type LexiconSource struct {
	positive    []string
	negative    []string
	meaningless []string
}

// NewLexiconSource creates a source with the built-in dictionaries.
func NewLexiconSource() *LexiconSource {
	s := &LexiconSource{}
	s.positive = loadPhraseList(defaultPositiveYAML, "positive")
	s.negative = loadPhraseList(defaultNegativeYAML, "negative")
	s.meaningless = loadPhraseList(defaultMeaninglessYAML, "meaningless")
	return s
}

func loadPhraseList(raw []byte, which string) []string {
	var f lexiconFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		log.Printf("[LexiconSource] failed to parse %s dictionary: %v", which, err)
		return nil
	}
	switch which {
	case "positive":
		return f.Positive
	case "negative":
		return f.Negative
	default:
		return f.Meaningless
	}
}

// LoadYAML merges a user dictionary (same shape as the built-ins) into the
// source. Empty sections leave the current list untouched.
func (s *LexiconSource) LoadYAML(raw []byte) error {
	var f lexiconFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return err
	}
	s.positive = append(s.positive, f.Positive...)
	s.negative = append(s.negative, f.Negative...)
	s.meaningless = append(s.meaningless, f.Meaningless...)
	return nil
}

// SetPhrases replaces the dictionaries outright (nil keeps a list).
func (s *LexiconSource) SetPhrases(positive, negative []string) {
	if positive != nil {
		s.positive = positive
	}
	if negative != nil {
		s.negative = negative
	}
}

// Sentiment counts positive and negative phrase occurrences in the
// utterance. Matching is case-insensitive substring containment, so Chinese
// phrases match without tokenization and English keywords match inside
// sentences.
func (s *LexiconSource) Sentiment(text string) (SentimentCounts, error) {
	cleaned := strings.ToLower(text)
	for _, w := range s.meaningless {
		cleaned = strings.ReplaceAll(cleaned, strings.ToLower(w), "")
	}

	var counts SentimentCounts
	for _, p := range s.positive {
		counts.Positive += strings.Count(cleaned, strings.ToLower(p))
	}
	for _, n := range s.negative {
		counts.Negative += strings.Count(cleaned, strings.ToLower(n))
	}
	return counts, nil
}
