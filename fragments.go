package affinity

import "strings"

// ──────────────────────────────────────────────
// PromptFragments — structured output for prompt injection
// ──────────────────────────────────────────────

// PromptFragments collects prompt additions and structured metadata produced
// by one affinity update, for injection into prompt construction.
type PromptFragments struct {
	// SystemAdditions holds attitude/tone segments to inject as extra
	// context. Joined with "\n\n" by Text().
	SystemAdditions []string

	// KV holds structured metadata with sdk.affinity.* keys. Business logic
	// can read these without parsing prompt text.
	KV map[string]interface{}

	// Warnings records engine decisions for debugging (not injected).
	// Examples: "affinity.repeat_suppressed", "affinity.cooldown_damped"
	Warnings []string
}

// NewPromptFragments creates an empty PromptFragments.
func NewPromptFragments() *PromptFragments {
	return &PromptFragments{KV: make(map[string]interface{})}
}

// Text returns all SystemAdditions joined as a single injection string.
func (f *PromptFragments) Text() string {
	if len(f.SystemAdditions) == 0 {
		return ""
	}
	return strings.Join(f.SystemAdditions, "\n\n")
}

// AddSystem appends a non-empty prompt segment.
func (f *PromptFragments) AddSystem(text string) {
	if text != "" {
		f.SystemAdditions = append(f.SystemAdditions, text)
	}
}

// AddWarning records a debug message.
func (f *PromptFragments) AddWarning(msg string) {
	f.Warnings = append(f.Warnings, msg)
}

// SetKV sets a namespaced key-value pair.
func (f *PromptFragments) SetKV(key string, value interface{}) {
	f.KV[key] = value
}
