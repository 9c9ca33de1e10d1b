package affinity

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Character cards — per-character affinity configuration
// ──────────────────────────────────────────────

// CharacterCard is the character-side configuration relevant to affinity:
// the band descriptions, the per-event delta cap, and the score floor.
// Cards tolerate missing fields; everything degrades to permissive defaults.
//
// YAML shape:
//
//	assistant_name: 小梅
//	max_manner_change: 10
//	min_value: -100
//	value_descriptions:
//	  - max: 20
//	    description: ["你们刚认识不久", "保持礼貌的距离"]
//	  - max: 100
//	    description: 你们已经非常亲密
type CharacterCard struct {
	AssistantName   string     `yaml:"assistant_name"`
	UserName        string     `yaml:"user_name"`
	MaxMannerChange int        `yaml:"max_manner_change"`
	MinValue        int        `yaml:"min_value"`
	Descriptions    []cardBand `yaml:"value_descriptions"`
}

type cardBand struct {
	Max int `yaml:"max"`
	// Description accepts a string or a list of strings.
	Description yaml.Node `yaml:"description"`
}

// LoadCard parses a character card from YAML.
func LoadCard(raw []byte) (*CharacterCard, error) {
	var card CharacterCard
	if err := yaml.Unmarshal(raw, &card); err != nil {
		return nil, fmt.Errorf("malformed character card: %w", err)
	}
	return &card, nil
}

// RelationshipConfig builds the normalized engine configuration from the
// card.
func (c *CharacterCard) RelationshipConfig() RelationshipConfig {
	cfg := RelationshipConfig{
		MinValue:         c.MinValue,
		MaxDeltaPerEvent: c.MaxMannerChange,
	}
	for _, b := range c.Descriptions {
		cfg.Bands = append(cfg.Bands, AffinityBand{
			MaxThreshold: b.Max,
			Description:  flattenDescription(b.Description),
		})
	}
	return cfg.Normalize()
}

// flattenDescription joins a string-or-list description node into one
// sentence-punctuated string.
func flattenDescription(node yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return ensurePunctuation(node.Value)
	case yaml.SequenceNode:
		var b strings.Builder
		for _, item := range node.Content {
			b.WriteString(ensurePunctuation(item.Value))
		}
		return b.String()
	default:
		return ""
	}
}

var sentenceEnders = []string{"。", ".", "，", ",", "？", "?", "；", ";", "！", "!"}

// ensurePunctuation appends a full stop when the text ends without one.
func ensurePunctuation(text string) string {
	if text == "" {
		return ""
	}
	for _, p := range sentenceEnders {
		if strings.HasSuffix(text, p) {
			return text
		}
	}
	return text + "。"
}
