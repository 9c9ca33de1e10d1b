package affinity

import "fmt"

// ──────────────────────────────────────────────
// Presentation helpers — band text, display suffix, tone directive
// ──────────────────────────────────────────────

// BandDescription maps the current score to its configured attitude text:
// the first band (ascending threshold order) whose threshold covers the
// score, falling through to the last band, "" when no bands are configured.
func (e *Engine) BandDescription() string {
	bands := e.relCfg.Bands
	if len(bands) == 0 {
		return ""
	}
	for _, b := range bands {
		if e.state.Value <= b.MaxThreshold {
			return b.Description
		}
	}
	return bands[len(bands)-1].Description
}

// DisplaySuffix renders the short score tag appended to replies, e.g.
// 【💕值：12】（+2）. The glyph flips to 💔 below zero. Empty when the last
// turn produced no applicable change (non-user turns).
func (e *Engine) DisplaySuffix() string {
	if e.lastDelta == nil {
		return ""
	}
	glyph := "💕"
	if e.state.Value < 0 {
		glyph = "💔"
	}
	out := fmt.Sprintf("【%s值：%d】", glyph, e.state.Value)
	switch d := *e.lastDelta; {
	case d > 0:
		out += fmt.Sprintf("（+%d）", d)
	case d < 0:
		out += fmt.Sprintf("（%d）", d)
	}
	return out
}

// toneTier is one rung of the hostile-voice ladder. Ratio is score/MinValue,
// so deeper hostility means a larger ratio.
type toneTier struct {
	minRatio  float64
	directive string
}

// Tone ladder, deepest hostility first. Every tier carries content-safety framing:
// coldness and distance, never abuse.
var toneTiers = []toneTier{
	{0.875, "你对用户已经彻底死心，用最简短的词句回应甚至拒绝回应，明确表达你不想继续这段关系，但绝不辱骂、威胁或进行人身攻击。"},
	{0.75, "你对用户极度冰冷，回应只剩下必要的信息，不带任何情绪和关心，可以直接说出你的失望，但不辱骂、不进行人身攻击。"},
	{0.625, "你对用户非常冷淡，用词生硬、句子很短，拒绝闲聊和玩笑，可以点明对方让你不舒服的行为，但保持克制，不辱骂。"},
	{0.5, "你对用户明显疏远，语气冷淡公事化，不主动延续话题，不使用亲昵称呼，表达不满时就事论事，不攻击对方本人。"},
	{0.375, "你对用户有明显的戒备，回应简短而谨慎，减少表情和语气词，可以委婉指出对方哪里让你不快。"},
	{0.25, "你对用户有些失望，语气平淡，少用热情的表达，回应变得简短，但仍然保持基本的礼貌。"},
	{0.125, "你对用户略有不满，语气比平时冷静克制一些，减少主动关心，但不表现出敌意。"},
	{0.0, "你对用户稍有保留，语气正常但不再格外热情。"},
}

// ToneDirective maps a negative score onto a hostility/coldness instruction
// for prompt construction, monotonically harsher as the score decreases.
// Empty at or above zero, and when no negative range is configured.
func (e *Engine) ToneDirective() string {
	if e.state.Value >= 0 || e.relCfg.MinValue >= 0 {
		return ""
	}
	ratio := float64(e.state.Value) / float64(e.relCfg.MinValue)
	for _, tier := range toneTiers {
		if ratio > tier.minRatio {
			return tier.directive
		}
	}
	return toneTiers[len(toneTiers)-1].directive
}
