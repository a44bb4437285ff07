package ranking

import (
	"strings"

	"github.com/pagecraft/refcast/internal/scene"
	"github.com/pagecraft/refcast/internal/shot"
)

// modeCompat maps a scene type to the credit each shot category earns for
// it. Full credit is 1.0 for the category the scene calls for, partial
// credit for adjacent categories. Categories absent from a row, and the
// unknown category, earn zero.
var modeCompat = map[scene.Type]map[shot.Mode]float64{
	scene.TypeDialogue: {
		shot.ModeConversation: 1.0,
		shot.ModeEmotion:      0.6,
		shot.ModeActionBody:   0.3,
		shot.ModeHands:        0.2,
	},
	scene.TypeAction: {
		shot.ModeActionBody:   1.0,
		shot.ModeHands:        0.5,
		shot.ModeConversation: 0.2,
		shot.ModeEmotion:      0.1,
	},
	scene.TypeEmotional: {
		shot.ModeEmotion:      1.0,
		shot.ModeConversation: 0.6,
		shot.ModeHands:        0.4,
		shot.ModeActionBody:   0.2,
	},
	scene.TypeEstablishing: {
		shot.ModeActionBody:   1.0,
		shot.ModeConversation: 0.3,
		shot.ModeHands:        0.2,
		shot.ModeEmotion:      0.1,
	},
	scene.TypeTransition: {
		shot.ModeActionBody:   1.0,
		shot.ModeConversation: 0.3,
		shot.ModeEmotion:      0.2,
		shot.ModeHands:        0.2,
	},
}

// modeAffinity returns the compatibility credit for a shot category under a
// scene type, in [0, 1]. Unknown categories degrade to zero rather than
// erroring.
func modeAffinity(sceneType scene.Type, mode shot.Mode) float64 {
	return modeCompat[sceneType][mode]
}

// toneExpressions maps a scene tone to the expression labels that align with
// it. The mapping is intentionally small; expressions come from a curated
// template catalog, not free text.
var toneExpressions = map[scene.Tone][]string{
	scene.ToneNeutral:       {"neutral", "calm"},
	scene.ToneTense:         {"alert", "fierce", "determined", "grim"},
	scene.ToneIntimate:      {"tender", "soft", "warm", "vulnerable"},
	scene.ToneDramatic:      {"fierce", "determined", "anguished", "intense"},
	scene.ToneContemplative: {"pensive", "calm", "thoughtful", "distant"},
}

// toneConflicts maps a scene tone to expressions that actively clash with
// it. A conflicting expression earns zero tone credit.
var toneConflicts = map[scene.Tone][]string{
	scene.ToneTense:         {"tender", "soft", "warm"},
	scene.ToneIntimate:      {"fierce", "grim", "alert"},
	scene.ToneDramatic:      {"calm", "distant"},
	scene.ToneContemplative: {"fierce", "alert"},
}

// expressionAffinity returns the tone credit for a candidate's expression:
// 1.0 when the expression aligns with the tone, 0 when it conflicts, and
// 0.5 for neutral or unlabelled expressions.
func expressionAffinity(tone scene.Tone, expression string) float64 {
	expr := strings.ToLower(strings.TrimSpace(expression))
	if expr == "" {
		return 0.5
	}
	for _, label := range toneExpressions[tone] {
		if expr == label {
			return 1.0
		}
	}
	for _, label := range toneConflicts[tone] {
		if expr == label {
			return 0
		}
	}
	return 0.5
}

// rankCredit returns the decaying credit for position i in a preference
// list of length n: the first entry earns 1.0, the last earns 1/n.
func rankCredit(i, n int) float64 {
	if n == 0 || i < 0 || i >= n {
		return 0
	}
	return float64(n-i) / float64(n)
}
