package ranking

import (
	"math"
	"strings"
	"testing"

	"github.com/pagecraft/refcast/internal/character"
	"github.com/pagecraft/refcast/internal/scene"
	"github.com/pagecraft/refcast/internal/shot"
)

func floatPtr(v float64) *float64 { return &v }

// dialogueAnalysis is a hand-built analysis for a conversational scene,
// used so scorer tests do not depend on the analyzer's lexicon.
func dialogueAnalysis() *scene.Analysis {
	return &scene.Analysis{
		SceneType:     scene.TypeDialogue,
		EmotionalTone: scene.ToneIntimate,
		Confidence:    0.4,
		RequiredShots: scene.RequiredShots{
			PreferredLens:   []shot.Lens{shot.Lens85, shot.Lens50},
			PreferredCrop:   []shot.Crop{shot.CropMCU, shot.CropCU},
			PreferredAngles: []shot.Angle{shot.Angle3QLeft, shot.Angle3QRight, shot.AngleFront},
		},
		CameraPreferences: scene.CameraPreferences{IntimacyLevel: 8, DynamismLevel: 2, EmotionalIntensity: 6},
	}
}

func TestScorePerfectMatch(t *testing.T) {
	img := character.Image{
		MediaID:         "m-1",
		IsCoreReference: true,
		ShotType:        "conversation",
		Lens:            shot.Lens85,
		Crop:            shot.CropMCU,
		Angle:           shot.Angle3QLeft,
		Expression:      "tender",
		QualityScore:    floatPtr(100),
	}

	scored := Score(img, dialogueAnalysis(), DefaultWeights())

	if scored.TotalScore != 100 {
		t.Errorf("total = %v, want 100 for a perfect match", scored.TotalScore)
	}
	if scored.Factors.SceneTypeMatch != 25 {
		t.Errorf("scene type factor = %v, want full 25", scored.Factors.SceneTypeMatch)
	}
	if scored.Factors.CompositionMatch != 5 {
		t.Errorf("composition factor = %v, want full 5", scored.Factors.CompositionMatch)
	}
}

func TestScoreFactorsSumToTotal(t *testing.T) {
	images := []character.Image{
		{MediaID: "a", ShotType: "85mm_mcu_3q_left", Expression: "tender", QualityScore: floatPtr(90)},
		{MediaID: "b", ShotType: "core_full_front", IsCoreReference: true},
		{MediaID: "c", ShotType: "mystery"},
		{MediaID: "d", Lens: shot.Lens35, Crop: shot.CropFull, Angle: shot.AngleBack, QualityScore: floatPtr(12)},
		{MediaID: "e", ShotType: "hands", Expression: "fierce", QualityScore: floatPtr(55)},
	}

	for _, img := range images {
		scored := Score(img, dialogueAnalysis(), DefaultWeights())
		if scored.TotalScore < 0 || scored.TotalScore > 100 {
			t.Errorf("%s: total %v outside [0,100]", img.MediaID, scored.TotalScore)
		}
		if diff := math.Abs(scored.Factors.Sum() - scored.TotalScore); diff > 1e-9 {
			t.Errorf("%s: factors sum %v != total %v", img.MediaID, scored.Factors.Sum(), scored.TotalScore)
		}
	}
}

func TestScoreUnknownMetadataDegrades(t *testing.T) {
	img := character.Image{MediaID: "m-1", ShotType: "completely mysterious label"}

	scored := Score(img, dialogueAnalysis(), DefaultWeights())

	if scored.Factors.SceneTypeMatch != 0 {
		t.Errorf("scene type factor = %v, want 0 for unknown category", scored.Factors.SceneTypeMatch)
	}
	if scored.Factors.LensPreference != 0 || scored.Factors.CropPreference != 0 || scored.Factors.AnglePreference != 0 {
		t.Errorf("preference factors should be 0 for unknown metadata: %+v", scored.Factors)
	}
	// Unlabelled expression and missing quality still earn partial credit.
	if scored.Factors.EmotionalTone != 5 {
		t.Errorf("tone factor = %v, want neutral 5", scored.Factors.EmotionalTone)
	}
	if scored.Factors.QualityScore != 2.5 {
		t.Errorf("quality factor = %v, want midpoint 2.5", scored.Factors.QualityScore)
	}
}

func TestScoreRankDecay(t *testing.T) {
	analysis := dialogueAnalysis()

	first := Score(character.Image{Lens: shot.Lens85}, analysis, DefaultWeights())
	second := Score(character.Image{Lens: shot.Lens50}, analysis, DefaultWeights())

	if first.Factors.LensPreference != 20 {
		t.Errorf("first preference = %v, want full 20", first.Factors.LensPreference)
	}
	if second.Factors.LensPreference != 10 {
		t.Errorf("second preference = %v, want decayed 10", second.Factors.LensPreference)
	}
}

func TestScoreExpressionAffinity(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		expected   float64
	}{
		{"aligned", "tender", 10},
		{"aligned case insensitive", "  Vulnerable ", 10},
		{"conflicting", "fierce", 0},
		{"neutral", "neutral", 5},
		{"unrecognized", "quizzical", 5},
		{"empty", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scored := Score(character.Image{Expression: tt.expression}, dialogueAnalysis(), DefaultWeights())
			if scored.Factors.EmotionalTone != tt.expected {
				t.Errorf("tone factor = %v, want %v", scored.Factors.EmotionalTone, tt.expected)
			}
		})
	}
}

func TestScoreCompositionRequiresCoreReference(t *testing.T) {
	base := character.Image{Crop: shot.CropMCU}

	plain := Score(base, dialogueAnalysis(), DefaultWeights())
	if plain.Factors.CompositionMatch != 0 {
		t.Errorf("non-core image earned composition bonus: %v", plain.Factors.CompositionMatch)
	}

	base.IsCoreReference = true
	core := Score(base, dialogueAnalysis(), DefaultWeights())
	if core.Factors.CompositionMatch != 5 {
		t.Errorf("core image at primary crop missed bonus: %v", core.Factors.CompositionMatch)
	}

	base.Crop = shot.CropCU
	offCrop := Score(base, dialogueAnalysis(), DefaultWeights())
	if offCrop.Factors.CompositionMatch != 0 {
		t.Errorf("core image off primary crop earned bonus: %v", offCrop.Factors.CompositionMatch)
	}
}

func TestScoreQualityContribution(t *testing.T) {
	tests := []struct {
		name     string
		quality  *float64
		expected float64
	}{
		{"full quality", floatPtr(100), 5},
		{"mid quality", floatPtr(50), 2.5},
		{"zero quality", floatPtr(0), 0},
		{"missing quality midpoint", nil, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scored := Score(character.Image{QualityScore: tt.quality}, dialogueAnalysis(), DefaultWeights())
			if scored.Factors.QualityScore != tt.expected {
				t.Errorf("quality factor = %v, want %v", scored.Factors.QualityScore, tt.expected)
			}
		})
	}
}

func TestScoreDeterminism(t *testing.T) {
	img := character.Image{
		MediaID:      "m-1",
		ShotType:     "85mm_mcu_3q_left",
		Expression:   "tender",
		QualityScore: floatPtr(82.5),
	}
	analysis := dialogueAnalysis()

	first := Score(img, analysis, DefaultWeights())
	for i := 0; i < 50; i++ {
		if got := Score(img, analysis, DefaultWeights()); got != first {
			t.Fatalf("iteration %d: score differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestScoreNilWeightsUsesDefaults(t *testing.T) {
	img := character.Image{Lens: shot.Lens85}
	withNil := Score(img, dialogueAnalysis(), nil)
	withDefaults := Score(img, dialogueAnalysis(), DefaultWeights())
	if withNil != withDefaults {
		t.Errorf("nil weights differ from defaults: %+v vs %+v", withNil, withDefaults)
	}
}

func TestScoreReasoning(t *testing.T) {
	img := character.Image{
		Lens:  shot.Lens85,
		Crop:  shot.CropMCU,
		Angle: shot.Angle3QLeft,
	}

	scored := Score(img, dialogueAnalysis(), DefaultWeights())

	for _, want := range []string{"85mm", "MCU", "3q_left", "/100"} {
		if !strings.Contains(scored.Reasoning, want) {
			t.Errorf("reasoning %q missing %q", scored.Reasoning, want)
		}
	}

	vague := Score(character.Image{ShotType: "mystery"}, dialogueAnalysis(), DefaultWeights())
	if !strings.Contains(vague.Reasoning, "unspecified lens") {
		t.Errorf("reasoning for unknown metadata = %q", vague.Reasoning)
	}
}
