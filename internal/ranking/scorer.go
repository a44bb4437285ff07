package ranking

import (
	"fmt"
	"strings"

	"github.com/pagecraft/refcast/internal/character"
	"github.com/pagecraft/refcast/internal/scene"
	"github.com/pagecraft/refcast/internal/shot"
)

// FactorScores is the per-factor breakdown of a candidate's total score.
// Each field is already weighted; the fields sum to the total before
// clamping.
type FactorScores struct {
	SceneTypeMatch   float64 `json:"scene_type_match"`
	LensPreference   float64 `json:"lens_preference"`
	CropPreference   float64 `json:"crop_preference"`
	AnglePreference  float64 `json:"angle_preference"`
	EmotionalTone    float64 `json:"emotional_tone"`
	CompositionMatch float64 `json:"composition_match"`
	QualityScore     float64 `json:"quality_score"`
}

// Sum returns the total of all factor contributions.
func (f FactorScores) Sum() float64 {
	return f.SceneTypeMatch + f.LensPreference + f.CropPreference +
		f.AnglePreference + f.EmotionalTone + f.CompositionMatch + f.QualityScore
}

// ScoredCandidate is one candidate image with its computed score. It lives
// only for the duration of a selection request.
type ScoredCandidate struct {
	Image      character.Image `json:"image"`
	TotalScore float64         `json:"total_score"`
	Factors    FactorScores    `json:"factors"`
	Reasoning  string          `json:"reasoning"`
}

// Score scores a candidate image against a scene analysis. Identical
// (candidate, analysis) pairs always yield identical scores; there is no
// randomness and no shared state, so candidates may be scored concurrently.
func Score(img character.Image, analysis *scene.Analysis, weights *Weights) ScoredCandidate {
	if weights == nil {
		weights = DefaultWeights()
	}

	spec := img.Spec()
	shots := analysis.RequiredShots

	factors := FactorScores{
		SceneTypeMatch:  modeAffinity(analysis.SceneType, spec.Mode) * weights.SceneTypeMatch,
		LensPreference:  lensCredit(spec.Lens, shots.PreferredLens) * weights.LensPreference,
		CropPreference:  cropCredit(spec.Crop, shots.PreferredCrop) * weights.CropPreference,
		AnglePreference: angleCredit(spec.Angle, shots.PreferredAngles) * weights.AnglePreference,
		EmotionalTone:   expressionAffinity(analysis.EmotionalTone, img.Expression) * weights.EmotionalTone,
	}

	// Composition bonus rewards curated core references framed at the
	// scene's most preferred crop.
	if img.IsCoreReference && spec.Crop != shot.CropUnknown && spec.Crop == shots.PrimaryCrop() {
		factors.CompositionMatch = weights.CompositionMatch
	}

	// Images that predate quality scoring get a midpoint default rather
	// than zero, so older references are not unfairly buried.
	if img.QualityScore != nil {
		factors.QualityScore = clamp01(*img.QualityScore/100) * weights.QualityScore
	} else {
		factors.QualityScore = 0.5 * weights.QualityScore
	}

	total := factors.Sum()
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return ScoredCandidate{
		Image:      img,
		TotalScore: total,
		Factors:    factors,
		Reasoning:  reasoning(spec, total),
	}
}

func lensCredit(lens shot.Lens, preferred []shot.Lens) float64 {
	if lens == shot.LensUnknown {
		return 0
	}
	for i, p := range preferred {
		if p == lens {
			return rankCredit(i, len(preferred))
		}
	}
	return 0
}

func cropCredit(crop shot.Crop, preferred []shot.Crop) float64 {
	if crop == shot.CropUnknown || crop == "" {
		return 0
	}
	for i, p := range preferred {
		if p == crop {
			return rankCredit(i, len(preferred))
		}
	}
	return 0
}

func angleCredit(angle shot.Angle, preferred []shot.Angle) float64 {
	if angle == shot.AngleUnknown || angle == "" {
		return 0
	}
	for i, p := range preferred {
		if p == angle {
			return rankCredit(i, len(preferred))
		}
	}
	return 0
}

// reasoning renders the human-readable justification for a score, citing
// the lens, crop and angle the score was computed from.
func reasoning(spec shot.Spec, total float64) string {
	lens := "unspecified lens"
	if spec.Lens != shot.LensUnknown {
		lens = fmt.Sprintf("%dmm", int(spec.Lens))
	}
	crop := "uncategorized"
	if spec.Crop != shot.CropUnknown && spec.Crop != "" {
		crop = strings.ToUpper(string(spec.Crop))
	}
	angle := "unknown angle"
	if spec.Angle != shot.AngleUnknown && spec.Angle != "" {
		angle = string(spec.Angle)
	}
	return fmt.Sprintf("%s %s shot (%s), score %.0f/100", lens, crop, angle, total)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
