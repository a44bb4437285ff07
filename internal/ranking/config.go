package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Weights defines the scoring weight for each ranking factor. Weights are
// expressed in score points; a candidate's total score is the sum of the
// weighted factor contributions, so a full-credit candidate scores exactly
// the sum of all weights.
type Weights struct {
	SceneTypeMatch   float64 `json:"scene_type_match"`  // Shot category vs scene type (default: 25)
	LensPreference   float64 `json:"lens_preference"`   // Lens vs preferred lens list (default: 20)
	CropPreference   float64 `json:"crop_preference"`   // Crop vs preferred crop list (default: 20)
	AnglePreference  float64 `json:"angle_preference"`  // Angle vs preferred angle list (default: 15)
	EmotionalTone    float64 `json:"emotional_tone"`    // Expression vs scene tone (default: 10)
	CompositionMatch float64 `json:"composition_match"` // Core reference at the primary crop (default: 5)
	QualityScore     float64 `json:"quality_score"`     // Candidate's own quality score (default: 5)
}

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string  `json:"version"` // Config version for future compatibility
	Weights Weights `json:"weights"` // Weight configuration
}

// DefaultWeights returns the default scoring weight configuration.
//
// Formula: total = scene_type(25) + lens(20) + crop(20) + angle(15) +
// tone(10) + composition(5) + quality(5), summing to 100 so totals read
// directly as a 0-100 score.
func DefaultWeights() *Weights {
	return &Weights{
		SceneTypeMatch:   25,
		LensPreference:   20,
		CropPreference:   20,
		AnglePreference:  15,
		EmotionalTone:    10,
		CompositionMatch: 5,
		QualityScore:     5,
	}
}

// Sum returns the total of all factor weights.
func (w *Weights) Sum() float64 {
	return w.SceneTypeMatch + w.LensPreference + w.CropPreference +
		w.AnglePreference + w.EmotionalTone + w.CompositionMatch + w.QualityScore
}

// Validate checks that every weight is non-negative and that the weights sum
// to 100, so totals remain comparable across weight configurations.
func (w *Weights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"scene_type_match", w.SceneTypeMatch},
		{"lens_preference", w.LensPreference},
		{"crop_preference", w.CropPreference},
		{"angle_preference", w.AnglePreference},
		{"emotional_tone", w.EmotionalTone},
		{"composition_match", w.CompositionMatch},
		{"quality_score", w.QualityScore},
	} {
		if f.value < 0 {
			return fmt.Errorf("weight %s is negative: %v", f.name, f.value)
		}
	}
	if sum := w.Sum(); sum != 100 {
		return fmt.Errorf("weights sum to %v, expected 100", sum)
	}
	return nil
}

// LoadCalibration loads scoring weights from a JSON calibration file.
// If the file doesn't exist, can't be read, or fails validation, returns
// default weights with an error so callers degrade gracefully. Partial
// configurations are merged with defaults.
func LoadCalibration(filePath string) (*Weights, error) {
	if filePath == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	defaults := DefaultWeights()
	merged := MergeCalibration(defaults, &config.Weights)
	if err := merged.Validate(); err != nil {
		slog.Warn("calibration file produced invalid weights, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("invalid calibration: %w", err)
	}
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override weights with base weights. Only non-zero
// values from the override are applied, which allows partial overrides in
// the calibration file.
func MergeCalibration(base *Weights, override *Weights) *Weights {
	if base == nil {
		return DefaultWeights()
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base

	if override.SceneTypeMatch != 0 {
		result.SceneTypeMatch = override.SceneTypeMatch
	}
	if override.LensPreference != 0 {
		result.LensPreference = override.LensPreference
	}
	if override.CropPreference != 0 {
		result.CropPreference = override.CropPreference
	}
	if override.AnglePreference != 0 {
		result.AnglePreference = override.AnglePreference
	}
	if override.EmotionalTone != 0 {
		result.EmotionalTone = override.EmotionalTone
	}
	if override.CompositionMatch != 0 {
		result.CompositionMatch = override.CompositionMatch
	}
	if override.QualityScore != 0 {
		result.QualityScore = override.QualityScore
	}

	return &result
}

// logCalibrationOverrides logs which weights were overridden from defaults.
func logCalibrationOverrides(defaults *Weights, loaded *Weights) {
	var overrides []string

	check := func(name string, def, got float64) {
		if def != got {
			overrides = append(overrides, fmt.Sprintf("%s: %.0f -> %.0f", name, def, got))
		}
	}
	check("scene_type_match", defaults.SceneTypeMatch, loaded.SceneTypeMatch)
	check("lens_preference", defaults.LensPreference, loaded.LensPreference)
	check("crop_preference", defaults.CropPreference, loaded.CropPreference)
	check("angle_preference", defaults.AnglePreference, loaded.AnglePreference)
	check("emotional_tone", defaults.EmotionalTone, loaded.EmotionalTone)
	check("composition_match", defaults.CompositionMatch, loaded.CompositionMatch)
	check("quality_score", defaults.QualityScore, loaded.QualityScore)

	if len(overrides) > 0 {
		slog.Info("loaded scoring calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded scoring calibration (using all defaults)")
	}
}
