// Package ranking scores candidate reference images against a scene
// analysis, producing a 0-100 total with a per-factor breakdown and a
// human-readable justification.
//
// Basic Usage:
//
//	// Load calibration (typically at startup)
//	weights, err := ranking.LoadCalibration("configs/scoring.calibration.json")
//	if err != nil {
//		slog.Warn("using default weights", "error", err)
//	}
//
//	// Score a candidate against an analyzed scene
//	scored := ranking.Score(img, analysis, weights)
//	fmt.Println(scored.TotalScore, scored.Reasoning)
//
// Scoring:
//
// Each factor contributes its weight times a [0, 1] credit: shot category
// compatibility with the scene type, rank-decayed membership in the scene's
// preferred lens/crop/angle lists, expression alignment with the scene tone,
// a composition bonus for core references at the primary crop, and the
// candidate's own quality score. Unrecognized metadata degrades the relevant
// factor to zero instead of failing.
//
// Calibration:
//
// The calibration system allows deploy-time tuning of scoring weights via a
// JSON file loaded at startup. Partial overrides merge with defaults and the
// merged weights must still sum to 100. See configs/scoring.calibration.json
// for the default configuration.
package ranking
