package selection

import (
	"fmt"

	"github.com/pagecraft/refcast/internal/ranking"
	"github.com/pagecraft/refcast/internal/scene"
)

// Default request parameters.
const (
	DefaultMinQualityScore = 70.0
	DefaultMaxResults      = 5
)

// Options controls one selection request. Nil pointer fields take their
// documented defaults; Normalize resolves them.
type Options struct {
	SceneDescription    string   `json:"scene_description"`
	SceneType           *string  `json:"scene_type,omitempty"`
	EmotionalIntensity  *int     `json:"emotional_intensity,omitempty"`
	IncludeAlternatives *bool    `json:"include_alternatives,omitempty"`
	MinQualityScore     *float64 `json:"min_quality_score,omitempty"`
	MaxResults          *int     `json:"max_results,omitempty"`
	DetailedAnalysis    *bool    `json:"detailed_analysis,omitempty"`
}

// resolved is an Options with every default applied.
type resolved struct {
	sceneDescription    string
	hints               scene.Hints
	includeAlternatives bool
	minQualityScore     float64
	maxResults          int
	detailedAnalysis    bool
}

// normalize applies defaults: includeAlternatives and detailedAnalysis
// default to true, minQualityScore to 70 and maxResults to 5. A scene type
// hint outside the closed enumeration is rejected rather than ignored, so a
// caller's typo does not silently fall back to automatic classification.
func (o Options) normalize() (resolved, error) {
	r := resolved{
		sceneDescription:    o.SceneDescription,
		includeAlternatives: true,
		minQualityScore:     DefaultMinQualityScore,
		maxResults:          DefaultMaxResults,
		detailedAnalysis:    true,
	}
	if o.SceneType != nil {
		t, ok := scene.ParseType(*o.SceneType)
		if !ok {
			return resolved{}, fmt.Errorf("%w: %q", ErrInvalidSceneType, *o.SceneType)
		}
		r.hints.SceneType = &t
	}
	r.hints.EmotionalIntensity = o.EmotionalIntensity
	if o.IncludeAlternatives != nil {
		r.includeAlternatives = *o.IncludeAlternatives
	}
	if o.MinQualityScore != nil {
		r.minQualityScore = *o.MinQualityScore
	}
	if o.MaxResults != nil && *o.MaxResults > 0 {
		r.maxResults = *o.MaxResults
	}
	if o.DetailedAnalysis != nil {
		r.detailedAnalysis = *o.DetailedAnalysis
	}
	return r, nil
}

// ImageMetadata describes the selected image's stored attributes.
type ImageMetadata struct {
	ShotType         string               `json:"shot_type,omitempty"`
	IsCoreReference  bool                 `json:"is_core_reference"`
	QualityScore     *float64             `json:"quality_score,omitempty"`
	ConsistencyScore *float64             `json:"consistency_score,omitempty"`
	Factors          ranking.FactorScores `json:"factors"`
}

// SelectedImage is the winning candidate in a selection response.
type SelectedImage struct {
	ImageURL string        `json:"image_url"`
	MediaID  string        `json:"media_id"`
	Score    float64       `json:"score"`
	Metadata ImageMetadata `json:"metadata"`
}

// Alternative is a runner-up candidate with its own justification.
type Alternative struct {
	ImageURL  string  `json:"image_url"`
	MediaID   string  `json:"media_id"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// SearchMetrics summarizes one selection pass.
type SearchMetrics struct {
	TotalImagesEvaluated int     `json:"total_images_evaluated"`
	AverageScore         float64 `json:"average_score"`
	SelectionConfidence  float64 `json:"selection_confidence"`
	ProcessingTimeMs     int64   `json:"processing_time_ms"`
}

// Result is the complete selection response. Success false with a non-empty
// Error is the expected shape for "no good match", which callers treat as a
// normal business outcome.
type Result struct {
	Success       bool            `json:"success"`
	SelectedImage *SelectedImage  `json:"selected_image,omitempty"`
	Reasoning     string          `json:"reasoning,omitempty"`
	Alternatives  []Alternative   `json:"alternatives,omitempty"`
	SceneAnalysis *scene.Analysis `json:"scene_analysis,omitempty"`
	SearchMetrics *SearchMetrics  `json:"search_metrics,omitempty"`
	Error         string          `json:"error,omitempty"`
}
