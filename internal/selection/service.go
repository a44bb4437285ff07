// Package selection orchestrates reference image selection: it analyzes the
// scene, collects a character's candidate images, scores them concurrently
// and assembles a ranked, explained result.
package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pagecraft/refcast/internal/character"
	"github.com/pagecraft/refcast/internal/ranking"
	"github.com/pagecraft/refcast/internal/scene"
)

// ErrEmptyCharacterID is returned when a selection request omits the
// character identity.
var ErrEmptyCharacterID = errors.New("character id is required")

// ErrInvalidSceneType is returned when a scene type hint is not in the
// closed enumeration.
var ErrInvalidSceneType = errors.New("scene type must be one of dialogue, action, emotional, establishing, transition")

// Business-outcome messages for requests that complete without a match.
// These surface in the Result, not as errors.
const (
	msgNoImages       = "no images available"
	msgBelowThreshold = "no candidate images met the minimum quality threshold"
)

// defaultScoreConcurrency bounds the scoring fan-out per request.
const defaultScoreConcurrency = 8

// MediaResolver converts a stored image location into a URL the caller can
// fetch, typically by presigning object storage keys.
type MediaResolver interface {
	Resolve(ctx context.Context, imageURL string) (string, error)
}

// Service performs image selection for characters.
type Service struct {
	collector   *character.Collector
	weights     *ranking.Weights
	resolver    MediaResolver
	metrics     *Metrics
	logger      *slog.Logger
	concurrency int
}

// NewService creates a selection service. Weights may be nil to use the
// default calibration; resolver and metrics may be nil to disable media
// resolution and instrumentation.
func NewService(collector *character.Collector, weights *ranking.Weights, resolver MediaResolver, metrics *Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if weights == nil {
		weights = ranking.DefaultWeights()
	}
	return &Service{
		collector:   collector,
		weights:     weights,
		resolver:    resolver,
		metrics:     metrics,
		logger:      logger,
		concurrency: defaultScoreConcurrency,
	}
}

// SelectImage selects the best reference image of a character for a scene.
//
// Validation failures and unknown characters return an error; a character
// whose images simply do not qualify returns a Result with Success false,
// since "no good match" is an expected outcome the caller must handle.
func (s *Service) SelectImage(ctx context.Context, characterID string, opts Options) (*Result, error) {
	start := time.Now()

	if characterID == "" {
		return nil, ErrEmptyCharacterID
	}
	req, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	analysis, err := scene.Analyze(req.sceneDescription, req.hints)
	if err != nil {
		return nil, err
	}

	candidates, err := s.collector.Collect(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("collect candidates for %s: %w", characterID, err)
	}

	scored, err := s.scoreAll(ctx, candidates, analysis)
	if err != nil {
		return nil, err
	}

	ranked := rank(filterByQuality(scored, req.minQualityScore))
	result := s.assemble(ctx, scored, ranked, analysis, req, start)

	if s.metrics != nil {
		confidence := 0.0
		if result.SearchMetrics != nil {
			confidence = result.SearchMetrics.SelectionConfidence
		}
		s.metrics.ObserveSelection(len(scored), confidence, time.Since(start).Seconds(), result.Success)
	}
	s.logger.Info("selection completed",
		"character_id", characterID,
		"scene_type", analysis.SceneType,
		"candidates", len(scored),
		"qualified", len(ranked),
		"success", result.Success,
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

// scoreAll scores every candidate concurrently. Scoring is pure, so workers
// write disjoint slots of a preallocated slice and need no locking; the
// group context aborts remaining work if the request is cancelled.
func (s *Service) scoreAll(ctx context.Context, candidates []character.Image, analysis *scene.Analysis) ([]ranking.ScoredCandidate, error) {
	scored := make([]ranking.ScoredCandidate, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, img := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scored[i] = ranking.Score(img, analysis, s.weights)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}
	return scored, nil
}

// assemble builds the response from the ranked candidates.
func (s *Service) assemble(ctx context.Context, scored, ranked []ranking.ScoredCandidate, analysis *scene.Analysis, req resolved, start time.Time) *Result {
	result := &Result{}

	if req.detailedAnalysis {
		result.SceneAnalysis = analysis
	}

	if len(ranked) == 0 {
		if len(scored) == 0 {
			result.Error = msgNoImages
		} else {
			result.Error = msgBelowThreshold
		}
		result.SearchMetrics = &SearchMetrics{
			TotalImagesEvaluated: len(scored),
			AverageScore:         averageScore(scored),
			ProcessingTimeMs:     time.Since(start).Milliseconds(),
		}
		return result
	}

	top := ranked[0]
	result.Success = true
	result.Reasoning = top.Reasoning
	result.SelectedImage = &SelectedImage{
		ImageURL: s.resolveURL(ctx, top.Image.ImageURL),
		MediaID:  top.Image.MediaID,
		Score:    top.TotalScore,
		Metadata: ImageMetadata{
			ShotType:         top.Image.ShotType,
			IsCoreReference:  top.Image.IsCoreReference,
			QualityScore:     top.Image.QualityScore,
			ConsistencyScore: top.Image.ConsistencyScore,
			Factors:          top.Factors,
		},
	}

	if req.includeAlternatives {
		limit := req.maxResults
		if limit > len(ranked) {
			limit = len(ranked)
		}
		for _, c := range ranked[1:limit] {
			result.Alternatives = append(result.Alternatives, Alternative{
				ImageURL:  s.resolveURL(ctx, c.Image.ImageURL),
				MediaID:   c.Image.MediaID,
				Score:     c.TotalScore,
				Reasoning: c.Reasoning,
			})
		}
	}

	result.SearchMetrics = &SearchMetrics{
		TotalImagesEvaluated: len(scored),
		AverageScore:         averageScore(scored),
		SelectionConfidence:  confidenceGap(ranked),
		ProcessingTimeMs:     time.Since(start).Milliseconds(),
	}
	return result
}

// resolveURL resolves a stored image location, falling back to the stored
// value when resolution fails so a presigning hiccup never sinks an
// otherwise successful selection.
func (s *Service) resolveURL(ctx context.Context, imageURL string) string {
	if s.resolver == nil {
		return imageURL
	}
	resolved, err := s.resolver.Resolve(ctx, imageURL)
	if err != nil {
		s.logger.Warn("failed to resolve image url, returning stored value",
			"image_url", imageURL,
			"error", err)
		return imageURL
	}
	return resolved
}
