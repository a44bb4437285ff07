package scene

import (
	"errors"
	"strings"
)

// ErrEmptyDescription is returned when the scene description is empty or
// whitespace-only.
var ErrEmptyDescription = errors.New("scene description is empty")

// ErrInvalidIntensity is returned when an emotional intensity hint is
// outside the 1-10 range.
var ErrInvalidIntensity = errors.New("emotional intensity must be between 1 and 10")

// Analyze maps a free-text scene description (plus optional hints) to a
// structured Analysis. It is a pure function: identical inputs always yield
// identical output, and there are no side effects.
func Analyze(description string, hints Hints) (*Analysis, error) {
	lowered := strings.ToLower(strings.TrimSpace(description))
	if lowered == "" {
		return nil, ErrEmptyDescription
	}
	if hints.EmotionalIntensity != nil {
		if v := *hints.EmotionalIntensity; v < 1 || v > 10 {
			return nil, ErrInvalidIntensity
		}
	}

	sceneType, typeMatches := classifyType(lowered)
	if hints.SceneType != nil {
		sceneType = *hints.SceneType
	}
	tone, toneMatches := classifyTone(lowered)

	keywords := make([]string, 0, len(typeMatches)+len(toneMatches))
	keywords = append(keywords, typeMatches...)
	keywords = append(keywords, toneMatches...)
	keywords = dedupe(keywords)

	prof := typeProfiles[sceneType]
	camera := deriveCamera(prof.camera, tone)
	if hints.EmotionalIntensity != nil {
		camera.EmotionalIntensity = *hints.EmotionalIntensity
	}

	return &Analysis{
		SceneType:         sceneType,
		EmotionalTone:     tone,
		Confidence:        confidence(sceneType, tone, len(keywords)),
		Keywords:          keywords,
		RequiredShots:     prof.shots,
		CameraPreferences: camera,
	}, nil
}

// classifyType scores every scene type by matched keyword count and returns
// the winner plus the keywords it matched. Ties resolve by typePriority.
// With no matches at all the default is dialogue.
func classifyType(lowered string) (Type, []string) {
	best := TypeDialogue
	bestCount := 0
	var bestMatches []string

	for _, t := range typePriority {
		matches := matchKeywords(lowered, typeLexicon[t])
		if len(matches) > bestCount {
			best = t
			bestCount = len(matches)
			bestMatches = matches
		}
	}
	return best, bestMatches
}

// classifyTone mirrors classifyType over the tone lexicon.
// With no matches the default is neutral.
func classifyTone(lowered string) (Tone, []string) {
	best := ToneNeutral
	bestCount := 0
	var bestMatches []string

	for _, tone := range tonePriority {
		matches := matchKeywords(lowered, toneLexicon[tone])
		if len(matches) > bestCount {
			best = tone
			bestCount = len(matches)
			bestMatches = matches
		}
	}
	return best, bestMatches
}

// matchKeywords returns the lexicon entries contained in the lowered text,
// in lexicon order.
func matchKeywords(lowered string, lexicon []string) []string {
	var matched []string
	for _, kw := range lexicon {
		if strings.Contains(lowered, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// confidence normalizes the matched keyword count against the total keywords
// checked for the winning type and tone, capped at 1.0. Zero matches mean
// zero confidence (the defaults were used).
func confidence(t Type, tone Tone, matched int) float64 {
	if matched == 0 {
		return 0
	}
	total := len(typeLexicon[t]) + len(toneLexicon[tone])
	if total == 0 {
		return 0
	}
	c := float64(matched) / float64(total)
	if c > 1 {
		c = 1
	}
	return c
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := words[:0]
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
