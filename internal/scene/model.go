// Package scene analyzes free-text narrative scene descriptions into
// structured camera and composition preferences used to rank a character's
// reference images.
package scene

import "github.com/pagecraft/refcast/internal/shot"

// Type classifies what a scene is doing narratively.
type Type string

// Scene types, in classification tie-break priority order (see typePriority).
const (
	TypeDialogue     Type = "dialogue"
	TypeAction       Type = "action"
	TypeEmotional    Type = "emotional"
	TypeEstablishing Type = "establishing"
	TypeTransition   Type = "transition"
)

// Tone classifies the emotional register of a scene.
type Tone string

// Emotional tones.
const (
	ToneNeutral       Tone = "neutral"
	ToneTense         Tone = "tense"
	ToneIntimate      Tone = "intimate"
	ToneDramatic      Tone = "dramatic"
	ToneContemplative Tone = "contemplative"
)

// ParseType maps a label to the closed Type enumeration.
// Returns false for unrecognized labels.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeDialogue, TypeAction, TypeEmotional, TypeEstablishing, TypeTransition:
		return Type(s), true
	default:
		return "", false
	}
}

// ParseTone maps a label to the closed Tone enumeration.
// Returns false for unrecognized labels.
func ParseTone(s string) (Tone, bool) {
	switch Tone(s) {
	case ToneNeutral, ToneTense, ToneIntimate, ToneDramatic, ToneContemplative:
		return Tone(s), true
	default:
		return "", false
	}
}

// RequiredShots lists the camera preferences derived for a scene, each
// ordered most preferred first.
type RequiredShots struct {
	PreferredLens   []shot.Lens  `json:"preferred_lens"`
	PreferredCrop   []shot.Crop  `json:"preferred_crop"`
	PreferredAngles []shot.Angle `json:"preferred_angles"`
}

// PrimaryCrop returns the most preferred crop, or CropUnknown if none.
func (r RequiredShots) PrimaryCrop() shot.Crop {
	if len(r.PreferredCrop) == 0 {
		return shot.CropUnknown
	}
	return r.PreferredCrop[0]
}

// CameraPreferences expresses composition intent on 0-10 scales.
type CameraPreferences struct {
	IntimacyLevel      int `json:"intimacy_level"`
	DynamismLevel      int `json:"dynamism_level"`
	EmotionalIntensity int `json:"emotional_intensity"`
}

// Analysis is the structured interpretation of one scene description.
// It is derived per request and never persisted.
type Analysis struct {
	SceneType         Type              `json:"scene_type"`
	EmotionalTone     Tone              `json:"emotional_tone"`
	Confidence        float64           `json:"confidence"`
	Keywords          []string          `json:"keywords,omitempty"`
	RequiredShots     RequiredShots     `json:"required_shots"`
	CameraPreferences CameraPreferences `json:"camera_preferences"`
}

// Hints are optional caller overrides for Analyze.
type Hints struct {
	// SceneType bypasses keyword classification entirely when set.
	SceneType *Type
	// EmotionalIntensity (1-10) overrides the profile-derived value.
	EmotionalIntensity *int
}
