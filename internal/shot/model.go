// Package shot defines the reference shot template catalog: named
// photographic archetypes (lens, mode, angle, crop, expression, pose) used
// both to prompt character image generation and to classify existing images.
package shot

import "strings"

// Lens is a focal length from the closed set the catalog uses.
// LensUnknown marks legacy data that does not name a focal length.
type Lens int

// Supported focal lengths in millimeters.
const (
	LensUnknown Lens = 0
	Lens35      Lens = 35
	Lens50      Lens = 50
	Lens85      Lens = 85
)

// Mode describes the photographic intent of a template.
type Mode string

// Supported shot modes.
const (
	ModeActionBody   Mode = "action_body"
	ModeConversation Mode = "conversation"
	ModeEmotion      Mode = "emotion"
	ModeHands        Mode = "hands"
	ModeUnknown      Mode = "unknown"
)

// Angle describes the camera position relative to the character.
type Angle string

// Supported camera angles.
const (
	AngleFront        Angle = "front"
	AngleBack         Angle = "back"
	AngleLeft         Angle = "left"
	AngleRight        Angle = "right"
	Angle3QLeft       Angle = "3q_left"
	Angle3QRight      Angle = "3q_right"
	AngleProfileLeft  Angle = "profile_left"
	AngleProfileRight Angle = "profile_right"
	AngleUnknown      Angle = "unknown"
)

// Crop describes how much of the character the frame includes.
type Crop string

// Supported crops.
const (
	CropFull    Crop = "full"
	Crop3Q      Crop = "3q"
	CropCU      Crop = "cu"
	CropMCU     Crop = "mcu"
	CropHands   Crop = "hands"
	CropUnknown Crop = "unknown"
)

// Pack identifies whether a template belongs to the core 360 set or an addon pack.
type Pack string

// Template packs.
const (
	PackCore  Pack = "core"
	PackAddon Pack = "addon"
)

// Template is a named reference shot archetype. ReferenceWeight is consumed
// downstream by image generation and plays no role in scoring.
type Template struct {
	Slug            string   `json:"slug"`
	LensMm          Lens     `json:"lens_mm"`
	Mode            Mode     `json:"mode"`
	Angle           Angle    `json:"angle"`
	Crop            Crop     `json:"crop"`
	Expression      string   `json:"expression"`
	Pose            string   `json:"pose"`
	ReferenceWeight float64  `json:"reference_weight"`
	Pack            Pack     `json:"pack"`
	Tags            []string `json:"tags,omitempty"`
}

// ParseLens maps a focal length value to the closed Lens enumeration.
// Unrecognized values map to LensUnknown, never an error.
func ParseLens(mm int) Lens {
	switch mm {
	case 35:
		return Lens35
	case 50:
		return Lens50
	case 85:
		return Lens85
	default:
		return LensUnknown
	}
}

// ParseMode maps a free-form mode label to the closed Mode enumeration.
// Unrecognized values map to ModeUnknown, never an error.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "action_body", "action", "body", "scene_action":
		return ModeActionBody
	case "conversation", "dialogue", "dialog":
		return ModeConversation
	case "emotion", "emotional":
		return ModeEmotion
	case "hands":
		return ModeHands
	default:
		return ModeUnknown
	}
}

// ParseAngle maps a free-form angle label to the closed Angle enumeration.
// Unrecognized values map to AngleUnknown, never an error.
func ParseAngle(s string) Angle {
	switch normalizeToken(s) {
	case "front":
		return AngleFront
	case "back":
		return AngleBack
	case "left":
		return AngleLeft
	case "right":
		return AngleRight
	case "3q_left", "3quarter_left", "three_quarter_left":
		return Angle3QLeft
	case "3q_right", "3quarter_right", "three_quarter_right":
		return Angle3QRight
	case "profile_left":
		return AngleProfileLeft
	case "profile_right":
		return AngleProfileRight
	default:
		return AngleUnknown
	}
}

// ParseCrop maps a free-form crop label to the closed Crop enumeration.
// Unrecognized values map to CropUnknown, never an error.
func ParseCrop(s string) Crop {
	switch normalizeToken(s) {
	case "full", "full_body":
		return CropFull
	case "3q", "3quarter", "three_quarter":
		return Crop3Q
	case "cu", "closeup", "close_up":
		return CropCU
	case "mcu", "medium_closeup", "medium_close_up":
		return CropMCU
	case "hands":
		return CropHands
	default:
		return CropUnknown
	}
}

// normalizeToken lowercases a label and folds separators to underscores so
// "3Q Left" and "3q-left" parse identically.
func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
