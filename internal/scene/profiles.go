package scene

import "github.com/pagecraft/refcast/internal/shot"

// profile is the deterministic derivation of shot requirements and camera
// preferences for one scene type.
type profile struct {
	shots  RequiredShots
	camera CameraPreferences
}

// typeProfiles is the fixed sceneType -> preferences lookup table.
// Preference lists are ordered most preferred first.
var typeProfiles = map[Type]profile{
	TypeDialogue: {
		shots: RequiredShots{
			PreferredLens:   []shot.Lens{shot.Lens85, shot.Lens50},
			PreferredCrop:   []shot.Crop{shot.CropMCU, shot.CropCU},
			PreferredAngles: []shot.Angle{shot.Angle3QLeft, shot.Angle3QRight, shot.AngleFront},
		},
		camera: CameraPreferences{IntimacyLevel: 6, DynamismLevel: 3, EmotionalIntensity: 5},
	},
	TypeAction: {
		shots: RequiredShots{
			PreferredLens:   []shot.Lens{shot.Lens35, shot.Lens50},
			PreferredCrop:   []shot.Crop{shot.CropFull, shot.Crop3Q},
			PreferredAngles: []shot.Angle{shot.Angle3QLeft, shot.Angle3QRight, shot.AngleRight, shot.AngleLeft},
		},
		camera: CameraPreferences{IntimacyLevel: 3, DynamismLevel: 8, EmotionalIntensity: 6},
	},
	TypeEmotional: {
		shots: RequiredShots{
			PreferredLens:   []shot.Lens{shot.Lens85},
			PreferredCrop:   []shot.Crop{shot.CropMCU, shot.CropCU},
			PreferredAngles: []shot.Angle{shot.AngleFront, shot.Angle3QLeft, shot.Angle3QRight},
		},
		camera: CameraPreferences{IntimacyLevel: 8, DynamismLevel: 2, EmotionalIntensity: 7},
	},
	TypeEstablishing: {
		shots: RequiredShots{
			PreferredLens:   []shot.Lens{shot.Lens35},
			PreferredCrop:   []shot.Crop{shot.CropFull, shot.Crop3Q},
			PreferredAngles: []shot.Angle{shot.AngleBack, shot.Angle3QLeft, shot.Angle3QRight},
		},
		camera: CameraPreferences{IntimacyLevel: 2, DynamismLevel: 4, EmotionalIntensity: 4},
	},
	TypeTransition: {
		shots: RequiredShots{
			PreferredLens:   []shot.Lens{shot.Lens50, shot.Lens35},
			PreferredCrop:   []shot.Crop{shot.Crop3Q, shot.CropFull},
			PreferredAngles: []shot.Angle{shot.AngleProfileLeft, shot.AngleProfileRight, shot.AngleBack},
		},
		camera: CameraPreferences{IntimacyLevel: 3, DynamismLevel: 5, EmotionalIntensity: 4},
	},
}

// toneAdjustment shifts the profile-derived camera preferences by tone.
// Values are clamped to [0, 10] after applying.
type toneAdjustment struct {
	intimacy  int
	dynamism  int
	intensity int
}

var toneAdjustments = map[Tone]toneAdjustment{
	ToneIntimate:      {intimacy: 2, dynamism: -1, intensity: 1},
	ToneTense:         {dynamism: 2, intensity: 1},
	ToneDramatic:      {intensity: 2},
	ToneContemplative: {intimacy: 1, dynamism: -2},
	ToneNeutral:       {},
}

// deriveCamera applies the tone adjustment to a profile's base preferences.
func deriveCamera(base CameraPreferences, tone Tone) CameraPreferences {
	adj := toneAdjustments[tone]
	return CameraPreferences{
		IntimacyLevel:      clampLevel(base.IntimacyLevel + adj.intimacy),
		DynamismLevel:      clampLevel(base.DynamismLevel + adj.dynamism),
		EmotionalIntensity: clampLevel(base.EmotionalIntensity + adj.intensity),
	}
}

func clampLevel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
