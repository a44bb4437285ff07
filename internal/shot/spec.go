package shot

import (
	"strconv"
	"strings"
)

// Spec is the structured camera description recovered from an image's
// free-text shot type label. Fields that cannot be recovered stay at their
// unknown variants; parsing is total and never fails.
type Spec struct {
	Lens  Lens  `json:"lens_mm"`
	Crop  Crop  `json:"crop"`
	Angle Angle `json:"angle"`
	Mode  Mode  `json:"mode"`
}

// ParseShotType maps a legacy free-text shot type label (for example
// "front-left", "85mm_mcu_3q_left" or "scene_action") to a structured Spec.
//
// The rule is deterministic and total:
//  1. The label is lowercased and split on "-", "_" and spaces.
//  2. Tokens are scanned left to right. Lens tokens ("35", "50mm", ...),
//     crop tokens and mode tokens each bind the first time they match.
//  3. Angle tokens may span two tokens ("3q"+"left", "profile"+"right");
//     bare "left"/"right" bind as plain side angles only when no angle was
//     recovered from a pair.
//  4. Anything unrecognized is skipped; missing fields stay unknown.
//  5. If the mode is still unknown, it is inferred from the crop
//     (cu -> emotion, mcu -> conversation, hands -> hands,
//     full/3q -> action_body).
func ParseShotType(shotType string) Spec {
	spec := Spec{
		Lens:  LensUnknown,
		Crop:  CropUnknown,
		Angle: AngleUnknown,
		Mode:  ModeUnknown,
	}

	tokens := splitTokens(shotType)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if spec.Lens == LensUnknown {
			if mm, ok := parseLensToken(tok); ok {
				spec.Lens = mm
				continue
			}
		}

		if spec.Mode == ModeUnknown {
			switch tok {
			case "action", "scene":
				spec.Mode = ModeActionBody
				continue
			case "conversation", "dialogue", "dialog":
				spec.Mode = ModeConversation
				continue
			case "emotion", "emotional":
				spec.Mode = ModeEmotion
				continue
			}
		}

		if spec.Crop == CropUnknown {
			switch tok {
			case "full", "body":
				spec.Crop = CropFull
				continue
			case "cu", "closeup":
				spec.Crop = CropCU
				continue
			case "mcu":
				spec.Crop = CropMCU
				continue
			case "hands":
				// "hands" names both a crop and a mode.
				spec.Crop = CropHands
				if spec.Mode == ModeUnknown {
					spec.Mode = ModeHands
				}
				continue
			}
		}

		if spec.Angle == AngleUnknown {
			if a, consumed := parseAngleTokens(tokens[i:]); a != AngleUnknown {
				spec.Angle = a
				i += consumed - 1
				continue
			}
		}

		// "3q" doubles as a crop when it is not part of an angle pair.
		if spec.Crop == CropUnknown && tok == "3q" {
			spec.Crop = Crop3Q
		}
	}

	if spec.Mode == ModeUnknown {
		spec.Mode = modeFromCrop(spec.Crop)
	}
	return spec
}

// splitTokens lowercases the label and splits on the separators legacy shot
// type strings use.
func splitTokens(s string) []string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '/'
	})
}

// parseLensToken recognizes "85" and "85mm" style tokens.
func parseLensToken(tok string) (Lens, bool) {
	tok = strings.TrimSuffix(tok, "mm")
	mm, err := strconv.Atoi(tok)
	if err != nil {
		return LensUnknown, false
	}
	if l := ParseLens(mm); l != LensUnknown {
		return l, true
	}
	return LensUnknown, false
}

// parseAngleTokens recovers an angle from the head of the token stream and
// reports how many tokens it consumed (0 when nothing matched).
func parseAngleTokens(tokens []string) (Angle, int) {
	if len(tokens) == 0 {
		return AngleUnknown, 0
	}
	head := tokens[0]

	if len(tokens) >= 2 {
		pair := head + "_" + tokens[1]
		switch pair {
		case "3q_left":
			return Angle3QLeft, 2
		case "3q_right":
			return Angle3QRight, 2
		case "profile_left":
			return AngleProfileLeft, 2
		case "profile_right":
			return AngleProfileRight, 2
		}
	}

	switch head {
	case "front":
		return AngleFront, 1
	case "back":
		return AngleBack, 1
	case "left":
		return AngleLeft, 1
	case "right":
		return AngleRight, 1
	}
	return AngleUnknown, 0
}

// modeFromCrop is the fallback category inference for labels that never name
// a mode outright.
func modeFromCrop(c Crop) Mode {
	switch c {
	case CropCU:
		return ModeEmotion
	case CropMCU:
		return ModeConversation
	case CropHands:
		return ModeHands
	case CropFull, Crop3Q:
		return ModeActionBody
	default:
		return ModeUnknown
	}
}
