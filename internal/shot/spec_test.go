package shot

import "testing"

// TestParseShotType tests recovery of structured camera fields from legacy
// free-text shot type labels.
func TestParseShotType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Spec
	}{
		{
			name:  "angle only hyphenated",
			input: "front-left",
			expected: Spec{
				Lens: LensUnknown, Crop: CropUnknown,
				Angle: AngleFront, Mode: ModeUnknown,
			},
		},
		{
			name:  "full slug style label",
			input: "85mm_mcu_3q_left",
			expected: Spec{
				Lens: Lens85, Crop: CropMCU,
				Angle: Angle3QLeft, Mode: ModeConversation,
			},
		},
		{
			name:  "scene action label",
			input: "scene_action",
			expected: Spec{
				Lens: LensUnknown, Crop: CropUnknown,
				Angle: AngleUnknown, Mode: ModeActionBody,
			},
		},
		{
			name:  "bare three quarter crop",
			input: "3q",
			expected: Spec{
				Lens: LensUnknown, Crop: Crop3Q,
				Angle: AngleUnknown, Mode: ModeActionBody,
			},
		},
		{
			name:  "three quarter angle pair wins over crop",
			input: "3q right",
			expected: Spec{
				Lens: LensUnknown, Crop: CropUnknown,
				Angle: Angle3QRight, Mode: ModeUnknown,
			},
		},
		{
			name:  "hands sets crop and mode",
			input: "hands",
			expected: Spec{
				Lens: LensUnknown, Crop: CropHands,
				Angle: AngleUnknown, Mode: ModeHands,
			},
		},
		{
			name:  "closeup infers emotion mode",
			input: "cu_profile_right",
			expected: Spec{
				Lens: LensUnknown, Crop: CropCU,
				Angle: AngleProfileRight, Mode: ModeEmotion,
			},
		},
		{
			name:  "full body infers action mode",
			input: "50mm full back",
			expected: Spec{
				Lens: Lens50, Crop: CropFull,
				Angle: AngleBack, Mode: ModeActionBody,
			},
		},
		{
			name:  "garbage stays unknown",
			input: "???",
			expected: Spec{
				Lens: LensUnknown, Crop: CropUnknown,
				Angle: AngleUnknown, Mode: ModeUnknown,
			},
		},
		{
			name:  "empty stays unknown",
			input: "",
			expected: Spec{
				Lens: LensUnknown, Crop: CropUnknown,
				Angle: AngleUnknown, Mode: ModeUnknown,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseShotType(tt.input)
			if got != tt.expected {
				t.Errorf("ParseShotType(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestParseShotTypeDeterministic verifies repeated parses of the same label
// yield identical specs.
func TestParseShotTypeDeterministic(t *testing.T) {
	inputs := []string{"front-left", "85mm_mcu_3q_left", "scene_action", "weird input 97mm"}
	for _, in := range inputs {
		first := ParseShotType(in)
		for i := 0; i < 5; i++ {
			if got := ParseShotType(in); got != first {
				t.Errorf("ParseShotType(%q) not deterministic: %+v vs %+v", in, got, first)
			}
		}
	}
}
