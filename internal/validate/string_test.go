package validate

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		constraints StringConstraints
		wantErr     error
		wantOutput  string
	}{
		{
			name:  "valid string within length constraints",
			input: "Aria Voss",
			constraints: StringConstraints{
				MinLength: 5,
				MaxLength: 20,
				TrimSpace: true,
			},
			wantOutput: "Aria Voss",
		},
		{
			name:  "string too short",
			input: "Hi",
			constraints: StringConstraints{
				MinLength: 5,
				MaxLength: 20,
			},
			wantErr: ErrStringTooShort,
		},
		{
			name:  "string too long",
			input: strings.Repeat("a", 101),
			constraints: StringConstraints{
				MinLength: 1,
				MaxLength: 100,
			},
			wantErr: ErrStringTooLong,
		},
		{
			name:  "empty string not allowed",
			input: "",
			constraints: StringConstraints{
				AllowEmpty: false,
			},
			wantErr: ErrEmpty,
		},
		{
			name:  "empty string allowed",
			input: "",
			constraints: StringConstraints{
				AllowEmpty: true,
			},
			wantOutput: "",
		},
		{
			name:  "whitespace trimmed to empty",
			input: "   ",
			constraints: StringConstraints{
				AllowEmpty: false,
				TrimSpace:  true,
			},
			wantErr: ErrEmpty,
		},
		{
			name:  "trimming applied before length check",
			input: "  ok  ",
			constraints: StringConstraints{
				MinLength: 2,
				MaxLength: 2,
				TrimSpace: true,
			},
			wantOutput: "ok",
		},
		{
			name:  "pattern mismatch",
			input: "char<script>",
			constraints: StringConstraints{
				MaxLength:      64,
				AllowedPattern: regexp.MustCompile(`^[A-Za-z0-9_\-\.]+$`),
			},
			wantErr: ErrInvalidCharacters,
		},
		{
			name:  "sql keyword detected",
			input: "aria; DROP TABLE characters",
			constraints: StringConstraints{
				MaxLength:        100,
				CheckSQLKeywords: true,
			},
			wantErr: ErrSQLKeyword,
		},
		{
			name:  "multibyte counted as characters not bytes",
			input: "日本語の名前",
			constraints: StringConstraints{
				MinLength: 6,
				MaxLength: 6,
			},
			wantOutput: "日本語の名前",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(tt.input, tt.constraints)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("String() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("String() unexpected error: %v", err)
			}
			if got != tt.wantOutput {
				t.Errorf("String() = %q, want %q", got, tt.wantOutput)
			}
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	got := SanitizeHTML(`<img src=x onerror="alert(1)">`)
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Errorf("SanitizeHTML() left markup intact: %q", got)
	}
}

func TestCharacterID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    string
	}{
		{"simple id", "char-42", false, "char-42"},
		{"underscores and dots", "aria_v2.1", false, "aria_v2.1"},
		{"trimmed", "  char-42  ", false, "char-42"},
		{"empty", "", true, ""},
		{"path traversal", "../etc/passwd", true, ""},
		{"spaces rejected", "char 42", true, ""},
		{"too long", strings.Repeat("a", 65), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CharacterID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CharacterID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("CharacterID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCharacterName(t *testing.T) {
	if _, err := CharacterName("Aria Voss"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if _, err := CharacterName("x'; DELETE FROM characters"); err == nil {
		t.Error("name with SQL keyword accepted")
	}
	if _, err := CharacterName(""); err == nil {
		t.Error("empty name accepted")
	}
}

func TestSceneDescription(t *testing.T) {
	desc := "They talk quietly over the map table; SELECT few words pass between them."
	got, err := SceneDescription(desc)
	if err != nil {
		t.Fatalf("prose containing SQL-looking words rejected: %v", err)
	}
	if got != desc {
		t.Errorf("SceneDescription() = %q, want unchanged input", got)
	}

	if _, err := SceneDescription("   "); err == nil {
		t.Error("blank description accepted")
	}
	if _, err := SceneDescription(strings.Repeat("x", 2001)); err == nil {
		t.Error("oversized description accepted")
	}
}

func TestShotType(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"85mm_mcu_3q_left", false},
		{"core_full front", false},
		{"", false},
		{"mcu; DROP", true},
		{strings.Repeat("a", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ShotType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShotType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
