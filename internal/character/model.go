// Package character provides models and repository for character records and
// their reference image galleries. The selection core treats these records as
// read-only inputs; mutation happens only through the management endpoints.
package character

import (
	"time"

	"github.com/pagecraft/refcast/internal/shot"
)

// Image is one selectable reference image for a character.
// Once scored an image is never mutated; a new master reference supersedes
// derived images instead of rewriting them.
type Image struct {
	MediaID          string   `json:"media_id"`
	ImageURL         string   `json:"image_url"`
	ShotType         string   `json:"shot_type"`
	IsCoreReference  bool     `json:"is_core_reference"`
	QualityScore     *float64 `json:"quality_score,omitempty"`
	ConsistencyScore *float64 `json:"consistency_score,omitempty"`

	// Structured camera metadata, when known at generation time. Images that
	// predate structured metadata leave these at their unknown variants and
	// are classified from ShotType instead.
	Lens       shot.Lens  `json:"lens_mm,omitempty"`
	Crop       shot.Crop  `json:"crop,omitempty"`
	Angle      shot.Angle `json:"angle,omitempty"`
	Expression string     `json:"expression,omitempty"`
}

// Spec resolves the image's structured camera description: explicit metadata
// fields win, anything missing is recovered from the legacy ShotType label.
func (img Image) Spec() shot.Spec {
	parsed := shot.ParseShotType(img.ShotType)
	spec := shot.Spec{Lens: img.Lens, Crop: img.Crop, Angle: img.Angle, Mode: parsed.Mode}
	if spec.Lens == shot.LensUnknown {
		spec.Lens = parsed.Lens
	}
	if spec.Crop == "" || spec.Crop == shot.CropUnknown {
		spec.Crop = parsed.Crop
	}
	if spec.Angle == "" || spec.Angle == shot.AngleUnknown {
		spec.Angle = parsed.Angle
	}
	return spec
}

// Character is a character record with its master reference image and
// gallery.
type Character struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	MasterImage *Image     `json:"master_image,omitempty"`
	Gallery     []Image    `json:"gallery,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
