package shot

import (
	"errors"
	"sort"
)

// ErrTemplateNotFound is returned when a slug does not exist in the catalog.
var ErrTemplateNotFound = errors.New("shot template not found")

// ErrDuplicateSlug is returned when catalog construction sees a slug twice.
var ErrDuplicateSlug = errors.New("duplicate shot template slug")

// Catalog is an immutable, queryable set of shot templates keyed by slug.
// It is built once at startup and safe for concurrent use.
type Catalog struct {
	templates []Template
	bySlug    map[string]Template
}

// NewCatalog builds a catalog from the given templates.
// Slugs must be unique.
func NewCatalog(templates []Template) (*Catalog, error) {
	bySlug := make(map[string]Template, len(templates))
	ordered := make([]Template, 0, len(templates))
	for _, t := range templates {
		if _, dup := bySlug[t.Slug]; dup {
			return nil, ErrDuplicateSlug
		}
		bySlug[t.Slug] = t
		ordered = append(ordered, t)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Slug < ordered[j].Slug })
	return &Catalog{templates: ordered, bySlug: bySlug}, nil
}

// Templates returns all templates, ordered by slug.
func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// BySlug returns the template with the given slug.
func (c *Catalog) BySlug(slug string) (Template, error) {
	t, ok := c.bySlug[slug]
	if !ok {
		return Template{}, ErrTemplateNotFound
	}
	return t, nil
}

// Filter returns the templates matching the given pack and mode.
// An empty pack or mode matches everything.
func (c *Catalog) Filter(pack Pack, mode Mode) []Template {
	var out []Template
	for _, t := range c.templates {
		if pack != "" && t.Pack != pack {
			continue
		}
		if mode != "" && t.Mode != mode {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Len returns the number of templates in the catalog.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// DefaultCatalog returns the built-in template set: the core 360 set
// (eight full-body angles plus a front close-up) and the addon
// conversation, emotion and hands packs.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultTemplates())
	if err != nil {
		// The built-in set is a compile-time constant; a duplicate slug
		// here is a programming error.
		panic(err)
	}
	return c
}

func defaultTemplates() []Template {
	coreAngles := []Angle{
		AngleFront, Angle3QLeft, AngleLeft, AngleProfileLeft,
		AngleBack, AngleProfileRight, AngleRight, Angle3QRight,
	}

	var templates []Template

	// Core 360 set: full-body neutral turnaround at 50mm.
	for _, a := range coreAngles {
		templates = append(templates, Template{
			Slug:            "core_full_" + string(a),
			LensMm:          Lens50,
			Mode:            ModeActionBody,
			Angle:           a,
			Crop:            CropFull,
			Expression:      "neutral",
			Pose:            "standing relaxed",
			ReferenceWeight: 1.0,
			Pack:            PackCore,
			Tags:            []string{"turnaround", "full_body"},
		})
	}
	templates = append(templates, Template{
		Slug:            "core_cu_front",
		LensMm:          Lens85,
		Mode:            ModeEmotion,
		Angle:           AngleFront,
		Crop:            CropCU,
		Expression:      "neutral",
		Pose:            "head and shoulders",
		ReferenceWeight: 1.0,
		Pack:            PackCore,
		Tags:            []string{"portrait"},
	})

	// Conversation pack: medium close-ups angled for shot/reverse-shot.
	for _, a := range []Angle{Angle3QLeft, Angle3QRight, AngleFront} {
		templates = append(templates, Template{
			Slug:            "conv_mcu_" + string(a),
			LensMm:          Lens85,
			Mode:            ModeConversation,
			Angle:           a,
			Crop:            CropMCU,
			Expression:      "attentive",
			Pose:            "seated, facing interlocutor",
			ReferenceWeight: 0.8,
			Pack:            PackAddon,
			Tags:            []string{"dialogue"},
		})
	}

	// Emotion pack: close-ups with strong expressions.
	for _, e := range []string{"determined", "vulnerable", "tender", "fierce", "pensive"} {
		templates = append(templates, Template{
			Slug:            "emo_cu_" + e,
			LensMm:          Lens85,
			Mode:            ModeEmotion,
			Angle:           AngleFront,
			Crop:            CropCU,
			Expression:      e,
			Pose:            "head and shoulders",
			ReferenceWeight: 0.7,
			Pack:            PackAddon,
			Tags:            []string{"expression", e},
		})
	}

	// Action pack: wide dynamic three-quarter shots.
	for _, a := range []Angle{Angle3QLeft, Angle3QRight} {
		templates = append(templates, Template{
			Slug:            "action_3q_" + string(a),
			LensMm:          Lens35,
			Mode:            ModeActionBody,
			Angle:           a,
			Crop:            Crop3Q,
			Expression:      "determined",
			Pose:            "mid stride",
			ReferenceWeight: 0.8,
			Pack:            PackAddon,
			Tags:            []string{"dynamic"},
		})
	}

	// Hands pack.
	templates = append(templates, Template{
		Slug:            "hands_detail",
		LensMm:          Lens85,
		Mode:            ModeHands,
		Angle:           AngleFront,
		Crop:            CropHands,
		Expression:      "",
		Pose:            "hands at rest",
		ReferenceWeight: 0.5,
		Pack:            PackAddon,
		Tags:            []string{"detail", "hands"},
	})

	return templates
}
