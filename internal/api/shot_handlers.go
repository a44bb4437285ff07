package api

import (
	"errors"
	"net/http"

	"github.com/pagecraft/refcast/internal/shot"
)

// ShotHandlers serves the shot template catalog.
type ShotHandlers struct {
	catalog *shot.Catalog
}

// NewShotHandlers creates a new ShotHandlers instance.
func NewShotHandlers(catalog *shot.Catalog) *ShotHandlers {
	return &ShotHandlers{catalog: catalog}
}

// TemplateListResponse is the response body for template listings.
type TemplateListResponse struct {
	Templates []shot.Template `json:"templates"`
	Count     int             `json:"count"`
}

// ListTemplates handles GET /shot-templates.
// Optional query parameters filter the catalog: pack (core, addon) and
// mode (conversation, emotion, action_body, hands).
func (h *ShotHandlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	pack := shot.Pack(r.URL.Query().Get("pack"))
	if pack != "" && pack != shot.PackCore && pack != shot.PackAddon {
		writeErrorCode(w, r, http.StatusBadRequest, ErrCodeValidation, "pack must be 'core' or 'addon'")
		return
	}

	var mode shot.Mode
	if raw := r.URL.Query().Get("mode"); raw != "" {
		mode = shot.ParseMode(raw)
		if mode == shot.ModeUnknown {
			writeErrorCode(w, r, http.StatusBadRequest, ErrCodeValidation,
				"mode must be one of conversation, emotion, action_body, hands")
			return
		}
	}

	templates := h.catalog.Filter(pack, mode)
	if templates == nil {
		templates = []shot.Template{}
	}

	writeJSON(w, http.StatusOK, TemplateListResponse{
		Templates: templates,
		Count:     len(templates),
	})
}

// GetTemplate handles GET /shot-templates/{slug}.
func (h *ShotHandlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	template, err := h.catalog.BySlug(slug)
	if err != nil {
		if errors.Is(err, shot.ErrTemplateNotFound) {
			writeErrorCode(w, r, http.StatusNotFound, ErrCodeTemplateNotFound, "Shot template not found")
			return
		}
		writeErrorCode(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to look up template")
		return
	}

	writeJSON(w, http.StatusOK, template)
}
