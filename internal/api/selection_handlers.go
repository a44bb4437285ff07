package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pagecraft/refcast/internal/character"
	"github.com/pagecraft/refcast/internal/scene"
	"github.com/pagecraft/refcast/internal/selection"
	"github.com/pagecraft/refcast/internal/validate"
)

// SelectionHandlers holds dependencies for the image selection endpoint.
type SelectionHandlers struct {
	service *selection.Service
}

// NewSelectionHandlers creates a new SelectionHandlers instance.
func NewSelectionHandlers(service *selection.Service) *SelectionHandlers {
	return &SelectionHandlers{service: service}
}

// SelectImage handles POST /characters/{id}/select-image.
//
// The response is always 200 when the pipeline ran, including the "no
// suitable image" outcome, which callers distinguish by the success flag.
// Only malformed requests, unknown characters and infrastructure failures
// map to error statuses.
func (h *SelectionHandlers) SelectImage(w http.ResponseWriter, r *http.Request) {
	characterID, err := validate.CharacterID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid character ID")
		return
	}

	var opts selection.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	description, err := validate.SceneDescription(opts.SceneDescription)
	if err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, ErrCodeValidation, "scene_description is required and must be at most 2000 characters")
		return
	}
	opts.SceneDescription = description

	result, err := h.service.SelectImage(r.Context(), characterID, opts)
	if err != nil {
		switch {
		case errors.Is(err, selection.ErrEmptyCharacterID),
			errors.Is(err, selection.ErrInvalidSceneType),
			errors.Is(err, scene.ErrEmptyDescription),
			errors.Is(err, scene.ErrInvalidIntensity):
			writeErrorCode(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error())
		case errors.Is(err, character.ErrNotFound):
			writeErrorCode(w, r, http.StatusNotFound, ErrCodeCharacterNotFound, "Character not found")
		default:
			slog.ErrorContext(r.Context(), "selection failed",
				"character_id", characterID,
				"error", err)
			writeErrorCode(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to select image")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
