package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/refcast/internal/character"
	"github.com/pagecraft/refcast/internal/validate"
)

// CreateCharacterRequest represents the request body for registering a character.
type CreateCharacterRequest struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	MasterImage *character.Image `json:"master_image,omitempty"`
}

// AddImageRequest represents the request body for attaching a reference image.
// IsMaster installs the image as the character's master reference; the
// previous master is demoted to the gallery.
type AddImageRequest struct {
	character.Image
	IsMaster bool `json:"is_master,omitempty"`
}

// CharacterHandlers holds dependencies for character management endpoints.
type CharacterHandlers struct {
	repo character.Repository
}

// NewCharacterHandlers creates a new CharacterHandlers instance.
func NewCharacterHandlers(repo character.Repository) *CharacterHandlers {
	return &CharacterHandlers{repo: repo}
}

// CreateCharacter handles POST /characters.
func (h *CharacterHandlers) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req CreateCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	id, err := validate.CharacterID(req.ID)
	if err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, ErrCodeValidation,
			"id is required: 1-64 characters, letters, numbers, dash, underscore, period")
		return
	}
	name, err := validate.CharacterName(req.Name)
	if err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, ErrCodeValidation, "name is required and must be at most 100 characters")
		return
	}

	if req.MasterImage != nil {
		if msg := validateImage(req.MasterImage); msg != "" {
			writeErrorCode(w, r, http.StatusBadRequest, ErrCodeValidation, msg)
			return
		}
	}

	now := time.Now().UTC()
	c := &character.Character{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		MasterImage: req.MasterImage,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	if err := h.repo.Insert(r.Context(), c); err != nil {
		if errors.Is(err, character.ErrAlreadyExists) {
			writeErrorCode(w, r, http.StatusConflict, ErrCodeDuplicateCharacter, "Character ID already exists")
			return
		}
		slog.ErrorContext(r.Context(), "character insert failed", "character_id", id, "error", err)
		writeErrorCode(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to create character")
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// GetCharacter handles GET /characters/{id}.
func (h *CharacterHandlers) GetCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := validate.CharacterID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid character ID")
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, character.ErrNotFound) {
			writeErrorCode(w, r, http.StatusNotFound, ErrCodeCharacterNotFound, "Character not found")
			return
		}
		slog.ErrorContext(r.Context(), "character lookup failed", "character_id", id, "error", err)
		writeErrorCode(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve character")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// AddImage handles POST /characters/{id}/images.
func (h *CharacterHandlers) AddImage(w http.ResponseWriter, r *http.Request) {
	id, err := validate.CharacterID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid character ID")
		return
	}

	var req AddImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	if msg := validateImage(&req.Image); msg != "" {
		writeErrorCode(w, r, http.StatusBadRequest, ErrCodeValidation, msg)
		return
	}
	if req.MediaID == "" {
		req.MediaID = uuid.NewString()
	}

	if err := h.repo.AddImage(r.Context(), id, req.Image, req.IsMaster); err != nil {
		if errors.Is(err, character.ErrNotFound) {
			writeErrorCode(w, r, http.StatusNotFound, ErrCodeCharacterNotFound, "Character not found")
			return
		}
		slog.ErrorContext(r.Context(), "image attach failed", "character_id", id, "error", err)
		writeErrorCode(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to attach image")
		return
	}

	writeJSON(w, http.StatusCreated, req.Image)
}

// validateImage checks an incoming reference image payload.
// Returns an error message, empty when valid.
func validateImage(img *character.Image) string {
	if strings.TrimSpace(img.ImageURL) == "" {
		return "image_url is required"
	}
	shotType, err := validate.ShotType(img.ShotType)
	if err != nil {
		return "shot_type must be at most 100 characters of letters, numbers, spaces, dash, underscore"
	}
	img.ShotType = shotType
	if img.QualityScore != nil && (*img.QualityScore < 0 || *img.QualityScore > 100) {
		return "quality_score must be between 0 and 100"
	}
	if img.ConsistencyScore != nil && (*img.ConsistencyScore < 0 || *img.ConsistencyScore > 100) {
		return "consistency_score must be between 0 and 100"
	}
	return ""
}
