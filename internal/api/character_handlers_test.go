package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pagecraft/refcast/internal/character"
)

func characterRouter(repo character.Repository) *http.ServeMux {
	h := NewCharacterHandlers(repo)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /characters", h.CreateCharacter)
	mux.HandleFunc("GET /characters/{id}", h.GetCharacter)
	mux.HandleFunc("POST /characters/{id}/images", h.AddImage)
	return mux
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestCreateCharacter(t *testing.T) {
	repo := character.NewInMemoryRepository()
	mux := characterRouter(repo)

	body := `{
		"id": "char-42",
		"name": "Aria Voss",
		"description": "Scout pilot",
		"master_image": {
			"media_id": "m-1",
			"image_url": "https://cdn.example.com/aria/master.png",
			"shot_type": "core_full_front",
			"is_core_reference": true
		}
	}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created character.Character
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if created.ID != "char-42" || created.Name != "Aria Voss" {
		t.Errorf("created = %+v", created)
	}
	if created.MasterImage == nil || created.MasterImage.MediaID != "m-1" {
		t.Error("master image not persisted")
	}
	if created.CreatedAt == nil {
		t.Error("created_at not set")
	}

	stored, err := repo.GetByID(context.Background(), "char-42")
	if err != nil {
		t.Fatalf("GetByID() after create: %v", err)
	}
	if stored.Name != "Aria Voss" {
		t.Errorf("stored name = %q", stored.Name)
	}
}

func TestCreateCharacterValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"invalid json", `{not json`, ErrCodeBadRequest},
		{"missing id", `{"name":"Aria"}`, ErrCodeValidation},
		{"id with invalid characters", `{"id":"char 42!","name":"Aria"}`, ErrCodeValidation},
		{"missing name", `{"id":"char-42"}`, ErrCodeValidation},
		{"master image without url", `{"id":"char-42","name":"Aria","master_image":{"media_id":"m-1"}}`, ErrCodeValidation},
		{"quality score out of range", `{"id":"char-42","name":"Aria","master_image":{"image_url":"https://x/y.png","quality_score":140}}`, ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := characterRouter(character.NewInMemoryRepository())
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters", strings.NewReader(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp := decodeError(t, rec); resp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestCreateCharacterDuplicate(t *testing.T) {
	mux := characterRouter(character.NewInMemoryRepository())
	body := `{"id":"char-42","name":"Aria Voss"}`

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters", strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create status = %d, want 409", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error.Code != ErrCodeDuplicateCharacter {
		t.Errorf("code = %q", resp.Error.Code)
	}
}

func TestGetCharacter(t *testing.T) {
	repo := character.NewInMemoryRepository()
	mux := characterRouter(repo)

	create := `{"id":"char-42","name":"Aria Voss"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters", strings.NewReader(create)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/characters/char-42", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	var got character.Character
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if got.ID != "char-42" {
		t.Errorf("id = %q", got.ID)
	}
}

func TestGetCharacterNotFound(t *testing.T) {
	mux := characterRouter(character.NewInMemoryRepository())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/characters/ghost", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error.Code != ErrCodeCharacterNotFound {
		t.Errorf("code = %q", resp.Error.Code)
	}
}

func TestAddImage(t *testing.T) {
	repo := character.NewInMemoryRepository()
	mux := characterRouter(repo)

	create := `{"id":"char-42","name":"Aria Voss"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters", strings.NewReader(create)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	image := `{
		"image_url": "https://cdn.example.com/aria/mcu.png",
		"shot_type": "85mm_mcu_3q_left",
		"quality_score": 88
	}`
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters/char-42/images", strings.NewReader(image)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add image status = %d: %s", rec.Code, rec.Body.String())
	}

	var added character.Image
	if err := json.Unmarshal(rec.Body.Bytes(), &added); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if added.MediaID == "" {
		t.Error("media_id was not generated")
	}

	stored, err := repo.GetByID(context.Background(), "char-42")
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if len(stored.Gallery) != 1 {
		t.Fatalf("gallery size = %d, want 1", len(stored.Gallery))
	}
	if stored.Gallery[0].ShotType != "85mm_mcu_3q_left" {
		t.Errorf("shot_type = %q", stored.Gallery[0].ShotType)
	}
}

func TestAddImageAsMaster(t *testing.T) {
	repo := character.NewInMemoryRepository()
	mux := characterRouter(repo)

	create := `{"id":"char-42","name":"Aria Voss"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters", strings.NewReader(create)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	image := `{
		"media_id": "m-master",
		"image_url": "https://cdn.example.com/aria/master.png",
		"shot_type": "core_full_front",
		"is_core_reference": true,
		"is_master": true
	}`
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters/char-42/images", strings.NewReader(image)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add master status = %d", rec.Code)
	}

	stored, err := repo.GetByID(context.Background(), "char-42")
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if stored.MasterImage == nil || stored.MasterImage.MediaID != "m-master" {
		t.Errorf("master image = %+v", stored.MasterImage)
	}
}

func TestAddImageUnknownCharacter(t *testing.T) {
	mux := characterRouter(character.NewInMemoryRepository())

	image := `{"image_url":"https://cdn.example.com/x.png"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters/ghost/images", strings.NewReader(image)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAddImageValidation(t *testing.T) {
	repo := character.NewInMemoryRepository()
	mux := characterRouter(repo)

	create := `{"id":"char-42","name":"Aria Voss"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters", strings.NewReader(create)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	tests := []struct {
		name string
		body string
	}{
		{"missing url", `{"shot_type":"core_full_front"}`},
		{"bad shot type", `{"image_url":"https://x/y.png","shot_type":"mcu; DROP"}`},
		{"consistency out of range", `{"image_url":"https://x/y.png","consistency_score":-3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/characters/char-42/images", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
