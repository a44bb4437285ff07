package character

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when a character does not exist.
var ErrNotFound = errors.New("character not found")

// ErrAlreadyExists is returned when inserting a character whose ID is taken.
var ErrAlreadyExists = errors.New("character already exists")

// Repository defines the interface for character data operations.
type Repository interface {
	// Insert stores a new character record.
	Insert(ctx context.Context, c *Character) error

	// GetByID retrieves a character with its master image and gallery.
	// Returns ErrNotFound if the character does not exist.
	GetByID(ctx context.Context, id string) (*Character, error)

	// AddImage attaches an image to a character's gallery. When master is
	// true the image becomes the character's master reference instead.
	// Returns ErrNotFound if the character does not exist.
	AddImage(ctx context.Context, characterID string, img Image, master bool) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// Used for testing and development. Thread-safe.
type InMemoryRepository struct {
	mu         sync.RWMutex
	characters map[string]*Character
}

// NewInMemoryRepository creates a new in-memory character repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		characters: make(map[string]*Character),
	}
}

// Insert stores a new character record.
func (r *InMemoryRepository) Insert(_ context.Context, c *Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[c.ID]; exists {
		return ErrAlreadyExists
	}
	r.characters[c.ID] = copyCharacter(c)
	return nil
}

// GetByID retrieves a character by its ID.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.characters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCharacter(c), nil
}

// AddImage attaches an image to a character.
func (r *InMemoryRepository) AddImage(_ context.Context, characterID string, img Image, master bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.characters[characterID]
	if !ok {
		return ErrNotFound
	}
	if master {
		// A new master reference demotes the previous one into the gallery.
		if c.MasterImage != nil {
			c.Gallery = append(c.Gallery, *c.MasterImage)
		}
		imgCopy := img
		c.MasterImage = &imgCopy
		return nil
	}
	c.Gallery = append(c.Gallery, img)
	return nil
}

// copyCharacter returns a deep copy so callers cannot mutate stored state.
func copyCharacter(c *Character) *Character {
	out := *c
	if c.MasterImage != nil {
		imgCopy := *c.MasterImage
		out.MasterImage = &imgCopy
	}
	if c.Gallery != nil {
		out.Gallery = make([]Image, len(c.Gallery))
		copy(out.Gallery, c.Gallery)
	}
	return &out
}
