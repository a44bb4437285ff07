package character

import "context"

// Collector gathers a character's eligible images for scoring: the master
// reference first, then gallery entries in stored order. The ordering
// matters downstream, where input position is the final ranking tie-break.
type Collector struct {
	repo Repository
}

// NewCollector creates a new Collector backed by the given repository.
func NewCollector(repo Repository) *Collector {
	return &Collector{repo: repo}
}

// Collect returns the character's candidate images. A character with no
// images yields an empty slice, not an error; an unknown character yields
// ErrNotFound.
func (c *Collector) Collect(ctx context.Context, characterID string) ([]Image, error) {
	record, err := c.repo.GetByID(ctx, characterID)
	if err != nil {
		return nil, err
	}

	candidates := make([]Image, 0, len(record.Gallery)+1)
	if record.MasterImage != nil {
		candidates = append(candidates, *record.MasterImage)
	}
	candidates = append(candidates, record.Gallery...)
	return candidates, nil
}
