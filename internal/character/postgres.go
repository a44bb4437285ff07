package character

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/pagecraft/refcast/internal/shot"
)

// PostgresRepository is a Postgres-backed implementation of Repository.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repository over an open database handle.
// The schema is managed by the migrations directory.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a new character record.
func (r *PostgresRepository) Insert(ctx context.Context, c *Character) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO characters (id, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)`,
		c.ID, c.Name, c.Description, now,
	)
	if err != nil {
		var pqErr *pq.Error
		// 23505 is unique_violation.
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert character: %w", err)
	}
	return nil
}

// GetByID retrieves a character with its master image and gallery, the
// gallery ordered by insertion position.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Character, error) {
	c := &Character{}
	var createdAt, updatedAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM characters WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select character: %w", err)
	}
	c.CreatedAt = &createdAt
	c.UpdatedAt = &updatedAt

	rows, err := r.db.QueryContext(ctx,
		`SELECT media_id, image_url, shot_type, is_core_reference,
		        quality_score, consistency_score,
		        lens_mm, crop, angle, expression, is_master
		 FROM character_images
		 WHERE character_id = $1
		 ORDER BY is_master DESC, position ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("select character images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			img      Image
			quality  sql.NullFloat64
			consist  sql.NullFloat64
			lensMm   sql.NullInt64
			crop     sql.NullString
			angle    sql.NullString
			expr     sql.NullString
			isMaster bool
		)
		if err := rows.Scan(
			&img.MediaID, &img.ImageURL, &img.ShotType, &img.IsCoreReference,
			&quality, &consist, &lensMm, &crop, &angle, &expr, &isMaster,
		); err != nil {
			return nil, fmt.Errorf("scan character image: %w", err)
		}
		if quality.Valid {
			v := quality.Float64
			img.QualityScore = &v
		}
		if consist.Valid {
			v := consist.Float64
			img.ConsistencyScore = &v
		}
		if lensMm.Valid {
			img.Lens = shot.ParseLens(int(lensMm.Int64))
		}
		if crop.Valid {
			img.Crop = shot.ParseCrop(crop.String)
		}
		if angle.Valid {
			img.Angle = shot.ParseAngle(angle.String)
		}
		if expr.Valid {
			img.Expression = expr.String
		}

		if isMaster {
			imgCopy := img
			c.MasterImage = &imgCopy
		} else {
			c.Gallery = append(c.Gallery, img)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate character images: %w", err)
	}
	return c, nil
}

// AddImage attaches an image to a character's gallery, or installs it as the
// master reference when master is true. The demote and insert run in one
// transaction so a failed insert cannot leave the character without a master.
func (r *PostgresRepository) AddImage(ctx context.Context, characterID string, img Image, master bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add image: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM characters WHERE id = $1)`,
		characterID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check character exists: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	if master {
		// A new master reference demotes the previous one into the gallery.
		if _, err := tx.ExecContext(ctx,
			`UPDATE character_images SET is_master = FALSE
			 WHERE character_id = $1 AND is_master`,
			characterID,
		); err != nil {
			return fmt.Errorf("demote master image: %w", err)
		}
	}

	var lensMm any
	if img.Lens != shot.LensUnknown {
		lensMm = int(img.Lens)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO character_images
		   (media_id, character_id, image_url, shot_type, is_core_reference,
		    quality_score, consistency_score, lens_mm, crop, angle, expression,
		    is_master, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		   COALESCE((SELECT MAX(position) + 1 FROM character_images WHERE character_id = $2), 0))`,
		img.MediaID, characterID, img.ImageURL, img.ShotType, img.IsCoreReference,
		nullableFloat(img.QualityScore), nullableFloat(img.ConsistencyScore),
		lensMm, nullableEnum(string(img.Crop)), nullableEnum(string(img.Angle)),
		nullableEnum(img.Expression), master,
	)
	if err != nil {
		return fmt.Errorf("insert character image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add image: %w", err)
	}
	return nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableEnum(s string) any {
	if s == "" || s == "unknown" {
		return nil
	}
	return s
}
