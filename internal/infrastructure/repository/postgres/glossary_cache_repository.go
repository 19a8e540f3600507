package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/open-lectern/lectern/internal/core/domain"
)

type GlossaryCacheRepository struct {
	db *sql.DB
}

func NewGlossaryCacheRepository(db *sql.DB) *GlossaryCacheRepository {
	return &GlossaryCacheRepository{db: db}
}

// Get returns the cached glossary for (lectureID, pageKey), or (nil, nil)
// when nothing is stored. A row whose payload no longer unmarshals is
// served as an entry with an empty item list; readers regenerate via the
// refresh flag rather than seeing an error.
func (r *GlossaryCacheRepository) Get(ctx context.Context, lectureID, pageKey string) (*domain.GlossaryEntry, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT items, updated_at
FROM glossary_cache
WHERE lecture_id = $1 AND page_key = $2
`, lectureID, pageKey)

	var itemsRaw []byte
	var updatedAt time.Time
	if err := row.Scan(&itemsRaw, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan glossary cache: %w", err)
	}

	entry := &domain.GlossaryEntry{Items: []domain.GlossaryItem{}, UpdatedAt: updatedAt}
	var items []domain.GlossaryItem
	if err := json.Unmarshal(itemsRaw, &items); err != nil {
		return entry, nil
	}
	if items != nil {
		entry.Items = items
	}
	return entry, nil
}

// Put stores items for (lectureID, pageKey), replacing any previous entry.
func (r *GlossaryCacheRepository) Put(ctx context.Context, lectureID, pageKey string, items []domain.GlossaryItem, updatedAt time.Time) error {
	if items == nil {
		items = []domain.GlossaryItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal glossary items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO glossary_cache (lecture_id, page_key, items, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (lecture_id, page_key)
DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
`, lectureID, pageKey, itemsJSON, updatedAt)
	if err != nil {
		return fmt.Errorf("upsert glossary cache: %w", err)
	}
	return nil
}
