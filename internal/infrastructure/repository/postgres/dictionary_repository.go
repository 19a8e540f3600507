package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/open-lectern/lectern/internal/core/domain"
)

type DictionaryRepository struct {
	db *sql.DB
}

func NewDictionaryRepository(db *sql.DB) *DictionaryRepository {
	return &DictionaryRepository{db: db}
}

// Upsert inserts the entry or, when the term already exists (case
// insensitively), replaces its definition and provenance. The stored row's
// id and created_at win on conflict, so the caller gets them back.
func (r *DictionaryRepository) Upsert(ctx context.Context, entry *domain.DictionaryEntry) error {
	lectureID := sql.NullString{String: entry.LectureID, Valid: entry.LectureID != ""}

	row := r.db.QueryRowContext(ctx, `
INSERT INTO dictionary_terms (id, term, definition, context, lecture_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (LOWER(term))
DO UPDATE SET definition = EXCLUDED.definition,
              context = EXCLUDED.context,
              lecture_id = EXCLUDED.lecture_id,
              updated_at = EXCLUDED.updated_at
RETURNING id, created_at
`, entry.ID, entry.Term, entry.Definition, entry.Context, lectureID, entry.CreatedAt, entry.UpdatedAt)

	if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("upsert dictionary term: %w", err)
	}
	return nil
}

func (r *DictionaryRepository) List(ctx context.Context, query string) ([]domain.DictionaryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, term, definition, context, lecture_id, created_at, updated_at
FROM dictionary_terms
WHERE $1 = '' OR term ILIKE '%' || $1 || '%'
ORDER BY LOWER(term) ASC
`, query)
	if err != nil {
		return nil, fmt.Errorf("list dictionary terms: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.DictionaryEntry, 0)
	for rows.Next() {
		var entry domain.DictionaryEntry
		var lectureID sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Term, &entry.Definition, &entry.Context, &lectureID, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dictionary term: %w", err)
		}
		entry.LectureID = lectureID.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dictionary terms: %w", err)
	}
	return entries, nil
}

func (r *DictionaryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dictionary_terms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dictionary term: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dictionary term result: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrEntryNotFound, "delete dictionary term", fmt.Errorf("id=%s", id))
	}
	return nil
}
