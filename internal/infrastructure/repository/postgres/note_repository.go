package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/open-lectern/lectern/internal/core/domain"
)

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Get returns the note for a lecture, or (nil, nil) when none was saved yet.
func (r *NoteRepository) Get(ctx context.Context, lectureID string) (*domain.LectureNote, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT lecture_id, content, updated_at
FROM lecture_notes
WHERE lecture_id = $1
`, lectureID)

	var note domain.LectureNote
	if err := row.Scan(&note.LectureID, &note.Content, &note.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan lecture note: %w", err)
	}
	return &note, nil
}

func (r *NoteRepository) Upsert(ctx context.Context, note *domain.LectureNote) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO lecture_notes (lecture_id, content, updated_at)
VALUES ($1,$2,$3)
ON CONFLICT (lecture_id)
DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
`, note.LectureID, note.Content, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert lecture note: %w", err)
	}
	return nil
}
