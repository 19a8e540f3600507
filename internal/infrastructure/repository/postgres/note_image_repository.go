package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/open-lectern/lectern/internal/core/domain"
)

type NoteImageRepository struct {
	db *sql.DB
}

func NewNoteImageRepository(db *sql.DB) *NoteImageRepository {
	return &NoteImageRepository{db: db}
}

func (r *NoteImageRepository) Insert(ctx context.Context, img *domain.NoteImage) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO note_images (id, lecture_id, original_filename, stored_filename, content_type, uploaded_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, img.ID, img.LectureID, img.OriginalFilename, img.StoredFilename, img.ContentType, img.UploadedAt)
	if err != nil {
		return fmt.Errorf("insert note image: %w", err)
	}
	return nil
}

func (r *NoteImageRepository) ListByLecture(ctx context.Context, lectureID string) ([]domain.NoteImage, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, lecture_id, original_filename, stored_filename, content_type, uploaded_at
FROM note_images
WHERE lecture_id = $1
ORDER BY uploaded_at ASC
`, lectureID)
	if err != nil {
		return nil, fmt.Errorf("list note images: %w", err)
	}
	defer rows.Close()

	images := make([]domain.NoteImage, 0)
	for rows.Next() {
		var img domain.NoteImage
		if err := rows.Scan(&img.ID, &img.LectureID, &img.OriginalFilename, &img.StoredFilename, &img.ContentType, &img.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan note image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate note images: %w", err)
	}
	return images, nil
}

func (r *NoteImageRepository) GetByID(ctx context.Context, lectureID, imageID string) (*domain.NoteImage, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, lecture_id, original_filename, stored_filename, content_type, uploaded_at
FROM note_images
WHERE lecture_id = $1 AND id = $2
`, lectureID, imageID)

	var img domain.NoteImage
	err := row.Scan(&img.ID, &img.LectureID, &img.OriginalFilename, &img.StoredFilename, &img.ContentType, &img.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrEntryNotFound, "get note image", fmt.Errorf("id=%s", imageID))
		}
		return nil, fmt.Errorf("scan note image: %w", err)
	}
	return &img, nil
}

func (r *NoteImageRepository) Delete(ctx context.Context, lectureID, imageID string) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM note_images WHERE lecture_id = $1 AND id = $2
`, lectureID, imageID)
	if err != nil {
		return fmt.Errorf("delete note image: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note image result: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrEntryNotFound, "delete note image", fmt.Errorf("id=%s", imageID))
	}
	return nil
}
