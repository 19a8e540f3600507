package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/open-lectern/lectern/internal/core/domain"
)

type LectureRepository struct {
	db *sql.DB
}

func NewLectureRepository(db *sql.DB) *LectureRepository {
	return &LectureRepository{db: db}
}

func (r *LectureRepository) Create(ctx context.Context, lec *domain.Lecture) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO lectures (id, original_filename, stored_filename, size_bytes, page_count, uploaded_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, lec.ID, lec.OriginalFilename, lec.StoredFilename, lec.SizeBytes, lec.PageCount, lec.UploadedAt)
	if err != nil {
		return fmt.Errorf("insert lecture: %w", err)
	}
	return nil
}

func (r *LectureRepository) GetByID(ctx context.Context, id string) (*domain.Lecture, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, original_filename, stored_filename, size_bytes, page_count, uploaded_at
FROM lectures
WHERE id = $1
`, id)

	var lec domain.Lecture
	err := row.Scan(&lec.ID, &lec.OriginalFilename, &lec.StoredFilename, &lec.SizeBytes, &lec.PageCount, &lec.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrLectureNotFound, "get lecture", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan lecture: %w", err)
	}
	return &lec, nil
}

func (r *LectureRepository) List(ctx context.Context) ([]domain.Lecture, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, original_filename, stored_filename, size_bytes, page_count, uploaded_at
FROM lectures
ORDER BY uploaded_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}
	defer rows.Close()

	lectures := make([]domain.Lecture, 0)
	for rows.Next() {
		var lec domain.Lecture
		if err := rows.Scan(&lec.ID, &lec.OriginalFilename, &lec.StoredFilename, &lec.SizeBytes, &lec.PageCount, &lec.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan lecture row: %w", err)
		}
		lectures = append(lectures, lec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lectures: %w", err)
	}
	return lectures, nil
}

func (r *LectureRepository) UpdateFilename(ctx context.Context, id, filename string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE lectures
SET original_filename = $2
WHERE id = $1
`, id, filename)
	if err != nil {
		return fmt.Errorf("update lecture filename: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lecture filename result: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrLectureNotFound, "update lecture filename", fmt.Errorf("id=%s", id))
	}
	return nil
}

func (r *LectureRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lecture result: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrLectureNotFound, "delete lecture", fmt.Errorf("id=%s", id))
	}
	return nil
}
