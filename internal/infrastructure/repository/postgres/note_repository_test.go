package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/open-lectern/lectern/internal/core/domain"
)

func TestNoteGetReturnsNilWhenAbsent(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewNoteRepository(db)

	mock.ExpectQuery("SELECT lecture_id, content, updated_at").
		WithArgs("lec-1").
		WillReturnRows(sqlmock.NewRows([]string{"lecture_id", "content", "updated_at"}))

	note, err := repo.Get(context.Background(), "lec-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if note != nil {
		t.Fatalf("expected nil note, got %+v", note)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNoteUpsertSendsContentAndTimestamp(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewNoteRepository(db)

	updated := time.Date(2026, 4, 2, 8, 15, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO lecture_notes").
		WithArgs("lec-1", "entropy comes up around page three", updated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &domain.LectureNote{
		LectureID: "lec-1",
		Content:   "entropy comes up around page three",
		UpdatedAt: updated,
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
