package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGlossaryCacheGetReturnsNilOnMiss(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewGlossaryCacheRepository(db)

	mock.ExpectQuery("SELECT items, updated_at").
		WithArgs("lec-1", "all").
		WillReturnRows(sqlmock.NewRows([]string{"items", "updated_at"}))

	entry, err := repo.Get(context.Background(), "lec-1", "all")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry on miss, got %+v", entry)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGlossaryCacheGetUnmarshalsStoredItems(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewGlossaryCacheRepository(db)

	updated := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	payload := []byte(`[{"term":"entropy","definition":"measure of disorder","context":"thermodynamics lecture"}]`)

	mock.ExpectQuery("SELECT items, updated_at").
		WithArgs("lec-1", "3").
		WillReturnRows(sqlmock.NewRows([]string{"items", "updated_at"}).AddRow(payload, updated))

	entry, err := repo.Get(context.Background(), "lec-1", "3")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry == nil {
		t.Fatalf("expected entry")
	}
	if len(entry.Items) != 1 || entry.Items[0].Term != "entropy" {
		t.Fatalf("unexpected items: %+v", entry.Items)
	}
	if !entry.UpdatedAt.Equal(updated) {
		t.Fatalf("UpdatedAt = %v, want %v", entry.UpdatedAt, updated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGlossaryCacheGetServesCorruptPayloadAsEmptyEntry(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewGlossaryCacheRepository(db)

	updated := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT items, updated_at").
		WithArgs("lec-1", "all").
		WillReturnRows(sqlmock.NewRows([]string{"items", "updated_at"}).AddRow([]byte(`{truncated`), updated))

	entry, err := repo.Get(context.Background(), "lec-1", "all")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry == nil {
		t.Fatalf("expected entry for corrupt payload, got nil")
	}
	if entry.Items == nil || len(entry.Items) != 0 {
		t.Fatalf("expected empty item list, got %+v", entry.Items)
	}
	if !entry.UpdatedAt.Equal(updated) {
		t.Fatalf("UpdatedAt = %v, want %v", entry.UpdatedAt, updated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGlossaryCachePutStoresEmptyArrayForNilItems(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewGlossaryCacheRepository(db)

	updated := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO glossary_cache").
		WithArgs("lec-1", "all", []byte(`[]`), updated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Put(context.Background(), "lec-1", "all", nil, updated); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
