package ports

import (
	"context"
	"io"
	"time"

	"github.com/open-lectern/lectern/internal/core/domain"
)

// LectureRepository persists lecture metadata.
type LectureRepository interface {
	Create(ctx context.Context, lec *domain.Lecture) error
	GetByID(ctx context.Context, id string) (*domain.Lecture, error)
	List(ctx context.Context) ([]domain.Lecture, error)
	UpdateFilename(ctx context.Context, id, filename string) error
	Delete(ctx context.Context, id string) error
}

// GlossaryCache persists generated glossaries keyed by (lecture, page key).
// Get returns (nil, nil) on a miss; a corrupt stored payload degrades to an
// entry with an empty item list instead of an error.
type GlossaryCache interface {
	Get(ctx context.Context, lectureID, pageKey string) (*domain.GlossaryEntry, error)
	Put(ctx context.Context, lectureID, pageKey string, items []domain.GlossaryItem, updatedAt time.Time) error
}

// NoteRepository persists the single free-form note per lecture.
type NoteRepository interface {
	Get(ctx context.Context, lectureID string) (*domain.LectureNote, error)
	Upsert(ctx context.Context, note *domain.LectureNote) error
}

// NoteImageRepository persists note image attachments.
type NoteImageRepository interface {
	Insert(ctx context.Context, img *domain.NoteImage) error
	ListByLecture(ctx context.Context, lectureID string) ([]domain.NoteImage, error)
	GetByID(ctx context.Context, lectureID, imageID string) (*domain.NoteImage, error)
	Delete(ctx context.Context, lectureID, imageID string) error
}

// DictionaryRepository persists curated dictionary terms.
type DictionaryRepository interface {
	Upsert(ctx context.Context, entry *domain.DictionaryEntry) error
	List(ctx context.Context, query string) ([]domain.DictionaryEntry, error)
	Delete(ctx context.Context, id string) error
}

// ObjectStorage stores uploaded blobs.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Remove(ctx context.Context, key string) error
}

// TextExtractor pulls plain text out of a stored document for one scope.
type TextExtractor interface {
	Extract(ctx context.Context, storageKey string, scope domain.PageScope) (string, error)
}

// DocumentInspector validates an uploaded document and reports its page count.
type DocumentInspector interface {
	Inspect(ctx context.Context, r io.ReadSeeker) (int, error)
}

// GlossaryGenerator produces glossary items from extracted text.
type GlossaryGenerator interface {
	Generate(ctx context.Context, text string) ([]domain.GlossaryItem, error)
}
