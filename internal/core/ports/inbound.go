package ports

import (
	"context"
	"io"

	"github.com/open-lectern/lectern/internal/core/domain"
)

// GlossaryService is the inbound contract for glossary generation and lookup.
type GlossaryService interface {
	Glossary(ctx context.Context, lectureID, pageParam string, refresh bool) (*domain.GlossaryResult, error)
}

// LectureLibrary is the inbound contract for the lecture file collection.
type LectureLibrary interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*domain.Lecture, error)
	List(ctx context.Context) ([]domain.Lecture, error)
	Get(ctx context.Context, id string) (*domain.Lecture, error)
	Rename(ctx context.Context, id, filename string) (*domain.Lecture, error)
	Delete(ctx context.Context, id string) error
	OpenFile(ctx context.Context, id string) (*domain.Lecture, io.ReadCloser, error)
}

// NoteService is the inbound contract for per-lecture notes and attachments.
type NoteService interface {
	Note(ctx context.Context, lectureID string) (*domain.LectureNote, error)
	SaveNote(ctx context.Context, lectureID, content string) (*domain.LectureNote, error)
	Images(ctx context.Context, lectureID string) ([]domain.NoteImage, error)
	AttachImage(ctx context.Context, lectureID, filename, contentType string, body io.Reader) (*domain.NoteImage, error)
	OpenImage(ctx context.Context, lectureID, imageID string) (*domain.NoteImage, io.ReadCloser, error)
	RemoveImage(ctx context.Context, lectureID, imageID string) error
}

// DictionaryService is the inbound contract for the curated term dictionary.
type DictionaryService interface {
	Entries(ctx context.Context, query string) ([]domain.DictionaryEntry, error)
	Save(ctx context.Context, entry domain.DictionaryEntry) (*domain.DictionaryEntry, error)
	Remove(ctx context.Context, id string) error
}
