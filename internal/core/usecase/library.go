package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/open-lectern/lectern/internal/core/domain"
	"github.com/open-lectern/lectern/internal/core/ports"
)

const maxFilenameRunes = 255

// LibraryUseCase manages the lecture collection: uploads, metadata and the
// stored files behind them.
type LibraryUseCase struct {
	lectures  ports.LectureRepository
	images    ports.NoteImageRepository
	storage   ports.ObjectStorage
	inspector ports.DocumentInspector
	now       func() time.Time
}

func NewLibraryUseCase(
	lectures ports.LectureRepository,
	images ports.NoteImageRepository,
	storage ports.ObjectStorage,
	inspector ports.DocumentInspector,
) *LibraryUseCase {
	return &LibraryUseCase{
		lectures:  lectures,
		images:    images,
		storage:   storage,
		inspector: inspector,
		now:       time.Now,
	}
}

// Upload validates the document, stores the blob and creates the metadata
// row. Only PDF files are accepted; the page count is read once here so later
// requests never have to open the file for it.
func (uc *LibraryUseCase) Upload(ctx context.Context, filename string, body io.Reader) (*domain.Lecture, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload lecture",
			errors.New("no file provided"))
	}
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload lecture",
			errors.New("only pdf files are accepted"))
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}

	pages, err := uc.inspector.Inspect(ctx, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("inspect upload: %w", err)
	}

	id := uuid.NewString()
	storedFilename := "lectures/" + id + ".pdf"

	if err := uc.storage.Save(ctx, storedFilename, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	lec := &domain.Lecture{
		ID:               id,
		OriginalFilename: sanitizeFilename(filename),
		StoredFilename:   storedFilename,
		SizeBytes:        int64(len(raw)),
		PageCount:        pages,
		UploadedAt:       uc.now().UTC(),
	}
	if err := uc.lectures.Create(ctx, lec); err != nil {
		return nil, fmt.Errorf("create lecture metadata: %w", err)
	}
	return lec, nil
}

func (uc *LibraryUseCase) List(ctx context.Context) ([]domain.Lecture, error) {
	lectures, err := uc.lectures.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}
	return lectures, nil
}

func (uc *LibraryUseCase) Get(ctx context.Context, id string) (*domain.Lecture, error) {
	lec, err := uc.lectures.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch lecture by id: %w", err)
	}
	return lec, nil
}

// Rename changes the display filename. The stored blob keeps its key.
func (uc *LibraryUseCase) Rename(ctx context.Context, id, filename string) (*domain.Lecture, error) {
	lec, err := uc.lectures.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch lecture by id: %w", err)
	}

	name := strings.TrimSpace(filename)
	if name == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "rename lecture",
			errors.New("new filename required"))
	}
	if utf8.RuneCountInString(name) > maxFilenameRunes {
		return nil, domain.WrapError(domain.ErrInvalidInput, "rename lecture",
			fmt.Errorf("filename longer than %d characters", maxFilenameRunes))
	}
	if strings.ToLower(filepath.Ext(name)) != ".pdf" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "rename lecture",
			errors.New("filename must end in .pdf"))
	}

	if err := uc.lectures.UpdateFilename(ctx, id, name); err != nil {
		return nil, fmt.Errorf("update lecture filename: %w", err)
	}
	lec.OriginalFilename = name
	return lec, nil
}

// Delete removes the metadata row and the stored blobs. The row is
// authoritative: blob removal is best effort and cached glossaries, notes
// and image rows go with the row through the schema.
func (uc *LibraryUseCase) Delete(ctx context.Context, id string) error {
	lec, err := uc.lectures.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch lecture by id: %w", err)
	}

	images, err := uc.images.ListByLecture(ctx, id)
	if err != nil {
		return fmt.Errorf("list note images: %w", err)
	}

	if err := uc.lectures.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete lecture metadata: %w", err)
	}

	for _, img := range images {
		_ = uc.storage.Remove(ctx, img.StoredFilename)
	}
	_ = uc.storage.Remove(ctx, lec.StoredFilename)
	return nil
}

// OpenFile returns the lecture and a reader over its stored document. The
// caller closes the reader.
func (uc *LibraryUseCase) OpenFile(ctx context.Context, id string) (*domain.Lecture, io.ReadCloser, error) {
	lec, err := uc.lectures.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch lecture by id: %w", err)
	}

	rc, err := uc.storage.Open(ctx, lec.StoredFilename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, domain.WrapError(domain.ErrLectureNotFound, "open lecture file",
				errors.New("stored file is missing"))
		}
		return nil, nil, fmt.Errorf("open lecture file: %w", err)
	}
	return lec, rc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.pdf"
	}
	return base
}
