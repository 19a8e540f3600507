package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/open-lectern/lectern/internal/core/domain"
	"github.com/open-lectern/lectern/internal/core/ports"
)

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// NoteUseCase manages the free-form note and its image attachments for a
// lecture.
type NoteUseCase struct {
	lectures ports.LectureRepository
	notes    ports.NoteRepository
	images   ports.NoteImageRepository
	storage  ports.ObjectStorage
	now      func() time.Time
}

func NewNoteUseCase(
	lectures ports.LectureRepository,
	notes ports.NoteRepository,
	images ports.NoteImageRepository,
	storage ports.ObjectStorage,
) *NoteUseCase {
	return &NoteUseCase{
		lectures: lectures,
		notes:    notes,
		images:   images,
		storage:  storage,
		now:      time.Now,
	}
}

// Note returns the saved note, or (nil, nil) when none was written yet.
func (uc *NoteUseCase) Note(ctx context.Context, lectureID string) (*domain.LectureNote, error) {
	if err := uc.ensureLecture(ctx, lectureID); err != nil {
		return nil, err
	}
	note, err := uc.notes.Get(ctx, lectureID)
	if err != nil {
		return nil, fmt.Errorf("read lecture note: %w", err)
	}
	return note, nil
}

// SaveNote replaces the note content. Empty content is a valid note.
func (uc *NoteUseCase) SaveNote(ctx context.Context, lectureID, content string) (*domain.LectureNote, error) {
	if err := uc.ensureLecture(ctx, lectureID); err != nil {
		return nil, err
	}

	note := &domain.LectureNote{
		LectureID: lectureID,
		Content:   content,
		UpdatedAt: uc.now().UTC(),
	}
	if err := uc.notes.Upsert(ctx, note); err != nil {
		return nil, fmt.Errorf("save lecture note: %w", err)
	}
	return note, nil
}

func (uc *NoteUseCase) Images(ctx context.Context, lectureID string) ([]domain.NoteImage, error) {
	if err := uc.ensureLecture(ctx, lectureID); err != nil {
		return nil, err
	}
	images, err := uc.images.ListByLecture(ctx, lectureID)
	if err != nil {
		return nil, fmt.Errorf("list note images: %w", err)
	}
	return images, nil
}

// AttachImage stores an image blob and records it against the lecture note.
func (uc *NoteUseCase) AttachImage(ctx context.Context, lectureID, filename, contentType string, body io.Reader) (*domain.NoteImage, error) {
	if err := uc.ensureLecture(ctx, lectureID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return nil, domain.WrapError(domain.ErrInvalidInput, "attach note image",
			fmt.Errorf("unsupported image type %q", ext))
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	id := uuid.NewString()
	storedFilename := "notes/" + id + ext

	if err := uc.storage.Save(ctx, storedFilename, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	img := &domain.NoteImage{
		ID:               id,
		LectureID:        lectureID,
		OriginalFilename: sanitizeFilename(filename),
		StoredFilename:   storedFilename,
		ContentType:      contentType,
		UploadedAt:       uc.now().UTC(),
	}
	if err := uc.images.Insert(ctx, img); err != nil {
		return nil, fmt.Errorf("record note image: %w", err)
	}
	return img, nil
}

// OpenImage returns the image metadata and a reader over its blob. The
// caller closes the reader.
func (uc *NoteUseCase) OpenImage(ctx context.Context, lectureID, imageID string) (*domain.NoteImage, io.ReadCloser, error) {
	img, err := uc.images.GetByID(ctx, lectureID, imageID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch note image: %w", err)
	}

	rc, err := uc.storage.Open(ctx, img.StoredFilename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, domain.WrapError(domain.ErrEntryNotFound, "open note image",
				errors.New("stored file is missing"))
		}
		return nil, nil, fmt.Errorf("open note image: %w", err)
	}
	return img, rc, nil
}

// RemoveImage deletes the row first; the row is authoritative and blob
// removal is best effort.
func (uc *NoteUseCase) RemoveImage(ctx context.Context, lectureID, imageID string) error {
	img, err := uc.images.GetByID(ctx, lectureID, imageID)
	if err != nil {
		return fmt.Errorf("fetch note image: %w", err)
	}
	if err := uc.images.Delete(ctx, lectureID, imageID); err != nil {
		return fmt.Errorf("delete note image: %w", err)
	}
	_ = uc.storage.Remove(ctx, img.StoredFilename)
	return nil
}

func (uc *NoteUseCase) ensureLecture(ctx context.Context, lectureID string) error {
	if _, err := uc.lectures.GetByID(ctx, lectureID); err != nil {
		return fmt.Errorf("fetch lecture by id: %w", err)
	}
	return nil
}
