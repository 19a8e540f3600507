package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/open-lectern/lectern/internal/core/domain"
	"github.com/open-lectern/lectern/internal/core/ports"
)

// DictionaryUseCase maintains the curated dictionary of terms a student
// wants to keep across lectures.
type DictionaryUseCase struct {
	lectures ports.LectureRepository
	entries  ports.DictionaryRepository
	now      func() time.Time
}

func NewDictionaryUseCase(lectures ports.LectureRepository, entries ports.DictionaryRepository) *DictionaryUseCase {
	return &DictionaryUseCase{
		lectures: lectures,
		entries:  entries,
		now:      time.Now,
	}
}

func (uc *DictionaryUseCase) Entries(ctx context.Context, query string) ([]domain.DictionaryEntry, error) {
	entries, err := uc.entries.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("list dictionary entries: %w", err)
	}
	return entries, nil
}

// Save upserts by term, case insensitively: saving an existing term replaces
// its definition and keeps the stored identity.
func (uc *DictionaryUseCase) Save(ctx context.Context, entry domain.DictionaryEntry) (*domain.DictionaryEntry, error) {
	entry.Term = strings.TrimSpace(entry.Term)
	entry.Definition = strings.TrimSpace(entry.Definition)
	entry.Context = strings.TrimSpace(entry.Context)
	entry.LectureID = strings.TrimSpace(entry.LectureID)

	if entry.Term == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "save dictionary entry",
			errors.New("term required"))
	}
	if entry.Definition == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "save dictionary entry",
			errors.New("definition required"))
	}
	if entry.LectureID != "" {
		if _, err := uc.lectures.GetByID(ctx, entry.LectureID); err != nil {
			return nil, fmt.Errorf("fetch lecture by id: %w", err)
		}
	}

	entry.ID = uuid.NewString()
	now := uc.now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := uc.entries.Upsert(ctx, &entry); err != nil {
		return nil, fmt.Errorf("save dictionary entry: %w", err)
	}
	return &entry, nil
}

func (uc *DictionaryUseCase) Remove(ctx context.Context, id string) error {
	if err := uc.entries.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete dictionary entry: %w", err)
	}
	return nil
}
