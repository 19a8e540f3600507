package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/open-lectern/lectern/internal/core/domain"
	"github.com/open-lectern/lectern/internal/core/ports"
)

// GlossaryUseCase answers glossary requests from the cache when it can and
// regenerates through the extractor and generator when it must.
type GlossaryUseCase struct {
	lectures  ports.LectureRepository
	storage   ports.ObjectStorage
	cache     ports.GlossaryCache
	extractor ports.TextExtractor
	generator ports.GlossaryGenerator
	group     singleflight.Group
	now       func() time.Time
}

func NewGlossaryUseCase(
	lectures ports.LectureRepository,
	storage ports.ObjectStorage,
	cache ports.GlossaryCache,
	extractor ports.TextExtractor,
	generator ports.GlossaryGenerator,
) *GlossaryUseCase {
	return &GlossaryUseCase{
		lectures:  lectures,
		storage:   storage,
		cache:     cache,
		extractor: extractor,
		generator: generator,
		now:       time.Now,
	}
}

// Glossary returns the glossary for one lecture and page selector. pageParam
// is the raw query value: empty or "all" means the whole document, a positive
// decimal selects one page. With refresh set the cache is bypassed and the
// stored entry replaced. Concurrent misses for the same (lecture, page) are
// coalesced into a single generation.
func (uc *GlossaryUseCase) Glossary(ctx context.Context, lectureID, pageParam string, refresh bool) (*domain.GlossaryResult, error) {
	lec, err := uc.lectures.GetByID(ctx, lectureID)
	if err != nil {
		return nil, fmt.Errorf("fetch lecture by id: %w", err)
	}

	exists, err := uc.storage.Exists(ctx, lec.StoredFilename)
	if err != nil {
		return nil, fmt.Errorf("check stored file: %w", err)
	}
	if !exists {
		return nil, domain.WrapError(domain.ErrLectureNotFound, "locate lecture file",
			errors.New("stored file is missing"))
	}

	scope, err := domain.ParsePageScope(pageParam)
	if err != nil {
		return nil, err
	}

	if !refresh {
		entry, err := uc.cache.Get(ctx, lectureID, scope.Key())
		if err != nil {
			return nil, fmt.Errorf("read glossary cache: %w", err)
		}
		if entry != nil {
			updatedAt := entry.UpdatedAt
			return &domain.GlossaryResult{
				Items:     entry.Items,
				Cached:    true,
				UpdatedAt: &updatedAt,
			}, nil
		}
	}

	key := lectureID + "|" + scope.Key()
	v, err, _ := uc.group.Do(key, func() (any, error) {
		return uc.regenerate(ctx, lec, scope)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.GlossaryResult), nil
}

func (uc *GlossaryUseCase) regenerate(ctx context.Context, lec *domain.Lecture, scope domain.PageScope) (*domain.GlossaryResult, error) {
	text, err := uc.extractor.Extract(ctx, lec.StoredFilename, scope)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		// Never cached: a later upload of a readable copy must not be
		// masked by a stored empty result.
		return nil, domain.WrapError(domain.ErrExtraction, "extract text",
			errors.New("no extractable text"))
	}

	items, err := uc.generator.Generate(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("generate glossary: %w", err)
	}

	if err := uc.cache.Put(ctx, lec.ID, scope.Key(), items, uc.now().UTC()); err != nil {
		return nil, fmt.Errorf("store glossary: %w", err)
	}

	return &domain.GlossaryResult{Items: items, Cached: false}, nil
}
