package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/open-lectern/lectern/internal/config"
	"github.com/open-lectern/lectern/internal/core/ports"
	"github.com/open-lectern/lectern/internal/core/usecase"
	"github.com/open-lectern/lectern/internal/infrastructure/export"
	"github.com/open-lectern/lectern/internal/infrastructure/extractor/pdftext"
	"github.com/open-lectern/lectern/internal/infrastructure/llm/gemini"
	"github.com/open-lectern/lectern/internal/infrastructure/repository/postgres"
	"github.com/open-lectern/lectern/internal/infrastructure/storage/localfs"
	"github.com/open-lectern/lectern/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Metrics *metrics.HTTPServerMetrics

	Library    ports.LectureLibrary
	Glossaries ports.GlossaryService
	Notes      ports.NoteService
	Dictionary ports.DictionaryService
	Exporter   *export.Service

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	generator, err := gemini.New(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, cfg.GlossaryMaxPromptChars)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init glossary generator: %w", err)
	}
	if !generator.Available() {
		slog.Warn("glossary generation disabled: no google api key configured")
	}

	lectures := postgres.NewLectureRepository(db)
	cache := postgres.NewGlossaryCacheRepository(db)
	notes := postgres.NewNoteRepository(db)
	images := postgres.NewNoteImageRepository(db)
	dictionary := postgres.NewDictionaryRepository(db)

	extractor := pdftext.NewExtractor(storage)
	inspector := pdftext.NewInspector()

	return &App{
		Config:  cfg,
		Metrics: metrics.NewHTTPServerMetrics("api"),

		Library:    usecase.NewLibraryUseCase(lectures, images, storage, inspector),
		Glossaries: usecase.NewGlossaryUseCase(lectures, storage, cache, extractor, generator),
		Notes:      usecase.NewNoteUseCase(lectures, notes, images, storage),
		Dictionary: usecase.NewDictionaryUseCase(lectures, dictionary),
		Exporter:   export.NewService(slog.Default()),

		closeFn: func() {
			generator.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
