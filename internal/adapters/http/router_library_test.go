package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/open-lectern/lectern/internal/config"
	"github.com/open-lectern/lectern/internal/core/domain"
	"github.com/open-lectern/lectern/internal/core/ports"
	"github.com/open-lectern/lectern/internal/observability/metrics"
)

type routerDeps struct {
	library    ports.LectureLibrary
	glossaries ports.GlossaryService
	notes      ports.NoteService
	dictionary ports.DictionaryService
	exporter   GlossaryExporter
}

func newTestRouter(cfg config.Config, deps routerDeps) http.Handler {
	return NewRouter(
		cfg,
		deps.library,
		deps.glossaries,
		deps.notes,
		deps.dictionary,
		deps.exporter,
		metrics.NewHTTPServerMetrics("test"),
	).Handler()
}

type libraryFake struct {
	lec     *domain.Lecture
	list    []domain.Lecture
	err     error
	blob    string
	renamed map[string]string
	deleted []string
}

func (f *libraryFake) Upload(_ context.Context, filename string, body io.Reader) (*domain.Lecture, error) {
	if f.err != nil {
		return nil, f.err
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return &domain.Lecture{
		ID:               "lec-1",
		OriginalFilename: filename,
		StoredFilename:   "lectures/lec-1.pdf",
		SizeBytes:        int64(len(raw)),
		PageCount:        3,
		UploadedAt:       time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
	}, nil
}

func (f *libraryFake) List(context.Context) ([]domain.Lecture, error) {
	return f.list, f.err
}

func (f *libraryFake) Get(context.Context, string) (*domain.Lecture, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lec, nil
}

func (f *libraryFake) Rename(_ context.Context, id, filename string) (*domain.Lecture, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.renamed == nil {
		f.renamed = map[string]string{}
	}
	f.renamed[id] = filename
	cp := *f.lec
	cp.OriginalFilename = filename
	return &cp, nil
}

func (f *libraryFake) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *libraryFake) OpenFile(context.Context, string) (*domain.Lecture, io.ReadCloser, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.lec, io.NopCloser(strings.NewReader(f.blob)), nil
}

func TestHealthzEndpoint(t *testing.T) {
	handler := newTestRouter(config.Config{}, routerDeps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestRouter(config.Config{}, routerDeps{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestUploadLectureReturnsCreated(t *testing.T) {
	handler := newTestRouter(config.Config{}, routerDeps{library: &libraryFake{}})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "week 1.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 payload")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/lectures", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}

	var lec map[string]any
	if err := json.NewDecoder(res.Body).Decode(&lec); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if lec["id"] != "lec-1" {
		t.Fatalf("unexpected response: %+v", lec)
	}
}

func TestUploadLectureMissingMultipartField(t *testing.T) {
	handler := newTestRouter(config.Config{}, routerDeps{library: &libraryFake{}})

	req := httptest.NewRequest(http.MethodPost, "/v1/lectures", bytes.NewBufferString("plain-text"))
	req.Header.Set("Content-Type", "text/plain")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestListLecturesEnvelope(t *testing.T) {
	library := &libraryFake{list: []domain.Lecture{
		{ID: "lec-1", OriginalFilename: "intro.pdf"},
		{ID: "lec-2", OriginalFilename: "advanced.pdf"},
	}}
	handler := newTestRouter(config.Config{}, routerDeps{library: library})

	req := httptest.NewRequest(http.MethodGet, "/v1/lectures", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var resp struct {
		Lectures []domain.Lecture `json:"lectures"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Lectures) != 2 {
		t.Fatalf("expected 2 lectures, got %d", len(resp.Lectures))
	}
}

func TestListLecturesEmptyIsArray(t *testing.T) {
	handler := newTestRouter(config.Config{}, routerDeps{library: &libraryFake{}})

	req := httptest.NewRequest(http.MethodGet, "/v1/lectures", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if !strings.Contains(res.Body.String(), `"lectures":[]`) {
		t.Fatalf("expected empty array, got %s", res.Body.String())
	}
}

func TestRenameLectureRequiresFilenameField(t *testing.T) {
	handler := newTestRouter(config.Config{}, routerDeps{library: &libraryFake{}})

	req := httptest.NewRequest(http.MethodPatch, "/v1/lectures/lec-1", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestRenameLectureReturnsUpdated(t *testing.T) {
	library := &libraryFake{lec: &domain.Lecture{ID: "lec-1", OriginalFilename: "old.pdf"}}
	handler := newTestRouter(config.Config{}, routerDeps{library: library})

	req := httptest.NewRequest(http.MethodPatch, "/v1/lectures/lec-1", strings.NewReader(`{"filename":"new.pdf"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if library.renamed["lec-1"] != "new.pdf" {
		t.Fatalf("rename not forwarded: %+v", library.renamed)
	}
	if !strings.Contains(res.Body.String(), `"original_filename":"new.pdf"`) {
		t.Fatalf("expected updated lecture in response, got %s", res.Body.String())
	}
}

func TestDeleteLectureReturnsNoContent(t *testing.T) {
	library := &libraryFake{}
	handler := newTestRouter(config.Config{}, routerDeps{library: library})

	req := httptest.NewRequest(http.MethodDelete, "/v1/lectures/lec-1", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.Code)
	}
	if len(library.deleted) != 1 || library.deleted[0] != "lec-1" {
		t.Fatalf("delete not forwarded: %+v", library.deleted)
	}
}

func TestDownloadLectureSetsHeaders(t *testing.T) {
	library := &libraryFake{
		lec:  &domain.Lecture{ID: "lec-1", OriginalFilename: "intro.pdf", SizeBytes: 9},
		blob: "%PDF-stub",
	}
	handler := newTestRouter(config.Config{}, routerDeps{library: library})

	req := httptest.NewRequest(http.MethodGet, "/v1/lectures/lec-1/file", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if got := res.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := res.Header().Get("Content-Disposition"); !strings.Contains(got, `"intro.pdf"`) {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if res.Body.String() != "%PDF-stub" {
		t.Fatalf("body = %q", res.Body.String())
	}
}

func TestDownloadLectureNotFound(t *testing.T) {
	library := &libraryFake{err: domain.WrapError(domain.ErrLectureNotFound, "open lecture file", errors.New("id=missing"))}
	handler := newTestRouter(config.Config{}, routerDeps{library: library})

	req := httptest.NewRequest(http.MethodGet, "/v1/lectures/missing/file", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}
