package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/open-lectern/lectern/internal/config"
	"github.com/open-lectern/lectern/internal/core/domain"
	"github.com/open-lectern/lectern/internal/core/ports"
	"github.com/open-lectern/lectern/internal/observability/metrics"
)

const serviceName = "api"

// backpressureWait bounds how long a request queues for an in-flight slot
// before it is shed.
const backpressureWait = 100 * time.Millisecond

// GlossaryExporter renders a generated glossary as a downloadable workbook.
type GlossaryExporter interface {
	GlossaryXLSX(lectureID, pageKey string, items []domain.GlossaryItem) ([]byte, error)
}

type Router struct {
	cfg        config.Config
	library    ports.LectureLibrary
	glossaries ports.GlossaryService
	notes      ports.NoteService
	dictionary ports.DictionaryService
	exporter   GlossaryExporter
	metrics    *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	library ports.LectureLibrary,
	glossaries ports.GlossaryService,
	notes ports.NoteService,
	dictionary ports.DictionaryService,
	exporter GlossaryExporter,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:        cfg,
		library:    library,
		glossaries: glossaries,
		notes:      notes,
		dictionary: dictionary,
		exporter:   exporter,
		metrics:    m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.Handle("GET /metrics", rt.metrics.Handler())

	mux.HandleFunc("POST /v1/lectures", rt.uploadLecture)
	mux.HandleFunc("GET /v1/lectures", rt.listLectures)
	mux.HandleFunc("GET /v1/lectures/{id}", rt.getLecture)
	mux.HandleFunc("PATCH /v1/lectures/{id}", rt.renameLecture)
	mux.HandleFunc("DELETE /v1/lectures/{id}", rt.deleteLecture)
	mux.HandleFunc("GET /v1/lectures/{id}/file", rt.downloadLecture)

	mux.HandleFunc("GET /v1/lectures/{id}/glossary", rt.getGlossary)
	mux.HandleFunc("GET /v1/lectures/{id}/glossary/export", rt.exportGlossary)

	mux.HandleFunc("GET /v1/lectures/{id}/note", rt.getNote)
	mux.HandleFunc("PUT /v1/lectures/{id}/note", rt.saveNote)
	mux.HandleFunc("POST /v1/lectures/{id}/note/images", rt.attachNoteImage)
	mux.HandleFunc("GET /v1/lectures/{id}/note/images", rt.listNoteImages)
	mux.HandleFunc("GET /v1/lectures/{id}/note/images/{imageID}/file", rt.downloadNoteImage)
	mux.HandleFunc("DELETE /v1/lectures/{id}/note/images/{imageID}", rt.deleteNoteImage)

	mux.HandleFunc("GET /v1/dictionary", rt.listDictionaryEntries)
	mux.HandleFunc("POST /v1/dictionary", rt.saveDictionaryEntry)
	mux.HandleFunc("DELETE /v1/dictionary/{id}", rt.deleteDictionaryEntry)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, backpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
