package httpadapter

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/open-lectern/lectern/internal/core/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (rt *Router) getGlossary(w http.ResponseWriter, r *http.Request) {
	lectureID := r.PathValue("id")
	page := r.URL.Query().Get("page")
	refresh := r.URL.Query().Get("refresh") != ""

	start := time.Now()
	result, err := rt.glossaries.Glossary(r.Context(), lectureID, page, refresh)
	if err != nil {
		rt.metrics.RecordGlossaryOutcome(serviceName, glossaryOutcome(err))
		writeError(w, err)
		return
	}

	rt.metrics.RecordGlossaryOutcome(serviceName, "ok")
	rt.metrics.RecordGlossaryObservation(serviceName, result.Cached, len(result.Items), time.Since(start))
	if domain.IsDegraded(result.Items) {
		rt.metrics.RecordGlossaryDegraded(serviceName)
	}

	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) exportGlossary(w http.ResponseWriter, r *http.Request) {
	lectureID := r.PathValue("id")
	page := r.URL.Query().Get("page")

	result, err := rt.glossaries.Glossary(r.Context(), lectureID, page, false)
	if err != nil {
		rt.metrics.RecordGlossaryOutcome(serviceName, glossaryOutcome(err))
		writeError(w, err)
		return
	}

	// page passed validation above, so the scope parses.
	scope, _ := domain.ParsePageScope(page)
	data, err := rt.exporter.GlossaryXLSX(lectureID, scope.Key(), result.Items)
	if err != nil {
		writeError(w, err)
		return
	}

	rt.metrics.RecordGlossaryExport(serviceName)

	filename := fmt.Sprintf("glossary-%s-%s.xlsx", lectureID, scope.Key())
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func glossaryOutcome(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput), domain.IsKind(err, domain.ErrPageOutOfRange):
		return "invalid_input"
	case domain.IsKind(err, domain.ErrLectureNotFound):
		return "not_found"
	case domain.IsKind(err, domain.ErrExtraction):
		return "extraction_failed"
	case domain.IsKind(err, domain.ErrServiceUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
