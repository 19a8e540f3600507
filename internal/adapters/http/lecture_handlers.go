package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/open-lectern/lectern/internal/core/domain"
)

func (rt *Router) uploadLecture(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	lec, err := rt.library.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	rt.metrics.RecordUpload(serviceName, lec.SizeBytes)
	writeJSON(w, http.StatusCreated, lec)
}

func (rt *Router) listLectures(w http.ResponseWriter, r *http.Request) {
	lectures, err := rt.library.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if lectures == nil {
		lectures = []domain.Lecture{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"lectures": lectures})
}

func (rt *Router) getLecture(w http.ResponseWriter, r *http.Request) {
	lec, err := rt.library.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lec)
}

func (rt *Router) renameLecture(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename *string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Filename == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "filename is required"})
		return
	}

	lec, err := rt.library.Rename(r.Context(), r.PathValue("id"), *req.Filename)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lec)
}

func (rt *Router) deleteLecture(w http.ResponseWriter, r *http.Request) {
	if err := rt.library.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) downloadLecture(w http.ResponseWriter, r *http.Request) {
	lec, rc, err := rt.library.OpenFile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", lec.OriginalFilename))
	if lec.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(lec.SizeBytes, 10))
	}
	_, _ = io.Copy(w, rc)
}
