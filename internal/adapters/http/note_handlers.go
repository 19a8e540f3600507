package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/open-lectern/lectern/internal/core/domain"
)

// noteResponse mirrors the stored note; an absent note renders as empty
// content with a null timestamp rather than a 404.
type noteResponse struct {
	Content   string     `json:"content"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (rt *Router) getNote(w http.ResponseWriter, r *http.Request) {
	note, err := rt.notes.Note(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := noteResponse{}
	if note != nil {
		resp.Content = note.Content
		resp.UpdatedAt = &note.UpdatedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) saveNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Content == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}

	note, err := rt.notes.SaveNote(r.Context(), r.PathValue("id"), *req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, noteResponse{Content: note.Content, UpdatedAt: &note.UpdatedAt})
}

func (rt *Router) attachNoteImage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'image' is required"})
		return
	}
	defer file.Close()

	img, err := rt.notes.AttachImage(
		r.Context(),
		r.PathValue("id"),
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

func (rt *Router) listNoteImages(w http.ResponseWriter, r *http.Request) {
	images, err := rt.notes.Images(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if images == nil {
		images = []domain.NoteImage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"images": images})
}

func (rt *Router) downloadNoteImage(w http.ResponseWriter, r *http.Request) {
	img, rc, err := rt.notes.OpenImage(r.Context(), r.PathValue("id"), r.PathValue("imageID"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = io.Copy(w, rc)
}

func (rt *Router) deleteNoteImage(w http.ResponseWriter, r *http.Request) {
	if err := rt.notes.RemoveImage(r.Context(), r.PathValue("id"), r.PathValue("imageID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
