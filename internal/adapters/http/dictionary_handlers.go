package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/open-lectern/lectern/internal/core/domain"
)

func (rt *Router) listDictionaryEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := rt.dictionary.Entries(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.DictionaryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (rt *Router) saveDictionaryEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term       string `json:"term"`
		Definition string `json:"definition"`
		Context    string `json:"context"`
		LectureID  string `json:"lecture_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	entry, err := rt.dictionary.Save(r.Context(), domain.DictionaryEntry{
		Term:       req.Term,
		Definition: req.Definition,
		Context:    req.Context,
		LectureID:  req.LectureID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (rt *Router) deleteDictionaryEntry(w http.ResponseWriter, r *http.Request) {
	if err := rt.dictionary.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
