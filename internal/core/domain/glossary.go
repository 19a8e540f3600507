package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Marker values of the degraded single-item glossary produced when a
// generation reply cannot be interpreted as structured data.
const (
	ParseFailureTerm       = "parse failure"
	ParseFailureDefinition = "the response could not be interpreted as structured data"
)

const PageKeyAll = "all"

type GlossaryItem struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Context    string `json:"context"`
}

// GlossaryEntry is one cached glossary keyed by (lecture, page key).
type GlossaryEntry struct {
	Items     []GlossaryItem `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type GlossaryResult struct {
	Items     []GlossaryItem `json:"items"`
	Cached    bool           `json:"cached"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

// IsDegraded reports whether items is the parse-failure fallback glossary.
func IsDegraded(items []GlossaryItem) bool {
	return len(items) == 1 && items[0].Term == ParseFailureTerm
}

// PageScope selects either the whole document or a single page.
// Index is zero-based and only meaningful when All is false; negative or
// too-large indices are rejected by the extractor, not here.
type PageScope struct {
	All   bool
	Index int
}

// Key returns the cache key for the scope: "all" for whole-document
// glossaries, otherwise the normalized 1-based page number in decimal.
func (s PageScope) Key() string {
	if s.All {
		return PageKeyAll
	}
	return strconv.Itoa(s.Index + 1)
}

// ParsePageScope interprets the raw page selector from the request.
// Absent or "all" (any case) selects the whole document; anything else must
// be an integer 1-based page number.
func ParsePageScope(raw string) (PageScope, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, PageKeyAll) {
		return PageScope{All: true}, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return PageScope{}, WrapError(ErrInvalidInput, "parse page scope", errors.New("page selector is not a number"))
	}
	return PageScope{Index: n - 1}, nil
}
