package domain

import "time"

// DictionaryEntry is a curated cross-lecture term. LectureID optionally
// records which lecture the term was taken from and may be empty.
type DictionaryEntry struct {
	ID         string    `json:"id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Context    string    `json:"context,omitempty"`
	LectureID  string    `json:"lecture_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
