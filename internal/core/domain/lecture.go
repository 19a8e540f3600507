package domain

import "time"

type Lecture struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	StoredFilename   string    `json:"stored_filename"`
	SizeBytes        int64     `json:"size_bytes"`
	PageCount        int       `json:"page_count"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

type LectureNote struct {
	LectureID string    `json:"lecture_id"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NoteImage struct {
	ID               string    `json:"id"`
	LectureID        string    `json:"lecture_id"`
	OriginalFilename string    `json:"original_filename"`
	StoredFilename   string    `json:"stored_filename"`
	ContentType      string    `json:"content_type"`
	UploadedAt       time.Time `json:"uploaded_at"`
}
