package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MediaType distinguishes the two kinds of files a batch can hold.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Valid reports whether t is one of the known media types.
func (t MediaType) Valid() bool {
	switch t {
	case MediaImage, MediaVideo:
		return true
	}
	return false
}

// ErrUnsupportedContentType marks files that are neither images nor
// videos; callers treat it as a client error, not a backend failure.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// ClassifyContentType maps a declared MIME type to a MediaType.
// Files that are neither images nor videos are rejected at upload time.
func ClassifyContentType(contentType string) (MediaType, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return MediaVideo, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedContentType, contentType)
	}
}

// BatchFile is one stored file within a batch. Order within Batch.Files is
// the original upload selection order.
type BatchFile struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	MediaType MediaType `json:"media_type"`
}

// Batch represents one upload event. Batches are immutable after creation
// except for whole-batch deletion.
type Batch struct {
	ID           string      `json:"id" db:"id"`
	Title        *string     `json:"title" db:"title"`
	DateUploaded string      `json:"date_uploaded" db:"date_uploaded"` // YYYY-MM-DD
	Files        []BatchFile `json:"files" db:"files"`
	ThumbnailURL string      `json:"thumbnail_url" db:"thumbnail_url"`
	Optimized    bool        `json:"optimized" db:"optimized"`
	OwnerID      string      `json:"owner_id" db:"owner_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// DisplayTitle returns the title or "Untitled" when none was given.
func (b *Batch) DisplayTitle() string {
	if b.Title == nil || *b.Title == "" {
		return "Untitled"
	}
	return *b.Title
}

// DateFormat is the calendar-date layout used for DateUploaded.
const DateFormat = "2006-01-02"
