package gallery

import "sideline-backend/internal/models"

// Lightbox pages through one batch's files. The index never leaves
// [0, len(files)-1]; prev at the first file and next at the last are
// no-ops (no wraparound).
type Lightbox struct {
	batch *models.Batch
	index int
}

// OpenLightbox opens a viewer over batch starting at index, clamped into
// range. Returns nil for a batch with no files, which never exists once
// a batch has been created.
func OpenLightbox(batch *models.Batch, index int) *Lightbox {
	if batch == nil || len(batch.Files) == 0 {
		return nil
	}
	return &Lightbox{batch: batch, index: ClampIndex(index, len(batch.Files))}
}

// ClampIndex bounds index into [0, n-1].
func ClampIndex(index, n int) int {
	if index < 0 {
		return 0
	}
	if index > n-1 {
		return n - 1
	}
	return index
}

// Current returns the file the viewer is showing.
func (l *Lightbox) Current() models.BatchFile {
	return l.batch.Files[l.index]
}

// Index returns the current position.
func (l *Lightbox) Index() int {
	return l.index
}

// Next advances to the following file, if any.
func (l *Lightbox) Next() {
	if l.index < len(l.batch.Files)-1 {
		l.index++
	}
}

// Prev moves to the preceding file, if any.
func (l *Lightbox) Prev() {
	if l.index > 0 {
		l.index--
	}
}

// HasNext and HasPrev drive the enabled state of the navigation controls.
func (l *Lightbox) HasNext() bool { return l.index < len(l.batch.Files)-1 }
func (l *Lightbox) HasPrev() bool { return l.index > 0 }
