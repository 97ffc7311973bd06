// Package gallery holds the view-model types for the public gallery and
// the admin moderation table: date filtering, multi-select state, and the
// lightbox viewer. They are plain in-memory types; the HTTP layer and the
// UI drive them.
package gallery

import "sideline-backend/internal/models"

// FilterByDate returns the batches whose DateUploaded equals date, in the
// original order. An empty date returns the full set.
func FilterByDate(batches []models.Batch, date string) []models.Batch {
	if date == "" {
		return batches
	}
	var out []models.Batch
	for _, b := range batches {
		if b.DateUploaded == date {
			out = append(out, b)
		}
	}
	return out
}

// UniqueDates returns the distinct upload dates present in batches,
// preserving first-seen order (newest first when batches are sorted by
// creation time descending).
func UniqueDates(batches []models.Batch) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, b := range batches {
		if !seen[b.DateUploaded] {
			seen[b.DateUploaded] = true
			dates = append(dates, b.DateUploaded)
		}
	}
	return dates
}
