package gallery

import "sideline-backend/internal/models"

// Selection is the moderation table's multi-select state over a
// date-filtered listing. Changing the filter always clears the selection.
type Selection struct {
	batches  []models.Batch
	date     string
	selected map[string]bool
}

func NewSelection(batches []models.Batch) *Selection {
	return &Selection{
		batches:  batches,
		selected: make(map[string]bool),
	}
}

// SetBatches replaces the underlying listing (after a refetch) and clears
// the selection.
func (s *Selection) SetBatches(batches []models.Batch) {
	s.batches = batches
	s.selected = make(map[string]bool)
}

// SetDateFilter applies a date filter. Any change, including clearing,
// resets the selection.
func (s *Selection) SetDateFilter(date string) {
	if date == s.date {
		return
	}
	s.date = date
	s.selected = make(map[string]bool)
}

// Filtered returns the currently visible batches.
func (s *Selection) Filtered() []models.Batch {
	return FilterByDate(s.batches, s.date)
}

// Toggle flips the selection state of one batch. Batches outside the
// current filter cannot be selected.
func (s *Selection) Toggle(id string) {
	for _, b := range s.Filtered() {
		if b.ID == id {
			if s.selected[id] {
				delete(s.selected, id)
			} else {
				s.selected[id] = true
			}
			return
		}
	}
}

// ToggleAll switches between "all filtered batches selected" and
// "none selected".
func (s *Selection) ToggleAll() {
	if s.AllSelected() {
		s.selected = make(map[string]bool)
		return
	}
	s.selected = make(map[string]bool)
	for _, b := range s.Filtered() {
		s.selected[b.ID] = true
	}
}

// AllSelected reports the checked state of the select-all control: true
// iff every filtered batch is selected and the filtered set is non-empty.
func (s *Selection) AllSelected() bool {
	filtered := s.Filtered()
	if len(filtered) == 0 {
		return false
	}
	return len(s.selected) == len(filtered)
}

// Selected returns the ids of the selected batches in listing order.
func (s *Selection) Selected() []string {
	var ids []string
	for _, b := range s.Filtered() {
		if s.selected[b.ID] {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// Count returns the number of selected batches.
func (s *Selection) Count() int {
	return len(s.selected)
}
