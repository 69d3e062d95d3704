package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// Dates are unique and the series is always sorted.
//
// A daily close-price series is a History[float64].
type History[T float32 | float64 | string] struct {
	days   []Date
	values []T
}

// search returns the index of day, or where it would be inserted.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Date.Compare)
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int {
	if h == nil {
		return 0
	}
	return len(h.days)
}

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := h.search(on)
	if found {
		// Last write wins, it gives priority to the latest data source.
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}
	i, found := h.search(day)
	if !found {
		return zero, false
	}
	return h.values[i], true
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}
	i, found := h.search(day)
	if found {
		return h.values[i], true
	}
	if i == 0 {
		return zero, false // No date on or before the given day.
	}
	return h.values[i-1], true
}

// Earliest returns the first date and value in the history.
func (h *History[T]) Earliest() (day Date, value T) {
	if h.Len() == 0 {
		return Date{}, value
	}
	return h.days[0], h.values[0]
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	if h.Len() == 0 {
		return Date{}, value
	}
	last := len(h.days) - 1
	return h.days[last], h.values[last]
}

// Covers reports whether the history has a value for every day of r.
func (h *History[T]) Covers(r Range) bool {
	if h.Len() == 0 || r.Len() == 0 {
		return r.Len() == 0
	}
	i, found := h.search(r.From)
	if !found {
		return false
	}
	j, found := h.search(r.To)
	if !found {
		return false
	}
	// days are unique, so no gap means exactly one entry per day.
	return j-i+1 == r.Len()
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		if h == nil {
			return
		}
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}
