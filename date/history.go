package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T float32 | float64 | string] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// First returns the earliest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) First() (day Date, value T) {
	if len(h.days) == 0 {
		return Date{}, *new(T)
	}
	return h.days[0], h.values[0]
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, *new(T) // return zero value of T
	}
	return h.days[last], h.values[last]
}

// At returns the i-th point in chronological order.
func (h *History[T]) At(i int) (Date, T) { return h.days[i], h.values[i] }

// Days returns a copy of the dates of the history, in chronological order.
func (h *History[T]) Days() []Date { return slices.Clone(h.days) }

// Slice returns a copy of the values of the history, in chronological order.
func (h *History[T]) Slice() []T { return slices.Clone(h.values) }

// Clone returns a deep copy of the history.
func (h *History[T]) Clone() History[T] {
	return History[T]{days: slices.Clone(h.days), values: slices.Clone(h.values)}
}

// search returns the index where on is or should be inserted.
func (h *History[T]) search(on Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, on, Date.Compare)
}

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, q T) *History[T] {
	i, found := h.search(on)
	if found {
		// Found a point at that exact same instant.
		// We choose to replace, because it will give higher priority to the last data
		h.values[i] = q
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, q)
	return h
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.search(day); found {
		return h.values[i], true
	}
	var value T
	return value, false
}

// Restrict returns a new history with only the points whose date is in days.
func (h *History[T]) Restrict(days []Date) History[T] {
	var r History[T]
	for _, on := range days {
		if v, ok := h.Get(on); ok {
			r.days = append(r.days, on)
			r.values = append(r.values, v)
		}
	}
	return r
}

// Intersect returns the sorted dates present in every history.
// It returns nil if no history is given.
func Intersect[T float32 | float64 | string](histories ...History[T]) []Date {
	if len(histories) == 0 {
		return nil
	}
	common := slices.Clone(histories[0].days)
	for _, h := range histories[1:] {
		common = slices.DeleteFunc(common, func(on Date) bool {
			_, found := h.search(on)
			return !found
		})
	}
	return common
}
