package core

import "cmp"

// Range is a half-open interval [Start, End).
// Callers narrowing a range are responsible for keeping Start <= End.
type Range[T cmp.Ordered] struct {
	Start T
	End   T
}

// NewRange creates a new range
func NewRange[T cmp.Ordered](start, end T) Range[T] {
	return Range[T]{Start: start, End: end}
}

// Contains reports whether start <= value < end
func (r Range[T]) Contains(value T) bool {
	return value >= r.Start && value < r.End
}

// WithEnd returns a copy of the range with a new upper bound
func (r Range[T]) WithEnd(end T) Range[T] {
	return Range[T]{Start: r.Start, End: end}
}

// Combine returns the smallest range covering both a and b
func Combine[T cmp.Ordered](a, b Range[T]) Range[T] {
	return Range[T]{Start: min(a.Start, b.Start), End: max(a.End, b.End)}
}
