package date

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidRange is returned when a range ends before it starts.
var ErrInvalidRange = errors.New("range ends before it starts")

// Range represents an inclusive range of days.
type Range struct{ From, To Date }

// NewRange returns the range [from, to] or an error if to is before from.
func NewRange(from, to Date) (Range, error) {
	r := Range{From: from, To: to}
	return r, r.Validate()
}

// Validate returns ErrInvalidRange when To is before From.
func (r Range) Validate() error {
	if r.To.Before(r.From) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, r.From, r.To)
	}
	return nil
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Len returns the number of days in the range, boundaries included.
func (r Range) Len() int {
	if r.To.Before(r.From) {
		return 0
	}
	return r.To.Sub(r.From) + 1
}

// Days iterates over every day of the range, in order.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// String returns the range as "from..to".
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
