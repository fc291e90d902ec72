// Package stay holds the calendar arithmetic behind bookings: parsing a
// check-in/check-out pair, counting nights and pricing a stay.
//
// Days are civil dates stored as UTC midnight, so they compare and subtract
// without daylight-saving surprises regardless of the application timezone.
package stay

import (
	"fmt"
	"net/http"
	"pms/shared/constant"
	"pms/shared/failure"
	"pms/shared/timezone"
	"strings"
	"time"
)

const hoursPerDay = 24

var (
	ErrDatesRequired = &failure.Failure{Code: http.StatusBadRequest, Message: "You must provide both check-in and check-out dates."}
	ErrInvalidDate   = &failure.Failure{Code: http.StatusBadRequest, Message: "Invalid date format provided."}
	ErrCheckoutOrder = &failure.Failure{Code: http.StatusUnprocessableEntity, Message: "Checkout date must be after check-in date."}
	ErrCheckinPast   = &failure.Failure{Code: http.StatusUnprocessableEntity, Message: "You cannot book a date in the past."}
)

// Range is the half-open interval [Checkin, Checkout).
type Range struct {
	Checkin  time.Time
	Checkout time.Time
}

// Parse validates a raw pair in order: presence, format, then ordering.
func Parse(checkin, checkout string) (Range, error) {
	checkin, checkout = strings.TrimSpace(checkin), strings.TrimSpace(checkout)

	if checkin == "" || checkout == "" {
		return Range{}, ErrDatesRequired
	}

	in, err := ParseDay(checkin)
	if err != nil {
		return Range{}, ErrInvalidDate
	}

	out, err := ParseDay(checkout)
	if err != nil {
		return Range{}, ErrInvalidDate
	}

	return New(in, out)
}

// New builds a Range from two days, rejecting an empty or inverted interval.
func New(checkin, checkout time.Time) (Range, error) {
	r := Range{Checkin: Day(checkin), Checkout: Day(checkout)}
	if !r.Checkin.Before(r.Checkout) {
		return Range{}, ErrCheckoutOrder
	}

	return r, nil
}

// ParseDay parses a YYYY-MM-DD string into a day.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(constant.DayFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse day %q: %w", value, err)
	}

	return t, nil
}

// Day drops the clock part of t, keeping its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar date in the application timezone.
func Today() time.Time {
	return Day(timezone.Now())
}

// FormatDay renders a day as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(constant.DayFormat)
}

func (r Range) Nights() int {
	return int(r.Checkout.Sub(r.Checkin).Hours() / hoursPerDay)
}

// Overlaps reports whether r and o share at least one night.
func (r Range) Overlaps(o Range) bool {
	return r.Checkin.Before(o.Checkout) && o.Checkin.Before(r.Checkout)
}

// Covers reports whether the night starting on day falls inside r.
func (r Range) Covers(day time.Time) bool {
	day = Day(day)

	return r.Overlaps(Range{Checkin: day, Checkout: day.AddDate(0, 0, 1)})
}

// NotPast fails when the stay starts before today.
func (r Range) NotPast(today time.Time) error {
	if r.Checkin.Before(Day(today)) {
		return ErrCheckinPast
	}

	return nil
}

func (r Range) String() string {
	return FormatDay(r.Checkin) + "/" + FormatDay(r.Checkout)
}

// Price is nights times the nightly rate.
func Price(nights int, rate float64) float64 {
	return float64(nights) * rate
}

// Total prices the whole range at rate.
func (r Range) Total(rate float64) float64 {
	return Price(r.Nights(), rate)
}
