// Package quarter implements the chart's time coordinate system: a
// quarter-day index addressed by the 1-based W[.D[.Q]] notation, plus the
// signed quarter-day Duration used for plans, budgets and commitments.
package quarter

import (
	"fmt"
	"strconv"
	"strings"
)

// Time identifies a quarter-day by week/day/quarter, 1-based. Day is
// 1..5 (working week), Quarter is 1..4. Missing components default to
// the first of their range for Quarter but widen Duration.
type Time struct {
	week    uint32
	day     uint32 // 0 means "not specified"
	quarter uint32 // 0 means "not specified"
}

// Parse reads "W", "W.D" or "W.D.Q" into a Time.
func Parse(s string) (Time, error) {
	parts := strings.Split(s, ".")
	if len(parts) == 0 || len(parts) > 3 {
		return Time{}, fmt.Errorf("invalid chart time %q: expected 1 to 3 dot-separated parts", s)
	}

	week, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Time{}, fmt.Errorf("invalid chart time %q: bad week: %w", s, err)
	}

	t := Time{week: uint32(week)}

	if len(parts) > 1 {
		day, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return Time{}, fmt.Errorf("invalid chart time %q: bad day: %w", s, err)
		}
		if day < 1 || day > 5 {
			return Time{}, fmt.Errorf("invalid chart time %q: day %d out of range 1..5", s, day)
		}
		t.day = uint32(day)
	}

	if len(parts) > 2 {
		q, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			return Time{}, fmt.Errorf("invalid chart time %q: bad quarter: %w", s, err)
		}
		if q < 1 || q > 4 {
			return Time{}, fmt.Errorf("invalid chart time %q: quarter %d out of range 1..4", s, q)
		}
		t.quarter = uint32(q)
	}

	return t, nil
}

// FromQuarter builds the most precise Time (week.day.quarter) for a
// 0-based quarter index.
func FromQuarter(q uint32) Time {
	week := q/20 + 1
	day := (q%20)/4 + 1
	quarter := q%4 + 1
	return Time{week: week, day: day, quarter: quarter}
}

// Quarter returns the 0-based quarter-day index of this Time's first
// quarter.
func (t Time) Quarter() uint32 {
	q := (t.week - 1) * 20
	if t.day != 0 {
		q += (t.day - 1) * 4
	}
	if t.quarter != 0 {
		q += t.quarter - 1
	}
	return q
}

// Duration returns the width, in quarter-days, implied by this Time's
// precision: 1 if a quarter was given, 4 if only a day, 20 if only a week.
func (t Time) Duration() Duration {
	switch {
	case t.quarter != 0:
		return NewQuarters(1)
	case t.day != 0:
		return NewQuarters(4)
	default:
		return NewQuarters(20)
	}
}

// Before, After, Equal compare Times purely by their resolved quarter.
func (t Time) Before(other Time) bool { return t.Quarter() < other.Quarter() }
func (t Time) After(other Time) bool  { return t.Quarter() > other.Quarter() }
func (t Time) Equal(other Time) bool  { return t.Quarter() == other.Quarter() }

func (t Time) String() string {
	switch {
	case t.quarter != 0:
		return fmt.Sprintf("%d.%d.%d", t.week, t.day, t.quarter)
	case t.day != 0:
		return fmt.Sprintf("%d.%d", t.week, t.day)
	default:
		return fmt.Sprintf("%d", t.week)
	}
}
