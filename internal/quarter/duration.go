package quarter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Duration is a signed count of quarter-days. It is displayed as days =
// quarters/4.
type Duration struct {
	quarters int
}

// NewDays builds a Duration from a (possibly fractional) number of days,
// rounded up to the next quarter.
func NewDays(days float64) Duration {
	return Duration{quarters: int(math.Ceil(days * 4.0))}
}

// NewQuarters builds a Duration directly from a quarter-day count.
func NewQuarters(quarters int) Duration {
	return Duration{quarters: quarters}
}

// ParseDuration parses "2.25" (days), "4.5pcy" (per calendar year) or
// "2pcm" (per calendar month) into a Duration, using horizonDays (the
// planning horizon expressed in days, i.e. weeks*5) to resolve pcy/pcm.
func ParseDuration(amount string, horizonDays float64) (Duration, error) {
	slice := amount
	perYear, perMonth := false, false

	switch {
	case strings.HasSuffix(amount, "pcy"):
		slice = amount[:len(amount)-3]
		perYear = true
	case strings.HasSuffix(amount, "pcm"):
		slice = amount[:len(amount)-3]
		perMonth = true
	}

	number, err := strconv.ParseFloat(slice, 64)
	if err != nil {
		return Duration{}, fmt.Errorf("invalid duration %q: %w", amount, err)
	}

	switch {
	case perYear:
		return NewQuarters(int(math.Ceil(4 * number * horizonDays / (5 * 52)))), nil
	case perMonth:
		return NewQuarters(int(math.Ceil(4 * number * horizonDays / (5.0 * 52.0 / 12.0)))), nil
	default:
		return NewDays(number), nil
	}
}

// Days returns the Duration expressed in (possibly fractional) days.
func (d Duration) Days() float64 { return float64(d.quarters) / 4.0 }

// Quarters returns the signed quarter-day count.
func (d Duration) Quarters() int { return d.quarters }

// IsZero reports whether the duration is exactly zero quarters.
func (d Duration) IsZero() bool { return d.quarters == 0 }

// IsNegative reports whether the duration is less than zero quarters.
func (d Duration) IsNegative() bool { return d.quarters < 0 }

// Add returns d+other.
func (d Duration) Add(other Duration) Duration { return Duration{quarters: d.quarters + other.quarters} }

// Sub returns d-other.
func (d Duration) Sub(other Duration) Duration { return Duration{quarters: d.quarters - other.quarters} }

func (d Duration) String() string { return fmt.Sprintf("%.2fd", d.Days()) }
