// Package timegrid implements the dense, bit-packed quarter-day
// occupancy row used for every resource's availability and every
// node's allocated cells, plus the conservative transfer primitives
// the allocator builds on.
package timegrid

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/rgefryer/planner/internal/quarter"
)

// smearEpsilon guards the smear-transfer running total against
// floating-point drift when comparing "want allocated so far" against
// the integer count already transferred this pass.
const smearEpsilon = 0.0001

// Row is a growable bitset of quarter-day cells. The zero value is an
// empty row with no cells set.
type Row struct {
	cells []byte
}

// New returns an empty row.
func New() *Row {
	return &Row{}
}

// NewFromRange builds a row with every cell in rangeExpr set.
// rangeExpr takes the form "start..end" or "start.." (end defaults to
// the end of the chart, weeks*20 quarters); start and end are chart
// times.
func NewFromRange(rangeExpr string, weeks uint32) (*Row, error) {
	parts := strings.Split(rangeExpr, "..")
	if len(parts) == 0 || len(parts) > 2 {
		return nil, fmt.Errorf("too many parts in range %q", rangeExpr)
	}

	start, err := quarter.Parse(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid range start %q: %w", parts[0], err)
	}

	chartEnd, err := quarter.Parse(fmt.Sprintf("%d", weeks))
	if err != nil {
		return nil, err
	}

	var end quarter.Time
	if len(parts) == 1 || parts[1] == "" {
		end = chartEnd
	} else {
		end, err = quarter.Parse(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid range end %q: %w", parts[1], err)
		}
	}

	if chartEnd.Before(end) {
		return nil, fmt.Errorf("range %q exceeds chart length of %d weeks", rangeExpr, weeks)
	}

	r := New()
	r.SetRange(start.Quarter(), end.Quarter()+uint32(end.Duration().Quarters()))
	return r, nil
}

// Set marks a single quarter-day cell as occupied, growing the
// backing storage if needed.
func (r *Row) Set(cell uint32) {
	byteIdx := cell / 8
	bit := byte(1) << (cell % 8)
	for uint32(len(r.cells)) <= byteIdx {
		r.cells = append(r.cells, 0)
	}
	r.cells[byteIdx] |= bit
}

// Unset clears a single quarter-day cell.
func (r *Row) Unset(cell uint32) {
	byteIdx := cell / 8
	if uint32(len(r.cells)) <= byteIdx {
		return
	}
	bit := byte(1) << (cell % 8)
	r.cells[byteIdx] &^= bit
}

// IsSet reports whether a quarter-day cell is occupied.
func (r *Row) IsSet(cell uint32) bool {
	byteIdx := cell / 8
	if uint32(len(r.cells)) <= byteIdx {
		return false
	}
	bit := byte(1) << (cell % 8)
	return r.cells[byteIdx]&bit == bit
}

// SetRange marks every cell in [start, end) as occupied.
func (r *Row) SetRange(start, end uint32) {
	for cell := start; cell < end; cell++ {
		r.Set(cell)
	}
}

// CountRange counts how many cells in [start, end) are set.
func (r *Row) CountRange(start, end uint32) uint32 {
	var count uint32
	for cell := start; cell < end; cell++ {
		if r.IsSet(cell) {
			count++
		}
	}
	return count
}

// Count returns the total number of set cells in the row.
func (r *Row) Count() uint32 {
	var count uint32
	for _, b := range r.cells {
		count += uint32(bits.OnesCount8(b))
	}
	return count
}

// WeeklyNumbers returns, for each of the first weeks weeks, the count
// of set cells in that week's 20 quarter-days.
func (r *Row) WeeklyNumbers(weeks uint32) []uint32 {
	out := make([]uint32, weeks)
	for week := uint32(0); week < weeks; week++ {
		out[week] = r.CountRange(week*20, (week+1)*20)
	}
	return out
}

// WeeklySummary renders WeeklyNumbers as fixed-width columns, blank
// where the count is zero.
func (r *Row) WeeklySummary(weeks uint32) string {
	var b strings.Builder
	for _, count := range r.WeeklyNumbers(weeks) {
		if count == 0 {
			b.WriteString("   ")
		} else {
			fmt.Fprintf(&b, "%3d", count)
		}
	}
	return b.String()
}

func (r *Row) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for _, cell := range r.cells {
		for i := 0; i < 8; i++ {
			if cell&(1<<uint(i)) != 0 {
				b.WriteByte('o')
			} else {
				b.WriteByte('_')
			}
		}
	}
	b.WriteByte(']')
	return b.String()
}

// TransferResult reports the outcome of a transfer primitive: the
// greatest cell moved (valid only if HasLast), how many cells were
// moved, and how many of the requested count could not be placed.
type TransferResult struct {
	Last      uint32
	HasLast   bool
	Moved     uint32
	Remaining uint32
}

// FillTransferTo moves up to count cells from r into dest, scanning
// [start, end) ascending. A cell only moves if it is set in r and
// unset in dest — this never creates occupancy, it only relocates it.
func (r *Row) FillTransferTo(dest *Row, count uint32, start, end uint32) TransferResult {
	toAllocate := count
	res := TransferResult{}

	for cell := start; cell < end; cell++ {
		if toAllocate == 0 {
			break
		}
		if r.IsSet(cell) && !dest.IsSet(cell) {
			toAllocate--
			r.Unset(cell)
			dest.Set(cell)
			res.Last, res.HasLast = cell, true
		}
	}

	res.Moved = count - toAllocate
	res.Remaining = toAllocate
	return res
}

// ReverseFillTransferTo moves up to count cells from r into dest,
// scanning [start, end) descending from end-1.
func (r *Row) ReverseFillTransferTo(dest *Row, count uint32, start, end uint32) TransferResult {
	toAllocate := count
	res := TransferResult{}

	for cell := end; cell > start; cell-- {
		if toAllocate == 0 {
			break
		}
		c := cell - 1
		if r.IsSet(c) && !dest.IsSet(c) {
			toAllocate--
			r.Unset(c)
			dest.Set(c)
			if !res.HasLast {
				// Scanning descends, so the first cell moved is the greatest.
				res.Last, res.HasLast = c, true
			}
		}
	}

	res.Moved = count - toAllocate
	res.Remaining = toAllocate
	return res
}

// SmearTransferTo moves up to count cells from r into dest, spread as
// evenly as possible across [start, end). Each pass recomputes the
// remaining-count-per-free-cell and only commits a cell once the
// running "want" total for this pass exceeds the number already
// committed this pass, so occupancy prefers the front of the range
// when rounding forces a choice. A pass that transfers nothing ends
// the loop even if count was not reached (not enough settable cells
// in the range).
func (r *Row) SmearTransferTo(dest *Row, count uint32, start, end uint32) TransferResult {
	candidates := make([]uint32, 0, end-start)
	for cell := start; cell < end; cell++ {
		candidates = append(candidates, cell)
	}

	var allocated uint32
	res := TransferResult{}
	transferredThisRun := uint32(1)

	for transferredThisRun != 0 && allocated != count {
		var numAllocatedInDest uint32
		for _, cell := range candidates {
			if dest.IsSet(cell) {
				numAllocatedInDest++
			}
		}
		freeCells := uint32(len(candidates)) - numAllocatedInDest
		if freeCells == 0 {
			break
		}
		amountPerCell := float64(count-allocated) / float64(freeCells)

		transferredThisRun = 0
		wantAllocatedThisRun := 0.0
		for _, cell := range candidates {
			if dest.IsSet(cell) {
				continue
			}

			wantAllocatedThisRun += amountPerCell
			if wantAllocatedThisRun > smearEpsilon+float64(transferredThisRun) && r.IsSet(cell) {
				allocated++
				transferredThisRun++
				r.Unset(cell)
				dest.Set(cell)
				if !res.HasLast || res.Last < cell {
					res.Last, res.HasLast = cell, true
				}

				if allocated == count {
					res.Moved = allocated
					res.Remaining = count - allocated
					return res
				}
			}
		}
	}

	res.Moved = allocated
	res.Remaining = count - allocated
	return res
}
