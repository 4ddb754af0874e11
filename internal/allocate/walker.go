package allocate

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rgefryer/planner/internal/configtree"
	"github.com/rgefryer/planner/internal/quarter"
	"github.com/rgefryer/planner/internal/timegrid"
)

// updateStart narrows n's effective start to the later of its current
// value (if any) and candidate.
func updateStart(n *configtree.Node, candidate quarter.Time) {
	if n.Start == nil || candidate.After(*n.Start) {
		t := candidate
		n.Start = &t
	}
}

// updateEnd narrows n's effective end to the earlier of its current
// value (if any) and candidate.
func updateEnd(n *configtree.Node, candidate quarter.Time) {
	if n.End == nil || candidate.Before(*n.End) {
		t := candidate
		n.End = &t
	}
}

// allocateTaskResource propagates an effective [start, end) window down
// through id's subtree, narrowing it at every node by that node's own
// earliest-start/latest-end, and at each leaf dispatches to
// allocateNodeTaskResource for the strategy matching managed. It
// returns the greatest quarter allocated anywhere in the subtree, for
// the caller to chain serial siblings and report subtree completion
// upward.
func allocateTaskResource(tree *configtree.Tree, id configtree.NodeID, start quarter.Time, chartEnd quarter.Time, managed bool) (quarter.Time, bool) {
	n := tree.Node(id)

	updateStart(n, start)
	if es, err := tree.EarliestStart(id); err != nil {
		n.AddNote(err.Error())
	} else if es != nil {
		updateStart(n, *es)
	}

	updateEnd(n, chartEnd)
	if le, err := tree.LatestEnd(id); err != nil {
		n.AddNote(err.Error())
	} else if le != nil {
		updateEnd(n, *le)
	}

	lastAlloc, hasLast := allocateNodeTaskResource(tree, id, managed)

	if n.IsLeaf() {
		return lastAlloc, hasLast
	}

	schedule, err := tree.SchedulingStrategy(id)
	if err != nil {
		n.AddNote(err.Error())
		schedule = configtree.Parallel
	}

	childStart := *n.Start
	for _, childID := range n.Children {
		childLast, childHasLast := allocateTaskResource(tree, childID, childStart, *n.End, managed)
		if childHasLast && (!hasLast || childLast.After(lastAlloc)) {
			lastAlloc, hasLast = childLast, true
		}
		if schedule == configtree.Serial && childHasLast {
			childStart = quarter.FromQuarter(childLast.Quarter() + 1)
		}
	}

	return lastAlloc, hasLast
}

// allocateNodeTaskResource performs id's own resource allocation, if
// id is a leaf whose NonManaged flag matches managed (inverted: a
// managed pass allocates non-managed==false nodes, and vice versa).
// Non-leaves and strategy mismatches are no-ops here; their
// contribution to the subtree comes from their children instead.
func allocateNodeTaskResource(tree *configtree.Tree, id configtree.NodeID, managed bool) (quarter.Time, bool) {
	n := tree.Node(id)
	if !n.IsLeaf() {
		return quarter.Time{}, false
	}

	when, err := quarter.Parse(strconv.Itoa(int(tree.Weeks) + 1))
	if err != nil {
		n.AddNote(err.Error())
		return quarter.Time{}, false
	}
	horizonDays := float64(tree.Weeks) * 5

	plan, err := tree.Plan(id, when, horizonDays)
	if err != nil {
		n.AddNote(err.Error())
		return quarter.Time{}, false
	}
	if plan == nil || plan.IsZero() {
		return quarter.Time{}, false
	}

	nonManaged, err := tree.NonManaged(id)
	if err != nil {
		n.AddNote(err.Error())
		return quarter.Time{}, false
	}
	if nonManaged == managed {
		// This pass isn't responsible for this node.
		return quarter.Time{}, false
	}

	daysInChart := quarter.NewQuarters(int(n.Cells.Count()))
	daysToAllocate := plan.Sub(daysInChart)
	if daysToAllocate.IsNegative() {
		n.AddNote(fmt.Sprintf("over-committed by %s; update plan", quarter.NewQuarters(-daysToAllocate.Quarters())))
		return quarter.Time{}, false
	}
	if daysToAllocate.IsZero() {
		return quarter.Time{}, false
	}

	who, err := tree.Who(id, tree.ValidPeople())
	if err != nil {
		n.AddNote(err.Error())
		return quarter.Time{}, false
	}
	if who == "" {
		n.AddNote("task has work to allocate but no owner")
		return quarter.Time{}, false
	}
	personRow := tree.Root().People[who]

	startQ := n.Start.Quarter()
	endQ := n.End.Quarter() + 1

	strategy, ok, err := tree.ResourcingStrategy(id)
	if err != nil {
		n.AddNote(err.Error())
		return quarter.Time{}, false
	}
	if !ok {
		n.AddNote("no resourcing strategy set")
		return quarter.Time{}, false
	}

	var res timegrid.TransferResult

	switch strategy {
	case configtree.Management:
		return quarter.Time{}, false

	case configtree.SmearProRata:
		quartersInPlan := float64(tree.Weeks) * 20
		timePerQuarter := plan.Days() * 4 / quartersInPlan
		quartersRemaining := quartersInPlan - float64(startQ)
		timeToSpend := math.Ceil(quartersRemaining*timePerQuarter) - float64(n.Cells.CountRange(startQ, endQ))
		if timeToSpend < -0.01 {
			n.AddNote("over-committed; update plan")
			return quarter.Time{}, false
		}
		if timeToSpend < 0 {
			timeToSpend = 0
		}
		res = personRow.SmearTransferTo(n.Cells, uint32(timeToSpend), startQ, endQ)

	case configtree.SmearRemaining:
		res = personRow.SmearTransferTo(n.Cells, uint32(daysToAllocate.Quarters()), startQ, endQ)

	case configtree.FrontLoad:
		res = personRow.FillTransferTo(n.Cells, uint32(daysToAllocate.Quarters()), startQ, endQ)

	case configtree.BackLoad:
		res = personRow.ReverseFillTransferTo(n.Cells, uint32(daysToAllocate.Quarters()), startQ, endQ)

	case configtree.ProdSFR:
		total := uint32(daysToAllocate.Quarters())
		eighty := uint32(math.Round(0.8 * float64(total)))
		twenty := total - eighty
		res1 := personRow.ReverseFillTransferTo(n.Cells, eighty, startQ, endQ)
		res2 := personRow.SmearTransferTo(n.Cells, twenty, startQ, endQ)
		res = mergeResults(res1, res2)
	}

	if res.Remaining > 0 {
		n.AddNote(fmt.Sprintf("%d quarter-days did not fit %s's availability", res.Remaining, who))
	}
	if !res.HasLast {
		return quarter.Time{}, false
	}
	return quarter.FromQuarter(res.Last), true
}

// mergeResults combines two sequential transfers against the same
// destination row into a single result.
func mergeResults(a, b timegrid.TransferResult) timegrid.TransferResult {
	merged := timegrid.TransferResult{
		Moved:     a.Moved + b.Moved,
		Remaining: a.Remaining + b.Remaining,
	}
	merged.Last, merged.HasLast = a.Last, a.HasLast
	if b.HasLast && (!merged.HasLast || b.Last > merged.Last) {
		merged.Last, merged.HasLast = b.Last, true
	}
	return merged
}
