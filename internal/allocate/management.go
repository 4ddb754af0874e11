package allocate

import (
	"fmt"
	"math"

	"github.com/rgefryer/planner/internal/configtree"
	"github.com/rgefryer/planner/internal/quarter"
)

// managementOverheadPerPerson is the quarter-days of management time
// accrued per other person still free (not yet consumed) in a given
// quarter.
const managementOverheadPerPerson = 0.2

// maxWeeklyManagementQuarters caps how much management overhead a
// single week can accrue, regardless of headcount.
const maxWeeklyManagementQuarters = 20

// applyManagementOverhead finds the first node in document order whose
// resolved resourcing strategy is Management and fills its cells with
// overhead accrued from every other person's remaining availability,
// week by week. There is at most one such node per chart; a chart with
// none simply has no management overhead to allocate.
func applyManagementOverhead(tree *configtree.Tree) {
	managementID, ok := tree.FindFirst(configtree.RootID, func(n *configtree.Node) bool {
		strategy, resolved, err := tree.ResourcingStrategy(n.ID)
		return err == nil && resolved && strategy == configtree.Management
	})
	if !ok {
		return
	}

	n := tree.Node(managementID)
	manager, err := tree.Who(managementID, tree.ValidPeople())
	if err != nil {
		n.AddNote(err.Error())
		return
	}
	if manager == "" {
		n.AddNote("management node has no owner")
		return
	}
	managerRow := tree.Root().People[manager]
	people := tree.Root().People

	today := tree.ConfigTime("today", quarter.FromQuarter(0))
	todayQ := today.Quarter()

	for week := uint32(0); week < tree.Weeks; week++ {
		weekStart := week * 20
		weekEnd := weekStart + 20

		// Count free person-quarters and scale once, so that repeated
		// float additions of 0.2 cannot push an exact total over the
		// next integer before the ceiling is taken.
		var freePersonQuarters int
		for q := weekStart; q < weekEnd; q++ {
			if q < todayQ {
				continue
			}
			if !managerRow.IsSet(q) {
				break
			}
			for name, row := range people {
				if name != manager && row.IsSet(q) {
					freePersonQuarters++
				}
			}
		}
		total := float64(freePersonQuarters) * managementOverheadPerPerson

		weeklyQuarters := math.Ceil(total)
		if weeklyQuarters > maxWeeklyManagementQuarters {
			weeklyQuarters = maxWeeklyManagementQuarters
		}
		if weeklyQuarters == 0 {
			continue
		}

		res := managerRow.FillTransferTo(n.Cells, uint32(weeklyQuarters), weekStart, weekEnd)
		if res.Remaining > 0 {
			n.AddNote(fmt.Sprintf("week %d: %d quarter-days of management overhead did not fit", week+1, res.Remaining))
		}
	}
}
