// Package allocate implements the four-pass allocator: commitments,
// non-managed strategies, management overhead, managed strategies.
package allocate

import (
	"fmt"

	"github.com/rgefryer/planner/internal/configtree"
)

// applyCommitments walks every descendant of root (never root itself,
// which carries no task attributes of its own) and replays each
// node's own fixed commitments into its cells.
func applyCommitments(tree *configtree.Tree, id configtree.NodeID) {
	n := tree.Node(id)
	for _, childID := range n.Children {
		transferLocalCommitments(tree, childID)
		applyCommitments(tree, childID)
	}
}

// transferLocalCommitments replays id's own "C<time>" entries, in
// time order, against its owner's availability row. A node with no
// owner at all stops at its first commitment with a single note — a
// task can't commit resource without someone to commit it from. A
// "who" that names no valid person is noted against every commitment.
func transferLocalCommitments(tree *configtree.Tree, id configtree.NodeID) {
	n := tree.Node(id)
	validPeople := tree.ValidPeople()

	for _, c := range tree.Commitments(id) {
		who, err := tree.Who(id, validPeople)
		if err != nil {
			n.AddNote(fmt.Sprintf("commitment at %s: %s", c.When, err))
			continue
		}
		if who == "" {
			n.AddNote(fmt.Sprintf("commitment at %s but task has no owner", c.When))
			return
		}

		personRow := tree.Root().People[who]
		start := c.When.Quarter()
		end := start + uint32(c.Duration.Quarters())
		res := personRow.FillTransferTo(n.Cells, uint32(c.Duration.Quarters()), start, end)
		if res.Remaining > 0 {
			n.AddNote(fmt.Sprintf("commitment at %s for %s: %d quarter-days did not fit %s's availability",
				c.When, c.Duration, res.Remaining, who))
		}
	}
}
