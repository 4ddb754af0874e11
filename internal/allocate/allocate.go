package allocate

import (
	"fmt"

	"github.com/rgefryer/planner/internal/configtree"
	"github.com/rgefryer/planner/internal/quarter"
)

// Run executes the full four-pass allocation over tree: commitments,
// non-managed strategies, management overhead, managed strategies.
// Each node accumulates its own diagnostics via Node.AddNote rather
// than aborting the run; the only error this returns is one that makes
// the whole result meaningless (an unparsable chart boundary).
func Run(tree *configtree.Tree) error {
	chartEnd, err := quarter.Parse(fmt.Sprintf("%d.5.4", tree.Weeks))
	if err != nil {
		return fmt.Errorf("computing chart end: %w", err)
	}
	chartStart := tree.ConfigTime("today", quarter.FromQuarter(0))

	applyCommitments(tree, configtree.RootID)

	root := tree.Node(configtree.RootID)
	for _, childID := range root.Children {
		allocateTaskResource(tree, childID, chartStart, chartEnd, false)
	}

	applyManagementOverhead(tree)

	for _, childID := range root.Children {
		allocateTaskResource(tree, childID, chartStart, chartEnd, true)
	}

	return nil
}
