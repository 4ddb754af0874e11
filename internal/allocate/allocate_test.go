package allocate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgefryer/planner/internal/configtree"
	"github.com/rgefryer/planner/internal/source"
)

func buildFromChart(t *testing.T, chart string, weeks uint32) *configtree.Tree {
	t.Helper()
	src, err := source.Read(strings.NewReader(chart), "test.chart", source.DefaultReaderOptions())
	require.NoError(t, err)
	tree, err := configtree.Build(src, weeks)
	require.NoError(t, err)
	return tree
}

func TestCommitmentsFillFromOwnerRow(t *testing.T) {
	chart := `
[people]
  - alice: 1..

design
  - who: alice
  - C1.1: 4
`
	tree := buildFromChart(t, chart, 5)
	require.NoError(t, Run(tree))

	designID := tree.FindChildWithName(configtree.RootID, "design")
	design := tree.Node(designID)

	// "C1.1: 4" commits 4 days (16 quarter-days) starting at week 1 day 1.
	assert.EqualValues(t, 16, design.Cells.CountRange(0, 16))
	assert.False(t, tree.Root().People["alice"].IsSet(0))
}

func TestCommitmentWithNoOwnerAddsNote(t *testing.T) {
	chart := `
[people]
  - alice: 1..

orphan
  - C1.1: 4
`
	tree := buildFromChart(t, chart, 5)
	require.NoError(t, Run(tree))

	orphanID := tree.FindChildWithName(configtree.RootID, "orphan")
	orphan := tree.Node(orphanID)
	require.NotEmpty(t, orphan.Notes)
}

func TestFrontLoadAllocatesFromStart(t *testing.T) {
	chart := `
[people]
  - alice: 1..

design
  - who: alice
  - resource: frontload
  - plan: 5
`
	tree := buildFromChart(t, chart, 5)
	require.NoError(t, Run(tree))

	designID := tree.FindChildWithName(configtree.RootID, "design")
	design := tree.Node(designID)

	assert.EqualValues(t, 20, design.Cells.Count())
	for q := uint32(0); q < 20; q++ {
		assert.True(t, design.Cells.IsSet(q), "cell %d should be allocated", q)
	}
	for q := uint32(20); q < 100; q++ {
		assert.False(t, design.Cells.IsSet(q), "cell %d should not be allocated", q)
	}
}

func TestBackLoadAllocatesFromEnd(t *testing.T) {
	chart := `
[people]
  - alice: 1..

design
  - who: alice
  - resource: backload
  - plan: 5
`
	tree := buildFromChart(t, chart, 5)
	require.NoError(t, Run(tree))

	designID := tree.FindChildWithName(configtree.RootID, "design")
	design := tree.Node(designID)

	assert.EqualValues(t, 20, design.Cells.Count())
	for q := uint32(80); q < 100; q++ {
		assert.True(t, design.Cells.IsSet(q), "cell %d should be allocated", q)
	}
	for q := uint32(0); q < 80; q++ {
		assert.False(t, design.Cells.IsSet(q), "cell %d should not be allocated", q)
	}
}

func TestNeverDoubleAllocatesAcrossTasks(t *testing.T) {
	chart := `
[people]
  - alice: 1..

first
  - who: alice
  - resource: frontload
  - plan: 15
second
  - who: alice
  - resource: frontload
  - plan: 15
`
	tree := buildFromChart(t, chart, 5)
	require.NoError(t, Run(tree))

	firstID := tree.FindChildWithName(configtree.RootID, "first")
	secondID := tree.FindChildWithName(configtree.RootID, "second")
	first := tree.Node(firstID)
	second := tree.Node(secondID)

	for q := uint32(0); q < 100; q++ {
		assert.False(t, first.Cells.IsSet(q) && second.Cells.IsSet(q), "cell %d double-booked", q)
	}
	// 120 quarter-days requested (15 days each) against alice's 100
	// available quarter-days: every cell gets used exactly once, and
	// the 20 that don't fit are noted rather than double-booked.
	assert.EqualValues(t, 100, first.Cells.Count()+second.Cells.Count())
	assert.NotEmpty(t, second.Notes)
}

func TestSerialSchedulingChainsChildStarts(t *testing.T) {
	chart := `
[people]
  - alice: 1..

project
  - schedule: serial
  step-one
    - who: alice
    - resource: frontload
    - plan: 5
  step-two
    - who: alice
    - resource: frontload
    - plan: 5
`
	tree := buildFromChart(t, chart, 5)
	require.NoError(t, Run(tree))

	projectID := tree.FindChildWithName(configtree.RootID, "project")
	stepTwoID := tree.FindChildWithName(projectID, "step-two")
	stepTwo := tree.Node(stepTwoID)

	// step-one consumes the whole first week (quarters 0..20), so
	// step-two must not start before quarter 20.
	for q := uint32(0); q < 20; q++ {
		assert.False(t, stepTwo.Cells.IsSet(q), "step-two cell %d should not start before week 2", q)
	}
	assert.EqualValues(t, 20, stepTwo.Cells.Count())
}

func TestSmearRemainingSpreadsAcrossWindow(t *testing.T) {
	chart := `
[people]
  - alice: 1..

design
  - who: alice
  - resource: smearremaining
  - plan: 20
`
	tree := buildFromChart(t, chart, 5)
	require.NoError(t, Run(tree))

	designID := tree.FindChildWithName(configtree.RootID, "design")
	design := tree.Node(designID)

	// "plan: 20" is 20 days, i.e. 80 quarter-days.
	assert.EqualValues(t, 80, design.Cells.Count())
	// Evenly spread across all 5 weeks, not clustered at one end.
	weekly := design.Cells.WeeklyNumbers(5)
	for _, count := range weekly {
		assert.EqualValues(t, 16, count)
	}
}

func TestProdSFRSplitsEightyTwenty(t *testing.T) {
	chart := `
[people]
  - alice: 1..

design
  - who: alice
  - resource: prodsfr
  - plan: 10
`
	tree := buildFromChart(t, chart, 5)
	require.NoError(t, Run(tree))

	designID := tree.FindChildWithName(configtree.RootID, "design")
	design := tree.Node(designID)

	assert.EqualValues(t, 40, design.Cells.Count())
}

func TestManagementOverheadAccruesFromOthers(t *testing.T) {
	chart := `
[people]
  - alice: 1..
  - bob: 1..

manager
  - who: alice
  - resource: management
`
	tree := buildFromChart(t, chart, 5)
	require.NoError(t, Run(tree))

	managerID := tree.FindChildWithName(configtree.RootID, "manager")
	manager := tree.Node(managerID)

	// bob is never allocated anywhere, so his availability row stays
	// fully set; alice accrues 0.2 quarter-days per quarter bob remains
	// free, i.e. a full 4 quarter-days every week.
	weekly := manager.Cells.WeeklyNumbers(5)
	for _, count := range weekly {
		assert.EqualValues(t, 4, count)
	}
	assert.EqualValues(t, 20, manager.Cells.Count())
}

func TestEarliestStartNarrowsWindow(t *testing.T) {
	chart := `
[people]
  - alice: 1..

design
  - who: alice
  - resource: frontload
  - earliest-start: 2
  - plan: 5
`
	tree := buildFromChart(t, chart, 5)
	require.NoError(t, Run(tree))

	designID := tree.FindChildWithName(configtree.RootID, "design")
	design := tree.Node(designID)

	for q := uint32(0); q < 20; q++ {
		assert.False(t, design.Cells.IsSet(q), "cell %d before earliest-start should be empty", q)
	}
	assert.EqualValues(t, 20, design.Cells.Count())
}
