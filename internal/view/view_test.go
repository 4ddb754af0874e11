package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgefryer/planner/internal/allocate"
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

const projectChart = `
[people]
  - alice: 1..
  - bob: 1..

design
  - who: alice
  - resource: frontload
  - plan: 5
`

func TestProjectListsPeopleBeforeTasks(t *testing.T) {
	tree := buildFromChart(t, projectChart, 5)
	require.NoError(t, allocate.Run(tree))

	rows := Project(tree)
	require.Len(t, rows, 3)

	assert.True(t, rows[0].IsResource)
	assert.Equal(t, "alice", rows[0].Name)
	assert.True(t, rows[1].IsResource)
	assert.Equal(t, "bob", rows[1].Name)

	assert.False(t, rows[2].IsResource)
	assert.Equal(t, "design", rows[2].Name)
}

func TestProjectSkipsBracketedNodes(t *testing.T) {
	tree := buildFromChart(t, projectChart, 5)
	require.NoError(t, allocate.Run(tree))

	rows := Project(tree)
	for _, r := range rows {
		if !r.IsResource {
			assert.NotEqual(t, "[people]", r.Name)
			assert.NotEqual(t, "[chart]", r.Name)
		}
	}
}

func TestProjectComputesPlanAndLeft(t *testing.T) {
	tree := buildFromChart(t, projectChart, 5)
	require.NoError(t, allocate.Run(tree))

	rows := Project(tree)
	var design Row
	for _, r := range rows {
		if r.Name == "design" {
			design = r
		}
	}

	assert.EqualValues(t, 5, design.Plan)
	assert.EqualValues(t, 5, design.Left+design.Done)
	assert.Equal(t, "alice", design.Who)
}

func TestProjectWeeklyNumbersSumToAllocated(t *testing.T) {
	tree := buildFromChart(t, projectChart, 5)
	require.NoError(t, allocate.Run(tree))

	rows := Project(tree)
	for _, r := range rows {
		if r.Name != "design" {
			continue
		}
		var total float64
		for _, d := range r.Weekly {
			total += d
		}
		assert.InDelta(t, 5.0, total, 0.001)
	}
}
