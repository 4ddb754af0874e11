package configtree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgefryer/planner/internal/source"
)

func buildFromChart(t *testing.T, chart string, weeks uint32) *Tree {
	t.Helper()
	src, err := source.Read(strings.NewReader(chart), "test.chart", source.DefaultReaderOptions())
	require.NoError(t, err)
	tree, err := Build(src, weeks)
	require.NoError(t, err)
	return tree
}

const minimalChart = `
[people]
  - alice: 1..
  - bob: 1..

design
  - who: alice
  implementation
    - who: bob
    - plan: 10
`

func TestBuildNestsChildrenByIndent(t *testing.T) {
	tree := buildFromChart(t, minimalChart, 20)

	designID := tree.FindChildWithName(RootID, "design")
	require.NotZero(t, designID)
	design := tree.Node(designID)
	assert.Equal(t, 1, design.Level)
	require.Len(t, design.Children, 1)

	implID := design.Children[0]
	impl := tree.Node(implID)
	assert.Equal(t, "implementation", impl.Name)
	assert.Equal(t, 2, impl.Level)
	assert.True(t, impl.IsLeaf())
	assert.Equal(t, "10", impl.Attributes["plan"])
}

func TestBuildSiblingsShareParent(t *testing.T) {
	chart := `
[people]
  - alice: 1..

design
  step-one
  step-two
`
	tree := buildFromChart(t, chart, 10)
	designID := tree.FindChildWithName(RootID, "design")
	design := tree.Node(designID)
	require.Len(t, design.Children, 2)
	assert.Equal(t, "step-one", tree.Node(design.Children[0]).Name)
	assert.Equal(t, "step-two", tree.Node(design.Children[1]).Name)
}

func TestBuildPopulatesPeopleOnRoot(t *testing.T) {
	tree := buildFromChart(t, minimalChart, 5)
	root := tree.Root()
	require.Contains(t, root.People, "alice")
	require.Contains(t, root.People, "bob")
	assert.EqualValues(t, 100, root.People["alice"].Count())
}

func TestBuildRequiresPeopleNode(t *testing.T) {
	src, err := source.Read(strings.NewReader("design\n  - plan: 5\n"), "test.chart", source.DefaultReaderOptions())
	require.NoError(t, err)
	_, err = Build(src, 10)
	assert.Error(t, err)
}

func TestFindChildWithNameMissing(t *testing.T) {
	tree := buildFromChart(t, minimalChart, 20)
	assert.Zero(t, tree.FindChildWithName(RootID, "no-such-node"))
}

func TestNodeAtLine(t *testing.T) {
	tree := buildFromChart(t, minimalChart, 20)
	designID := tree.FindChildWithName(RootID, "design")
	design := tree.Node(designID)
	assert.Equal(t, designID, tree.NodeAtLine(design.LineNum))
	assert.Zero(t, tree.NodeAtLine(99999))
}
