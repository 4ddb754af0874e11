package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadClassifiesNodesAndAttributes(t *testing.T) {
	chart := strings.Join([]string{
		"design # top-level node",
		"  - plan: 10",
		"  implementation",
		"    - who: alice",
	}, "\n")

	src, err := Read(strings.NewReader(chart), "test.chart", DefaultReaderOptions())
	require.NoError(t, err)

	tok, ok := src.Next()
	require.True(t, ok)
	require.True(t, tok.IsNode())
	assert.Equal(t, "design", tok.Node.Name)
	assert.Equal(t, 1, tok.Node.Indent)

	tok, ok = src.Next()
	require.True(t, ok)
	require.False(t, tok.IsNode())
	assert.Equal(t, "plan", tok.Attribute.Key)
	assert.Equal(t, "10", tok.Attribute.Value)

	tok, ok = src.Next()
	require.True(t, ok)
	require.True(t, tok.IsNode())
	assert.Equal(t, "implementation", tok.Node.Name)
	assert.Equal(t, 3, tok.Node.Indent)

	tok, ok = src.Next()
	require.True(t, ok)
	assert.Equal(t, "who", tok.Attribute.Key)
	assert.Equal(t, "alice", tok.Attribute.Value)

	_, ok = src.Next()
	assert.False(t, ok)
}

func TestReadSkipsBlankAndCommentOnlyLines(t *testing.T) {
	chart := "design\n\n  # just a comment\n  - budget: 5\n"
	src, err := Read(strings.NewReader(chart), "test.chart", DefaultReaderOptions())
	require.NoError(t, err)

	tok, _ := src.Next()
	assert.True(t, tok.IsNode())
	tok, _ = src.Next()
	assert.Equal(t, "budget", tok.Attribute.Key)
	_, ok := src.Next()
	assert.False(t, ok)
}

func TestReadLenientSkipsMalformedAttributeLine(t *testing.T) {
	chart := "design\n  - : badkey\n  - plan: 10\n"
	src, err := Read(strings.NewReader(chart), "test.chart", DefaultReaderOptions())
	require.NoError(t, err)

	tok, _ := src.Next()
	assert.True(t, tok.IsNode())
	tok, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, "plan", tok.Attribute.Key)
}

func TestReadStrictFailsOnMalformedAttributeLine(t *testing.T) {
	chart := "design\n  - novalue\n"
	_, err := Read(strings.NewReader(chart), "test.chart", ReaderOptions{Strict: true})
	assert.Error(t, err)
}

func TestPeekDoesNotConsume(t *testing.T) {
	src, err := Read(strings.NewReader("design\n"), "test.chart", DefaultReaderOptions())
	require.NoError(t, err)

	first, ok := src.Peek()
	require.True(t, ok)
	second, ok := src.Peek()
	require.True(t, ok)
	assert.Equal(t, first, second)

	consumed, _ := src.Next()
	assert.Equal(t, first, consumed)
	_, ok = src.Peek()
	assert.False(t, ok)
}
