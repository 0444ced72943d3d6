package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHierarchyBasic(t *testing.T) {
	nodes := BuildHierarchy([]Header{
		{Text: "A", Level: 1, Position: 1},
		{Text: "B", Level: 2, Position: 2},
		{Text: "C", Level: 1, Position: 3},
	})

	require.Len(t, nodes, 3)
	assert.Equal(t, []string{"A"}, nodes[0].Path)
	assert.Equal(t, []string{"A", "B"}, nodes[1].Path)
	assert.Equal(t, []string{"C"}, nodes[2].Path)
	assert.Equal(t, "A > B", nodes[1].FullPath)
}

func TestBuildHierarchySkippedLevel(t *testing.T) {
	nodes := BuildHierarchy([]Header{
		{Text: "A", Level: 1, Position: 1},
		{Text: "B", Level: 3, Position: 2},
	})

	require.Len(t, nodes, 2)
	assert.Equal(t, []string{"A", "B"}, nodes[1].Path)
}

func TestBuildHierarchyUnsortedInput(t *testing.T) {
	nodes := BuildHierarchy([]Header{
		{Text: "Later", Level: 1, Position: 10},
		{Text: "First", Level: 1, Position: 1},
		{Text: "Sub", Level: 2, Position: 5},
	})

	require.Len(t, nodes, 3)
	assert.Equal(t, "First", nodes[0].Text)
	assert.Equal(t, []string{"First", "Sub"}, nodes[1].Path)
	assert.Equal(t, []string{"Later"}, nodes[2].Path)
}

func TestBuildHierarchyDeepThenReset(t *testing.T) {
	nodes := BuildHierarchy([]Header{
		{Text: "A", Level: 1, Position: 1},
		{Text: "B", Level: 2, Position: 2},
		{Text: "C", Level: 3, Position: 3},
		{Text: "D", Level: 2, Position: 4},
		{Text: "E", Level: 1, Position: 5},
	})

	require.Len(t, nodes, 5)
	assert.Equal(t, []string{"A", "B", "C"}, nodes[2].Path)
	assert.Equal(t, []string{"A", "D"}, nodes[3].Path)
	assert.Equal(t, []string{"E"}, nodes[4].Path)
}

func TestBuildHierarchyEmpty(t *testing.T) {
	assert.Nil(t, BuildHierarchy(nil))
	assert.Nil(t, BuildHierarchy([]Header{}))
}

func TestBuildHierarchyZeroLevel(t *testing.T) {
	nodes := BuildHierarchy([]Header{
		{Text: "X", Level: 0, Position: 1},
		{Text: "Y", Level: 2, Position: 2},
	})

	require.Len(t, nodes, 2)
	assert.Equal(t, 1, nodes[0].Level)
	assert.Equal(t, []string{"X", "Y"}, nodes[1].Path)
}

func TestNearestNode(t *testing.T) {
	nodes := BuildHierarchy([]Header{
		{Text: "A", Level: 1, Position: 10},
		{Text: "B", Level: 2, Position: 20},
		{Text: "C", Level: 1, Position: 30},
	})

	assert.Nil(t, NearestNode(nodes, 5))
	assert.Equal(t, "A", NearestNode(nodes, 10).Text)
	assert.Equal(t, "A", NearestNode(nodes, 15).Text)
	assert.Equal(t, "B", NearestNode(nodes, 25).Text)
	assert.Equal(t, "C", NearestNode(nodes, 99).Text)
}
