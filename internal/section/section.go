// Package section builds a nested document outline from the flat,
// position-ordered header list an extractor detects, and resolves chunk
// positions back to their enclosing section.
package section

import (
	"sort"
	"strings"
)

// Header is a detected document heading. Level 1 is the top level and
// Position is a monotonic ordering key (line number, row index, page).
type Header struct {
	Text     string
	Level    int
	Position int
}

// Node is one resolved outline entry. Path lists every ancestor heading
// text including the node's own, outermost first.
type Node struct {
	Text     string
	Position int
	Level    int
	Path     []string
	FullPath string
}

// BuildHierarchy resolves a flat header list into nested paths. Input order
// is not trusted; headers are sorted by position first. Malformed level
// sequences (skipped levels, repeated levels) degrade gracefully: a header
// simply nests under whatever chain is still active at its position. Never
// returns an error.
func BuildHierarchy(headers []Header) []Node {
	if len(headers) == 0 {
		return nil
	}

	sorted := make([]Header, len(headers))
	copy(sorted, headers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	nodes := make([]Node, 0, len(sorted))
	var stack []Header

	for _, h := range sorted {
		level := h.Level
		if level < 1 {
			level = 1
		}
		// Close every section at or below this header's level. A level-1
		// header empties the stack entirely.
		for len(stack) >= level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, h)

		path := make([]string, len(stack))
		for i, s := range stack {
			path[i] = s.Text
		}
		nodes = append(nodes, Node{
			Text:     h.Text,
			Position: h.Position,
			Level:    level,
			Path:     path,
			FullPath: strings.Join(path, " > "),
		})
	}

	return nodes
}

// NearestNode returns the node with the greatest position <= pos, or nil
// when no node precedes pos. Nodes must be in position order, as produced
// by BuildHierarchy.
func NearestNode(nodes []Node, pos int) *Node {
	idx := -1
	for i := range nodes {
		if nodes[i].Position <= pos {
			idx = i
		} else {
			break
		}
	}
	if idx < 0 {
		return nil
	}
	return &nodes[idx]
}
