package catalog

import (
	"fmt"
	"strings"
)

// Edge is a single course -> prerequisite-course dependency.
type Edge struct {
	CourseID       string
	PrerequisiteID string
}

// ChainResult is the outcome of a prerequisite chain check.
type ChainResult struct {
	OK      bool
	Message string
	// Cycle holds the offending path in traversal order when OK is false;
	// consecutive entries are connected by an input edge and the first entry
	// equals the last.
	Cycle []string
}

// ValidateChain detects circular dependencies in a set of prerequisite edges.
// It runs an iterative depth-first traversal from every unvisited node,
// keeping the open path in a recursion-stack set, and stops at the first node
// revisited while still open. Runs in O(V+E); all traversal state is local to
// the call, so concurrent checks over different edge sets are safe.
func ValidateChain(edges []Edge) ChainResult {
	adj := make(map[string][]string, len(edges))
	var nodes []string
	known := make(map[string]bool, len(edges)*2)
	for _, e := range edges {
		adj[e.CourseID] = append(adj[e.CourseID], e.PrerequisiteID)
		if !known[e.CourseID] {
			known[e.CourseID] = true
			nodes = append(nodes, e.CourseID)
		}
		if !known[e.PrerequisiteID] {
			known[e.PrerequisiteID] = true
			nodes = append(nodes, e.PrerequisiteID)
		}
	}

	const (
		white = iota // unvisited
		grey         // on the open path
		black        // fully explored
	)
	color := make(map[string]int, len(nodes))

	type frame struct {
		id   string
		next int
	}

	for _, start := range nodes {
		if color[start] != white {
			continue
		}

		stack := []frame{{id: start}}
		path := []string{start}
		onPath := map[string]bool{start: true}
		color[start] = grey

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next < len(adj[f.id]) {
				n := adj[f.id][f.next]
				f.next++

				if onPath[n] {
					return cycleResult(path, n)
				}
				if color[n] == white {
					color[n] = grey
					onPath[n] = true
					path = append(path, n)
					stack = append(stack, frame{id: n})
				}
			} else {
				color[f.id] = black
				delete(onPath, f.id)
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
			}
		}
	}
	return ChainResult{OK: true}
}

func cycleResult(path []string, closing string) ChainResult {
	start := 0
	for i, id := range path {
		if id == closing {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(path)-start+1)
	cycle = append(cycle, path[start:]...)
	cycle = append(cycle, closing)
	return ChainResult{
		Message: fmt.Sprintf("circular prerequisite chain: %s", strings.Join(cycle, " -> ")),
		Cycle:   cycle,
	}
}
