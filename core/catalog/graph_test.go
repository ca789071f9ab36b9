package catalog

import (
	"strings"
	"testing"
)

func TestValidateChain(t *testing.T) {
	tests := []struct {
		name  string
		edges []Edge
		ok    bool
	}{
		{name: "no edges", ok: true},
		{
			name: "linear chain",
			edges: []Edge{
				{"CS301", "CS201"},
				{"CS201", "CS101"},
			},
			ok: true,
		},
		{
			name: "diamond is acyclic",
			edges: []Edge{
				{"CS401", "CS301"},
				{"CS401", "CS302"},
				{"CS301", "CS201"},
				{"CS302", "CS201"},
			},
			ok: true,
		},
		{
			name: "shared prerequisite across components",
			edges: []Edge{
				{"CS301", "CS201"},
				{"MATH310", "MATH210"},
				{"PHYS201", "MATH210"},
			},
			ok: true,
		},
		{
			name:  "self loop",
			edges: []Edge{{"CS301", "CS301"}},
		},
		{
			name: "two node cycle",
			edges: []Edge{
				{"CS301", "CS302"},
				{"CS302", "CS301"},
			},
		},
		{
			name: "three node cycle",
			edges: []Edge{
				{"CS301", "CS302"},
				{"CS302", "CS303"},
				{"CS303", "CS301"},
			},
		},
		{
			name: "cycle hidden behind acyclic component",
			edges: []Edge{
				{"ENG101", "ENG100"},
				{"BIO310", "BIO210"},
				{"BIO210", "BIO110"},
				{"BIO110", "BIO310"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateChain(tt.edges)
			if res.OK != tt.ok {
				t.Fatalf("ValidateChain().OK = %v, want %v (cycle %v)", res.OK, tt.ok, res.Cycle)
			}
			if tt.ok {
				if res.Cycle != nil || res.Message != "" {
					t.Errorf("ValidateChain() reported %q on an acyclic graph", res.Message)
				}
				return
			}
			assertCycleWellFormed(t, tt.edges, res)
		})
	}
}

// assertCycleWellFormed checks the reported path: it closes on itself,
// consecutive entries are connected by an input edge, and the message names it.
func assertCycleWellFormed(t *testing.T, edges []Edge, res ChainResult) {
	t.Helper()

	if len(res.Cycle) < 2 {
		t.Fatalf("cycle too short: %v", res.Cycle)
	}
	if res.Cycle[0] != res.Cycle[len(res.Cycle)-1] {
		t.Errorf("cycle does not close on itself: %v", res.Cycle)
	}

	adj := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		adj[e] = true
	}
	for i := 0; i < len(res.Cycle)-1; i++ {
		e := Edge{CourseID: res.Cycle[i], PrerequisiteID: res.Cycle[i+1]}
		if !adj[e] {
			t.Errorf("cycle step %s -> %s is not an input edge", e.CourseID, e.PrerequisiteID)
		}
	}

	if !strings.Contains(res.Message, "circular prerequisite chain") {
		t.Errorf("unexpected message %q", res.Message)
	}
	for _, id := range res.Cycle {
		if !strings.Contains(res.Message, id) {
			t.Errorf("message %q is missing course %s", res.Message, id)
		}
	}
}

func TestValidateChainThreeNodeCycleMembers(t *testing.T) {
	res := ValidateChain([]Edge{
		{"CS301", "CS302"},
		{"CS302", "CS303"},
		{"CS303", "CS301"},
	})
	if res.OK {
		t.Fatal("ValidateChain().OK = true, want cycle")
	}
	if len(res.Cycle) != 4 {
		t.Fatalf("len(Cycle) = %d, want 4: %v", len(res.Cycle), res.Cycle)
	}
	distinct := make(map[string]bool)
	for _, id := range res.Cycle[:3] {
		distinct[id] = true
	}
	if len(distinct) != 3 {
		t.Errorf("cycle members not distinct: %v", res.Cycle)
	}
}

func TestRuleEdges(t *testing.T) {
	rule := Rule{
		ID:       "rule-cs401",
		CourseID: "CS401",
		Root: Group{
			ID: "root",
			Op: OpAnd,
			Children: []Node{
				Leaf{Requirement: Requirement{ID: "r1", Kind: ReqCourse, CourseID: "CS301", MinGrade: GradeC, Required: true}},
				Group{
					ID: "alts",
					Op: OpOr,
					Children: []Node{
						Leaf{Requirement: Requirement{ID: "r2", Kind: ReqCourse, CourseID: "MATH210", MinGrade: GradeC}},
						Leaf{Requirement: Requirement{ID: "r3", Kind: ReqCourse, CourseID: "MATH220", MinGrade: GradeC}},
					},
				},
				Leaf{Requirement: Requirement{ID: "r4", Kind: ReqGPA, MinGPA: 2.5, Required: true}},
			},
		},
	}

	edges := rule.Edges()
	want := []Edge{
		{"CS401", "CS301"},
		{"CS401", "MATH210"},
		{"CS401", "MATH220"},
	}
	if len(edges) != len(want) {
		t.Fatalf("Edges() = %v, want %v", edges, want)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("Edges()[%d] = %v, want %v", i, edges[i], want[i])
		}
	}

	refs := rule.CourseRefs()
	if len(refs) != 3 || refs[0] != "CS301" || refs[1] != "MATH210" || refs[2] != "MATH220" {
		t.Errorf("CourseRefs() = %v", refs)
	}
}
