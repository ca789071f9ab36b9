package catalog

import (
	"errors"
	"testing"

	"github.com/campusops/registrar/core"
)

func validCourseLeaf(id, courseID string) Leaf {
	return Leaf{Requirement: Requirement{
		ID:       id,
		Kind:     ReqCourse,
		CourseID: courseID,
		MinGrade: GradeC,
		Required: true,
	}}
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr error
	}{
		{
			name: "valid single leaf",
			rule: Rule{ID: "r1", CourseID: "CS301", Root: validCourseLeaf("req-1", "CS201")},
		},
		{
			name: "valid nested groups",
			rule: Rule{ID: "r2", CourseID: "CS450", Root: Group{
				ID: "root",
				Op: OpAnd,
				Children: []Node{
					validCourseLeaf("req-1", "CS301"),
					Group{ID: "alts", Op: OpOr, Children: []Node{
						validCourseLeaf("req-2", "CS310"),
						validCourseLeaf("req-3", "CS320"),
					}},
				},
			}},
		},
		{
			name:    "no owning course",
			rule:    Rule{ID: "r3", Root: validCourseLeaf("req-1", "CS201")},
			wantErr: &core.ValidationError{},
		},
		{
			name:    "nil root",
			rule:    Rule{ID: "r4", CourseID: "CS301"},
			wantErr: ErrEmptyRule,
		},
		{
			name:    "empty group",
			rule:    Rule{ID: "r5", CourseID: "CS301", Root: Group{ID: "root", Op: OpAnd}},
			wantErr: ErrEmptyRule,
		},
		{
			name: "nil child",
			rule: Rule{ID: "r6", CourseID: "CS301", Root: Group{
				ID: "root", Op: OpAnd, Children: []Node{nil},
			}},
			wantErr: ErrEmptyRule,
		},
		{
			name: "unknown operator",
			rule: Rule{ID: "r7", CourseID: "CS301", Root: Group{
				ID: "root", Op: "XOR", Children: []Node{validCourseLeaf("req-1", "CS201")},
			}},
			wantErr: ErrUnknownOperator,
		},
		{
			name: "empty nested group",
			rule: Rule{ID: "r8", CourseID: "CS301", Root: Group{
				ID: "root", Op: OpAnd, Children: []Node{
					validCourseLeaf("req-1", "CS201"),
					Group{ID: "empty", Op: OpOr},
				},
			}},
			wantErr: ErrEmptyRule,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			var vErr *core.ValidationError
			if errors.As(tt.wantErr, &vErr) {
				if !errors.As(err, &vErr) {
					t.Errorf("Validate() error = %v, want a validation error", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequirementPayloadValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   Requirement
		valid bool
	}{
		{
			name:  "course ok",
			req:   Requirement{ID: "r", Kind: ReqCourse, CourseID: "CS201", MinGrade: GradeCMinus},
			valid: true,
		},
		{name: "course without id", req: Requirement{ID: "r", Kind: ReqCourse, MinGrade: GradeC}},
		{name: "course with bad grade", req: Requirement{ID: "r", Kind: ReqCourse, CourseID: "CS201", MinGrade: "Z"}},
		{
			name:  "credit hours ok",
			req:   Requirement{ID: "r", Kind: ReqCreditHours, MinCreditHours: 60},
			valid: true,
		},
		{name: "credit hours zero", req: Requirement{ID: "r", Kind: ReqCreditHours}},
		{
			name:  "standing ok",
			req:   Requirement{ID: "r", Kind: ReqClassStanding, MinStanding: StandingJunior},
			valid: true,
		},
		{name: "standing bogus", req: Requirement{ID: "r", Kind: ReqClassStanding, MinStanding: "emeritus"}},
		{
			name:  "permission ok",
			req:   Requirement{ID: "r", Kind: ReqPermission, Permission: "instructor_approval"},
			valid: true,
		},
		{name: "permission empty", req: Requirement{ID: "r", Kind: ReqPermission}},
		{
			name:  "gpa ok",
			req:   Requirement{ID: "r", Kind: ReqGPA, MinGPA: 2.5},
			valid: true,
		},
		{name: "gpa above scale", req: Requirement{ID: "r", Kind: ReqGPA, MinGPA: 4.5}},
		{name: "unknown kind", req: Requirement{ID: "r", Kind: "attendance"}},
		{name: "missing id", req: Requirement{Kind: ReqGPA, MinGPA: 2.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateNode(Leaf{Requirement: tt.req})
			if tt.valid && err != nil {
				t.Errorf("validateNode() error = %v, want nil", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("validateNode() error = nil")
				}
				var vErr *core.ValidationError
				if !errors.As(err, &vErr) || len(vErr.Fields) == 0 {
					t.Errorf("validateNode() error = %v, want field errors", err)
				}
			}
		})
	}
}
