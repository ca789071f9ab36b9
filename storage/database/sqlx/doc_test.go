package sqlxrepos

import (
	"reflect"
	"testing"

	"github.com/campusops/registrar/core/catalog"
)

func TestRuleTreeDocument(t *testing.T) {
	root := catalog.Group{
		ID: "root",
		Op: catalog.OpAnd,
		Children: []catalog.Node{
			catalog.Leaf{Requirement: catalog.Requirement{
				ID:       "req-cs201",
				Kind:     catalog.ReqCourse,
				CourseID: "CS201",
				MinGrade: catalog.GradeCPlus,
				Required: true,
			}},
			catalog.Group{
				ID: "grp-math",
				Op: catalog.OpOr,
				Children: []catalog.Node{
					catalog.Leaf{Requirement: catalog.Requirement{
						ID: "req-math210", Kind: catalog.ReqCourse, CourseID: "MATH210", MinGrade: catalog.GradeC,
					}},
					catalog.Leaf{Requirement: catalog.Requirement{
						ID: "req-gpa", Kind: catalog.ReqGPA, MinGPA: 3.0, Waivable: true,
					}},
				},
			},
		},
	}

	data, err := marshalRoot(root)
	if err != nil {
		t.Fatalf("marshalRoot() error = %v", err)
	}
	got, err := unmarshalRoot(data)
	if err != nil {
		t.Fatalf("unmarshalRoot() error = %v", err)
	}
	if !reflect.DeepEqual(got, catalog.Node(root)) {
		t.Errorf("decoded tree differs:\ngot:  %+v\nwant: %+v", got, root)
	}

	// a leaf survives as a leaf, not an empty group
	leaf := catalog.Leaf{Requirement: catalog.Requirement{
		ID: "req-1", Kind: catalog.ReqCreditHours, MinCreditHours: 60, Required: true,
	}}
	data, err = marshalRoot(leaf)
	if err != nil {
		t.Fatalf("marshalRoot() error = %v", err)
	}
	got, err = unmarshalRoot(data)
	if err != nil {
		t.Fatalf("unmarshalRoot() error = %v", err)
	}
	if _, ok := got.(catalog.Leaf); !ok {
		t.Fatalf("decoded node is %T, want a leaf", got)
	}
	if !reflect.DeepEqual(got, catalog.Node(leaf)) {
		t.Errorf("decoded leaf differs: %+v", got)
	}
}

func TestMarshalRootNil(t *testing.T) {
	if _, err := marshalRoot(nil); err == nil {
		t.Error("marshalRoot(nil) error = nil")
	}
}
