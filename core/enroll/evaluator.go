package enroll

import (
	"time"

	"github.com/pkg/errors"

	"github.com/campusops/registrar/core/catalog"
	"github.com/campusops/registrar/core/override"
	"github.com/campusops/registrar/core/student"
)

// PermissionChecker answers permission-grant lookups for Permission
// requirements and restrictions. Grant management itself lives elsewhere.
type PermissionChecker interface {
	HasPermission(studentID, permission string) (bool, error)
}

// Policy holds the configurable evaluation behavior.
type Policy struct {
	// SoftRestrictionBlocks makes a failed Soft restriction block enrollment
	// instead of only producing a warning.
	SoftRestrictionBlocks bool
}

// Input is everything one evaluation works from. The evaluator reads it and
// never writes to it, so a shared catalog map may back concurrent calls.
type Input struct {
	Profile student.Profile
	Course  catalog.Course
	// Courses is the known catalog, used for titles and reference checks.
	// A nil map skips the dangling-reference check.
	Courses      map[string]catalog.Course
	Rule         *catalog.Rule // nil when the course has no prerequisites
	Corequisites []catalog.Corequisite
	Restrictions []catalog.Restriction
	Overrides    []override.Override
	Permissions  PermissionChecker
	Policy       Policy
	Now          time.Time
}

// Evaluate walks the course's rule tree, restrictions and corequisites
// against the student snapshot and returns the full verdict. It is a pure
// function of its input: no I/O, no shared state, and identical inputs yield
// identical results. An error return means malformed configuration or a
// failing collaborator, never "student not eligible".
func Evaluate(in Input) (Result, error) {
	res := Result{CourseID: in.Course.ID, StudentID: in.Profile.ID}

	waived := activeWaivers(in.Overrides, in.Now)

	rootOK := true
	if in.Rule != nil {
		if in.Rule.Root == nil {
			return Result{}, errors.Wrapf(catalog.ErrEmptyRule, "rule %s", in.Rule.ID)
		}
		logic, err := evalNode(in.Rule.Root, &in, waived, &res)
		if err != nil {
			return Result{}, err
		}
		res.Logic = logic
		rootOK = logic.Satisfied
	}

	restrOK := true
	for _, r := range in.Restrictions {
		rr, err := evalRestriction(r, &in)
		if err != nil {
			return Result{}, err
		}
		res.Restrictions = append(res.Restrictions, rr)
		if rr.Blocking {
			restrOK = false
		} else if !rr.Passed {
			res.Warnings = append(res.Warnings, rr.Message)
		}
	}

	coreqOK := true
	for _, c := range in.Corequisites {
		cr := evalCorequisite(c, &in, waived)
		res.Corequisites = append(res.Corequisites, cr)
		if cr.Blocking {
			coreqOK = false
		}
		if cr.NeedsAdvisorApproval {
			res.NeedsAdvisorApproval = true
			res.Warnings = append(res.Warnings, cr.Message)
		}
	}

	res.Valid = rootOK && restrOK && coreqOK
	res.Status = overallStatus(&res)
	if res.Logic != nil && !res.Logic.Satisfied {
		seen := make(map[string]bool)
		collectMissing(res.Logic, true, &in, seen, &res.Missing)
	}
	return res, nil
}

func activeWaivers(overrides []override.Override, now time.Time) map[string]bool {
	waived := make(map[string]bool)
	for _, o := range overrides {
		if !o.IsActive(now) {
			continue
		}
		for _, r := range o.Requirements {
			waived[r.RequirementID] = true
		}
	}
	return waived
}

func evalNode(n catalog.Node, in *Input, waived map[string]bool, res *Result) (*LogicResult, error) {
	switch n := n.(type) {
	case catalog.Group:
		if len(n.Children) == 0 {
			return nil, errors.Wrapf(catalog.ErrEmptyRule, "group %s", n.ID)
		}
		lr := &LogicResult{NodeID: n.ID, Op: n.Op}
		switch n.Op {
		case catalog.OpAnd:
			lr.Satisfied = true
		case catalog.OpOr:
			lr.Satisfied = false
		default:
			return nil, errors.Wrapf(catalog.ErrUnknownOperator, "group %s: %q", n.ID, n.Op)
		}
		for _, child := range n.Children {
			clr, err := evalNode(child, in, waived, res)
			if err != nil {
				return nil, err
			}
			lr.Children = append(lr.Children, clr)
			switch n.Op {
			case catalog.OpAnd:
				// an optional leaf does not flip the conjunction
				if !clr.Satisfied && (clr.Requirement == nil || clr.Requirement.Required) {
					lr.Satisfied = false
				}
			case catalog.OpOr:
				if clr.Satisfied {
					lr.Satisfied = true
					lr.SatisfiedBy = append(lr.SatisfiedBy, clr.NodeID)
				}
			}
		}
		return lr, nil
	case catalog.Leaf:
		rr, err := evalRequirement(n.Requirement, in, waived)
		if err != nil {
			return nil, err
		}
		res.Requirements = append(res.Requirements, rr)
		return &LogicResult{
			NodeID:      n.Requirement.ID,
			Satisfied:   rr.Satisfied,
			Requirement: &rr,
		}, nil
	default:
		return nil, errors.Errorf("unknown rule node type %T", n)
	}
}
