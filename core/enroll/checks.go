package enroll

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/campusops/registrar/core/catalog"
)

func evalRequirement(req catalog.Requirement, in *Input, waived map[string]bool) (RequirementResult, error) {
	rr := RequirementResult{RequirementID: req.ID, Required: req.Required}

	switch req.Kind {
	case catalog.ReqCourse:
		if in.Courses != nil {
			// a leaf pointing at a course the catalog does not know is a
			// data-integrity fault, not an ineligible student
			if _, ok := in.Courses[req.CourseID]; !ok {
				return RequirementResult{}, errors.Wrapf(catalog.ErrUnknownCourse,
					"requirement %s: %s", req.ID, req.CourseID)
			}
		}
		rr.CourseID = req.CourseID
		rr.MinGrade = req.MinGrade
		cc, done := in.Profile.CompletedCourse(req.CourseID)
		switch {
		case done && cc.Grade.AtLeast(req.MinGrade):
			rr.Satisfied = true
			rr.CompletedGrade = cc.Grade
		case done:
			rr.Reason = fmt.Sprintf("grade %s in %s is below the required minimum %s", cc.Grade, req.CourseID, req.MinGrade)
			rr.SuggestedAction = fmt.Sprintf("Retake %s and earn a grade of %s or better", req.CourseID, req.MinGrade)
		default:
			rr.Reason = fmt.Sprintf("course %s not completed", req.CourseID)
			rr.SuggestedAction = fmt.Sprintf("Complete %s with a grade of %s or better", req.CourseID, req.MinGrade)
		}

	case catalog.ReqCreditHours:
		if in.Profile.CreditHours >= req.MinCreditHours {
			rr.Satisfied = true
		} else {
			rr.Reason = fmt.Sprintf("%d credit hours completed; %d required", in.Profile.CreditHours, req.MinCreditHours)
			rr.SuggestedAction = fmt.Sprintf("Complete %d more credit hours", req.MinCreditHours-in.Profile.CreditHours)
		}

	case catalog.ReqClassStanding:
		if in.Profile.Standing.AtLeast(req.MinStanding) {
			rr.Satisfied = true
		} else {
			rr.Reason = fmt.Sprintf("class standing %s is below the required %s", in.Profile.Standing, req.MinStanding)
			rr.SuggestedAction = fmt.Sprintf("Reach %s standing before enrolling", req.MinStanding)
		}

	case catalog.ReqPermission:
		granted, err := hasPermission(in, req.Permission)
		if err != nil {
			return RequirementResult{}, err
		}
		if granted {
			rr.Satisfied = true
		} else {
			rr.Reason = fmt.Sprintf("permission %q not granted", req.Permission)
			rr.SuggestedAction = "Request instructor or department permission"
		}

	case catalog.ReqGPA:
		if in.Profile.GPA >= req.MinGPA {
			rr.Satisfied = true
		} else {
			rr.Reason = fmt.Sprintf("GPA %.2f is below the required minimum %.2f", in.Profile.GPA, req.MinGPA)
			rr.SuggestedAction = fmt.Sprintf("Raise cumulative GPA to %.2f", req.MinGPA)
		}

	default:
		return RequirementResult{}, errors.Errorf("unknown requirement kind %q", req.Kind)
	}

	// an approved, non-expired override converts the failed leaf
	if !rr.Satisfied && waived[req.ID] {
		rr.Satisfied = true
		rr.Waived = true
		rr.Reason = ""
		rr.SuggestedAction = ""
	}
	return rr, nil
}

func evalRestriction(r catalog.Restriction, in *Input) (RestrictionResult, error) {
	rr := RestrictionResult{RestrictionID: r.ID, Kind: r.Kind, Level: r.Level}

	var match bool
	switch r.Kind {
	case catalog.RestrictMajor:
		for _, v := range r.Values {
			if in.Profile.HasMajor(v) {
				match = true
				break
			}
		}
	case catalog.RestrictClassStanding:
		for _, v := range r.Values {
			if string(in.Profile.Standing) == v {
				match = true
				break
			}
		}
	case catalog.RestrictPermission:
		for _, v := range r.Values {
			granted, err := hasPermission(in, v)
			if err != nil {
				return RestrictionResult{}, err
			}
			if granted {
				match = true
				break
			}
		}
	default:
		return RestrictionResult{}, errors.Errorf("unknown restriction kind %q", r.Kind)
	}

	// inclusion lists require a match; exclusion lists forbid one
	rr.Passed = match != r.Exclude
	if !rr.Passed {
		verb := "is restricted to"
		if r.Exclude {
			verb = "is closed to"
		}
		rr.Message = fmt.Sprintf("course %s %s %s: %v", r.CourseID, verb, r.Kind, r.Values)
		rr.Blocking = r.Level == catalog.LevelHard || in.Policy.SoftRestrictionBlocks
	}
	return rr, nil
}

func evalCorequisite(c catalog.Corequisite, in *Input, waived map[string]bool) CorequisiteResult {
	cr := CorequisiteResult{
		CorequisiteID:    c.ID,
		RequiredCourseID: c.RequiredCourseID,
		Enforcement:      c.Enforcement,
	}

	enrolled := in.Profile.InCurrentTerm(c.RequiredCourseID)
	switch c.Enforcement {
	case catalog.TakeBeforeOrWith:
		if enrolled {
			cr.Satisfied = true
		} else if cc, ok := in.Profile.CompletedCourse(c.RequiredCourseID); ok && cc.Grade.Passing() {
			cr.Satisfied = true
		}
	default: // TakeSimultaneously
		cr.Satisfied = enrolled
	}

	if !cr.Satisfied && c.Waivable && waived[c.ID] {
		cr.Satisfied = true
		cr.Waived = true
	}

	if !cr.Satisfied {
		switch c.OnFailure {
		case catalog.RequireAdvisorApproval:
			cr.NeedsAdvisorApproval = true
			cr.Message = fmt.Sprintf("corequisite %s not met; advisor approval required", c.RequiredCourseID)
		default: // BlockEnrollment
			cr.Blocking = true
			cr.Message = fmt.Sprintf("must be taken together with %s", c.RequiredCourseID)
		}
	}
	return cr
}

func hasPermission(in *Input, permission string) (bool, error) {
	if in.Permissions == nil {
		return false, nil
	}
	granted, err := in.Permissions.HasPermission(in.Profile.ID, permission)
	if err != nil {
		return false, errors.Wrapf(err, "checking permission %q", permission)
	}
	return granted, nil
}

func overallStatus(res *Result) Status {
	if res.Valid {
		return StatusSatisfied
	}
	for _, rr := range res.Requirements {
		if rr.Satisfied {
			return StatusPartiallySatisfied
		}
	}
	for _, rr := range res.Restrictions {
		if rr.Passed {
			return StatusPartiallySatisfied
		}
	}
	return StatusFailed
}

// collectMissing gathers course entries for every unsatisfied leaf on a
// failing path. andOnly tracks whether every group from the root down is a
// conjunction; such leaves are Critical, alternatives under an OR are
// Optional.
func collectMissing(lr *LogicResult, andOnly bool, in *Input, seen map[string]bool, out *[]MissingRequirement) {
	if lr.Satisfied {
		return
	}
	if lr.Requirement != nil {
		rr := lr.Requirement
		if rr.CourseID != "" && !seen[rr.CourseID] {
			seen[rr.CourseID] = true
			priority := PriorityOptional
			if andOnly {
				priority = PriorityCritical
			}
			missing := MissingRequirement{
				CourseID: rr.CourseID,
				MinGrade: rr.MinGrade,
				Priority: priority,
			}
			if course, ok := in.Courses[rr.CourseID]; ok {
				missing.Title = course.Title
			}
			*out = append(*out, missing)
		}
		return
	}
	childAndOnly := andOnly && lr.Op == catalog.OpAnd
	for _, child := range lr.Children {
		collectMissing(child, childAndOnly, in, seen, out)
	}
}
