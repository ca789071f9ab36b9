package enroll

import (
	"errors"
	"time"

	"github.com/campusops/registrar/core"
	"github.com/campusops/registrar/core/catalog"
	"github.com/campusops/registrar/core/override"
	"github.com/campusops/registrar/core/student"
)

var nowFunc = time.Now // mockable

// OverrideSource yields the approved, non-expired overrides for a
// (student, course) pair.
type OverrideSource interface {
	ActiveFor(studentID, courseID string, now time.Time) ([]override.Override, error)
}

// Service assembles evaluation inputs from the stores and runs the evaluator.
// All I/O happens up front; Evaluate itself never blocks.
type Service struct {
	catalogRepo catalog.Repository
	studentRepo student.Repository
	overrides   OverrideSource
	perms       PermissionChecker
	policy      Policy
	log         core.Logger
}

func NewService(
	catalogRepo catalog.Repository,
	studentRepo student.Repository,
	overrides OverrideSource,
	perms PermissionChecker,
	log core.Logger,
	conf *core.Config,
) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		studentRepo: studentRepo,
		overrides:   overrides,
		perms:       perms,
		policy:      Policy{SoftRestrictionBlocks: conf.SoftRestrictionBlocks},
		log:         log,
	}
}

// ValidateEnrollment decides whether a student may enroll in a course.
// A missing student or course propagates as the store's not-found error; the
// evaluator never invents defaults for absent records.
func (svc *Service) ValidateEnrollment(studentID, courseID string) (Result, error) {
	studentID = core.CleanString(studentID)
	courseID = core.CleanCode(courseID)

	profile, err := svc.studentRepo.GetProfileByID(studentID)
	if err != nil {
		return Result{}, err
	}
	course, err := svc.catalogRepo.GetCourseByID(courseID)
	if err != nil {
		return Result{}, err
	}

	var rulePtr *catalog.Rule
	rule, err := svc.catalogRepo.GetRuleByCourse(courseID)
	switch {
	case err == nil:
		if rule.Active {
			rulePtr = &rule
		}
	case errors.Is(err, catalog.ErrRuleNotFound):
		// no prerequisites
	default:
		return Result{}, err
	}

	coreqs, err := svc.catalogRepo.GetCorequisitesByCourse(courseID)
	if err != nil {
		return Result{}, err
	}
	restrictions, err := svc.catalogRepo.GetRestrictionsByCourse(courseID)
	if err != nil {
		return Result{}, err
	}

	courses, err := svc.catalogRepo.QueryAllCourses()
	if err != nil {
		return Result{}, err
	}
	courseMap := make(map[string]catalog.Course, len(courses))
	for _, c := range courses {
		courseMap[c.ID] = c
	}

	now := nowFunc().UTC()
	var active []override.Override
	if svc.overrides != nil {
		if active, err = svc.overrides.ActiveFor(studentID, courseID, now); err != nil {
			return Result{}, err
		}
	}

	return Evaluate(Input{
		Profile:      profile,
		Course:       course,
		Courses:      courseMap,
		Rule:         rulePtr,
		Corequisites: coreqs,
		Restrictions: restrictions,
		Overrides:    active,
		Permissions:  svc.perms,
		Policy:       svc.policy,
		Now:          now,
	})
}
