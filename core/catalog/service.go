package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/campusops/registrar/core"
)

var (
	// errors
	ErrCourseNotFound  = errors.New("course not found")
	ErrRuleNotFound    = errors.New("prerequisite rule not found")
	ErrEmptyRule       = errors.New("prerequisite rule has no requirements")
	ErrUnknownOperator = errors.New("unknown rule operator")
	ErrUnknownCourse   = errors.New("rule references an unknown course")
)

// minimum difflib ratio for a "did you mean" course id suggestion
const suggestionRatio = 0.6

type (
	Repository interface {
		CreateCourse(course Course) (Course, error)
		GetCourseByID(id string) (Course, error)
		QueryAllCourses() ([]Course, error)
		// DeleteCourse removes a course along with its rule tree, corequisites
		// and restrictions; the course owns them all.
		DeleteCourse(id string) error

		SaveRule(rule Rule) (Rule, error)
		GetRuleByCourse(courseID string) (Rule, error)
		QueryActiveRules() ([]Rule, error)

		SaveCorequisites(courseID string, coreqs []Corequisite) error
		GetCorequisitesByCourse(courseID string) ([]Corequisite, error)

		SaveRestrictions(courseID string, restrictions []Restriction) error
		GetRestrictionsByCourse(courseID string) ([]Restriction, error)
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ChainError reports a rejected catalog edit that would introduce a circular
// prerequisite chain.
type ChainError struct {
	Result ChainResult
}

func (err *ChainError) Error() string { return err.Result.Message }

func (svc *Service) CreateCourse(course Course) (Course, error) {
	course.ID = core.CleanCode(course.ID)
	course.Title = core.CleanString(course.Title)
	if course.ID == "" {
		return Course{}, core.NewValidationError(errors.New("course id is required"),
			core.FieldError{Field: "id", Error: "this field is required"})
	}
	return svc.repo.CreateCourse(course)
}

func (svc *Service) GetCourse(id string) (Course, error) {
	return svc.repo.GetCourseByID(core.CleanCode(id))
}

func (svc *Service) QueryAllCourses() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) GetRule(courseID string) (Rule, error) {
	return svc.repo.GetRuleByCourse(core.CleanCode(courseID))
}

// ActivateRule validates and activates a course's prerequisite rule tree.
// A structural fault, a dangling course reference or an introduced cycle
// rejects the edit; nothing is saved.
func (svc *Service) ActivateRule(rule Rule) (Rule, error) {
	rule.CourseID = core.CleanCode(rule.CourseID)

	if _, err := svc.repo.GetCourseByID(rule.CourseID); err != nil {
		return Rule{}, err
	}
	if err := rule.Validate(); err != nil {
		return Rule{}, err
	}
	if err := svc.checkCourseRefs(rule); err != nil {
		return Rule{}, err
	}

	edges, err := svc.candidateEdges(rule)
	if err != nil {
		return Rule{}, err
	}
	if res := ValidateChain(edges); !res.OK {
		if svc.log != nil {
			svc.log.Warn("catalog: rejected rule for "+rule.CourseID, res.Message)
		}
		return Rule{}, &ChainError{Result: res}
	}

	rule.Active = true
	return svc.repo.SaveRule(rule)
}

// CheckChain validates the full set of active prerequisite edges. Meant for
// catalog audits; ActivateRule already runs it per edit.
func (svc *Service) CheckChain() (ChainResult, error) {
	edges, err := svc.activeEdges("")
	if err != nil {
		return ChainResult{}, err
	}
	return ValidateChain(edges), nil
}

func (svc *Service) SaveCorequisites(courseID string, coreqs []Corequisite) error {
	courseID = core.CleanCode(courseID)
	if _, err := svc.repo.GetCourseByID(courseID); err != nil {
		return err
	}
	return svc.repo.SaveCorequisites(courseID, coreqs)
}

func (svc *Service) GetCorequisites(courseID string) ([]Corequisite, error) {
	return svc.repo.GetCorequisitesByCourse(core.CleanCode(courseID))
}

func (svc *Service) SaveRestrictions(courseID string, restrictions []Restriction) error {
	courseID = core.CleanCode(courseID)
	if _, err := svc.repo.GetCourseByID(courseID); err != nil {
		return err
	}
	return svc.repo.SaveRestrictions(courseID, restrictions)
}

func (svc *Service) GetRestrictions(courseID string) ([]Restriction, error) {
	return svc.repo.GetRestrictionsByCourse(core.CleanCode(courseID))
}

// checkCourseRefs rejects leaves referencing course ids absent from the
// catalog, suggesting the closest known id where one is similar enough.
func (svc *Service) checkCourseRefs(rule Rule) error {
	courses, err := svc.repo.QueryAllCourses()
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(courses))
	ids := make([]string, 0, len(courses))
	for _, course := range courses {
		known[course.ID] = true
		ids = append(ids, course.ID)
	}

	var flds []core.FieldError
	for _, ref := range rule.CourseRefs() {
		if known[ref] {
			continue
		}
		msg := fmt.Sprintf("unknown course %q", ref)
		if suggestion := closestCourseID(ref, ids); suggestion != "" {
			msg += fmt.Sprintf("; did you mean %q?", suggestion)
		}
		flds = append(flds, core.FieldError{Field: "course_id", Error: msg})
	}
	if flds != nil {
		return core.NewValidationError(ErrUnknownCourse, flds...)
	}
	return nil
}

// candidateEdges is the active edge set with `rule` substituted for the
// course's current rule.
func (svc *Service) candidateEdges(rule Rule) ([]Edge, error) {
	edges, err := svc.activeEdges(rule.CourseID)
	if err != nil {
		return nil, err
	}
	return append(edges, rule.Edges()...), nil
}

// activeEdges collects prerequisite edges from all active rules, skipping the
// excluded course's rule if any.
func (svc *Service) activeEdges(excludeCourseID string) ([]Edge, error) {
	rules, err := svc.repo.QueryActiveRules()
	if err != nil {
		return nil, err
	}
	var edges []Edge
	for _, r := range rules {
		if excludeCourseID != "" && r.CourseID == excludeCourseID {
			continue
		}
		edges = append(edges, r.Edges()...)
	}
	return edges, nil
}

func closestCourseID(id string, known []string) string {
	var best string
	var bestRatio float64
	for _, candidate := range known {
		ratio := difflib.NewMatcher(
			strings.Split(id, ""),
			strings.Split(candidate, ""),
		).QuickRatio()
		if ratio > bestRatio {
			best, bestRatio = candidate, ratio
		}
	}
	if bestRatio >= suggestionRatio {
		return best
	}
	return ""
}
