package catalog

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/campusops/registrar/core"
)

var (
	reqKindTag  = "reqkind"
	reqKindText = "unknown requirement kind"

	coursePayloadTag  = "req_course"
	coursePayloadText = "a course requirement needs a course id and a valid minimum grade"

	hoursPayloadTag  = "req_credit_hours"
	hoursPayloadText = "a credit-hour requirement needs a positive minimum"

	standingPayloadTag  = "req_class_standing"
	standingPayloadText = "a class-standing requirement needs a valid standing"

	permPayloadTag  = "req_permission"
	permPayloadText = "a permission requirement needs a permission name"

	gpaPayloadTag  = "req_gpa"
	gpaPayloadText = "a GPA requirement needs a minimum between 0 and 4"
)

func init() {
	_ = core.Validate.RegisterValidation(reqKindTag, reqKindValidation)
	core.RegisterCustomTranslation(reqKindTag, reqKindText)

	core.Validate.RegisterStructValidation(requirementStructValidation, Requirement{})
	core.RegisterCustomTranslation(coursePayloadTag, coursePayloadText)
	core.RegisterCustomTranslation(hoursPayloadTag, hoursPayloadText)
	core.RegisterCustomTranslation(standingPayloadTag, standingPayloadText)
	core.RegisterCustomTranslation(permPayloadTag, permPayloadText)
	core.RegisterCustomTranslation(gpaPayloadTag, gpaPayloadText)
}

// reqKindValidation checks that the requirement kind is a known one.
func reqKindValidation(fl validator.FieldLevel) bool {
	return RequirementKind(fl.Field().String()).Valid()
}

// requirementStructValidation checks that the payload fields match the
// requirement kind.
func requirementStructValidation(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(Requirement)
	if !ok {
		return
	}
	switch req.Kind {
	case ReqCourse:
		if req.CourseID == "" || !req.MinGrade.Valid() {
			sl.ReportError(req.CourseID, "course_id", "CourseID", coursePayloadTag, "")
		}
	case ReqCreditHours:
		if req.MinCreditHours <= 0 {
			sl.ReportError(req.MinCreditHours, "min_credit_hours", "MinCreditHours", hoursPayloadTag, "")
		}
	case ReqClassStanding:
		if !req.MinStanding.Valid() {
			sl.ReportError(req.MinStanding, "min_standing", "MinStanding", standingPayloadTag, "")
		}
	case ReqPermission:
		if req.Permission == "" {
			sl.ReportError(req.Permission, "permission", "Permission", permPayloadTag, "")
		}
	case ReqGPA:
		if req.MinGPA <= 0 || req.MinGPA > 4 {
			sl.ReportError(req.MinGPA, "min_gpa", "MinGPA", gpaPayloadTag, "")
		}
	}
}

// Validate checks the rule tree structure at authoring time. A structural
// problem here is a configuration fault, never an eligibility outcome.
func (r Rule) Validate() error {
	if r.CourseID == "" {
		return core.NewValidationError(errors.New("rule has no owning course"),
			core.FieldError{Field: "course_id", Error: "this field is required"})
	}
	if r.Root == nil {
		return errors.Wrapf(ErrEmptyRule, "rule %s", r.ID)
	}
	return validateNode(r.Root)
}

func validateNode(n Node) error {
	switch n := n.(type) {
	case Group:
		if !n.Op.Valid() {
			return errors.Wrapf(ErrUnknownOperator, "group %s: %q", n.ID, n.Op)
		}
		// a group with no body is vacuously satisfied; reject it at authoring
		if len(n.Children) == 0 {
			return errors.Wrapf(ErrEmptyRule, "group %s", n.ID)
		}
		for _, child := range n.Children {
			if child == nil {
				return errors.Wrapf(ErrEmptyRule, "group %s has a nil child", n.ID)
			}
			if err := validateNode(child); err != nil {
				return err
			}
		}
		return nil
	case Leaf:
		if err := core.Validate.Struct(n.Requirement); err != nil {
			return core.TranslateValidationErrors(err)
		}
		return nil
	default:
		return errors.Wrapf(ErrUnknownOperator, "unknown node type %T", n)
	}
}
