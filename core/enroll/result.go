package enroll

import (
	"github.com/campusops/registrar/core/catalog"
)

// Status summarizes an evaluation outcome.
type Status string

const (
	StatusSatisfied          Status = "satisfied"
	StatusPartiallySatisfied Status = "partially_satisfied"
	StatusFailed             Status = "failed"
)

// Priority ranks a missing requirement.
type Priority string

const (
	// PriorityCritical marks a requirement on an all-AND path; it must be met.
	PriorityCritical Priority = "critical"
	// PriorityOptional marks an alternative under an OR branch.
	PriorityOptional Priority = "optional"
)

// RequirementResult is the per-leaf verdict.
type RequirementResult struct {
	RequirementID   string        `json:"requirement_id"`
	Satisfied       bool          `json:"satisfied"`
	Required        bool          `json:"required"`
	Waived          bool          `json:"waived,omitempty"`
	CourseID        string        `json:"course_id,omitempty"`
	MinGrade        catalog.Grade `json:"min_grade,omitempty"`
	CompletedGrade  catalog.Grade `json:"completed_grade,omitempty"`
	Reason          string        `json:"reason,omitempty"`
	SuggestedAction string        `json:"suggested_action,omitempty"`
}

// MissingRequirement is a course the student still has to complete.
type MissingRequirement struct {
	CourseID string        `json:"course_id"`
	Title    string        `json:"title,omitempty"`
	MinGrade catalog.Grade `json:"min_grade"`
	Priority Priority      `json:"priority"`
}

// LogicResult mirrors the rule tree's AND/OR structure, so callers can see
// exactly which branch of an OR carried the verdict.
type LogicResult struct {
	NodeID    string           `json:"node_id"`
	Op        catalog.Operator `json:"op,omitempty"`
	Satisfied bool             `json:"satisfied"`
	// SatisfiedBy lists the child ids that independently satisfied an OR node.
	SatisfiedBy []string           `json:"satisfied_by,omitempty"`
	Children    []*LogicResult     `json:"children,omitempty"`
	Requirement *RequirementResult `json:"requirement,omitempty"`
}

// RestrictionResult is the verdict for one enrollment restriction.
type RestrictionResult struct {
	RestrictionID string                   `json:"restriction_id"`
	Kind          catalog.RestrictionKind  `json:"kind"`
	Level         catalog.EnforcementLevel `json:"level"`
	Passed        bool                     `json:"passed"`
	Blocking      bool                     `json:"blocking,omitempty"`
	Message       string                   `json:"message,omitempty"`
}

// CorequisiteResult is the verdict for one corequisite relationship.
type CorequisiteResult struct {
	CorequisiteID        string                   `json:"corequisite_id"`
	RequiredCourseID     string                   `json:"required_course_id"`
	Enforcement          catalog.CoreqEnforcement `json:"enforcement"`
	Satisfied            bool                     `json:"satisfied"`
	Waived               bool                     `json:"waived,omitempty"`
	Blocking             bool                     `json:"blocking,omitempty"`
	NeedsAdvisorApproval bool                     `json:"needs_advisor_approval,omitempty"`
	Message              string                   `json:"message,omitempty"`
}

// Result is the full enrollment validation verdict. Ineligibility is data,
// not an error: Valid=false with the detail below is the expected outcome for
// a student who does not qualify.
type Result struct {
	CourseID             string               `json:"course_id"`
	StudentID            string               `json:"student_id"`
	Valid                bool                 `json:"valid"`
	Status               Status               `json:"status"`
	Requirements         []RequirementResult  `json:"requirements,omitempty"`
	Missing              []MissingRequirement `json:"missing,omitempty"`
	Logic                *LogicResult         `json:"logic,omitempty"`
	Restrictions         []RestrictionResult  `json:"restrictions,omitempty"`
	Corequisites         []CorequisiteResult  `json:"corequisites,omitempty"`
	NeedsAdvisorApproval bool                 `json:"needs_advisor_approval,omitempty"`
	Warnings             []string             `json:"warnings,omitempty"`
}
