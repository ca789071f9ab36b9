package override

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/campusops/registrar/core"
)

// Kind separates full administrative overrides from requirement waivers.
// Both neutralize specific failed leaves; they differ in who may request them
// and how the surrounding workflow treats them.
type Kind string

const (
	KindOverride Kind = "override"
	KindWaiver   Kind = "waiver"
)

func (k Kind) Valid() bool { return k == KindOverride || k == KindWaiver }

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// OverriddenRequirement names one leaf requirement the record neutralizes.
type OverriddenRequirement struct {
	RequirementID string `json:"requirement_id" validate:"required"`
	Reason        string `json:"reason,omitempty"`
}

// Override is an administrative exception for a (student, course) pair.
// Lifecycle: created Pending, reviewed once to Approved or Denied. Denied and
// expired records are terminal; retrying takes a new request.
type Override struct {
	ID            uuid.UUID               `json:"id"`
	StudentID     string                  `json:"student_id"`
	CourseID      string                  `json:"course_id"`
	Kind          Kind                    `json:"kind"`
	Status        Status                  `json:"status"`
	RequestedBy   string                  `json:"requested_by"`
	Justification string                  `json:"justification"`
	ReviewedBy    null.String             `json:"reviewed_by,omitempty"`
	ReviewComment null.String             `json:"review_comment,omitempty"`
	RequestedAt   time.Time               `json:"requested_at"` // UTC
	ReviewedAt    null.Time               `json:"reviewed_at,omitempty"`
	ExpiresAt     null.Time               `json:"expires_at,omitempty"`
	Requirements  []OverriddenRequirement `json:"requirements"`
}

// IsActive reports whether the record suppresses failures at `now`:
// approved, actually reviewed, and not expired.
func (o Override) IsActive(now time.Time) bool {
	if o.Status != StatusApproved || !o.ReviewedAt.Valid {
		return false
	}
	if o.ExpiresAt.Valid && !o.ExpiresAt.Time.After(now) {
		return false
	}
	return true
}

// Covers reports whether the record neutralizes the given leaf requirement.
func (o Override) Covers(requirementID string) bool {
	for _, r := range o.Requirements {
		if r.RequirementID == requirementID {
			return true
		}
	}
	return false
}

// NewOverride contains information needed to request a new Override.
type NewOverride struct {
	StudentID     string                  `json:"student_id" validate:"required"`
	CourseID      string                  `json:"course_id" validate:"required"`
	Kind          Kind                    `json:"kind" validate:"required,overridekind"`
	RequestedBy   string                  `json:"requested_by" validate:"required"`
	Justification string                  `json:"justification" validate:"required"`
	Requirements  []OverriddenRequirement `json:"requirements" validate:"required,min=1,dive"`
}

func (no *NewOverride) Validate() error {
	no.StudentID = core.CleanString(no.StudentID)
	no.CourseID = core.CleanCode(no.CourseID)
	no.RequestedBy = core.CleanString(no.RequestedBy)
	no.Justification = core.CleanString(no.Justification)

	if err := core.Validate.Struct(no); err != nil {
		return core.TranslateValidationErrors(err)
	}
	return nil
}
