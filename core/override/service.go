package override

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/campusops/registrar/core"
)

var (
	// errors
	ErrNotFound         = errors.New("override not found")
	ErrNotPending       = errors.New("override has already been reviewed")
	ErrReviewerRequired = errors.New("reviewer identity is required")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateOverride(o Override) (Override, error)
		GetOverrideByID(id uuid.UUID) (Override, error)
		UpdateOverride(o Override) (Override, error)
		QueryByStudentAndCourse(studentID, courseID string) ([]Override, error)
	}

	Service struct {
		repo       Repository
		mailSvc    core.EmailService
		log        core.Logger
		appName    string
		defaultTTL time.Duration
	}
)

func NewService(repo Repository, mailSvc core.EmailService, log core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:       repo,
		mailSvc:    mailSvc,
		log:        log,
		appName:    conf.AppName,
		defaultTTL: conf.OverrideDefaultTTL,
	}
}

// Request creates a Pending override/waiver request.
func (svc *Service) Request(no NewOverride) (Override, error) {
	if err := no.Validate(); err != nil {
		return Override{}, err
	}
	o := Override{
		ID:            uuid.New(),
		StudentID:     no.StudentID,
		CourseID:      no.CourseID,
		Kind:          no.Kind,
		Status:        StatusPending,
		RequestedBy:   no.RequestedBy,
		Justification: no.Justification,
		RequestedAt:   nowFunc().UTC(),
		Requirements:  no.Requirements,
	}
	return svc.repo.CreateOverride(o)
}

func (svc *Service) GetByID(id uuid.UUID) (Override, error) {
	return svc.repo.GetOverrideByID(id)
}

// Approve moves a Pending record to Approved, recording the reviewer and
// time. Without an explicit expiry the configured default TTL applies, if any.
func (svc *Service) Approve(id uuid.UUID, reviewer, comment string, expiresAt *time.Time) (Override, error) {
	o, now, err := svc.startReview(id, reviewer)
	if err != nil {
		return Override{}, err
	}
	o.Status = StatusApproved
	o.ReviewedBy = null.StringFrom(core.CleanString(reviewer))
	o.ReviewComment = null.NewString(comment, comment != "")
	o.ReviewedAt = null.TimeFrom(now)
	if expiresAt != nil {
		o.ExpiresAt = null.TimeFrom(expiresAt.UTC())
	} else if svc.defaultTTL > 0 {
		o.ExpiresAt = null.TimeFrom(now.Add(svc.defaultTTL))
	}

	o, err = svc.repo.UpdateOverride(o)
	if err != nil {
		return Override{}, err
	}
	svc.notify(o)
	return o, nil
}

// Deny moves a Pending record to Denied. Denied records are terminal; a new
// request is needed to retry.
func (svc *Service) Deny(id uuid.UUID, reviewer, comment string) (Override, error) {
	o, now, err := svc.startReview(id, reviewer)
	if err != nil {
		return Override{}, err
	}
	o.Status = StatusDenied
	o.ReviewedBy = null.StringFrom(core.CleanString(reviewer))
	o.ReviewComment = null.NewString(comment, comment != "")
	o.ReviewedAt = null.TimeFrom(now)

	o, err = svc.repo.UpdateOverride(o)
	if err != nil {
		return Override{}, err
	}
	svc.notify(o)
	return o, nil
}

// ActiveFor returns the approved, non-expired records for a (student, course)
// pair; the evaluator consults these before failing a leaf.
func (svc *Service) ActiveFor(studentID, courseID string, now time.Time) ([]Override, error) {
	all, err := svc.repo.QueryByStudentAndCourse(core.CleanString(studentID), core.CleanCode(courseID))
	if err != nil {
		return nil, err
	}
	active := make([]Override, 0, len(all))
	for _, o := range all {
		if o.IsActive(now) {
			active = append(active, o)
		}
	}
	return active, nil
}

func (svc *Service) startReview(id uuid.UUID, reviewer string) (Override, time.Time, error) {
	if core.CleanString(reviewer) == "" {
		return Override{}, time.Time{}, ErrReviewerRequired
	}
	o, err := svc.repo.GetOverrideByID(id)
	if err != nil {
		return Override{}, time.Time{}, err
	}
	if o.Status != StatusPending {
		return Override{}, time.Time{}, ErrNotPending
	}
	return o, nowFunc().UTC(), nil
}

// notify emails the requester about the decision when the requester identity
// is an email address.
func (svc *Service) notify(o Override) {
	if svc.mailSvc == nil || !strings.Contains(o.RequestedBy, "@") {
		return
	}
	body := fmt.Sprintf(
		"The %s request for student %s on course %s has been %s.",
		o.Kind, o.StudentID, o.CourseID, o.Status,
	)
	if o.ReviewComment.Valid {
		body += "\n\nReviewer comment: " + o.ReviewComment.String
	}
	if o.ExpiresAt.Valid {
		body += "\n\nExpires: " + o.ExpiresAt.Time.Format(time.RFC1123)
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: o.RequestedBy}},
		Subject: fmt.Sprintf("%s request %s", o.Kind, o.Status),
		Body:    body,
	})
}
