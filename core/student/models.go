package student

import (
	"errors"
	"time"

	"github.com/campusops/registrar/core/catalog"
)

var ErrNotFound = errors.New("student not found")

// CompletedCourse is one graded entry of a student's transcript.
type CompletedCourse struct {
	CourseID    string        `json:"course_id"`
	Grade       catalog.Grade `json:"grade"`
	Term        string        `json:"term"`
	CompletedAt time.Time     `json:"completed_at"` // UTC
}

// Profile is the read-only snapshot of a student the evaluator works from.
// The evaluator never mutates it; every evaluation call gets its own copy.
type Profile struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Email       string                `json:"email"`
	Majors      []string              `json:"majors"`
	Standing    catalog.ClassStanding `json:"standing"`
	GPA         float64               `json:"gpa"`
	CreditHours int                   `json:"credit_hours"`
	Completed   []CompletedCourse     `json:"completed"`
	// CurrentSchedule holds the course ids the student is enrolled in for the
	// current term, used for corequisite checks.
	CurrentSchedule []string `json:"current_schedule"`
}

// CompletedCourse returns the transcript entry for courseID. When a course
// was repeated, the entry with the best grade wins.
func (p Profile) CompletedCourse(courseID string) (CompletedCourse, bool) {
	var best CompletedCourse
	var found bool
	for _, cc := range p.Completed {
		if cc.CourseID != courseID {
			continue
		}
		if !found || cc.Grade.AtLeast(best.Grade) {
			best = cc
		}
		found = true
	}
	return best, found
}

func (p Profile) HasCompleted(courseID string) bool {
	_, ok := p.CompletedCourse(courseID)
	return ok
}

func (p Profile) InCurrentTerm(courseID string) bool {
	for _, id := range p.CurrentSchedule {
		if id == courseID {
			return true
		}
	}
	return false
}

func (p Profile) HasMajor(major string) bool {
	for _, m := range p.Majors {
		if m == major {
			return true
		}
	}
	return false
}

// Repository provides student snapshots; the evaluator does not own them.
type Repository interface {
	GetProfileByID(id string) (Profile, error)
}
