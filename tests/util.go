package testutil

import (
	"testing"
	"time"

	"github.com/campusops/registrar/core"
	"github.com/campusops/registrar/core/catalog"
	"github.com/campusops/registrar/core/student"
	inmemdb "github.com/campusops/registrar/storage/database/inmem"
)

// NewConfig returns a config suitable for tests: no external tokens, no
// default override expiry.
func NewConfig() *core.Config {
	return &core.Config{
		Env:              "TEST",
		TestMode:         true,
		Debug:            true,
		AppName:          "Registrar",
		DefaultFromName:  "Registrar",
		DefaultFromEmail: "noreply@registrar.test",
	}
}

func CreateCourse(
	t *testing.T,
	repo catalog.Repository,
	id, title string,
	creditHours int,
) catalog.Course {
	course, err := repo.CreateCourse(catalog.Course{
		ID:          id,
		Title:       title,
		Subject:     subjectOf(id),
		CreditHours: creditHours,
		Active:      true,
	})
	if err != nil {
		t.Fatalf("createCourse() failed: %v", err)
	}
	return course
}

func subjectOf(id string) string {
	for i, r := range id {
		if r >= '0' && r <= '9' {
			return id[:i]
		}
	}
	return id
}

func SaveProfile(t *testing.T, repo *inmemdb.StudentRepository, profile student.Profile) student.Profile {
	profile, err := repo.SaveProfile(profile)
	if err != nil {
		t.Fatalf("saveProfile() failed: %v", err)
	}
	return profile
}

// CourseLeaf is a shorthand for a prerequisite-course leaf.
func CourseLeaf(id, courseID string, minGrade catalog.Grade, required bool) catalog.Leaf {
	return catalog.Leaf{Requirement: catalog.Requirement{
		ID:       id,
		Kind:     catalog.ReqCourse,
		CourseID: courseID,
		MinGrade: minGrade,
		Required: required,
	}}
}

func Completed(courseID string, grade catalog.Grade, term string) student.CompletedCourse {
	return student.CompletedCourse{
		CourseID:    courseID,
		Grade:       grade,
		Term:        term,
		CompletedAt: time.Date(2023, time.December, 15, 0, 0, 0, 0, time.UTC),
	}
}
