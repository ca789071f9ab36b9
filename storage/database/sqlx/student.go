package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/campusops/registrar/core/catalog"
	"github.com/campusops/registrar/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

type (
	profileRow struct {
		ID          string         `db:"id"`
		Name        string         `db:"name"`
		Email       string         `db:"email"`
		Majors      pq.StringArray `db:"majors"`
		Standing    string         `db:"standing"`
		GPA         float64        `db:"gpa"`
		CreditHours int            `db:"credit_hours"`
	}

	completedRow struct {
		CourseID    string    `db:"course_id"`
		Grade       string    `db:"grade"`
		Term        string    `db:"term"`
		CompletedAt time.Time `db:"completed_at"`
	}
)

func (repo *studentRepository) GetProfileByID(id string) (student.Profile, error) {
	var row profileRow
	err := repo.db.Get(&row,
		`SELECT id, name, email, majors, standing, gpa, credit_hours FROM student WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return student.Profile{}, student.ErrNotFound
	}
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "getting student")
	}

	var completed []completedRow
	err = repo.db.Select(&completed,
		`SELECT course_id, grade, term, completed_at FROM completed_course WHERE student_id = $1 ORDER BY completed_at`, id)
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "querying transcript")
	}

	var schedule []string
	err = repo.db.Select(&schedule,
		`SELECT course_id FROM current_enrollment WHERE student_id = $1 ORDER BY course_id`, id)
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "querying current schedule")
	}

	profile := student.Profile{
		ID:              row.ID,
		Name:            row.Name,
		Email:           row.Email,
		Majors:          row.Majors,
		Standing:        catalog.ClassStanding(row.Standing),
		GPA:             row.GPA,
		CreditHours:     row.CreditHours,
		CurrentSchedule: schedule,
	}
	for _, cc := range completed {
		profile.Completed = append(profile.Completed, student.CompletedCourse{
			CourseID:    cc.CourseID,
			Grade:       catalog.Grade(cc.Grade),
			Term:        cc.Term,
			CompletedAt: cc.CompletedAt,
		})
	}
	return profile, nil
}
