package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/campusops/registrar/core/override"
)

type overrideRepository struct {
	db *sqlx.DB
}

func NewOverrideRepository(db *sqlx.DB) override.Repository {
	return &overrideRepository{db: db}
}

type overrideRow struct {
	ID            uuid.UUID   `db:"id"`
	StudentID     string      `db:"student_id"`
	CourseID      string      `db:"course_id"`
	Kind          string      `db:"kind"`
	Status        string      `db:"status"`
	RequestedBy   string      `db:"requested_by"`
	Justification string      `db:"justification"`
	ReviewedBy    null.String `db:"reviewed_by"`
	ReviewComment null.String `db:"review_comment"`
	RequestedAt   time.Time   `db:"requested_at"`
	ReviewedAt    null.Time   `db:"reviewed_at"`
	ExpiresAt     null.Time   `db:"expires_at"`
	Requirements  []byte      `db:"requirements"`
}

func (r overrideRow) toOverride() (override.Override, error) {
	o := override.Override{
		ID:            r.ID,
		StudentID:     r.StudentID,
		CourseID:      r.CourseID,
		Kind:          override.Kind(r.Kind),
		Status:        override.Status(r.Status),
		RequestedBy:   r.RequestedBy,
		Justification: r.Justification,
		ReviewedBy:    r.ReviewedBy,
		ReviewComment: r.ReviewComment,
		RequestedAt:   r.RequestedAt,
		ReviewedAt:    r.ReviewedAt,
		ExpiresAt:     r.ExpiresAt,
	}
	if len(r.Requirements) > 0 {
		if err := json.Unmarshal(r.Requirements, &o.Requirements); err != nil {
			return override.Override{}, errors.Wrap(err, "unmarshaling overridden requirements")
		}
	}
	return o, nil
}

func toRow(o override.Override) (overrideRow, error) {
	reqs, err := json.Marshal(o.Requirements)
	if err != nil {
		return overrideRow{}, errors.Wrap(err, "marshaling overridden requirements")
	}
	return overrideRow{
		ID:            o.ID,
		StudentID:     o.StudentID,
		CourseID:      o.CourseID,
		Kind:          string(o.Kind),
		Status:        string(o.Status),
		RequestedBy:   o.RequestedBy,
		Justification: o.Justification,
		ReviewedBy:    o.ReviewedBy,
		ReviewComment: o.ReviewComment,
		RequestedAt:   o.RequestedAt,
		ReviewedAt:    o.ReviewedAt,
		ExpiresAt:     o.ExpiresAt,
		Requirements:  reqs,
	}, nil
}

const overrideColumns = `id, student_id, course_id, kind, status, requested_by, justification,
	reviewed_by, review_comment, requested_at, reviewed_at, expires_at, requirements`

func (repo *overrideRepository) CreateOverride(o override.Override) (override.Override, error) {
	row, err := toRow(o)
	if err != nil {
		return override.Override{}, err
	}
	const q = `
		INSERT INTO enrollment_override (` + overrideColumns + `)
		VALUES (:id, :student_id, :course_id, :kind, :status, :requested_by, :justification,
		        :reviewed_by, :review_comment, :requested_at, :reviewed_at, :expires_at, :requirements)`
	if _, err = repo.db.NamedExec(q, row); err != nil {
		return override.Override{}, errors.Wrap(err, "creating override")
	}
	return o, nil
}

func (repo *overrideRepository) GetOverrideByID(id uuid.UUID) (override.Override, error) {
	var row overrideRow
	err := repo.db.Get(&row, `SELECT `+overrideColumns+` FROM enrollment_override WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return override.Override{}, override.ErrNotFound
	}
	if err != nil {
		return override.Override{}, errors.Wrap(err, "getting override")
	}
	return row.toOverride()
}

func (repo *overrideRepository) UpdateOverride(o override.Override) (override.Override, error) {
	row, err := toRow(o)
	if err != nil {
		return override.Override{}, err
	}
	const q = `
		UPDATE enrollment_override
		SET status = :status, reviewed_by = :reviewed_by, review_comment = :review_comment,
		    reviewed_at = :reviewed_at, expires_at = :expires_at
		WHERE id = :id`
	res, err := repo.db.NamedExec(q, row)
	if err != nil {
		return override.Override{}, errors.Wrap(err, "updating override")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return override.Override{}, override.ErrNotFound
	}
	return o, nil
}

func (repo *overrideRepository) QueryByStudentAndCourse(studentID, courseID string) ([]override.Override, error) {
	var rows []overrideRow
	err := repo.db.Select(&rows,
		`SELECT `+overrideColumns+` FROM enrollment_override
		 WHERE student_id = $1 AND course_id = $2 ORDER BY requested_at`,
		studentID, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying overrides")
	}
	overrides := make([]override.Override, 0, len(rows))
	for _, row := range rows {
		o, err := row.toOverride()
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, nil
}
