package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/campusops/registrar/core/catalog"
)

type catalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) catalog.Repository {
	return &catalogRepository{db: db}
}

type (
	courseRow struct {
		ID          string `db:"id"`
		Title       string `db:"title"`
		Subject     string `db:"subject"`
		CreditHours int    `db:"credit_hours"`
		Active      bool   `db:"active"`
	}

	ruleRow struct {
		ID       string `db:"id"`
		CourseID string `db:"course_id"`
		Active   bool   `db:"active"`
		Doc      []byte `db:"doc"`
	}

	coreqRow struct {
		ID               string `db:"id"`
		CourseID         string `db:"course_id"`
		RequiredCourseID string `db:"required_course_id"`
		Enforcement      string `db:"enforcement"`
		Waivable         bool   `db:"waivable"`
		OnFailure        string `db:"on_failure"`
	}

	restrictionRow struct {
		ID       string         `db:"id"`
		CourseID string         `db:"course_id"`
		Kind     string         `db:"kind"`
		Values   pq.StringArray `db:"vals"`
		Exclude  bool           `db:"exclude"`
		Level    string         `db:"level"`
	}
)

func (r courseRow) toCourse() catalog.Course {
	return catalog.Course{ID: r.ID, Title: r.Title, Subject: r.Subject, CreditHours: r.CreditHours, Active: r.Active}
}

func (repo *catalogRepository) CreateCourse(course catalog.Course) (catalog.Course, error) {
	const q = `
		INSERT INTO course (id, title, subject, credit_hours, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, subject = EXCLUDED.subject,
		    credit_hours = EXCLUDED.credit_hours, active = EXCLUDED.active`
	if _, err := repo.db.Exec(q, course.ID, course.Title, course.Subject, course.CreditHours, course.Active); err != nil {
		return catalog.Course{}, errors.Wrap(err, "creating course")
	}
	return course, nil
}

func (repo *catalogRepository) GetCourseByID(id string) (catalog.Course, error) {
	var row courseRow
	err := repo.db.Get(&row, `SELECT id, title, subject, credit_hours, active FROM course WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return catalog.Course{}, catalog.ErrCourseNotFound
	}
	if err != nil {
		return catalog.Course{}, errors.Wrap(err, "getting course")
	}
	return row.toCourse(), nil
}

func (repo *catalogRepository) QueryAllCourses() ([]catalog.Course, error) {
	var rows []courseRow
	if err := repo.db.Select(&rows, `SELECT id, title, subject, credit_hours, active FROM course ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]catalog.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCourse())
	}
	return courses, nil
}

// DeleteCourse removes the course and everything it owns in one transaction.
func (repo *catalogRepository) DeleteCourse(id string) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "starting tx")
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM prerequisite_rule WHERE course_id = $1`,
		`DELETE FROM corequisite WHERE course_id = $1`,
		`DELETE FROM restriction WHERE course_id = $1`,
		`DELETE FROM course WHERE id = $1`,
	} {
		if _, err = tx.Exec(q, id); err != nil {
			return errors.Wrap(err, "deleting course")
		}
	}
	return errors.Wrap(tx.Commit(), "committing")
}

func (repo *catalogRepository) SaveRule(rule catalog.Rule) (catalog.Rule, error) {
	doc, err := marshalRoot(rule.Root)
	if err != nil {
		return catalog.Rule{}, err
	}
	const q = `
		INSERT INTO prerequisite_rule (id, course_id, active, doc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (course_id) DO UPDATE
		SET id = EXCLUDED.id, active = EXCLUDED.active, doc = EXCLUDED.doc`
	if _, err = repo.db.Exec(q, rule.ID, rule.CourseID, rule.Active, doc); err != nil {
		return catalog.Rule{}, errors.Wrap(err, "saving rule")
	}
	return rule, nil
}

func (repo *catalogRepository) GetRuleByCourse(courseID string) (catalog.Rule, error) {
	var row ruleRow
	err := repo.db.Get(&row, `SELECT id, course_id, active, doc FROM prerequisite_rule WHERE course_id = $1`, courseID)
	if err == sql.ErrNoRows {
		return catalog.Rule{}, catalog.ErrRuleNotFound
	}
	if err != nil {
		return catalog.Rule{}, errors.Wrap(err, "getting rule")
	}
	return row.toRule()
}

func (repo *catalogRepository) QueryActiveRules() ([]catalog.Rule, error) {
	var rows []ruleRow
	if err := repo.db.Select(&rows, `SELECT id, course_id, active, doc FROM prerequisite_rule WHERE active ORDER BY course_id`); err != nil {
		return nil, errors.Wrap(err, "querying rules")
	}
	rules := make([]catalog.Rule, 0, len(rows))
	for _, row := range rows {
		rule, err := row.toRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (r ruleRow) toRule() (catalog.Rule, error) {
	root, err := unmarshalRoot(r.Doc)
	if err != nil {
		return catalog.Rule{}, err
	}
	return catalog.Rule{ID: r.ID, CourseID: r.CourseID, Active: r.Active, Root: root}, nil
}

func (repo *catalogRepository) SaveCorequisites(courseID string, coreqs []catalog.Corequisite) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "starting tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM corequisite WHERE course_id = $1`, courseID); err != nil {
		return errors.Wrap(err, "clearing corequisites")
	}
	const q = `
		INSERT INTO corequisite (id, course_id, required_course_id, enforcement, waivable, on_failure)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, c := range coreqs {
		if _, err = tx.Exec(q, c.ID, courseID, c.RequiredCourseID, string(c.Enforcement), c.Waivable, string(c.OnFailure)); err != nil {
			return errors.Wrap(err, "saving corequisite")
		}
	}
	return errors.Wrap(tx.Commit(), "committing")
}

func (repo *catalogRepository) GetCorequisitesByCourse(courseID string) ([]catalog.Corequisite, error) {
	var rows []coreqRow
	err := repo.db.Select(&rows,
		`SELECT id, course_id, required_course_id, enforcement, waivable, on_failure FROM corequisite WHERE course_id = $1 ORDER BY id`,
		courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying corequisites")
	}
	coreqs := make([]catalog.Corequisite, 0, len(rows))
	for _, row := range rows {
		coreqs = append(coreqs, catalog.Corequisite{
			ID:               row.ID,
			CourseID:         row.CourseID,
			RequiredCourseID: row.RequiredCourseID,
			Enforcement:      catalog.CoreqEnforcement(row.Enforcement),
			Waivable:         row.Waivable,
			OnFailure:        catalog.CoreqFailureAction(row.OnFailure),
		})
	}
	return coreqs, nil
}

func (repo *catalogRepository) SaveRestrictions(courseID string, restrictions []catalog.Restriction) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "starting tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM restriction WHERE course_id = $1`, courseID); err != nil {
		return errors.Wrap(err, "clearing restrictions")
	}
	const q = `
		INSERT INTO restriction (id, course_id, kind, vals, exclude, level)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, r := range restrictions {
		if _, err = tx.Exec(q, r.ID, courseID, string(r.Kind), pq.StringArray(r.Values), r.Exclude, string(r.Level)); err != nil {
			return errors.Wrap(err, "saving restriction")
		}
	}
	return errors.Wrap(tx.Commit(), "committing")
}

func (repo *catalogRepository) GetRestrictionsByCourse(courseID string) ([]catalog.Restriction, error) {
	var rows []restrictionRow
	err := repo.db.Select(&rows,
		`SELECT id, course_id, kind, vals, exclude, level FROM restriction WHERE course_id = $1 ORDER BY id`,
		courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying restrictions")
	}
	restrictions := make([]catalog.Restriction, 0, len(rows))
	for _, row := range rows {
		restrictions = append(restrictions, catalog.Restriction{
			ID:       row.ID,
			CourseID: row.CourseID,
			Kind:     catalog.RestrictionKind(row.Kind),
			Values:   row.Values,
			Exclude:  row.Exclude,
			Level:    catalog.EnforcementLevel(row.Level),
		})
	}
	return restrictions, nil
}
