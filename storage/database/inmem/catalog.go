package inmemdb

import (
	"sort"

	"github.com/campusops/registrar/core/catalog"
)

type catalogRepository struct {
	db *catalogTables
}

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db.catalog}
}

func (repo *catalogRepository) queryCourses() []catalog.Course {
	courses := make([]catalog.Course, 0, len(repo.db.courses))
	for _, c := range repo.db.courses {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses
}

func (repo *catalogRepository) CreateCourse(course catalog.Course) (catalog.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.courses[course.ID] = &course
	return course, nil
}

func (repo *catalogRepository) GetCourseByID(id string) (catalog.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if course, ok := repo.db.courses[id]; ok {
		return *course, nil
	}
	return catalog.Course{}, catalog.ErrCourseNotFound
}

func (repo *catalogRepository) QueryAllCourses() ([]catalog.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryCourses(), nil
}

// DeleteCourse removes the course and everything it owns: its rule tree,
// corequisites and restrictions.
func (repo *catalogRepository) DeleteCourse(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.courses, id)
	delete(repo.db.rules, id)
	delete(repo.db.coreqs, id)
	delete(repo.db.restrictions, id)
	return nil
}

func (repo *catalogRepository) SaveRule(rule catalog.Rule) (catalog.Rule, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.rules[rule.CourseID] = &rule
	return rule, nil
}

func (repo *catalogRepository) GetRuleByCourse(courseID string) (catalog.Rule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rule, ok := repo.db.rules[courseID]; ok {
		return *rule, nil
	}
	return catalog.Rule{}, catalog.ErrRuleNotFound
}

func (repo *catalogRepository) QueryActiveRules() ([]catalog.Rule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rules := make([]catalog.Rule, 0, len(repo.db.rules))
	for _, r := range repo.db.rules {
		if r.Active {
			rules = append(rules, *r)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].CourseID < rules[j].CourseID })
	return rules, nil
}

func (repo *catalogRepository) SaveCorequisites(courseID string, coreqs []catalog.Corequisite) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.coreqs[courseID] = append([]catalog.Corequisite(nil), coreqs...)
	return nil
}

func (repo *catalogRepository) GetCorequisitesByCourse(courseID string) ([]catalog.Corequisite, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]catalog.Corequisite(nil), repo.db.coreqs[courseID]...), nil
}

func (repo *catalogRepository) SaveRestrictions(courseID string, restrictions []catalog.Restriction) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.restrictions[courseID] = append([]catalog.Restriction(nil), restrictions...)
	return nil
}

func (repo *catalogRepository) GetRestrictionsByCourse(courseID string) ([]catalog.Restriction, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]catalog.Restriction(nil), repo.db.restrictions[courseID]...), nil
}
