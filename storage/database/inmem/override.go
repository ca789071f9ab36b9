package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/campusops/registrar/core/override"
)

type overrideRepository struct {
	db *overrideTable
}

func NewOverrideRepository(db *DB) override.Repository {
	return &overrideRepository{db: db.override}
}

func (repo *overrideRepository) CreateOverride(o override.Override) (override.Override, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[o.ID] = &o
	return o, nil
}

func (repo *overrideRepository) GetOverrideByID(id uuid.UUID) (override.Override, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if o, ok := repo.db.table[id]; ok {
		return *o, nil
	}
	return override.Override{}, override.ErrNotFound
}

func (repo *overrideRepository) UpdateOverride(o override.Override) (override.Override, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[o.ID]; !ok {
		return override.Override{}, override.ErrNotFound
	}
	repo.db.table[o.ID] = &o
	return o, nil
}

func (repo *overrideRepository) QueryByStudentAndCourse(studentID, courseID string) ([]override.Override, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var res []override.Override
	for _, o := range repo.db.table {
		if o.StudentID == studentID && o.CourseID == courseID {
			res = append(res, *o)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].RequestedAt.Before(res[j].RequestedAt) })
	return res, nil
}
