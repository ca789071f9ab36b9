package inmemdb

import (
	"github.com/campusops/registrar/core/student"
)

// StudentRepository is the in-memory student.Repository. It also exposes
// SaveProfile for tests and seed tooling.
type StudentRepository struct {
	db *studentTable
}

var _ student.Repository = (*StudentRepository)(nil)

func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db.student}
}

func (repo *StudentRepository) GetProfileByID(id string) (student.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if profile, ok := repo.db.table[id]; ok {
		return *profile, nil
	}
	return student.Profile{}, student.ErrNotFound
}

func (repo *StudentRepository) SaveProfile(profile student.Profile) (student.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[profile.ID] = &profile
	return profile, nil
}
