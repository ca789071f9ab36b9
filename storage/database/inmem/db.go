package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/campusops/registrar/core/catalog"
	"github.com/campusops/registrar/core/override"
	"github.com/campusops/registrar/core/student"
)

type (
	DB struct {
		catalog  *catalogTables
		student  *studentTable
		override *overrideTable
	}

	catalogTables struct {
		courses      map[string]*catalog.Course
		rules        map[string]*catalog.Rule // by course id
		coreqs       map[string][]catalog.Corequisite
		restrictions map[string][]catalog.Restriction
		mutex        sync.RWMutex
	}

	studentTable struct {
		table map[string]*student.Profile
		mutex sync.RWMutex
	}

	overrideTable struct {
		table map[uuid.UUID]*override.Override
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		catalog: &catalogTables{
			courses:      make(map[string]*catalog.Course),
			rules:        make(map[string]*catalog.Rule),
			coreqs:       make(map[string][]catalog.Corequisite),
			restrictions: make(map[string][]catalog.Restriction),
		},
		student:  &studentTable{table: make(map[string]*student.Profile)},
		override: &overrideTable{table: make(map[uuid.UUID]*override.Override)},
	}
	return db, nil
}
