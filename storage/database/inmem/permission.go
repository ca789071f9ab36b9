package inmemdb

import "sync"

// PermissionStore is a grant lookup for Permission requirements and
// restrictions. Grant management is owned elsewhere; this store only answers
// boolean checks.
type PermissionStore struct {
	grants map[string]map[string]bool // student id -> permission -> granted
	mutex  sync.RWMutex
}

func NewPermissionStore() *PermissionStore {
	return &PermissionStore{grants: make(map[string]map[string]bool)}
}

func (s *PermissionStore) Grant(studentID, permission string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.grants[studentID] == nil {
		s.grants[studentID] = make(map[string]bool)
	}
	s.grants[studentID][permission] = true
}

func (s *PermissionStore) Revoke(studentID, permission string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.grants[studentID], permission)
}

func (s *PermissionStore) HasPermission(studentID, permission string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.grants[studentID][permission], nil
}
