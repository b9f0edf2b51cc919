package saga

import (
	"context"
	"sync"
	"time"

	"github.com/campushq/enrollment-system/shared/models"
)

// MemoryInstanceStore is an in-memory InstanceStore for tests and local runs
type MemoryInstanceStore struct {
	mux       sync.Mutex
	instances map[models.ID]*Instance
}

var _ InstanceStore = (*MemoryInstanceStore)(nil)

// NewMemoryInstanceStore creates an empty in-memory store
func NewMemoryInstanceStore() *MemoryInstanceStore {
	return &MemoryInstanceStore{
		instances: make(map[models.ID]*Instance),
	}
}

// Load retrieves an instance copy by saga id
func (s *MemoryInstanceStore) Load(_ context.Context, sagaID models.ID) (*Instance, bool, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	instance, found := s.instances[sagaID]
	if !found {
		return nil, false, nil
	}
	return instance.Clone(), true, nil
}

// Save persists the instance with compare-and-swap semantics on the version
func (s *MemoryInstanceStore) Save(_ context.Context, instance *Instance, expectedVersion int) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	current, exists := s.instances[instance.SagaID]

	if expectedVersion == 0 {
		if exists {
			return ErrConflict
		}
	} else {
		if !exists || current.Version != expectedVersion {
			return ErrConflict
		}
	}

	instance.Version = expectedVersion + 1
	s.instances[instance.SagaID] = instance.Clone()

	return nil
}

// ScanExpired returns every non-terminal instance whose deadline has passed
func (s *MemoryInstanceStore) ScanExpired(_ context.Context, now time.Time) ([]*Instance, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var expired []*Instance
	for _, instance := range s.instances {
		if instance.Expired(now) {
			expired = append(expired, instance.Clone())
		}
	}

	return expired, nil
}

// FindByStatus returns up to limit instances with the given status
func (s *MemoryInstanceStore) FindByStatus(_ context.Context, status Status, limit int) ([]*Instance, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	var matches []*Instance
	for _, instance := range s.instances {
		if instance.Status != status {
			continue
		}
		matches = append(matches, instance.Clone())
		if limit > 0 && len(matches) >= limit {
			break
		}
	}

	return matches, nil
}
