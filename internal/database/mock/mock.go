// Package mock provides an in-memory implementation of the database
// interfaces for testing.
package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/facegate/facegate/internal/database"
)

// PersonRepository is an in-memory implementation of database.PersonWriter.
type PersonRepository struct {
	mu     sync.RWMutex
	people map[string]database.Person

	// Error injection
	GetError         error
	ListError        error
	CountError       error
	FindSimilarError error
	InsertError      error
	ReplaceError     error
	DeleteError      error
}

// NewPersonRepository creates an empty mock repository.
func NewPersonRepository() *PersonRepository {
	return &PersonRepository{people: make(map[string]database.Person)}
}

// AddPerson seeds the mock store, bypassing duplicate checks.
func (m *PersonRepository) AddPerson(p database.Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.people[p.ID] = p
}

// Get retrieves a person by ID, nil if absent.
func (m *PersonRepository) Get(ctx context.Context, id string) (*database.Person, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.people[id]; ok {
		return &p, nil
	}
	return nil, nil
}

// List returns every person ordered by enrollment time, then ID for
// stability.
func (m *PersonRepository) List(ctx context.Context) ([]database.Person, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	people := make([]database.Person, 0, len(m.people))
	for _, p := range m.people {
		people = append(people, p)
	}
	sort.Slice(people, func(i, j int) bool {
		if !people[i].CreatedAt.Equal(people[j].CreatedAt) {
			return people[i].CreatedAt.Before(people[j].CreatedAt)
		}
		return people[i].ID < people[j].ID
	})
	return people, nil
}

// Count returns the number of stored people.
func (m *PersonRepository) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.people), nil
}

// FindSimilar returns up to limit people ordered by landmark-vector distance.
func (m *PersonRepository) FindSimilar(ctx context.Context, vec []float32, limit int) ([]database.Person, error) {
	if m.FindSimilarError != nil {
		return nil, m.FindSimilarError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	people := make([]database.Person, 0, len(m.people))
	for _, p := range m.people {
		people = append(people, p)
	}
	sort.Slice(people, func(i, j int) bool {
		return database.EuclideanDistance(vec, people[i].LandmarkVec) <
			database.EuclideanDistance(vec, people[j].LandmarkVec)
	})
	if limit > 0 && len(people) > limit {
		people = people[:limit]
	}
	return people, nil
}

// Insert enrolls a new person, rejecting duplicate IDs.
func (m *PersonRepository) Insert(ctx context.Context, p database.Person) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.people[p.ID]; exists {
		return database.ErrDuplicatePerson
	}
	m.people[p.ID] = p
	return nil
}

// Replace swaps the stored record wholesale.
func (m *PersonRepository) Replace(ctx context.Context, p database.Person) error {
	if m.ReplaceError != nil {
		return m.ReplaceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.people[p.ID]; !exists {
		return database.ErrPersonNotFound
	}
	m.people[p.ID] = p
	return nil
}

// Delete removes a person.
func (m *PersonRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.people[id]; !exists {
		return database.ErrPersonNotFound
	}
	delete(m.people, id)
	return nil
}
