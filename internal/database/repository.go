package database

import (
	"context"
)

// PersonReader provides read-only access to the enrolled gallery.
type PersonReader interface {
	// Get retrieves a person by ID, returns nil if not found.
	Get(ctx context.Context, id string) (*Person, error)
	// List returns every enrolled person ordered by enrollment time.
	List(ctx context.Context) ([]Person, error)
	// Count returns the number of enrolled people.
	Count(ctx context.Context) (int, error)
	// FindSimilar returns up to limit people ordered by landmark-vector
	// distance to the query vector. This is a coarse prefilter; callers
	// rescore the results with the exact similarity engine.
	FindSimilar(ctx context.Context, vec []float32, limit int) ([]Person, error)
}

// PersonWriter provides write access to the enrolled gallery.
type PersonWriter interface {
	PersonReader

	// Insert enrolls a new person. Returns ErrDuplicatePerson when the ID
	// is already taken; a duplicate never overwrites.
	Insert(ctx context.Context, p Person) error
	// Replace swaps the stored record for an enrolled person wholesale.
	// Returns ErrPersonNotFound for unknown IDs. Records are never mutated
	// in place; an identity update always goes through Replace.
	Replace(ctx context.Context, p Person) error
	// Delete removes a person. Returns ErrPersonNotFound for unknown IDs.
	Delete(ctx context.Context, id string) error
}
