package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/facegate/facegate/internal/database"
	"github.com/pgvector/pgvector-go"
)

// PersonRepository provides PostgreSQL-backed gallery storage with an
// optional in-memory HNSW index for landmark-vector prefiltering.
type PersonRepository struct {
	pool        *Pool
	hnswIndex   *database.HNSWIndex
	hnswEnabled bool
	hnswMu      sync.RWMutex
}

// NewPersonRepository creates a new PostgreSQL person repository.
func NewPersonRepository(pool *Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

const personColumns = "id, name, image, features, landmark_vec, created_at"

func scanPerson(scanner interface{ Scan(...any) error }) (*database.Person, error) {
	var p database.Person
	var image []byte
	var vec pgvector.Vector
	if err := scanner.Scan(&p.ID, &p.Name, &image, &p.Features, &vec, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Image = image
	p.LandmarkVec = vec.Slice()
	return &p, nil
}

func scanPeople(rows *sql.Rows) ([]database.Person, error) {
	var people []database.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}
	return people, nil
}

// Get retrieves a person by ID, returns nil if not found.
func (r *PersonRepository) Get(ctx context.Context, id string) (*database.Person, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+personColumns+" FROM people WHERE id = $1", id)

	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query person: %w", err)
	}
	return p, nil
}

// List returns every enrolled person ordered by enrollment time.
func (r *PersonRepository) List(ctx context.Context) ([]database.Person, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+personColumns+" FROM people ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("query people: %w", err)
	}
	defer rows.Close()

	return scanPeople(rows)
}

// Count returns the number of enrolled people.
func (r *PersonRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM people").Scan(&count); err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	return count, nil
}

// FindSimilar returns up to limit people ordered by landmark-vector L2
// distance. Uses the in-memory HNSW index when enabled, otherwise pgvector's
// <-> operator.
func (r *PersonRepository) FindSimilar(ctx context.Context, vec []float32, limit int) ([]database.Person, error) {
	r.hnswMu.RLock()
	useHNSW := r.hnswEnabled && r.hnswIndex != nil
	r.hnswMu.RUnlock()

	if useHNSW {
		return r.findSimilarHNSW(vec, limit)
	}

	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE landmark_vec IS NOT NULL
		ORDER BY landmark_vec <-> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(vec), limit)
	if err != nil {
		return nil, fmt.Errorf("query similar people: %w", err)
	}
	defer rows.Close()

	return scanPeople(rows)
}

func (r *PersonRepository) findSimilarHNSW(vec []float32, limit int) ([]database.Person, error) {
	r.hnswMu.RLock()
	defer r.hnswMu.RUnlock()

	ids, _, err := r.hnswIndex.Search(vec, limit*database.HNSWSearchMultiplier)
	if err != nil {
		return nil, fmt.Errorf("hnsw search: %w", err)
	}

	people := make([]database.Person, 0, limit)
	for _, id := range ids {
		if p := r.hnswIndex.GetPerson(id); p != nil {
			people = append(people, *p)
			if len(people) == limit {
				break
			}
		}
	}
	return people, nil
}

// Insert enrolls a new person; a duplicate ID is rejected, never overwritten.
func (r *PersonRepository) Insert(ctx context.Context, p database.Person) error {
	result, err := r.pool.Exec(ctx, `
		INSERT INTO people (id, name, image, features, landmark_vec, created_at)
		VALUES ($1, $2, $3, $4, $5::vector, $6)
		ON CONFLICT (id) DO NOTHING
	`, p.ID, p.Name, p.Image, p.Features, pgvector.NewVector(p.LandmarkVec), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert person rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrDuplicatePerson
	}

	r.hnswAdd(&p)
	return nil
}

// Replace swaps the stored record for an enrolled person wholesale.
func (r *PersonRepository) Replace(ctx context.Context, p database.Person) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE people
		SET name = $2, image = $3, features = $4, landmark_vec = $5::vector, created_at = $6
		WHERE id = $1
	`, p.ID, p.Name, p.Image, p.Features, pgvector.NewVector(p.LandmarkVec), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("replace person: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace person rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrPersonNotFound
	}

	r.hnswAdd(&p)
	return nil
}

// Delete removes a person.
func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM people WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete person rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrPersonNotFound
	}

	r.hnswMu.RLock()
	if r.hnswEnabled && r.hnswIndex != nil {
		r.hnswIndex.Remove(id)
	}
	r.hnswMu.RUnlock()
	return nil
}

func (r *PersonRepository) hnswAdd(p *database.Person) {
	r.hnswMu.RLock()
	defer r.hnswMu.RUnlock()
	if r.hnswEnabled && r.hnswIndex != nil {
		r.hnswIndex.Add(p)
	}
}

// EnableHNSW builds the in-memory index from the current gallery. When path
// is non-empty the index is persisted there and reloaded on the next start.
func (r *PersonRepository) EnableHNSW(ctx context.Context, path string) error {
	people, err := r.List(ctx)
	if err != nil {
		return fmt.Errorf("load people for hnsw: %w", err)
	}

	idx := database.NewHNSWIndex()
	if path != "" {
		if err := idx.LoadFromDisk(path); err != nil {
			return err
		}
		for i := range people {
			idx.Add(&people[i])
		}
		if err := idx.Save(); err != nil {
			return err
		}
	} else if err := idx.BuildFromPeople(people); err != nil {
		return fmt.Errorf("build hnsw index: %w", err)
	}

	r.hnswMu.Lock()
	r.hnswIndex = idx
	r.hnswEnabled = true
	r.hnswMu.Unlock()
	return nil
}

// SaveHNSW persists the index to its configured path. A no-op for
// in-memory-only indexes.
func (r *PersonRepository) SaveHNSW() error {
	r.hnswMu.RLock()
	defer r.hnswMu.RUnlock()
	if !r.hnswEnabled || r.hnswIndex == nil {
		return nil
	}
	return r.hnswIndex.Save()
}

// HNSWCount returns the number of people in the HNSW index.
func (r *PersonRepository) HNSWCount() int {
	r.hnswMu.RLock()
	defer r.hnswMu.RUnlock()
	if r.hnswIndex == nil {
		return 0
	}
	return r.hnswIndex.Count()
}
