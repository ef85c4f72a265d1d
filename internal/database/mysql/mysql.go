// Package mysql implements the gallery repository on MySQL/MariaDB. MySQL
// has no vector type, so the landmark vector is stored as a JSON array and
// similarity prefiltering is computed in Go over the full gallery, which is
// fine at the gallery sizes a single deployment holds.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database"
	_ "github.com/go-sql-driver/mysql"
)

// Pool manages a MySQL connection pool.
type Pool struct {
	db *sql.DB
}

// NewPool creates a new MySQL connection pool.
func NewPool(cfg *config.DatabaseConfig) (*Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("MySQL DSN is required")
	}

	db, err := sql.Open("mysql", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	return &Pool{db: db}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// Migrate creates the people table if it does not exist.
func (p *Pool) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS people (
			id           VARCHAR(64) PRIMARY KEY,
			name         TEXT NOT NULL,
			image        MEDIUMBLOB,
			features     TEXT NOT NULL,
			landmark_vec TEXT,
			created_at   TIMESTAMP(6) NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create people table: %w", err)
	}
	return nil
}

// PersonRepository provides MySQL-backed gallery storage.
type PersonRepository struct {
	pool *Pool
}

// NewPersonRepository creates a new MySQL person repository.
func NewPersonRepository(pool *Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

const personColumns = "id, name, image, features, landmark_vec, created_at"

func scanPerson(scanner interface{ Scan(...any) error }) (*database.Person, error) {
	var p database.Person
	var vecJSON sql.NullString
	if err := scanner.Scan(&p.ID, &p.Name, &p.Image, &p.Features, &vecJSON, &p.CreatedAt); err != nil {
		return nil, err
	}
	if vecJSON.Valid && vecJSON.String != "" {
		if err := json.Unmarshal([]byte(vecJSON.String), &p.LandmarkVec); err != nil {
			return nil, fmt.Errorf("parse landmark vector: %w", err)
		}
	}
	return &p, nil
}

func encodeVec(vec []float32) (string, error) {
	data, err := json.Marshal(vec)
	if err != nil {
		return "", fmt.Errorf("encode landmark vector: %w", err)
	}
	return string(data), nil
}

// Get retrieves a person by ID, returns nil if not found.
func (r *PersonRepository) Get(ctx context.Context, id string) (*database.Person, error) {
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM people WHERE id = ?", id)

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
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+personColumns+" FROM people ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("query people: %w", err)
	}
	defer rows.Close()

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

// Count returns the number of enrolled people.
func (r *PersonRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM people").Scan(&count); err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	return count, nil
}

// FindSimilar loads the gallery and sorts by landmark-vector distance in Go.
func (r *PersonRepository) FindSimilar(ctx context.Context, vec []float32, limit int) ([]database.Person, error) {
	people, err := r.List(ctx)
	if err != nil {
		return nil, err
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

// Insert enrolls a new person; a duplicate ID is rejected, never overwritten.
func (r *PersonRepository) Insert(ctx context.Context, p database.Person) error {
	vec, err := encodeVec(p.LandmarkVec)
	if err != nil {
		return err
	}

	result, err := r.pool.db.ExecContext(ctx, `
		INSERT IGNORE INTO people (id, name, image, features, landmark_vec, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Image, p.Features, vec, p.CreatedAt)
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
	return nil
}

// Replace swaps the stored record for an enrolled person wholesale.
func (r *PersonRepository) Replace(ctx context.Context, p database.Person) error {
	vec, err := encodeVec(p.LandmarkVec)
	if err != nil {
		return err
	}

	// RowsAffected is 0 for a no-change UPDATE on MySQL, so existence is
	// checked explicitly instead.
	var exists bool
	err = r.pool.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM people WHERE id = ?)", p.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check person exists: %w", err)
	}
	if !exists {
		return database.ErrPersonNotFound
	}

	_, err = r.pool.db.ExecContext(ctx, `
		UPDATE people
		SET name = ?, image = ?, features = ?, landmark_vec = ?, created_at = ?
		WHERE id = ?
	`, p.Name, p.Image, p.Features, vec, p.CreatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("replace person: %w", err)
	}
	return nil
}

// Delete removes a person.
func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM people WHERE id = ?", id)
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
	return nil
}
