// Package gallery implements enrollment and recognition on top of the
// similarity engine: it owns the threshold policy the engine itself stays
// free of, and the glue between detector, engine and storage.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/detector"
	"github.com/facegate/facegate/internal/faceid"
	"github.com/google/uuid"
)

var (
	// ErrNoFace means the detector found no face in the image.
	ErrNoFace = errors.New("no face detected")

	// ErrMultipleFaces means the image contains more than one face;
	// enrollment and recognition need exactly one.
	ErrMultipleFaces = errors.New("multiple faces detected")

	// ErrLowSimilarity means an identity photo update scored below the
	// update threshold against the stored record.
	ErrLowSimilarity = errors.New("similarity below update threshold")
)

// FaceDetector is the slice of the detector client the service needs.
type FaceDetector interface {
	DetectOrEmpty(ctx context.Context, imageData []byte) []detector.Face
}

// Service wires detector, engine, and storage together and applies the
// match thresholds.
type Service struct {
	repo       database.PersonWriter
	detector   FaceDetector
	notifier   *database.Notifier
	thresholds config.ThresholdsConfig

	// Prefilter, when positive, limits exact scoring to that many
	// HNSW/pgvector candidates instead of the full gallery.
	Prefilter int
}

// NewService creates a gallery service. The notifier may be shared with the
// web layer's event stream.
func NewService(repo database.PersonWriter, det FaceDetector, notifier *database.Notifier, thresholds config.ThresholdsConfig) *Service {
	return &Service{
		repo:       repo,
		detector:   det,
		notifier:   notifier,
		thresholds: thresholds,
	}
}

// Thresholds returns the configured threshold policy.
func (s *Service) Thresholds() config.ThresholdsConfig {
	return s.thresholds
}

// Repository exposes the backing store for backend-specific setup such as
// index warm-up.
func (s *Service) Repository() database.PersonWriter {
	return s.repo
}

// extractSingleFace runs detection and requires exactly one face.
func (s *Service) extractSingleFace(ctx context.Context, imageData []byte) (*faceid.FeatureRecord, error) {
	faces := s.detector.DetectOrEmpty(ctx, imageData)
	switch {
	case len(faces) == 0:
		return nil, ErrNoFace
	case len(faces) > 1:
		return nil, ErrMultipleFaces
	}
	return faceid.Extract(&faces[0]), nil
}

// Enroll adds a new person to the gallery from a single-face image.
func (s *Service) Enroll(ctx context.Context, name string, imageData []byte) (*database.Person, error) {
	rec, err := s.extractSingleFace(ctx, imageData)
	if err != nil {
		return nil, err
	}

	features, err := faceid.Serialize(rec)
	if err != nil {
		return nil, fmt.Errorf("serialize features: %w", err)
	}

	person := database.Person{
		ID:          uuid.NewString(),
		Name:        name,
		Image:       Thumbnail(imageData, thumbnailMaxSize),
		Features:    features,
		LandmarkVec: faceid.LandmarkVector(rec),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, person); err != nil {
		return nil, fmt.Errorf("store person: %w", err)
	}

	s.publish(database.Event{Type: database.EventEnrolled, PersonID: person.ID, Name: person.Name})
	return &person, nil
}

// Match is one scored gallery candidate.
type Match struct {
	PersonID string  `json:"person_id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
}

// RecognizeResult is the ranked outcome of scoring a query image against
// the gallery.
type RecognizeResult struct {
	Matches   []Match `json:"matches"`
	Matched   bool    `json:"matched"`
	Threshold float64 `json:"threshold"`
}

// Best returns the top match, or nil for an empty gallery.
func (r *RecognizeResult) Best() *Match {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// Recognize scores the query image against every enrolled person and applies
// the threshold: threshold <= 0 falls back to the configured search default.
// Scores are always recomputed by the engine at query time, never read from
// storage.
func (s *Service) Recognize(ctx context.Context, imageData []byte, threshold float64) (*RecognizeResult, error) {
	if threshold <= 0 {
		threshold = s.thresholds.Search
	}

	rec, err := s.extractSingleFace(ctx, imageData)
	if err != nil {
		return nil, err
	}

	var people []database.Person
	if s.Prefilter > 0 {
		people, err = s.repo.FindSimilar(ctx, faceid.LandmarkVector(rec), s.Prefilter)
	} else {
		people, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}

	matches := make([]Match, 0, len(people))
	for _, p := range people {
		stored, err := faceid.Parse(p.Features)
		if err != nil {
			// Corrupt stored record scores 0, same as the engine's policy.
			matches = append(matches, Match{PersonID: p.ID, Name: p.Name})
			continue
		}
		score, _ := faceid.Compare(rec, stored)
		matches = append(matches, Match{PersonID: p.ID, Name: p.Name, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	result := &RecognizeResult{Matches: matches, Threshold: threshold}
	if best := result.Best(); best != nil && best.Score >= threshold {
		result.Matched = true
	}
	return result, nil
}

// UpdatePhoto replaces a person's enrollment photo. The new face must score
// at or above the update threshold against the stored record; on success the
// whole record is replaced, never mutated in place.
func (s *Service) UpdatePhoto(ctx context.Context, id string, imageData []byte) (*database.Person, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load person: %w", err)
	}
	if existing == nil {
		return nil, database.ErrPersonNotFound
	}

	rec, err := s.extractSingleFace(ctx, imageData)
	if err != nil {
		return nil, err
	}

	features, err := faceid.Serialize(rec)
	if err != nil {
		return nil, fmt.Errorf("serialize features: %w", err)
	}

	if score := faceid.Score(existing.Features, features); score < s.thresholds.Update {
		return nil, fmt.Errorf("%w: score %.1f < %.1f", ErrLowSimilarity, score, s.thresholds.Update)
	}

	updated := database.Person{
		ID:          existing.ID,
		Name:        existing.Name,
		Image:       Thumbnail(imageData, thumbnailMaxSize),
		Features:    features,
		LandmarkVec: faceid.LandmarkVector(rec),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Replace(ctx, updated); err != nil {
		return nil, fmt.Errorf("replace person: %w", err)
	}

	s.publish(database.Event{Type: database.EventUpdated, PersonID: updated.ID, Name: updated.Name})
	return &updated, nil
}

// Delete removes a person from the gallery.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load person: %w", err)
	}
	if p == nil {
		return database.ErrPersonNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}

	s.publish(database.Event{Type: database.EventDeleted, PersonID: id, Name: p.Name})
	return nil
}

// GetPerson returns one enrolled person, nil if absent.
func (s *Service) GetPerson(ctx context.Context, id string) (*database.Person, error) {
	return s.repo.Get(ctx, id)
}

// ListPeople returns the whole gallery ordered by enrollment time.
func (s *Service) ListPeople(ctx context.Context) ([]database.Person, error) {
	return s.repo.List(ctx)
}

// CountPeople returns the number of enrolled people.
func (s *Service) CountPeople(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// FindByName returns every enrolled person whose normalized name matches.
func (s *Service) FindByName(ctx context.Context, name string) ([]database.Person, error) {
	people, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}

	want := NormalizePersonName(name)
	var found []database.Person
	for _, p := range people {
		if NormalizePersonName(p.Name) == want {
			found = append(found, p)
		}
	}
	return found, nil
}

func (s *Service) publish(e database.Event) {
	if s.notifier != nil {
		s.notifier.Publish(e)
	}
}
