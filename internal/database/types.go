// Package database defines the person gallery storage contract: the Person
// record, the repository interfaces, change notification, and the optional
// in-memory HNSW index used to prefilter large galleries.
package database

import (
	"errors"
	"time"
)

// Sentinel errors shared by every backend.
var (
	// ErrDuplicatePerson is returned by Insert when the identifier is
	// already enrolled.
	ErrDuplicatePerson = errors.New("person already enrolled")

	// ErrPersonNotFound is returned by Replace and Delete for unknown
	// identifiers.
	ErrPersonNotFound = errors.New("person not found")
)

// Person is one enrolled identity. Features holds the serialized
// FeatureRecord exactly as the engine produced it; LandmarkVec is the
// flattened landmark vector used only for coarse similarity prefiltering.
type Person struct {
	ID          string
	Name        string
	Image       []byte // enrollment thumbnail, JPEG
	Features    string // serialized FeatureRecord
	LandmarkVec []float32
	CreatedAt   time.Time
}
