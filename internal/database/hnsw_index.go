package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/coder/hnsw"
)

// HNSWIndex wraps an HNSW graph over the gallery's landmark vectors. It is a
// retrieval accelerator only: search results are always rescored with the
// exact similarity engine before any match decision.
type HNSWIndex struct {
	graph      *hnsw.Graph[string]
	savedGraph *hnsw.SavedGraph[string] // non-nil when persisting to disk
	idToPerson map[string]*Person
	mu         sync.RWMutex
}

// NewHNSWIndex creates a new empty in-memory index.
func NewHNSWIndex() *HNSWIndex {
	return &HNSWIndex{idToPerson: make(map[string]*Person)}
}

func newGraph() *hnsw.Graph[string] {
	g := hnsw.NewGraph[string]()
	g.M = HNSWMaxNeighbors
	g.Ml = 1.0 / float64(HNSWMaxNeighbors) // Standard HNSW formula
	g.Distance = hnsw.EuclideanDistance
	return g
}

// BuildFromPeople rebuilds the index from the full gallery.
func (h *HNSWIndex) BuildFromPeople(people []Person) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.idToPerson = make(map[string]*Person, len(people))
	if len(people) == 0 {
		h.graph = nil
		return nil
	}

	g := newGraph()
	for i := range people {
		p := &people[i]
		if len(p.LandmarkVec) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(p.ID, p.LandmarkVec))
		h.idToPerson[p.ID] = p
	}

	h.graph = g
	return nil
}

// LoadFromDisk loads a persisted index from path, creating it when absent.
func (h *HNSWIndex) LoadFromDisk(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	sg, err := hnsw.LoadSavedGraph[string](path)
	if err != nil {
		return fmt.Errorf("load hnsw index from %s: %w", path, err)
	}
	sg.M = HNSWMaxNeighbors
	sg.Ml = 1.0 / float64(HNSWMaxNeighbors)
	sg.Distance = hnsw.EuclideanDistance

	h.savedGraph = sg
	h.graph = nil
	return nil
}

// Save persists the index when it was loaded from disk; otherwise a no-op.
func (h *HNSWIndex) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.savedGraph == nil {
		return nil
	}
	if err := h.savedGraph.Save(); err != nil {
		return fmt.Errorf("save hnsw index: %w", err)
	}
	return nil
}

// Search returns the IDs and landmark-vector distances of the k people
// closest to the query vector.
func (h *HNSWIndex) Search(query []float32, k int) ([]string, []float64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.graph == nil && h.savedGraph == nil {
		return nil, nil, errors.New("index not initialized")
	}

	var neighbors []hnsw.Node[string]
	if h.savedGraph != nil {
		neighbors = h.savedGraph.Search(query, k)
	} else {
		neighbors = h.graph.Search(query, k)
	}

	ids := make([]string, len(neighbors))
	distances := make([]float64, len(neighbors))
	for i, n := range neighbors {
		ids[i] = n.Key
		distances[i] = EuclideanDistance(query, n.Value)
	}
	return ids, distances, nil
}

// GetPerson returns the cached person for an indexed ID.
func (h *HNSWIndex) GetPerson(id string) *Person {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.idToPerson[id]
}

// Add inserts or refreshes a single person in the index.
func (h *HNSWIndex) Add(p *Person) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(p.LandmarkVec) == 0 {
		return
	}
	if h.savedGraph != nil {
		h.savedGraph.Add(hnsw.MakeNode(p.ID, p.LandmarkVec))
	} else {
		if h.graph == nil {
			h.graph = newGraph()
		}
		h.graph.Add(hnsw.MakeNode(p.ID, p.LandmarkVec))
	}
	h.idToPerson[p.ID] = p
}

// Remove deletes a person from the index.
func (h *HNSWIndex) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.savedGraph != nil {
		h.savedGraph.Delete(id)
	} else if h.graph != nil {
		h.graph.Delete(id)
	}
	delete(h.idToPerson, id)
}

// Count returns the number of indexed people.
func (h *HNSWIndex) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.idToPerson)
}
