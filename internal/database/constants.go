package database

// HNSW index parameters for the 20-dim landmark vectors.
const (
	// HNSWMaxNeighbors (M) is the maximum number of neighbors per node.
	// Higher values improve recall but increase memory and build time.
	HNSWMaxNeighbors = 16

	// HNSWSearchMultiplier requests extra candidates from the index so
	// enough survive exact rescoring by the similarity engine.
	HNSWSearchMultiplier = 3
)
