package faceid

// VectorDim is the dimensionality of the flattened landmark vector: two
// coordinates for each of the ten landmark types.
const VectorDim = 20

// LandmarkVector flattens a record's landmarks into a fixed-size vector in
// canonical type order, with absent landmarks zeroed. The vector exists only
// as a coarse retrieval accelerator (pgvector column, HNSW index) for large
// galleries; match decisions always come from Compare, which is recomputed
// at query time and never stored.
func LandmarkVector(r *FeatureRecord) []float32 {
	vec := make([]float32, VectorDim)
	if r == nil {
		return vec
	}
	for i, t := range AllLandmarkTypes {
		if lm, ok := r.Landmark(t); ok {
			vec[2*i] = float32(lm.X)
			vec[2*i+1] = float32(lm.Y)
		}
	}
	return vec
}
