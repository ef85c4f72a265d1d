package faceid

// DetectedFace is the view of one detected face the extractor needs from an
// external detector: a bounding rectangle, a partial landmark lookup, three
// head pose angles, and optional classifier probabilities. The detector
// package provides the production implementation; tests use in-memory fakes.
type DetectedFace interface {
	// Bounds returns the face bounding rectangle in pixel coordinates.
	Bounds() Box
	// Landmark returns the position of the given landmark type, or ok=false
	// when the detector failed to localize it.
	Landmark(t LandmarkType) (Point, bool)
	// EulerAngles returns the head pose angles in degrees (pitch, yaw, roll).
	EulerAngles() (x, y, z float64)
	// SmilingProbability returns the smiling classifier score in [0,1],
	// or ok=false when the detector did not run the classifier.
	SmilingProbability() (float64, bool)
	// LeftEyeOpenProbability returns the left-eye-open classifier score.
	LeftEyeOpenProbability() (float64, bool)
	// RightEyeOpenProbability returns the right-eye-open classifier score.
	RightEyeOpenProbability() (float64, bool)
}

// Extract builds a FeatureRecord from one detected face. It queries the face
// for each of the ten landmark types in canonical order and records only the
// ones that are present; absent landmarks are omitted, never defaulted.
// Extract is a pure function of its input and cannot fail: a face with zero
// localized landmarks yields a record with an empty landmark slice.
func Extract(f DetectedFace) *FeatureRecord {
	rec := &FeatureRecord{
		BoundingBox: f.Bounds(),
		Landmarks:   []Landmark{},
	}
	rec.HeadEulerAngleX, rec.HeadEulerAngleY, rec.HeadEulerAngleZ = f.EulerAngles()

	for _, t := range AllLandmarkTypes {
		if p, ok := f.Landmark(t); ok {
			rec.Landmarks = append(rec.Landmarks, Landmark{Type: t, X: p.X, Y: p.Y})
		}
	}

	if v, ok := f.SmilingProbability(); ok {
		rec.SmilingProbability = &v
	}
	if v, ok := f.LeftEyeOpenProbability(); ok {
		rec.LeftEyeOpenProbability = &v
	}
	if v, ok := f.RightEyeOpenProbability(); ok {
		rec.RightEyeOpenProbability = &v
	}

	return rec
}
