// Package faceid implements the facial-similarity engine: it turns raw
// detector output (bounding box, landmarks, pose angles, classifier scores)
// into a serializable FeatureRecord and scores two records for similarity.
// Both halves are pure functions with no shared state, safe to call from
// any number of goroutines.
package faceid

// LandmarkType identifies one of the ten facial keypoints the detector can
// localize. The integer values are the upstream detector's constants and are
// part of the serialized format; do not renumber.
type LandmarkType int

const (
	MouthBottom LandmarkType = 0
	LeftCheek   LandmarkType = 1
	LeftEar     LandmarkType = 3
	LeftEye     LandmarkType = 4
	MouthLeft   LandmarkType = 5
	NoseBase    LandmarkType = 6
	RightCheek  LandmarkType = 7
	RightEar    LandmarkType = 9
	RightEye    LandmarkType = 10
	MouthRight  LandmarkType = 11
)

// AllLandmarkTypes lists every landmark type in canonical extraction order.
var AllLandmarkTypes = []LandmarkType{
	LeftEye,
	RightEye,
	NoseBase,
	LeftCheek,
	RightCheek,
	MouthLeft,
	MouthRight,
	MouthBottom,
	LeftEar,
	RightEar,
}

// String returns a human-readable name for the landmark type.
func (t LandmarkType) String() string {
	switch t {
	case MouthBottom:
		return "mouth_bottom"
	case LeftCheek:
		return "left_cheek"
	case LeftEar:
		return "left_ear"
	case LeftEye:
		return "left_eye"
	case MouthLeft:
		return "mouth_left"
	case NoseBase:
		return "nose_base"
	case RightCheek:
		return "right_cheek"
	case RightEar:
		return "right_ear"
	case RightEye:
		return "right_eye"
	case MouthRight:
		return "mouth_right"
	}
	return "unknown"
}

// Valid reports whether t is one of the ten known landmark types.
func (t LandmarkType) Valid() bool {
	switch t {
	case MouthBottom, LeftCheek, LeftEar, LeftEye, MouthLeft,
		NoseBase, RightCheek, RightEar, RightEye, MouthRight:
		return true
	}
	return false
}

// Point is a 2D pixel position in the source image's coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmark is a named facial keypoint with its pixel position.
type Landmark struct {
	Type LandmarkType `json:"type"`
	X    float64      `json:"x"`
	Y    float64      `json:"y"`
}

// Box is the face bounding rectangle in pixel coordinates.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// FeatureRecord is the durable output of extraction for one detected face.
// A record is immutable once produced; an identity update replaces the whole
// record rather than mutating it. A record with zero landmarks is valid but
// carries no comparable identity information.
type FeatureRecord struct {
	BoundingBox     Box        `json:"boundingBox"`
	HeadEulerAngleX float64    `json:"headEulerAngleX"`
	HeadEulerAngleY float64    `json:"headEulerAngleY"`
	HeadEulerAngleZ float64    `json:"headEulerAngleZ"`
	Landmarks       []Landmark `json:"landmarks"`

	// Classifier probabilities are optional: nil means the detector did not
	// supply the value, never "zero".
	SmilingProbability      *float64 `json:"smilingProbability,omitempty"`
	LeftEyeOpenProbability  *float64 `json:"leftEyeOpenProbability,omitempty"`
	RightEyeOpenProbability *float64 `json:"rightEyeOpenProbability,omitempty"`
}

// Landmark returns the record's landmark of the given type, if present.
func (r *FeatureRecord) Landmark(t LandmarkType) (Landmark, bool) {
	for _, lm := range r.Landmarks {
		if lm.Type == t {
			return lm, true
		}
	}
	return Landmark{}, false
}

// Equal reports field-for-field equality of two records, including
// presence/absence of the optional classifier probabilities.
func (r *FeatureRecord) Equal(o *FeatureRecord) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.BoundingBox != o.BoundingBox {
		return false
	}
	if r.HeadEulerAngleX != o.HeadEulerAngleX ||
		r.HeadEulerAngleY != o.HeadEulerAngleY ||
		r.HeadEulerAngleZ != o.HeadEulerAngleZ {
		return false
	}
	if len(r.Landmarks) != len(o.Landmarks) {
		return false
	}
	for i := range r.Landmarks {
		if r.Landmarks[i] != o.Landmarks[i] {
			return false
		}
	}
	return floatPtrEqual(r.SmilingProbability, o.SmilingProbability) &&
		floatPtrEqual(r.LeftEyeOpenProbability, o.LeftEyeOpenProbability) &&
		floatPtrEqual(r.RightEyeOpenProbability, o.RightEyeOpenProbability)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
