// Package detector provides the boundary to the external face-detection
// service. The service is a black box reached over HTTP; it takes an image
// and returns zero or more detected faces with bounding boxes, landmarks,
// pose angles and optional classifier scores. Detector failures never reach
// the similarity engine: DetectOrEmpty maps them to "zero faces detected".
package detector

import (
	"github.com/facegate/facegate/internal/faceid"
)

// Face is one detected face as returned by the detection service. It
// implements faceid.DetectedFace so records can be extracted from it
// directly.
type Face struct {
	BoundingBox     faceid.Box        `json:"boundingBox"`
	HeadEulerAngleX float64           `json:"headEulerAngleX"`
	HeadEulerAngleY float64           `json:"headEulerAngleY"`
	HeadEulerAngleZ float64           `json:"headEulerAngleZ"`
	Landmarks       []faceid.Landmark `json:"landmarks"`

	SmilingProb      *float64 `json:"smilingProbability,omitempty"`
	LeftEyeOpenProb  *float64 `json:"leftEyeOpenProbability,omitempty"`
	RightEyeOpenProb *float64 `json:"rightEyeOpenProbability,omitempty"`
}

// Bounds returns the face bounding rectangle.
func (f *Face) Bounds() faceid.Box { return f.BoundingBox }

// Landmark returns the position of the given landmark type, if the detector
// localized it.
func (f *Face) Landmark(t faceid.LandmarkType) (faceid.Point, bool) {
	for _, lm := range f.Landmarks {
		if lm.Type == t {
			return faceid.Point{X: lm.X, Y: lm.Y}, true
		}
	}
	return faceid.Point{}, false
}

// EulerAngles returns the head pose angles in degrees.
func (f *Face) EulerAngles() (x, y, z float64) {
	return f.HeadEulerAngleX, f.HeadEulerAngleY, f.HeadEulerAngleZ
}

// SmilingProbability returns the smiling classifier score, if supplied.
func (f *Face) SmilingProbability() (float64, bool) {
	if f.SmilingProb == nil {
		return 0, false
	}
	return *f.SmilingProb, true
}

// LeftEyeOpenProbability returns the left-eye-open score, if supplied.
func (f *Face) LeftEyeOpenProbability() (float64, bool) {
	if f.LeftEyeOpenProb == nil {
		return 0, false
	}
	return *f.LeftEyeOpenProb, true
}

// RightEyeOpenProbability returns the right-eye-open score, if supplied.
func (f *Face) RightEyeOpenProbability() (float64, bool) {
	if f.RightEyeOpenProb == nil {
		return 0, false
	}
	return *f.RightEyeOpenProb, true
}
