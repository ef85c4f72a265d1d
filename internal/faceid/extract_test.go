package faceid

import (
	"testing"
)

// fakeFace implements DetectedFace for tests.
type fakeFace struct {
	bounds      Box
	landmarks   map[LandmarkType]Point
	eulerX      float64
	eulerY      float64
	eulerZ      float64
	smiling     *float64
	leftEyeOpen *float64
	rightEye    *float64
}

func (f *fakeFace) Bounds() Box { return f.bounds }

func (f *fakeFace) Landmark(t LandmarkType) (Point, bool) {
	p, ok := f.landmarks[t]
	return p, ok
}

func (f *fakeFace) EulerAngles() (float64, float64, float64) {
	return f.eulerX, f.eulerY, f.eulerZ
}

func (f *fakeFace) SmilingProbability() (float64, bool) {
	if f.smiling == nil {
		return 0, false
	}
	return *f.smiling, true
}

func (f *fakeFace) LeftEyeOpenProbability() (float64, bool) {
	if f.leftEyeOpen == nil {
		return 0, false
	}
	return *f.leftEyeOpen, true
}

func (f *fakeFace) RightEyeOpenProbability() (float64, bool) {
	if f.rightEye == nil {
		return 0, false
	}
	return *f.rightEye, true
}

func TestExtract(t *testing.T) {
	face := &fakeFace{
		bounds: Box{Left: 10, Top: 10, Right: 90, Bottom: 110},
		landmarks: map[LandmarkType]Point{
			LeftEye:  {X: 30, Y: 40},
			RightEye: {X: 70, Y: 41},
			NoseBase: {X: 50, Y: 60},
		},
		eulerX:  -3,
		eulerY:  10,
		eulerZ:  1.5,
		smiling: floatPtr(0.8),
	}

	rec := Extract(face)

	if rec.BoundingBox != face.bounds {
		t.Errorf("BoundingBox = %+v, want %+v", rec.BoundingBox, face.bounds)
	}
	if rec.HeadEulerAngleX != -3 || rec.HeadEulerAngleY != 10 || rec.HeadEulerAngleZ != 1.5 {
		t.Errorf("euler angles = %v/%v/%v, want -3/10/1.5",
			rec.HeadEulerAngleX, rec.HeadEulerAngleY, rec.HeadEulerAngleZ)
	}
	if len(rec.Landmarks) != 3 {
		t.Fatalf("got %d landmarks, want 3", len(rec.Landmarks))
	}
	for typ, want := range face.landmarks {
		lm, ok := rec.Landmark(typ)
		if !ok {
			t.Errorf("landmark %v missing from record", typ)
			continue
		}
		if lm.X != want.X || lm.Y != want.Y {
			t.Errorf("landmark %v = (%v,%v), want (%v,%v)", typ, lm.X, lm.Y, want.X, want.Y)
		}
	}
	if rec.SmilingProbability == nil || *rec.SmilingProbability != 0.8 {
		t.Errorf("SmilingProbability = %v, want 0.8", rec.SmilingProbability)
	}
	if rec.LeftEyeOpenProbability != nil || rec.RightEyeOpenProbability != nil {
		t.Error("absent classifier probabilities must stay nil")
	}
}

func TestExtractNoLandmarks(t *testing.T) {
	rec := Extract(&fakeFace{bounds: Box{Left: 0, Top: 0, Right: 10, Bottom: 10}})

	if rec == nil {
		t.Fatal("Extract() returned nil")
	}
	if len(rec.Landmarks) != 0 {
		t.Errorf("got %d landmarks, want 0", len(rec.Landmarks))
	}

	// A landmark-free record must still serialize and round-trip.
	s, err := Serialize(rec)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(parsed.Landmarks) != 0 {
		t.Errorf("parsed %d landmarks, want 0", len(parsed.Landmarks))
	}
}

func TestExtractCanonicalOrder(t *testing.T) {
	landmarks := make(map[LandmarkType]Point, len(AllLandmarkTypes))
	for i, typ := range AllLandmarkTypes {
		landmarks[typ] = Point{X: float64(i), Y: float64(i * 2)}
	}
	rec := Extract(&fakeFace{landmarks: landmarks})

	if len(rec.Landmarks) != len(AllLandmarkTypes) {
		t.Fatalf("got %d landmarks, want %d", len(rec.Landmarks), len(AllLandmarkTypes))
	}
	for i, typ := range AllLandmarkTypes {
		if rec.Landmarks[i].Type != typ {
			t.Errorf("landmark %d has type %v, want %v", i, rec.Landmarks[i].Type, typ)
		}
	}
}

func TestLandmarkVector(t *testing.T) {
	rec := record(
		Landmark{Type: LeftEye, X: 3, Y: 4},
		Landmark{Type: RightEar, X: 7, Y: 8},
	)
	vec := LandmarkVector(rec)

	if len(vec) != VectorDim {
		t.Fatalf("vector length = %d, want %d", len(vec), VectorDim)
	}
	// LeftEye is first in canonical order, RightEar last.
	if vec[0] != 3 || vec[1] != 4 {
		t.Errorf("left eye slot = (%v,%v), want (3,4)", vec[0], vec[1])
	}
	if vec[VectorDim-2] != 7 || vec[VectorDim-1] != 8 {
		t.Errorf("right ear slot = (%v,%v), want (7,8)", vec[VectorDim-2], vec[VectorDim-1])
	}
	for i := 2; i < VectorDim-2; i++ {
		if vec[i] != 0 {
			t.Errorf("absent landmark slot %d = %v, want 0", i, vec[i])
		}
	}

	if vec := LandmarkVector(nil); len(vec) != VectorDim {
		t.Errorf("nil record vector length = %d, want %d", len(vec), VectorDim)
	}
}
