package faceid

import (
	"strings"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestSerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		record *FeatureRecord
	}{
		{
			name: "all fields present",
			record: &FeatureRecord{
				BoundingBox:     Box{Left: 10, Top: 20, Right: 110, Bottom: 140},
				HeadEulerAngleX: -4.5,
				HeadEulerAngleY: 12.25,
				HeadEulerAngleZ: 0.75,
				Landmarks: []Landmark{
					{Type: LeftEye, X: 40, Y: 60},
					{Type: RightEye, X: 90, Y: 61},
					{Type: NoseBase, X: 65, Y: 85},
					{Type: LeftCheek, X: 30, Y: 95},
					{Type: RightCheek, X: 100, Y: 96},
					{Type: MouthLeft, X: 45, Y: 115},
					{Type: MouthRight, X: 85, Y: 116},
					{Type: MouthBottom, X: 65, Y: 125},
					{Type: LeftEar, X: 15, Y: 70},
					{Type: RightEar, X: 108, Y: 71},
				},
				SmilingProbability:      floatPtr(0.91),
				LeftEyeOpenProbability:  floatPtr(0.99),
				RightEyeOpenProbability: floatPtr(0.97),
			},
		},
		{
			name: "partial landmark subset, no classifiers",
			record: &FeatureRecord{
				BoundingBox: Box{Left: 0, Top: 0, Right: 50, Bottom: 50},
				Landmarks: []Landmark{
					{Type: LeftEye, X: 12, Y: 18},
					{Type: MouthBottom, X: 25, Y: 42},
				},
			},
		},
		{
			name: "zero landmarks",
			record: &FeatureRecord{
				BoundingBox:     Box{Left: 5, Top: 5, Right: 30, Bottom: 30},
				HeadEulerAngleY: 45,
				Landmarks:       []Landmark{},
			},
		},
		{
			name: "single classifier present, zero valued",
			record: &FeatureRecord{
				BoundingBox:        Box{Left: 1, Top: 2, Right: 3, Bottom: 4},
				Landmarks:          []Landmark{{Type: NoseBase, X: 2, Y: 3}},
				SmilingProbability: floatPtr(0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Serialize(tt.record)
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			parsed, err := Parse(s)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !parsed.Equal(tt.record) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", parsed, tt.record)
			}
		})
	}
}

func TestSerializeOmitsAbsentClassifiers(t *testing.T) {
	s, err := Serialize(&FeatureRecord{
		BoundingBox: Box{Left: 0, Top: 0, Right: 10, Bottom: 10},
		Landmarks:   []Landmark{{Type: LeftEye, X: 1, Y: 2}},
	})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	for _, key := range []string{"smilingProbability", "leftEyeOpenProbability", "rightEyeOpenProbability"} {
		if strings.Contains(s, key) {
			t.Errorf("serialized form contains absent optional key %q: %s", key, s)
		}
	}
}

func TestSerializeStableKeys(t *testing.T) {
	s, err := Serialize(&FeatureRecord{
		BoundingBox: Box{Left: 1, Top: 2, Right: 3, Bottom: 4},
		Landmarks:   []Landmark{{Type: LeftEye, X: 5, Y: 6}},
	})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	for _, key := range []string{
		`"boundingBox"`, `"left"`, `"top"`, `"right"`, `"bottom"`,
		`"headEulerAngleX"`, `"headEulerAngleY"`, `"headEulerAngleZ"`,
		`"landmarks"`, `"type"`, `"x"`, `"y"`,
	} {
		if !strings.Contains(s, key) {
			t.Errorf("serialized form missing key %s: %s", key, s)
		}
	}
	// LeftEye must serialize with its wire identifier.
	if !strings.Contains(s, `"type":4`) {
		t.Errorf("left eye landmark did not serialize as type 4: %s", s)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "minimal valid record",
			input: `{"boundingBox":{"left":0,"top":0,"right":1,"bottom":1},"landmarks":[]}`,
		},
		{
			name:  "unknown keys ignored",
			input: `{"boundingBox":{"left":0,"top":0,"right":1,"bottom":1},"landmarks":[{"type":4,"x":1,"y":2,"z":9}],"confidence":0.8,"detectorVersion":"2.1"}`,
		},
		{
			name:  "missing optional keys",
			input: `{"boundingBox":{"left":0,"top":0,"right":1,"bottom":1},"landmarks":[{"type":6,"x":3,"y":4}]}`,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "truncated json",
			input:   `{"boundingBox":{"left":0`,
			wantErr: true,
		},
		{
			name:    "wrong top-level type",
			input:   `[1,2,3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && rec == nil {
				t.Error("Parse() returned nil record without error")
			}
		})
	}
}
