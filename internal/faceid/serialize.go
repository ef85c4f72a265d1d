package faceid

import (
	"encoding/json"
	"errors"
	"fmt"
)

// The serialized FeatureRecord is a JSON object with stable key names:
// "boundingBox" (left/top/right/bottom), "headEulerAngleX/Y/Z", "landmarks"
// ([{type,x,y}]) and the three optional classifier probabilities. Unknown
// keys are ignored on parse; missing optional keys are not an error. This
// format is the persistence contract for enrolled records, so key names and
// landmark type values must stay stable across releases.

// Serialize encodes a FeatureRecord to its canonical JSON form.
func Serialize(r *FeatureRecord) (string, error) {
	if r == nil {
		return "", errors.New("nil feature record")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal feature record: %w", err)
	}
	return string(data), nil
}

// Parse decodes a serialized FeatureRecord. A missing landmarks key parses
// to a nil slice; callers that care distinguish via len(). Unknown keys are
// ignored so records written by newer versions still parse.
func Parse(s string) (*FeatureRecord, error) {
	if s == "" {
		return nil, errors.New("empty feature record")
	}
	var r FeatureRecord
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, fmt.Errorf("parse feature record: %w", err)
	}
	return &r, nil
}
