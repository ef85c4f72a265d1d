package faceid

import "math"

// distanceScale ties the score's knee to roughly 100 pixels of landmark
// displacement: distance 0 scores 100, distance 100 scores 50, and the score
// decays smoothly toward 0 as distance grows. The constant is uncalibrated
// and not normalized by face or image size; changing it would silently
// change the meaning of every deployed threshold, so it stays.
const distanceScale = 100.0

// Score compares two serialized FeatureRecords and returns a similarity in
// [0,100]. Any failure (unparseable input, a record with no landmarks,
// disjoint landmark-type sets) collapses to 0; this path never errors so
// existing threshold policies can treat the result as a plain number.
// Callers that need to tell "unscorable" apart from "dissimilar" should
// parse the records themselves and use Compare.
func Score(a, b string) float64 {
	ra, err := Parse(a)
	if err != nil {
		return 0
	}
	rb, err := Parse(b)
	if err != nil {
		return 0
	}
	score, _ := Compare(ra, rb)
	return score
}

// Compare scores two parsed FeatureRecords. ok is false when the pair is
// unscorable (either record nil or without landmarks, or no landmark type in
// common), in which case the score is 0. Matching iterates a's landmarks and
// linearly scans b for the first landmark of the same type; types present in
// a but absent in b are skipped, not penalized. Only landmark geometry
// participates; pose angles and classifier probabilities are ignored.
func Compare(a, b *FeatureRecord) (score float64, ok bool) {
	if a == nil || b == nil || len(a.Landmarks) == 0 || len(b.Landmarks) == 0 {
		return 0, false
	}

	var total float64
	matches := 0
	for _, la := range a.Landmarks {
		lb, found := b.Landmark(la.Type)
		if !found {
			continue
		}
		dx := la.X - lb.X
		dy := la.Y - lb.Y
		total += math.Sqrt(dx*dx + dy*dy)
		matches++
	}

	if matches == 0 {
		return 0, false
	}

	avg := total / float64(matches)
	return (1 / (1 + avg/distanceScale)) * 100, true
}
