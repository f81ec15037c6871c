package matcher

// trigramSimilarity is the Jaccard coefficient over the sets of
// whitespace-padded character trigrams of a and b. Hand-rolled rather than routed through
// go-edlib: the core scoring formula needs a guaranteed exact padding/set
// definition to satisfy the symmetry and clamping invariants bit-for-bit
//; go-edlib is instead wired into the supplemental plugin
// fuzzy-clustering report.
func trigramSimilarity(a, b string) float64 {
	setA := trigramSet(a)
	setB := trigramSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// trigramSet returns the set of 3-character substrings of s after padding
// one space at each end, so short strings still contribute edge trigrams.
func trigramSet(s string) map[string]bool {
	padded := " " + s + " "
	runes := []rune(padded)
	set := make(map[string]bool)
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = true
	}
	return set
}
