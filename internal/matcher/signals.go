package matcher

// bpmSignal implements the BPM component: absent on either
// side contributes nothing; close tempos are rewarded, clearly different
// ones are penalized, and the mid-range is neutral.
func bpmSignal(bpmA, bpmB *float64) float64 {
	if bpmA == nil || bpmB == nil {
		return 0
	}
	diff := *bpmA - *bpmB
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 1.0:
		return 0.15
	case diff > 5.0:
		return -0.10
	default:
		return 0
	}
}

// temporalSignal implements the mtime-proximity component.
func temporalSignal(mtimeA, mtimeB int64) float64 {
	diff := mtimeA - mtimeB
	if diff < 0 {
		diff = -diff
	}
	const day = 86400
	switch {
	case diff <= 3*day:
		return 0.10
	case diff <= 14*day:
		return 0.05
	default:
		return 0
	}
}
