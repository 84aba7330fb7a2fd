package types

// Danger scores are canonically on a 0-10 scale. Older employee-side
// exports used 0-100; ScoreFromPercent folds those in.

// maxDangerScore caps the computed score.
const maxDangerScore = 10

// ScoreForSeverity derives the numeric danger score from the classified
// severity, with a penalty for standing water.
func ScoreForSeverity(level DangerLevel, containsWater bool) float64 {
	var base float64
	switch level {
	case DangerLow:
		base = 2
	case DangerMedium:
		base = 5
	case DangerHigh:
		base = 8
	case DangerCritical:
		base = 10
	default:
		base = 1
	}
	if containsWater {
		base++
	}
	if base > maxDangerScore {
		base = maxDangerScore
	}
	return base
}

// ScoreFromPercent maps a legacy 0-100 danger score onto the canonical
// 0-10 scale.
func ScoreFromPercent(p float64) float64 {
	s := p / 10
	if s < 0 {
		return 0
	}
	if s > maxDangerScore {
		return maxDangerScore
	}
	return s
}
