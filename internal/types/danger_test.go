package types

import "testing"

func TestScoreForSeverity(t *testing.T) {
	cases := []struct {
		level DangerLevel
		water bool
		want  float64
	}{
		{DangerLow, false, 2},
		{DangerMedium, false, 5},
		{DangerHigh, false, 8},
		{DangerCritical, false, 10},
		{DangerLow, true, 3},
		{DangerHigh, true, 9},
		{DangerCritical, true, 10}, // water never pushes past the cap
	}
	for _, tc := range cases {
		if got := ScoreForSeverity(tc.level, tc.water); got != tc.want {
			t.Errorf("ScoreForSeverity(%s, %t) = %v, want %v", tc.level, tc.water, got, tc.want)
		}
	}
}

func TestScoreFromPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{50, 5},
		{100, 10},
		{-5, 0},
		{250, 10},
	}
	for _, tc := range cases {
		if got := ScoreFromPercent(tc.in); got != tc.want {
			t.Errorf("ScoreFromPercent(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
