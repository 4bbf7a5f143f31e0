// Package leveling implements the XP curve, milestone roles and the per-message XP service.
package leveling

import (
	"math"
	"strings"
)

// RequiredXP returns the total XP needed to reach level.
func RequiredXP(level int) int {
	return 5*level*level + 50*level + 100
}

// LevelForXP returns the highest level L such that RequiredXP(L) <= xp.
// Anything below the level 1 threshold is level 0.
func LevelForXP(xp int) int {
	if xp < RequiredXP(1) {
		return 0
	}

	// inverse of 5L² + 50L + 100 - xp = 0
	disc := 2500 + 20*float64(xp-100)
	level := int(math.Floor((-50 + math.Sqrt(disc)) / 10))

	// float rounding can land one step off on exact thresholds
	for level > 0 && RequiredXP(level) > xp {
		level--
	}
	for RequiredXP(level+1) <= xp {
		level++
	}
	return level
}

// ProgressInfo describes how far a member is into their current level.
type ProgressInfo struct {
	Level   int
	Next    int
	Into    int
	Span    int
	Percent float64
	Bar     string
}

// Progress computes the progression towards the next level.
func Progress(xp int) ProgressInfo {
	level := LevelForXP(xp)
	current := RequiredXP(level)
	next := RequiredXP(level + 1)

	into := xp - current
	if into < 0 {
		into = 0
	}
	span := next - current

	percent := math.Round(float64(into)/float64(span)*1000) / 10
	if percent > 100 {
		percent = 100
	}

	return ProgressInfo{
		Level:   level,
		Next:    level + 1,
		Into:    into,
		Span:    span,
		Percent: percent,
		Bar:     ProgressBar(percent),
	}
}

// ProgressBar renders a 10 cell bar for a percentage.
func ProgressBar(percent float64) string {
	filled := int(math.Round(percent / 10))
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("■", filled) + strings.Repeat("□", 10-filled)
}
