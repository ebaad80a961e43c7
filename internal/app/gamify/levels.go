// Package gamify implements the TrailForge progression engine: XP accrual
// from activity stats, the 100-level threshold table, the achievement
// evaluator, and the debounced recompute/sync loops.
package gamify

import (
	"fmt"

	"github.com/trailforge/trailforge/internal/domain"
)

// LevelThresholds is an ordered table mapping level index to the cumulative
// XP required to reach it. T[0] is always 0 and the sequence is strictly
// increasing; level is 1-indexed, so level for XP x is 1 + max{i : T[i] <= x},
// capped at len(T).
type LevelThresholds []int64

// DefaultThresholds returns the fixed 100-level table. Static configuration:
// built once at startup and injected into the engine.
func DefaultThresholds() LevelThresholds {
	return LevelThresholds{
		0, 100, 250, 450, 700, 1000, 1350, 1750, 2200, 2700,
		3250, 3850, 4500, 5200, 5950, 6750, 7600, 8500, 9450, 10450,
		11500, 12600, 13750, 14950, 16200, 17500, 18850, 20250, 21700, 23200,
		24750, 26350, 28000, 29700, 31450, 33250, 35100, 37000, 38950, 40950,
		43000, 45100, 47250, 49450, 51700, 54000, 56350, 58750, 61200, 63700,
		66250, 68850, 71500, 74200, 76950, 79750, 82600, 85500, 88450, 91450,
		94500, 97600, 100750, 103950, 107200, 110500, 113850, 117250, 120700, 124200,
		127750, 131350, 135000, 138700, 142450, 146250, 150100, 154000, 157950, 161950,
		166000, 170100, 174250, 178450, 182700, 187000, 191350, 195750, 200200, 204700,
		209250, 213850, 218500, 223200, 227950, 232750, 237600, 242500, 247450, 252450,
	}
}

// Validate checks the table invariants: non-empty, T[0] = 0, strictly
// increasing.
func (t LevelThresholds) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("threshold table is empty")
	}
	if t[0] != 0 {
		return fmt.Errorf("T[0] must be 0, got %d", t[0])
	}
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return fmt.Errorf("thresholds not strictly increasing at index %d: %d <= %d", i, t[i], t[i-1])
		}
	}
	return nil
}

// MaxLevel returns the highest reachable level.
func (t LevelThresholds) MaxLevel() int {
	return len(t)
}

// LevelForXP returns the 1-indexed level for the given XP, scanning from the
// highest threshold down. XP at or beyond the final threshold is the max
// level; anything below T[1] is level 1.
func (t LevelThresholds) LevelForXP(xp int64) int {
	for i := len(t) - 1; i >= 0; i-- {
		if xp >= t[i] {
			return i + 1
		}
	}
	return 1 // xp < 0 cannot happen after clamping, but never return level 0
}

// Progress returns the position within the current level. At max level Next
// is 0 and Progress is 1. A degenerate zero-width gap also reports 1.
func (t LevelThresholds) Progress(xp int64) domain.XPProgress {
	level := t.LevelForXP(xp)
	floor := t[level-1]

	if level >= len(t) {
		return domain.XPProgress{Level: level, Current: xp - floor, Next: 0, Progress: 1}
	}

	span := t[level] - floor
	if span <= 0 {
		return domain.XPProgress{Level: level, Current: xp - floor, Next: span, Progress: 1}
	}

	p := float64(xp-floor) / float64(span)
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return domain.XPProgress{Level: level, Current: xp - floor, Next: span, Progress: p}
}
