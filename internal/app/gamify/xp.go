package gamify

import "github.com/trailforge/trailforge/internal/domain"

// Fixed per-unit XP rates. These must stay in step with the achievement
// catalog semantics: an achievement threshold describes counts, not XP.
const (
	xpPerRegistration = 10
	xpPerActivity     = 40
	xpPerReflection   = 30
	xpPerMoment       = 40
	xpPerExpedition   = 60
	xpPerEnvAction    = 35
	xpPerStreakWeek   = 25
)

// ComputeBaseXP returns the weighted XP sum for a snapshot. Pure and
// reproducible from the snapshot alone: counted sources use the fixed rates
// above, while skill, trip and pedometer XP subtotals (already computed by
// their owners) pass through verbatim. Negative fields contribute nothing
// and the result is clamped to >= 0.
func ComputeBaseXP(s domain.StatsSnapshot) int64 {
	xp := nonNeg(s.Registrations)*xpPerRegistration +
		nonNeg(s.CompletedActivities)*xpPerActivity +
		nonNeg(s.Reflections)*xpPerReflection +
		nonNeg(s.Moments)*xpPerMoment +
		nonNeg(s.Expeditions)*xpPerExpedition +
		nonNeg(s.EnvironmentActions)*xpPerEnvAction +
		int64(s.StreakWeeks())*xpPerStreakWeek

	xp += nonNeg64(s.SkillXP) + nonNeg64(s.TripXP) + nonNeg64(s.PedometerXP)

	if xp < 0 {
		xp = 0
	}
	return xp
}

// ComputeTotalXP returns base XP plus the rewards of every unlocked
// achievement with a positive reward. Clamped to >= 0.
func ComputeTotalXP(s domain.StatsSnapshot, unlocked map[string]bool, catalog []domain.AchievementDef) int64 {
	total := ComputeBaseXP(s)
	for _, def := range catalog {
		if unlocked[def.ID] && def.XPReward > 0 {
			total += def.XPReward
		}
	}
	if total < 0 {
		total = 0
	}
	return total
}

// EvaluateAchievements returns the IDs of achievements newly qualifying
// against the snapshot. The snapshot, currentXP and currentLevel are frozen
// for the whole pass: no achievement's check can see another's unlock from
// the same pass, so evaluation order does not matter. Already-unlocked IDs
// are skipped, which makes repeated evaluation on an unchanged snapshot
// yield nothing.
func EvaluateAchievements(catalog []domain.AchievementDef, s domain.StatsSnapshot, unlocked map[string]bool, currentXP int64, currentLevel int) []string {
	var newly []string
	for _, def := range catalog {
		if unlocked[def.ID] {
			continue
		}
		if categoryValue(def.Category, s, currentXP, currentLevel) >= def.Threshold {
			newly = append(newly, def.ID)
		}
	}
	return newly
}

// categoryValue maps an achievement category to the scalar its threshold is
// compared against.
func categoryValue(cat domain.AchievementCategory, s domain.StatsSnapshot, currentXP int64, currentLevel int) int64 {
	switch cat {
	case domain.CatActivities:
		return nonNeg(s.CompletedActivities)
	case domain.CatReflections:
		return nonNeg(s.Reflections)
	case domain.CatMoments:
		return nonNeg(s.Moments)
	case domain.CatStreak:
		return int64(s.StreakWeeks())
	case domain.CatDailyStreak:
		return nonNeg(s.StreakDays)
	case domain.CatExpeditions:
		return nonNeg(s.Expeditions)
	case domain.CatEnvironment:
		return nonNeg(s.EnvironmentActions)
	case domain.CatSkills:
		return nonNeg(s.Skills)
	case domain.CatCombined:
		return nonNeg(s.CompletedActivities) + nonNeg(s.Skills)
	case domain.CatLevel:
		return int64(currentLevel)
	case domain.CatTrips:
		return nonNeg(s.Trips)
	case domain.CatTripDistance:
		return nonNeg(s.TripDistanceKm)
	case domain.CatTripElevation:
		return nonNeg(s.TripElevationM)
	case domain.CatMotivationTrips:
		return nonNeg(s.MotivationTrips)
	case domain.CatWeatherRain:
		return nonNeg(s.RainTrips)
	case domain.CatWeatherSnow:
		return nonNeg(s.SnowTrips)
	case domain.CatHardTrips:
		return nonNeg(s.HardTrips)
	case domain.CatExpertTrips:
		return nonNeg(s.ExpertTrips)
	case domain.CatVariety:
		return varietyScore(s)
	case domain.CatVarietyAdvanced:
		return capAt(s.Reflections, 5) + capAt(s.Moments, 5) + capAt(s.Trips, 5)
	case domain.CatTotalXP:
		return currentXP
	case domain.CatSingleTripDistance:
		return nonNeg(s.LongestTripKm)
	case domain.CatSingleTripElevation:
		return nonNeg(s.HighestTripElevationM)
	default:
		return 0 // Unknown category never qualifies (thresholds are positive)
	}
}

// varietyScore counts how many distinct life areas have any activity
// (reflections, moments, trips, skills), each contributing at most 1.
func varietyScore(s domain.StatsSnapshot) int64 {
	var n int64
	if s.Reflections > 0 {
		n++
	}
	if s.Moments > 0 {
		n++
	}
	if s.Trips > 0 {
		n++
	}
	if s.Skills > 0 {
		n++
	}
	return n
}

func capAt(v, limit int) int64 {
	if v < 0 {
		return 0
	}
	if v > limit {
		v = limit
	}
	return int64(v)
}

func nonNeg(v int) int64 {
	if v < 0 {
		return 0
	}
	return int64(v)
}

func nonNeg64(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
