// Package domain holds the core types shared across TrailForge services.
// The gamification engine derives everything in here from activity stat
// sources; nothing in this package touches storage or the network.
package domain

import "time"

// ─── Stats Snapshot ─────────────────────────────────────────────────────────

// StatsSnapshot is a point-in-time combined read of every activity stat
// source. It is derived on demand and never persisted itself. Absent sources
// contribute zero values; no field is ever negative.
type StatsSnapshot struct {
	CompletedActivities   int   `json:"completed_activities"`
	Registrations         int   `json:"registrations"`
	Reflections           int   `json:"reflections"`
	Moments               int   `json:"moments"`
	StreakDays            int   `json:"streak_days"`
	Expeditions           int   `json:"expeditions"`
	EnvironmentActions    int   `json:"environment_actions"`
	Skills                int   `json:"skills"`
	SkillXP               int64 `json:"skill_xp"`
	Trips                 int   `json:"trips"`
	TripDistanceKm        int   `json:"trip_distance_km"`
	TripElevationM        int   `json:"trip_elevation_m"`
	TripXP                int64 `json:"trip_xp"`
	MotivationTrips       int   `json:"motivation_trips"`
	RainTrips             int   `json:"rain_trips"`
	SnowTrips             int   `json:"snow_trips"`
	HardTrips             int   `json:"hard_trips"`
	ExpertTrips           int   `json:"expert_trips"`
	LongestTripKm         int   `json:"longest_trip_km"`
	HighestTripElevationM int   `json:"highest_trip_elevation_m"`
	PedometerXP           int64 `json:"pedometer_xp"`
}

// StreakWeeks returns completed streak weeks (⌊days/7⌋).
func (s StatsSnapshot) StreakWeeks() int {
	if s.StreakDays < 0 {
		return 0
	}
	return s.StreakDays / 7
}

// ─── Gamification State ─────────────────────────────────────────────────────

// GamificationState is the persisted entity owned exclusively by the XP
// engine: the set of unlocked achievement IDs plus the derived total XP.
// First run starts from the zero value.
type GamificationState struct {
	UnlockedAchievements map[string]bool `json:"unlocked_achievements"`
	TotalXP              int64           `json:"total_xp"`
}

// NewGamificationState returns the first-run state: no unlocks, zero XP.
func NewGamificationState() GamificationState {
	return GamificationState{UnlockedAchievements: map[string]bool{}}
}

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementCategory selects which snapshot (or derived) scalar an
// achievement's threshold is compared against.
type AchievementCategory string

const (
	CatActivities          AchievementCategory = "activities"
	CatReflections         AchievementCategory = "reflections"
	CatMoments             AchievementCategory = "moments"
	CatStreak              AchievementCategory = "streak" // completed weeks
	CatDailyStreak         AchievementCategory = "dailyStreak"
	CatExpeditions         AchievementCategory = "expeditions"
	CatEnvironment         AchievementCategory = "environment"
	CatSkills              AchievementCategory = "skills"
	CatCombined            AchievementCategory = "combined" // activities + skills
	CatLevel               AchievementCategory = "level"
	CatTrips               AchievementCategory = "trips"
	CatTripDistance        AchievementCategory = "tripDistance"
	CatTripElevation       AchievementCategory = "tripElevation"
	CatMotivationTrips     AchievementCategory = "motivationTrips"
	CatWeatherRain         AchievementCategory = "weatherRain"
	CatWeatherSnow         AchievementCategory = "weatherSnow"
	CatHardTrips           AchievementCategory = "hardTrips"
	CatExpertTrips         AchievementCategory = "expertTrips"
	CatVariety             AchievementCategory = "variety"         // distinct life areas touched (0-4)
	CatVarietyAdvanced     AchievementCategory = "varietyAdvanced" // reflections+moments+trips, each capped at 5
	CatTotalXP             AchievementCategory = "totalXP"
	CatSingleTripDistance  AchievementCategory = "singleTripDistance"
	CatSingleTripElevation AchievementCategory = "singleTripElevation"
)

// AchievementDef defines one unlockable milestone. Definitions are static
// configuration: built once at startup and never mutated.
// XPReward 0 marks a cosmetic tracker (level/XP milestones) that must not
// feed back into the XP total.
type AchievementDef struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `json:"category"`
	Threshold   int64               `json:"threshold"`
	XPReward    int64               `json:"xp_reward"`
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// ─── Level / XP Progress ────────────────────────────────────────────────────

// XPProgress describes position within the current level.
// Next is 0 at max level (no further threshold).
type XPProgress struct {
	Level    int     `json:"level"`
	Current  int64   `json:"current"`
	Next     int64   `json:"next"`
	Progress float64 `json:"progress"` // 0..1
}

// ─── Celebrations ───────────────────────────────────────────────────────────

// CelebrationKind distinguishes the full level-up celebration from the
// lightweight XP popup.
type CelebrationKind string

const (
	CelebrationLevelUp CelebrationKind = "level_up"
	CelebrationXPGain  CelebrationKind = "xp_gain"
)

// Celebration is one queued celebration event for the UI.
type Celebration struct {
	ID        string          `json:"id"`
	Kind      CelebrationKind `json:"kind"`
	Level     int             `json:"level"`
	TotalXP   int64           `json:"total_xp"`
	XPGained  int64           `json:"xp_gained"`
	CreatedAt time.Time       `json:"created_at"`
}
