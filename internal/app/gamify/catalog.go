package gamify

import "github.com/trailforge/trailforge/internal/domain"

// ─── Achievement Catalog ────────────────────────────────────────────────────
// Static, immutable definitions. Each achievement compares one snapshot (or
// derived) scalar against a threshold — see categoryValue in xp.go.
// Level and total-XP trackers carry XPReward 0 so they never feed back into
// the XP total.

// AllAchievements returns the full achievement catalog.
func AllAchievements() []domain.AchievementDef {
	return []domain.AchievementDef{
		// ── First Steps ────────────────────────────────────────────────
		{
			ID: "first_activity", Title: "Trailhead", Icon: "🥾",
			Description: "Complete your first activity.",
			Category:    domain.CatActivities, Threshold: 1, XPReward: 50,
		},
		{
			ID: "activities_10", Title: "Regular", Icon: "🎒",
			Description: "Complete 10 activities.",
			Category:    domain.CatActivities, Threshold: 10, XPReward: 150,
		},
		{
			ID: "activities_50", Title: "Dedicated", Icon: "⛰️",
			Description: "Complete 50 activities.",
			Category:    domain.CatActivities, Threshold: 50, XPReward: 500,
		},
		{
			ID: "activities_200", Title: "Unstoppable", Icon: "🏔️",
			Description: "Complete 200 activities.",
			Category:    domain.CatActivities, Threshold: 200, XPReward: 2000,
		},

		// ── Reflection ─────────────────────────────────────────────────
		{
			ID: "first_reflection", Title: "Looking Back", Icon: "📓",
			Description: "Write your first reflection.",
			Category:    domain.CatReflections, Threshold: 1, XPReward: 40,
		},
		{
			ID: "reflections_25", Title: "Journal Keeper", Icon: "✍️",
			Description: "Write 25 reflections.",
			Category:    domain.CatReflections, Threshold: 25, XPReward: 300,
		},
		{
			ID: "reflections_100", Title: "Chronicler", Icon: "📚",
			Description: "Write 100 reflections.",
			Category:    domain.CatReflections, Threshold: 100, XPReward: 1000,
		},
		{
			ID: "first_moment", Title: "Snapshot", Icon: "📸",
			Description: "Capture your first mastery moment.",
			Category:    domain.CatMoments, Threshold: 1, XPReward: 40,
		},
		{
			ID: "moments_30", Title: "Collector of Moments", Icon: "🖼️",
			Description: "Capture 30 mastery moments.",
			Category:    domain.CatMoments, Threshold: 30, XPReward: 350,
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			ID: "streak_week_1", Title: "One Week Strong", Icon: "🔥",
			Description: "Keep a streak for a full week.",
			Category:    domain.CatStreak, Threshold: 1, XPReward: 100,
		},
		{
			ID: "streak_week_4", Title: "Month of Motion", Icon: "💪",
			Description: "Keep a streak for four weeks.",
			Category:    domain.CatStreak, Threshold: 4, XPReward: 400,
		},
		{
			ID: "streak_week_12", Title: "Season Veteran", Icon: "🏛️",
			Description: "Keep a streak for twelve weeks.",
			Category:    domain.CatStreak, Threshold: 12, XPReward: 1200,
		},
		{
			ID: "daily_streak_3", Title: "Warming Up", Icon: "🌱",
			Description: "Three days in a row.",
			Category:    domain.CatDailyStreak, Threshold: 3, XPReward: 30,
		},
		{
			ID: "daily_streak_30", Title: "Thirty Days Wild", Icon: "🌲",
			Description: "Thirty days in a row.",
			Category:    domain.CatDailyStreak, Threshold: 30, XPReward: 600,
		},
		{
			ID: "daily_streak_100", Title: "Centurion", Icon: "⭐",
			Description: "One hundred days in a row.",
			Category:    domain.CatDailyStreak, Threshold: 100, XPReward: 2500,
		},

		// ── Expeditions & Environment ──────────────────────────────────
		{
			ID: "first_expedition", Title: "Into the Wild", Icon: "🧭",
			Description: "Take your first expedition.",
			Category:    domain.CatExpeditions, Threshold: 1, XPReward: 80,
		},
		{
			ID: "expeditions_10", Title: "Pathfinder", Icon: "🗺️",
			Description: "Take 10 expeditions.",
			Category:    domain.CatExpeditions, Threshold: 10, XPReward: 400,
		},
		{
			ID: "expeditions_50", Title: "Expedition Leader", Icon: "🚩",
			Description: "Take 50 expeditions.",
			Category:    domain.CatExpeditions, Threshold: 50, XPReward: 1500,
		},
		{
			ID: "first_env_action", Title: "Leave No Trace", Icon: "🌍",
			Description: "Complete your first environment action.",
			Category:    domain.CatEnvironment, Threshold: 1, XPReward: 50,
		},
		{
			ID: "env_actions_20", Title: "Steward", Icon: "♻️",
			Description: "Complete 20 environment actions.",
			Category:    domain.CatEnvironment, Threshold: 20, XPReward: 450,
		},

		// ── Skills ─────────────────────────────────────────────────────
		{
			ID: "first_skill", Title: "Apprentice", Icon: "🪢",
			Description: "Learn your first skill.",
			Category:    domain.CatSkills, Threshold: 1, XPReward: 60,
		},
		{
			ID: "skills_10", Title: "Well Rounded", Icon: "🛠️",
			Description: "Learn 10 skills.",
			Category:    domain.CatSkills, Threshold: 10, XPReward: 350,
		},
		{
			ID: "skills_25", Title: "Master of Many", Icon: "🎓",
			Description: "Learn 25 skills.",
			Category:    domain.CatSkills, Threshold: 25, XPReward: 900,
		},
		{
			ID: "combined_20", Title: "Doer and Learner", Icon: "⚖️",
			Description: "Reach 20 combined activities and skills.",
			Category:    domain.CatCombined, Threshold: 20, XPReward: 300,
		},
		{
			ID: "combined_100", Title: "Complete Outdoorsperson", Icon: "🏅",
			Description: "Reach 100 combined activities and skills.",
			Category:    domain.CatCombined, Threshold: 100, XPReward: 1200,
		},

		// ── Trips ──────────────────────────────────────────────────────
		{
			ID: "first_trip", Title: "First Trip", Icon: "🚶",
			Description: "Log your first trip.",
			Category:    domain.CatTrips, Threshold: 1, XPReward: 60,
		},
		{
			ID: "trips_25", Title: "Frequent Walker", Icon: "👣",
			Description: "Log 25 trips.",
			Category:    domain.CatTrips, Threshold: 25, XPReward: 500,
		},
		{
			ID: "trips_100", Title: "Trail Hundred", Icon: "💯",
			Description: "Log 100 trips.",
			Category:    domain.CatTrips, Threshold: 100, XPReward: 2000,
		},
		{
			ID: "distance_100", Title: "Century Walker", Icon: "🛤️",
			Description: "Walk 100 km across all trips.",
			Category:    domain.CatTripDistance, Threshold: 100, XPReward: 400,
		},
		{
			ID: "distance_1000", Title: "Thousand-K", Icon: "🌐",
			Description: "Walk 1000 km across all trips.",
			Category:    domain.CatTripDistance, Threshold: 1000, XPReward: 2500,
		},
		{
			ID: "elevation_5000", Title: "Climber", Icon: "🧗",
			Description: "Climb 5000 m across all trips.",
			Category:    domain.CatTripElevation, Threshold: 5000, XPReward: 500,
		},
		{
			ID: "elevation_88848", Title: "Ten Everests", Icon: "🏔️",
			Description: "Climb 88,848 m across all trips.",
			Category:    domain.CatTripElevation, Threshold: 88848, XPReward: 5000,
		},
		{
			ID: "single_trip_30", Title: "Long Hauler", Icon: "🌄",
			Description: "Walk 30 km in a single trip.",
			Category:    domain.CatSingleTripDistance, Threshold: 30, XPReward: 400,
		},
		{
			ID: "single_climb_1500", Title: "Summit Day", Icon: "🗻",
			Description: "Climb 1500 m in a single trip.",
			Category:    domain.CatSingleTripElevation, Threshold: 1500, XPReward: 450,
		},

		// ── Conditions & Difficulty ────────────────────────────────────
		{
			ID: "motivation_trips_5", Title: "Self Starter", Icon: "🎯",
			Description: "Take 5 trips just because you wanted to.",
			Category:    domain.CatMotivationTrips, Threshold: 5, XPReward: 200,
		},
		{
			ID: "rain_trips_5", Title: "Rain or Shine", Icon: "🌧️",
			Description: "Take 5 trips in the rain.",
			Category:    domain.CatWeatherRain, Threshold: 5, XPReward: 250,
		},
		{
			ID: "snow_trips_5", Title: "Winter Walker", Icon: "❄️",
			Description: "Take 5 trips in the snow.",
			Category:    domain.CatWeatherSnow, Threshold: 5, XPReward: 300,
		},
		{
			ID: "hard_trips_10", Title: "Tough Terrain", Icon: "🪨",
			Description: "Complete 10 hard-difficulty trips.",
			Category:    domain.CatHardTrips, Threshold: 10, XPReward: 500,
		},
		{
			ID: "expert_trips_5", Title: "Expert Route", Icon: "⚡",
			Description: "Complete 5 expert-difficulty trips.",
			Category:    domain.CatExpertTrips, Threshold: 5, XPReward: 600,
		},

		// ── Variety ────────────────────────────────────────────────────
		{
			ID: "variety_2", Title: "Branching Out", Icon: "🌿",
			Description: "Be active in 2 different areas.",
			Category:    domain.CatVariety, Threshold: 2, XPReward: 100,
		},
		{
			ID: "variety_4", Title: "All-Rounder", Icon: "🍀",
			Description: "Be active in all 4 areas.",
			Category:    domain.CatVariety, Threshold: 4, XPReward: 300,
		},
		{
			ID: "variety_advanced_15", Title: "Deep and Wide", Icon: "🌳",
			Description: "Build real depth across reflections, moments and trips.",
			Category:    domain.CatVarietyAdvanced, Threshold: 15, XPReward: 500,
		},

		// ── Milestones (cosmetic — no XP feedback) ─────────────────────
		{
			ID: "level_5", Title: "Rising", Icon: "🌅",
			Description: "Reach level 5.",
			Category:    domain.CatLevel, Threshold: 5, XPReward: 0,
		},
		{
			ID: "level_25", Title: "Seasoned", Icon: "🎖️",
			Description: "Reach level 25.",
			Category:    domain.CatLevel, Threshold: 25, XPReward: 0,
		},
		{
			ID: "level_50", Title: "Veteran", Icon: "🏆",
			Description: "Reach level 50.",
			Category:    domain.CatLevel, Threshold: 50, XPReward: 0,
		},
		{
			ID: "level_100", Title: "Legend of the Trail", Icon: "👑",
			Description: "Reach level 100.",
			Category:    domain.CatLevel, Threshold: 100, XPReward: 0,
		},
		{
			ID: "xp_10000", Title: "Ten Thousand", Icon: "✨",
			Description: "Earn 10,000 XP.",
			Category:    domain.CatTotalXP, Threshold: 10000, XPReward: 0,
		},
		{
			ID: "xp_100000", Title: "Six Figures", Icon: "💫",
			Description: "Earn 100,000 XP.",
			Category:    domain.CatTotalXP, Threshold: 100000, XPReward: 0,
		},
	}
}
