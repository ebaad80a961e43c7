package domain

import "time"

// ─── Pedometer Types ────────────────────────────────────────────────────────

// PedometerState is the persisted per-day step bucket. Today's fields reset
// on date rollover; all-time totals carry over unchanged.
type PedometerState struct {
	Date              string    `json:"date"` // YYYY-MM-DD
	TodaySteps        int64     `json:"today_steps"`
	XPEarnedToday     int64     `json:"xp_earned_today"`
	TotalStepsAllTime int64     `json:"total_steps_all_time"`
	TotalXPFromSteps  int64     `json:"total_xp_from_steps"`
	LastStepCount     int64     `json:"last_step_count"` // raw cumulative counter reading
	LastUpdateTime    time.Time `json:"last_update_time"`
}

// StepReason tags why a step delta was accepted as-is, clamped, or rejected.
// Kept in the rolling history for auditability.
type StepReason string

const (
	StepOK               StepReason = "ok"
	StepCappedJump       StepReason = "capped_jump"
	StepCappedRate       StepReason = "capped_rate"
	StepCappedHourly     StepReason = "capped_hourly"
	StepRejectedNegative StepReason = "rejected_negative"
	StepThrottled        StepReason = "throttled"
	StepBaseline         StepReason = "baseline"
)

// StepSample is one accepted (possibly clamped) step delta in the rolling
// 30-day anti-cheat history.
type StepSample struct {
	Timestamp time.Time  `json:"timestamp"`
	Steps     int64      `json:"steps"`
	Reason    StepReason `json:"reason"`
}

// StepResult reports the outcome of one pedometer update.
type StepResult struct {
	Accepted  bool       `json:"accepted"`
	Steps     int64      `json:"steps"` // credited steps after clamping
	XPAwarded int64      `json:"xp_awarded"`
	Reason    StepReason `json:"reason"`
}
