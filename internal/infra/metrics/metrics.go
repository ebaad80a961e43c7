// Package metrics provides Prometheus metrics for TrailForge — counters and
// gauges for the XP engine, pedometer anti-cheat, celebrations, and sync.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── XP Engine ──────────────────────────────────────────────────────────────

// Recomputes tracks engine recomputation passes (after debounce settling).
var Recomputes = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "trailforge",
	Name:      "engine_recomputes_total",
	Help:      "Total engine recomputation passes.",
})

// RecomputesSkipped tracks passes skipped because the snapshot was unchanged.
var RecomputesSkipped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "trailforge",
	Name:      "engine_recomputes_skipped_total",
	Help:      "Recomputations skipped due to unchanged snapshot hash.",
})

// TotalXP tracks the current derived XP total.
var TotalXP = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "trailforge",
	Name:      "total_xp",
	Help:      "Current total XP.",
})

// Level tracks the current derived level.
var Level = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "trailforge",
	Name:      "level",
	Help:      "Current level.",
})

// AchievementsUnlocked tracks achievement unlocks.
var AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "trailforge",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
})

// ─── Pedometer ──────────────────────────────────────────────────────────────

// StepsAccepted tracks credited steps after anti-cheat clamping.
var StepsAccepted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "trailforge",
	Name:      "steps_accepted_total",
	Help:      "Total steps credited after validation.",
})

// StepClamps tracks anti-cheat interventions by reason.
var StepClamps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "trailforge",
	Name:      "step_clamps_total",
	Help:      "Anti-cheat clamps and rejections by reason.",
}, []string{"reason"})

// PedometerXP tracks XP awarded from steps.
var PedometerXP = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "trailforge",
	Name:      "pedometer_xp_total",
	Help:      "Total XP awarded from steps.",
})

// ─── Celebrations ───────────────────────────────────────────────────────────

// CelebrationsQueued tracks queued celebration events by kind.
var CelebrationsQueued = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "trailforge",
	Name:      "celebrations_queued_total",
	Help:      "Celebration events queued.",
}, []string{"kind"})

// ─── Remote Sync ────────────────────────────────────────────────────────────

// SyncAttempts tracks remote sync pushes attempted.
var SyncAttempts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "trailforge",
	Name:      "sync_attempts_total",
	Help:      "Remote sync attempts.",
})

// SyncFailures tracks soft sync failures (logged, not retried).
var SyncFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "trailforge",
	Name:      "sync_failures_total",
	Help:      "Remote sync soft failures.",
})
