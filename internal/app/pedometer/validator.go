// Package pedometer converts raw cumulative step-counter readings into a
// trusted, rate-limited step count and the XP derived from it. Rejections
// and clamps are policy decisions, not errors: they reduce credit, they
// never surface as failures.
package pedometer

import (
	"log"
	"time"

	"github.com/trailforge/trailforge/internal/domain"
	"github.com/trailforge/trailforge/internal/infra/metrics"
	"github.com/trailforge/trailforge/internal/infra/store"
)

// Config holds the anti-cheat policy knobs.
type Config struct {
	MaxStepsPerUpdate int64         // hard per-update jump cap
	MaxStepsPerSecond int64         // implied-rate ceiling
	MaxStepsPerHour   int64         // rolling-hour cap
	StepsPerXP        int64         // steps per 1 XP
	MaxXPPerDay       int64         // daily XP-from-steps cap
	MinUpdateInterval time.Duration // sensor update throttle
	HistoryWindow     time.Duration // audit history retention
}

// DefaultConfig returns the production anti-cheat policy.
func DefaultConfig() Config {
	return Config{
		MaxStepsPerUpdate: 5000,
		MaxStepsPerSecond: 6,
		MaxStepsPerHour:   8000,
		StepsPerXP:        100,
		MaxXPPerDay:       500,
		MinUpdateInterval: 30 * time.Second,
		HistoryWindow:     30 * 24 * time.Hour,
	}
}

// Validator owns the per-day pedometer state: a continuously updated day
// bucket that resets today's fields on date rollover and carries all-time
// totals forward.
type Validator struct {
	db  *store.DB
	cfg Config
	now func() time.Time

	// onCredit, when set, is called after an update that credited steps or
	// XP (the engine's Notify).
	onCredit func()
}

// NewValidator creates a validator over the progress store.
func NewValidator(db *store.DB, cfg Config) *Validator {
	return &Validator{db: db, cfg: cfg, now: time.Now}
}

// SetClock overrides the time source (used by tests).
func (v *Validator) SetClock(now func() time.Time) { v.now = now }

// SetOnCredit registers a callback fired after any credited update.
func (v *Validator) SetOnCredit(fn func()) { v.onCredit = fn }

// State returns the current day bucket, applying date rollover and history
// pruning. A missing or malformed stored blob is a fresh zero state.
func (v *Validator) State() domain.PedometerState {
	return v.load(v.now())
}

// load reads state, resets today's fields when the stored date differs from
// now's date, and prunes history older than the retention window.
func (v *Validator) load(now time.Time) domain.PedometerState {
	var st domain.PedometerState
	found, err := v.db.GetJSON(store.KeyPedometerState, &st)
	if err != nil {
		log.Printf("[pedometer] load state: %v (starting fresh)", err)
	}

	today := dayOf(now)
	if !found {
		st = domain.PedometerState{Date: today}
	} else if st.Date != today {
		st.Date = today
		st.TodaySteps = 0
		st.XPEarnedToday = 0
	}

	if _, err := v.db.PruneStepSamples(now.Add(-v.cfg.HistoryWindow)); err != nil {
		log.Printf("[pedometer] prune history: %v", err)
	}

	return st
}

// Update processes one raw cumulative counter reading. The validation
// pipeline applies in order, first match wins:
//
//  1. negative delta — rejected entirely, no state change
//  2. delta above the jump cap — clamped, partial credit
//  3. implied rate above the per-second ceiling — clamped to elapsed × ceiling
//  4. rolling-hour total above the hourly cap — clamped to the remainder
//
// Accepted (possibly clamped) deltas land in the audit history with their
// reason. XP is ⌊today's steps / StepsPerXP⌋ minus what was already earned
// today, clamped so the day never exceeds MaxXPPerDay; the excess is dropped,
// never carried over. Updates are throttled to one per MinUpdateInterval.
func (v *Validator) Update(rawCount int64) domain.StepResult {
	now := v.now()
	st := v.load(now)

	// Throttle before anything else — bounds validator work regardless of
	// how often the sensor reports.
	if !st.LastUpdateTime.IsZero() && now.Sub(st.LastUpdateTime) < v.cfg.MinUpdateInterval {
		return domain.StepResult{Accepted: false, Reason: domain.StepThrottled}
	}

	// A fresh install has no baseline for the cumulative counter: record it
	// without crediting.
	if st.LastUpdateTime.IsZero() && st.TotalStepsAllTime == 0 {
		st.LastStepCount = rawCount
		st.LastUpdateTime = now
		v.persist(st)
		return domain.StepResult{Accepted: false, Reason: domain.StepBaseline}
	}

	delta := rawCount - st.LastStepCount

	if delta < 0 {
		// Counter reset or glitch — reject entirely, no state change.
		metrics.StepClamps.WithLabelValues(string(domain.StepRejectedNegative)).Inc()
		return domain.StepResult{Accepted: false, Reason: domain.StepRejectedNegative}
	}

	reason := domain.StepOK
	elapsed := now.Sub(st.LastUpdateTime).Seconds()

	switch {
	case delta > v.cfg.MaxStepsPerUpdate:
		// Sudden jump — partial credit up to the cap.
		delta = v.cfg.MaxStepsPerUpdate
		reason = domain.StepCappedJump

	case elapsed > 0 && float64(delta) > elapsed*float64(v.cfg.MaxStepsPerSecond):
		delta = int64(elapsed * float64(v.cfg.MaxStepsPerSecond))
		reason = domain.StepCappedRate

	default:
		hourTotal, err := v.db.StepsSince(now.Add(-time.Hour))
		if err != nil {
			log.Printf("[pedometer] hour window: %v (skipping hourly cap)", err)
		} else if hourTotal+delta > v.cfg.MaxStepsPerHour {
			delta = v.cfg.MaxStepsPerHour - hourTotal
			if delta < 0 {
				delta = 0
			}
			reason = domain.StepCappedHourly
		}
	}

	if reason != domain.StepOK {
		metrics.StepClamps.WithLabelValues(string(reason)).Inc()
	}

	if err := v.db.AppendStepSample(domain.StepSample{Timestamp: now, Steps: delta, Reason: reason}); err != nil {
		log.Printf("[pedometer] append sample: %v", err)
	}

	st.TodaySteps += delta
	st.TotalStepsAllTime += delta
	st.LastStepCount = rawCount
	st.LastUpdateTime = now

	// Derive XP from the day's accumulated steps so sub-rate remainders are
	// not lost between updates.
	targetXP := st.TodaySteps / v.cfg.StepsPerXP
	if targetXP > v.cfg.MaxXPPerDay {
		targetXP = v.cfg.MaxXPPerDay
	}
	award := targetXP - st.XPEarnedToday
	if award < 0 {
		award = 0
	}
	st.XPEarnedToday += award
	st.TotalXPFromSteps += award

	v.persist(st)

	metrics.StepsAccepted.Add(float64(delta))
	metrics.PedometerXP.Add(float64(award))

	if (delta > 0 || award > 0) && v.onCredit != nil {
		v.onCredit()
	}

	return domain.StepResult{Accepted: true, Steps: delta, XPAwarded: award, Reason: reason}
}

// TotalXP returns all-time XP earned from steps (the snapshot pass-through).
func (v *Validator) TotalXP() int64 {
	return v.State().TotalXPFromSteps
}

// History returns the audit samples within the retention window.
func (v *Validator) History() ([]domain.StepSample, error) {
	return v.db.ListStepSamples(v.now().Add(-v.cfg.HistoryWindow))
}

func (v *Validator) persist(st domain.PedometerState) {
	if err := v.db.SetJSON(store.KeyPedometerState, st); err != nil {
		log.Printf("[pedometer] persist state: %v", err)
	}
}

// dayOf formats a calendar date as YYYY-MM-DD in local time.
func dayOf(t time.Time) string {
	return t.Format("2006-01-02")
}
