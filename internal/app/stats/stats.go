// Package stats tracks the per-source activity aggregates (registrations,
// activities, mastery log, skills, trips, expeditions) and combines them
// into the single snapshot the XP engine consumes. Each source owns exactly
// one store key; the combined snapshot itself is never persisted.
package stats

import (
	"log"
	"sync"
	"time"

	"github.com/trailforge/trailforge/internal/domain"
	"github.com/trailforge/trailforge/internal/infra/store"
)

// One store key per source.
const (
	keyRegistrations = "stats_registrations"
	keyActivities    = "stats_activities"
	keyMastery       = "stats_mastery"
	keySkills        = "stats_skills"
	keyTrips         = "stats_trips"
	keyExpeditions   = "stats_expeditions"
)

// Trip XP rates, applied by the trips aggregator itself: the engine takes
// the subtotal verbatim.
const (
	xpPerTrip      = 50
	xpPerTripKm    = 2
	xpPer100mClimb = 10
	defaultSkillXP = 50
)

// ─── Per-source records ─────────────────────────────────────────────────────

type registrationRecord struct {
	Count int `json:"count"`
}

type activityRecord struct {
	Completed int `json:"completed"`
}

type masteryRecord struct {
	Reflections int    `json:"reflections"`
	Moments     int    `json:"moments"`
	StreakDays  int    `json:"streak_days"`
	LastEntry   string `json:"last_entry"` // YYYY-MM-DD of the last streak-counted entry
}

type skillsRecord struct {
	Count int   `json:"count"`
	XP    int64 `json:"xp"`
}

type tripsRecord struct {
	Count             int   `json:"count"`
	DistanceKm        int   `json:"distance_km"`
	ElevationM        int   `json:"elevation_m"`
	XP                int64 `json:"xp"`
	Motivation        int   `json:"motivation"`
	Rain              int   `json:"rain"`
	Snow              int   `json:"snow"`
	Hard              int   `json:"hard"`
	Expert            int   `json:"expert"`
	LongestKm         int   `json:"longest_km"`
	HighestElevationM int   `json:"highest_elevation_m"`
}

type expeditionRecord struct {
	Expeditions        int `json:"expeditions"`
	EnvironmentActions int `json:"environment_actions"`
}

// Trip describes one logged trip.
type Trip struct {
	DistanceKm int    `json:"distance_km"`
	ElevationM int    `json:"elevation_m"`
	Weather    string `json:"weather"`    // "rain", "snow", or anything else
	Difficulty string `json:"difficulty"` // "easy", "moderate", "hard", "expert"
	Motivation bool   `json:"motivation"` // taken just for the joy of it
}

// ─── Recorder ───────────────────────────────────────────────────────────────

// Recorder mutates the per-source aggregates and produces the combined
// snapshot. All Record methods notify the engine via onChange after a
// successful write.
type Recorder struct {
	db       *store.DB
	mu       sync.Mutex
	now      func() time.Time
	onChange func()
}

// NewRecorder creates a recorder over the progress store.
func NewRecorder(db *store.DB) *Recorder {
	return &Recorder{db: db, now: time.Now}
}

// SetOnChange registers the change notification (the engine's Notify).
func (r *Recorder) SetOnChange(fn func()) { r.onChange = fn }

// SetClock overrides the time source (used by tests).
func (r *Recorder) SetClock(now func() time.Time) { r.now = now }

// RecordRegistration counts one activity registration.
func (r *Recorder) RecordRegistration() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rec registrationRecord
	r.get(keyRegistrations, &rec)
	rec.Count++
	return r.put(keyRegistrations, rec)
}

// RecordActivity counts one completed activity.
func (r *Recorder) RecordActivity() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rec activityRecord
	r.get(keyActivities, &rec)
	rec.Completed++
	return r.put(keyActivities, rec)
}

// RecordReflection counts one written reflection and extends the streak.
func (r *Recorder) RecordReflection() error {
	return r.recordMastery(func(rec *masteryRecord) { rec.Reflections++ })
}

// RecordMoment counts one captured mastery moment and extends the streak.
func (r *Recorder) RecordMoment() error {
	return r.recordMastery(func(rec *masteryRecord) { rec.Moments++ })
}

// recordMastery applies a mastery-log mutation and updates the daily streak:
// same day keeps it, a consecutive day extends it, any gap resets to 1.
func (r *Recorder) recordMastery(mutate func(*masteryRecord)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rec masteryRecord
	r.get(keyMastery, &rec)
	mutate(&rec)

	today := r.now().Format("2006-01-02")
	switch {
	case rec.LastEntry == today:
		// Already counted today
	case rec.LastEntry == r.now().AddDate(0, 0, -1).Format("2006-01-02"):
		rec.StreakDays++
		rec.LastEntry = today
	default:
		rec.StreakDays = 1
		rec.LastEntry = today
	}

	return r.put(keyMastery, rec)
}

// RecordSkill counts one learned skill. A non-positive xp uses the default
// per-skill XP.
func (r *Recorder) RecordSkill(xp int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rec skillsRecord
	r.get(keySkills, &rec)
	rec.Count++
	if xp <= 0 {
		xp = defaultSkillXP
	}
	rec.XP += xp
	return r.put(keySkills, rec)
}

// RecordTrip logs one trip, updating totals, per-category tallies,
// single-trip superlatives and the trip XP subtotal.
func (r *Recorder) RecordTrip(t Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.DistanceKm < 0 {
		t.DistanceKm = 0
	}
	if t.ElevationM < 0 {
		t.ElevationM = 0
	}

	var rec tripsRecord
	r.get(keyTrips, &rec)
	rec.Count++
	rec.DistanceKm += t.DistanceKm
	rec.ElevationM += t.ElevationM
	rec.XP += int64(xpPerTrip + t.DistanceKm*xpPerTripKm + t.ElevationM/100*xpPer100mClimb)

	if t.Motivation {
		rec.Motivation++
	}
	switch t.Weather {
	case "rain":
		rec.Rain++
	case "snow":
		rec.Snow++
	}
	switch t.Difficulty {
	case "hard":
		rec.Hard++
	case "expert":
		rec.Expert++
	}
	if t.DistanceKm > rec.LongestKm {
		rec.LongestKm = t.DistanceKm
	}
	if t.ElevationM > rec.HighestElevationM {
		rec.HighestElevationM = t.ElevationM
	}

	return r.put(keyTrips, rec)
}

// RecordExpedition counts one expedition.
func (r *Recorder) RecordExpedition() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rec expeditionRecord
	r.get(keyExpeditions, &rec)
	rec.Expeditions++
	return r.put(keyExpeditions, rec)
}

// RecordEnvironmentAction counts one environment action.
func (r *Recorder) RecordEnvironmentAction() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rec expeditionRecord
	r.get(keyExpeditions, &rec)
	rec.EnvironmentActions++
	return r.put(keyExpeditions, rec)
}

// Combined merges every source into one snapshot. Absent or malformed
// sources contribute zeros — never an error, never a nil field.
func (r *Recorder) Combined() domain.StatsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	var reg registrationRecord
	var act activityRecord
	var mast masteryRecord
	var sk skillsRecord
	var tr tripsRecord
	var exp expeditionRecord
	var ped domain.PedometerState

	r.get(keyRegistrations, &reg)
	r.get(keyActivities, &act)
	r.get(keyMastery, &mast)
	r.get(keySkills, &sk)
	r.get(keyTrips, &tr)
	r.get(keyExpeditions, &exp)
	r.get(store.KeyPedometerState, &ped)

	return domain.StatsSnapshot{
		CompletedActivities:   act.Completed,
		Registrations:         reg.Count,
		Reflections:           mast.Reflections,
		Moments:               mast.Moments,
		StreakDays:            mast.StreakDays,
		Expeditions:           exp.Expeditions,
		EnvironmentActions:    exp.EnvironmentActions,
		Skills:                sk.Count,
		SkillXP:               sk.XP,
		Trips:                 tr.Count,
		TripDistanceKm:        tr.DistanceKm,
		TripElevationM:        tr.ElevationM,
		TripXP:                tr.XP,
		MotivationTrips:       tr.Motivation,
		RainTrips:             tr.Rain,
		SnowTrips:             tr.Snow,
		HardTrips:             tr.Hard,
		ExpertTrips:           tr.Expert,
		LongestTripKm:         tr.LongestKm,
		HighestTripElevationM: tr.HighestElevationM,
		PedometerXP:           ped.TotalXPFromSteps,
	}
}

// get loads a record; absence and corruption both leave the zero value.
func (r *Recorder) get(key string, out any) {
	if _, err := r.db.GetJSON(key, out); err != nil {
		log.Printf("[stats] load %s: %v (using zero value)", key, err)
	}
}

// put saves a record and fires the change notification.
func (r *Recorder) put(key string, rec any) error {
	if err := r.db.SetJSON(key, rec); err != nil {
		return err
	}
	if r.onChange != nil {
		r.onChange()
	}
	return nil
}
