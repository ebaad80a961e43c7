package gamify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/trailforge/trailforge/internal/domain"
	"github.com/trailforge/trailforge/internal/infra/metrics"
	"github.com/trailforge/trailforge/internal/infra/store"
)

// Default debounce windows. A burst of upstream stat mutations settles for
// settleDelay before one recompute; sync waits syncDelay after the last
// XP change before pushing.
const (
	defaultSettleDelay = 100 * time.Millisecond
	defaultSyncDelay   = 5 * time.Second
)

// SnapshotSource produces the combined stats snapshot on demand.
type SnapshotSource interface {
	Combined() domain.StatsSnapshot
}

// Totals is the payload pushed to the remote sync endpoint.
type Totals struct {
	TotalPoints          int64 `json:"totalPoints"`
	CompletedActivities  int   `json:"completedActivities"`
	CompletedExpeditions int   `json:"completedExpeditions"`
}

// Syncer pushes derived totals to the remote endpoint. Failures are soft:
// the engine logs them and relies on the next XP change to retry.
type Syncer interface {
	Push(ctx context.Context, t Totals) error
}

// Engine derives total XP, level and unlocked achievements from the combined
// stats snapshot, persists the result, and reacts to upstream changes through
// a debounced notify channel. It is the single owner of the gamification
// state key; storage failures degrade to a zero state and are never
// propagated out of the recompute path.
type Engine struct {
	db         *store.DB
	thresholds LevelThresholds
	catalog    []domain.AchievementDef
	source     SnapshotSource

	celebrations *CelebrationQueue
	syncer       Syncer

	settleDelay time.Duration
	syncDelay   time.Duration

	notify chan struct{}

	mu        sync.Mutex
	state     domain.GamificationState
	lastHash  string
	syncDirty bool
}

// NewEngine creates an engine over the given store, threshold table,
// achievement catalog, and snapshot source. Previously persisted state is
// loaded immediately; a malformed stored blob falls back to first-run state.
func NewEngine(db *store.DB, thresholds LevelThresholds, catalog []domain.AchievementDef, source SnapshotSource) *Engine {
	e := &Engine{
		db:          db,
		thresholds:  thresholds,
		catalog:     catalog,
		source:      source,
		settleDelay: defaultSettleDelay,
		syncDelay:   defaultSyncDelay,
		notify:      make(chan struct{}, 1),
		state:       domain.NewGamificationState(),
	}

	var stored domain.GamificationState
	found, err := db.GetJSON(store.KeyGamificationState, &stored)
	if err != nil {
		log.Printf("[gamify] load state: %v (starting from zero)", err)
	} else if found {
		if stored.UnlockedAchievements == nil {
			stored.UnlockedAchievements = map[string]bool{}
		}
		e.state = stored
	}

	return e
}

// SetCelebrations attaches the celebration queue.
func (e *Engine) SetCelebrations(q *CelebrationQueue) { e.celebrations = q }

// SetSyncer attaches the remote sync step.
func (e *Engine) SetSyncer(s Syncer) { e.syncer = s }

// SetDelays overrides the debounce windows (used by tests).
func (e *Engine) SetDelays(settle, sync time.Duration) {
	e.settleDelay = settle
	e.syncDelay = sync
}

// Notify signals that some stat source changed. Safe from any goroutine;
// bursts coalesce into a single recompute after the settle delay.
func (e *Engine) Notify() {
	select {
	case e.notify <- struct{}{}:
	default:
	}
}

// Run drives the reactive loop until ctx is cancelled: notify → settle
// debounce → one recompute → sync debounce → one push. A new notification
// supersedes a pending settle timer rather than queueing behind it.
func (e *Engine) Run(ctx context.Context) {
	settle := newStoppedTimer()
	syncTimer := newStoppedTimer()
	defer settle.Stop()
	defer syncTimer.Stop()

	// Reconcile once on startup so state reflects whatever changed while
	// the process was down.
	e.Recalculate()
	if e.pendingSync() {
		resetTimer(syncTimer, e.syncDelay)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.notify:
			resetTimer(settle, e.settleDelay)
		case <-settle.C:
			e.Recalculate()
			if e.pendingSync() {
				resetTimer(syncTimer, e.syncDelay)
			}
		case <-syncTimer.C:
			e.pushSync(ctx)
		}
	}
}

// Recalculate reads the combined snapshot and derives XP, level and newly
// unlocked achievements. Skips work when the serialized snapshot is
// unchanged since the last pass. Never fails: storage errors are logged and
// the affected piece degrades to its zero value.
func (e *Engine) Recalculate() domain.XPProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recalcLocked()
}

func (e *Engine) recalcLocked() domain.XPProgress {
	snap := e.source.Combined()

	raw, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[gamify] marshal snapshot: %v", err)
		return e.thresholds.Progress(e.state.TotalXP)
	}
	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])
	if hash == e.lastHash {
		metrics.RecomputesSkipped.Inc()
		return e.thresholds.Progress(e.state.TotalXP)
	}

	unlocked, err := e.db.UnlockedAchievementIDs()
	if err != nil {
		log.Printf("[gamify] load unlocked achievements: %v (treating as none)", err)
		unlocked = map[string]bool{}
	}

	// XP and level for this pass's level/totalXP checks come from the state
	// before any of this pass's unlocks. No cascades within one pass.
	preXP := ComputeTotalXP(snap, unlocked, e.catalog)
	preLevel := e.thresholds.LevelForXP(preXP)

	newly := EvaluateAchievements(e.catalog, snap, unlocked, preXP, preLevel)
	now := time.Now()
	for _, id := range newly {
		if _, err := e.db.UnlockAchievement(id, now); err != nil {
			log.Printf("[gamify] unlock %s: %v", id, err)
			continue
		}
		unlocked[id] = true
		metrics.AchievementsUnlocked.Inc()
	}

	// One batch unlock, one recompute including the new rewards.
	totalXP := ComputeTotalXP(snap, unlocked, e.catalog)
	level := e.thresholds.LevelForXP(totalXP)

	prevTotal := e.state.TotalXP
	e.state = domain.GamificationState{UnlockedAchievements: unlocked, TotalXP: totalXP}
	e.lastHash = hash

	if err := e.db.SetJSON(store.KeyGamificationState, e.state); err != nil {
		log.Printf("[gamify] persist state: %v", err)
	}

	metrics.Recomputes.Inc()
	metrics.TotalXP.Set(float64(totalXP))
	metrics.Level.Set(float64(level))

	if e.celebrations != nil {
		e.celebrations.Observe(totalXP, level)
	}
	if totalXP != prevTotal {
		e.syncDirty = true
	}

	return e.thresholds.Progress(totalXP)
}

// Progress returns the current level position.
func (e *Engine) Progress() domain.XPProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.thresholds.Progress(e.state.TotalXP)
}

// State returns a copy of the persisted gamification state.
func (e *Engine) State() domain.GamificationState {
	e.mu.Lock()
	defer e.mu.Unlock()
	unlocked := make(map[string]bool, len(e.state.UnlockedAchievements))
	for k, v := range e.state.UnlockedAchievements {
		unlocked[k] = v
	}
	return domain.GamificationState{UnlockedAchievements: unlocked, TotalXP: e.state.TotalXP}
}

// Catalog returns the achievement definitions.
func (e *Engine) Catalog() []domain.AchievementDef { return e.catalog }

// Thresholds returns the level table.
func (e *Engine) Thresholds() LevelThresholds { return e.thresholds }

// Reset wipes all progress in one batch and recomputes from the resulting
// zero snapshot, leaving the engine in first-run state.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.db.ResetAll(); err != nil {
		return err
	}
	e.state = domain.NewGamificationState()
	e.lastHash = ""
	e.syncDirty = false
	e.recalcLocked()
	return nil
}

// pendingSync reports whether a sync push is owed.
func (e *Engine) pendingSync() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syncDirty && e.syncer != nil
}

// pushSync pushes current totals to the remote endpoint. Soft-fails: errors
// are logged and the dirty flag stays cleared; the next XP change triggers
// the next attempt.
func (e *Engine) pushSync(ctx context.Context) {
	e.mu.Lock()
	if e.syncer == nil || !e.syncDirty {
		e.mu.Unlock()
		return
	}
	e.syncDirty = false
	snap := e.source.Combined()
	t := Totals{
		TotalPoints:          e.state.TotalXP,
		CompletedActivities:  snap.CompletedActivities,
		CompletedExpeditions: snap.Expeditions,
	}
	syncer := e.syncer
	e.mu.Unlock()

	metrics.SyncAttempts.Inc()
	if err := syncer.Push(ctx, t); err != nil {
		metrics.SyncFailures.Inc()
		log.Printf("[gamify] sync push: %v", err)
	}
}

// ─── Timer Helpers ──────────────────────────────────────────────────────────

// newStoppedTimer returns a timer that will not fire until reset.
func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return t
}

// resetTimer re-arms t with d, draining a stale fire if needed.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
