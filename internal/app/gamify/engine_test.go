package gamify_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/trailforge/trailforge/internal/app/gamify"
	"github.com/trailforge/trailforge/internal/domain"
	"github.com/trailforge/trailforge/internal/infra/store"
)

// fakeSource is a mutable snapshot source for driving the engine directly.
type fakeSource struct {
	mu   sync.Mutex
	snap domain.StatsSnapshot
}

func (f *fakeSource) Combined() domain.StatsSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSource) set(snap domain.StatsSnapshot) {
	f.mu.Lock()
	f.snap = snap
	f.mu.Unlock()
}

// recordingSyncer captures pushed totals.
type recordingSyncer struct {
	mu     sync.Mutex
	pushed []gamify.Totals
}

func (r *recordingSyncer) Push(ctx context.Context, t gamify.Totals) error {
	r.mu.Lock()
	r.pushed = append(r.pushed, t)
	r.mu.Unlock()
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Engine Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestEngine_RecalculateDerivesXPAndLevel(t *testing.T) {
	db := testDB(t)
	src := &fakeSource{}
	src.set(domain.StatsSnapshot{CompletedActivities: 1}) // 40 base + 50 first_activity

	engine := gamify.NewEngine(db, gamify.DefaultThresholds(), gamify.AllAchievements(), src)
	p := engine.Recalculate()

	state := engine.State()
	if state.TotalXP != 90 {
		t.Errorf("total XP = %d, want 90", state.TotalXP)
	}
	if !state.UnlockedAchievements["first_activity"] {
		t.Error("first_activity should be unlocked")
	}
	if p.Level != 1 {
		t.Errorf("level = %d, want 1", p.Level)
	}
}

func TestEngine_UnchangedSnapshotIsNoOp(t *testing.T) {
	db := testDB(t)
	src := &fakeSource{}
	src.set(domain.StatsSnapshot{Trips: 1, TripXP: 52})

	engine := gamify.NewEngine(db, gamify.DefaultThresholds(), gamify.AllAchievements(), src)
	engine.Recalculate()
	first := engine.State()

	// Same snapshot again: the state must come out identical.
	engine.Recalculate()
	second := engine.State()

	if first.TotalXP != second.TotalXP {
		t.Errorf("total XP changed on unchanged snapshot: %d != %d", first.TotalXP, second.TotalXP)
	}
	if len(first.UnlockedAchievements) != len(second.UnlockedAchievements) {
		t.Error("unlock set changed on unchanged snapshot")
	}
}

func TestEngine_BatchUnlockIsAtomicWithinOnePass(t *testing.T) {
	db := testDB(t)
	src := &fakeSource{}
	// Qualifies first_activity (1) and activities_10 (10) in the same pass.
	src.set(domain.StatsSnapshot{CompletedActivities: 10})

	engine := gamify.NewEngine(db, gamify.DefaultThresholds(), gamify.AllAchievements(), src)
	engine.Recalculate()

	state := engine.State()
	if !state.UnlockedAchievements["first_activity"] || !state.UnlockedAchievements["activities_10"] {
		t.Errorf("both activity achievements should unlock in one pass: %v", state.UnlockedAchievements)
	}
	// 400 base + 50 + 150 rewards
	if state.TotalXP != 600 {
		t.Errorf("total XP = %d, want 600", state.TotalXP)
	}
}

func TestEngine_MilestonesUsePrePassXP(t *testing.T) {
	db := testDB(t)
	src := &fakeSource{}
	// Base 9990 XP: below the 10000 milestone before this pass's reward
	// unlocks, above it after. The milestone must wait for the next pass.
	src.set(domain.StatsSnapshot{SkillXP: 9950, CompletedActivities: 1})

	engine := gamify.NewEngine(db, gamify.DefaultThresholds(), gamify.AllAchievements(), src)
	engine.Recalculate()

	state := engine.State()
	if state.TotalXP != 10040 {
		t.Fatalf("total XP = %d, want 10040", state.TotalXP)
	}
	if state.UnlockedAchievements["xp_10000"] {
		t.Error("xp_10000 must not unlock from rewards earned in the same pass")
	}

	// A later snapshot change picks it up.
	src.set(domain.StatsSnapshot{SkillXP: 9950, CompletedActivities: 2})
	engine.Recalculate()
	if !engine.State().UnlockedAchievements["xp_10000"] {
		t.Error("xp_10000 should unlock on the next pass")
	}
}

func TestEngine_StatePersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	db, err := store.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	src := &fakeSource{}
	src.set(domain.StatsSnapshot{CompletedActivities: 1})
	engine := gamify.NewEngine(db, gamify.DefaultThresholds(), gamify.AllAchievements(), src)
	engine.Recalculate()
	want := engine.State().TotalXP
	db.Close()

	db2, err := store.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	engine2 := gamify.NewEngine(db2, gamify.DefaultThresholds(), gamify.AllAchievements(), src)
	if got := engine2.State().TotalXP; got != want {
		t.Errorf("restored total XP = %d, want %d", got, want)
	}
}

func TestEngine_ResetReturnsToFirstRun(t *testing.T) {
	db := testDB(t)
	src := &fakeSource{}
	src.set(domain.StatsSnapshot{CompletedActivities: 10})

	engine := gamify.NewEngine(db, gamify.DefaultThresholds(), gamify.AllAchievements(), src)
	engine.Recalculate()
	if engine.State().TotalXP == 0 {
		t.Fatal("precondition: some XP earned")
	}

	// The snapshot source reflects the wipe too.
	src.set(domain.StatsSnapshot{})
	if err := engine.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	state := engine.State()
	if state.TotalXP != 0 {
		t.Errorf("total XP after reset = %d, want 0", state.TotalXP)
	}
	if len(state.UnlockedAchievements) != 0 {
		t.Errorf("achievements after reset: %v", state.UnlockedAchievements)
	}
	if count, _ := db.UnlockedAchievementCount(); count != 0 {
		t.Errorf("stored achievements after reset = %d, want 0", count)
	}
}

func TestEngine_ReEarnAfterReset(t *testing.T) {
	db := testDB(t)
	src := &fakeSource{}
	src.set(domain.StatsSnapshot{CompletedActivities: 1})

	engine := gamify.NewEngine(db, gamify.DefaultThresholds(), gamify.AllAchievements(), src)
	engine.Recalculate()

	src.set(domain.StatsSnapshot{})
	if err := engine.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	src.set(domain.StatsSnapshot{CompletedActivities: 1})
	engine.Recalculate()

	state := engine.State()
	if !state.UnlockedAchievements["first_activity"] {
		t.Error("achievements must be earnable again after reset")
	}
	if state.TotalXP != 90 {
		t.Errorf("total XP = %d, want 90", state.TotalXP)
	}
}

func TestEngine_CorruptStoredStateFallsBackToZero(t *testing.T) {
	db := testDB(t)
	if err := db.Set(store.KeyGamificationState, "{broken"); err != nil {
		t.Fatalf("set: %v", err)
	}

	src := &fakeSource{}
	engine := gamify.NewEngine(db, gamify.DefaultThresholds(), gamify.AllAchievements(), src)

	state := engine.State()
	if state.TotalXP != 0 {
		t.Errorf("corrupt state must load as zero, got %d XP", state.TotalXP)
	}
	if state.UnlockedAchievements == nil {
		t.Error("unlock map must never be nil")
	}
}

func TestEngine_RunDebouncesAndPushesSync(t *testing.T) {
	db := testDB(t)
	db.Set(store.KeyAuthToken, "tok")
	src := &fakeSource{}

	engine := gamify.NewEngine(db, gamify.DefaultThresholds(), gamify.AllAchievements(), src)
	engine.SetDelays(5*time.Millisecond, 10*time.Millisecond)

	sync := &recordingSyncer{}
	engine.SetSyncer(sync)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx)

	// A burst of changes coalesces into one recompute and one push.
	src.set(domain.StatsSnapshot{CompletedActivities: 1})
	engine.Notify()
	engine.Notify()
	engine.Notify()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		sync.mu.Lock()
		n := len(sync.pushed)
		sync.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	sync.mu.Lock()
	defer sync.mu.Unlock()
	if len(sync.pushed) != 1 {
		t.Fatalf("pushed %d times, want 1", len(sync.pushed))
	}
	if sync.pushed[0].TotalPoints != 90 {
		t.Errorf("pushed total = %d, want 90", sync.pushed[0].TotalPoints)
	}
	if sync.pushed[0].CompletedActivities != 1 {
		t.Errorf("pushed activities = %d, want 1", sync.pushed[0].CompletedActivities)
	}
}

func TestEngine_CelebrationsObserveRecomputes(t *testing.T) {
	db := testDB(t)
	src := &fakeSource{}
	engine := gamify.NewEngine(db, gamify.DefaultThresholds(), gamify.AllAchievements(), src)

	q := gamify.NewCelebrationQueue()
	engine.SetCelebrations(q)

	engine.Recalculate() // primes the baseline at zero

	src.set(domain.StatsSnapshot{CompletedActivities: 1})
	engine.Recalculate()

	pending := q.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected 1 celebration, got %d", len(pending))
	}
	if pending[0].Kind != domain.CelebrationXPGain {
		t.Errorf("kind = %s, want xp_gain", pending[0].Kind)
	}
}
