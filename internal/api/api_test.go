package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trailforge/trailforge/internal/api"
	"github.com/trailforge/trailforge/internal/app/gamify"
	"github.com/trailforge/trailforge/internal/app/pedometer"
	"github.com/trailforge/trailforge/internal/app/stats"
	"github.com/trailforge/trailforge/internal/infra/store"
)

// testServer wires a full API stack over a temporary database. The engine is
// driven synchronously: handlers that mutate stats trigger Notify, and tests
// call recalc explicitly instead of waiting out the debounce.
func testServer(t *testing.T) (*httptest.Server, *gamify.Engine) {
	t.Helper()
	db, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	recorder := stats.NewRecorder(db)
	ped := pedometer.NewValidator(db, pedometer.DefaultConfig())
	engine := gamify.NewEngine(db, gamify.DefaultThresholds(), gamify.AllAchievements(), recorder)

	q := gamify.NewCelebrationQueue()
	engine.SetCelebrations(q)

	srv := api.NewServer(engine, recorder, ped)
	srv.SetCelebrations(q)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, engine
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func postJSON(t *testing.T, url string, body any, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s: status %d", url, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// API Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestAPI_Health(t *testing.T) {
	ts, _ := testServer(t)

	var out map[string]string
	getJSON(t, ts.URL+"/health", &out)
	if out["status"] != "ok" {
		t.Errorf("status = %q, want ok", out["status"])
	}
}

func TestAPI_RecordAndProgress(t *testing.T) {
	ts, engine := testServer(t)

	postJSON(t, ts.URL+"/api/activities", nil, nil)
	engine.Recalculate()

	var progress struct {
		TotalXP  int64 `json:"total_xp"`
		Level    int   `json:"level"`
		MaxLevel int   `json:"max_level"`
	}
	getJSON(t, ts.URL+"/api/progress", &progress)
	if progress.TotalXP != 90 {
		t.Errorf("total_xp = %d, want 90 (40 activity + 50 reward)", progress.TotalXP)
	}
	if progress.Level != 1 || progress.MaxLevel != 100 {
		t.Errorf("level = %d/%d, want 1/100", progress.Level, progress.MaxLevel)
	}
}

func TestAPI_AchievementsListMarksUnlocked(t *testing.T) {
	ts, engine := testServer(t)

	postJSON(t, ts.URL+"/api/activities", nil, nil)
	engine.Recalculate()

	var out struct {
		Achievements []struct {
			ID       string `json:"id"`
			Unlocked bool   `json:"unlocked"`
		} `json:"achievements"`
		Unlocked int `json:"unlocked"`
		Total    int `json:"total"`
	}
	getJSON(t, ts.URL+"/api/achievements", &out)

	if out.Total != len(gamify.AllAchievements()) {
		t.Errorf("total = %d, want full catalog", out.Total)
	}
	if out.Unlocked != 1 {
		t.Errorf("unlocked = %d, want 1", out.Unlocked)
	}
	found := false
	for _, a := range out.Achievements {
		if a.ID == "first_activity" && a.Unlocked {
			found = true
		}
	}
	if !found {
		t.Error("first_activity should be listed as unlocked")
	}
}

func TestAPI_TripRecording(t *testing.T) {
	ts, _ := testServer(t)

	postJSON(t, ts.URL+"/api/trips", map[string]any{
		"distance_km": 12,
		"elevation_m": 300,
		"weather":     "rain",
		"difficulty":  "hard",
	}, nil)

	var snap struct {
		Trips     int `json:"trips"`
		RainTrips int `json:"rain_trips"`
		HardTrips int `json:"hard_trips"`
	}
	getJSON(t, ts.URL+"/api/stats", &snap)
	if snap.Trips != 1 || snap.RainTrips != 1 || snap.HardTrips != 1 {
		t.Errorf("snapshot = %+v, want one rainy hard trip", snap)
	}
}

func TestAPI_PedometerStepsIsAlwaysHTTP200(t *testing.T) {
	ts, _ := testServer(t)

	// First reading is the baseline: a policy outcome, not an HTTP error.
	var res struct {
		Accepted bool   `json:"accepted"`
		Reason   string `json:"reason"`
	}
	postJSON(t, ts.URL+"/api/pedometer/steps", map[string]int64{"count": 5000}, &res)
	if res.Accepted {
		t.Error("baseline reading must not be accepted")
	}
	if res.Reason != "baseline" {
		t.Errorf("reason = %q, want baseline", res.Reason)
	}
}

func TestAPI_CelebrationsDrain(t *testing.T) {
	ts, engine := testServer(t)

	engine.Recalculate() // primes the celebration baseline
	postJSON(t, ts.URL+"/api/activities", nil, nil)
	engine.Recalculate()

	var pending struct {
		Pending []struct {
			Kind string `json:"kind"`
		} `json:"pending"`
	}
	getJSON(t, ts.URL+"/api/celebrations", &pending)
	if len(pending.Pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending.Pending))
	}

	var next struct {
		Celebration *struct {
			Kind string `json:"kind"`
		} `json:"celebration"`
	}
	postJSON(t, ts.URL+"/api/celebrations/next", nil, &next)
	if next.Celebration == nil || next.Celebration.Kind != "xp_gain" {
		t.Errorf("next = %+v, want xp_gain", next.Celebration)
	}

	postJSON(t, ts.URL+"/api/celebrations/next", nil, &next)
	if next.Celebration != nil {
		t.Error("queue should be drained")
	}
}

func TestAPI_ResetWipesProgress(t *testing.T) {
	ts, engine := testServer(t)

	postJSON(t, ts.URL+"/api/activities", nil, nil)
	engine.Recalculate()

	postJSON(t, ts.URL+"/api/reset", nil, nil)

	var progress struct {
		TotalXP int64 `json:"total_xp"`
	}
	getJSON(t, ts.URL+"/api/progress", &progress)
	if progress.TotalXP != 0 {
		t.Errorf("total_xp after reset = %d, want 0", progress.TotalXP)
	}
}
