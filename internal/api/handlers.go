package api

import (
	"encoding/json"
	"net/http"

	"github.com/trailforge/trailforge/internal/app/stats"
	"github.com/trailforge/trailforge/internal/domain"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status := "ok"
	code := http.StatusOK
	if !s.health.IsHealthy() {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": s.health.Statuses(),
	})
}

// ─── Derived State ──────────────────────────────────────────────────────────

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	state := s.engine.State()
	progress := s.engine.Progress()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_xp":  state.TotalXP,
		"level":     progress.Level,
		"max_level": s.engine.Thresholds().MaxLevel(),
		"current":   progress.Current,
		"next":      progress.Next,
		"progress":  progress.Progress,
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	state := s.engine.State()
	defs := s.engine.Catalog()

	type achievement struct {
		domain.AchievementDef
		Unlocked bool `json:"unlocked"`
	}

	out := make([]achievement, len(defs))
	unlockedCount := 0
	for i, def := range defs {
		unlocked := state.UnlockedAchievements[def.ID]
		if unlocked {
			unlockedCount++
		}
		out[i] = achievement{AchievementDef: def, Unlocked: unlocked}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": out,
		"unlocked":     unlockedCount,
		"total":        len(defs),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.recorder.Combined())
}

// ─── Activity Recording ─────────────────────────────────────────────────────

func (s *Server) handleRecordRegistration(w http.ResponseWriter, r *http.Request) {
	s.record(w, s.recorder.RecordRegistration())
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	s.record(w, s.recorder.RecordActivity())
}

func (s *Server) handleRecordReflection(w http.ResponseWriter, r *http.Request) {
	s.record(w, s.recorder.RecordReflection())
}

func (s *Server) handleRecordMoment(w http.ResponseWriter, r *http.Request) {
	s.record(w, s.recorder.RecordMoment())
}

type recordSkillRequest struct {
	XP int64 `json:"xp"`
}

func (s *Server) handleRecordSkill(w http.ResponseWriter, r *http.Request) {
	var req recordSkillRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	s.record(w, s.recorder.RecordSkill(req.XP))
}

func (s *Server) handleRecordTrip(w http.ResponseWriter, r *http.Request) {
	var trip stats.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.record(w, s.recorder.RecordTrip(trip))
}

func (s *Server) handleRecordExpedition(w http.ResponseWriter, r *http.Request) {
	s.record(w, s.recorder.RecordExpedition())
}

func (s *Server) handleRecordEnvironment(w http.ResponseWriter, r *http.Request) {
	s.record(w, s.recorder.RecordEnvironmentAction())
}

// record finishes a Record* call with a uniform response.
func (s *Server) record(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"recorded": true})
}

// ─── Pedometer ──────────────────────────────────────────────────────────────

func (s *Server) handlePedometerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pedometer.State())
}

func (s *Server) handlePedometerHistory(w http.ResponseWriter, r *http.Request) {
	samples, err := s.pedometer.History()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"samples": samples,
	})
}

type stepsRequest struct {
	Count int64 `json:"count"` // raw cumulative counter reading
}

func (s *Server) handlePedometerSteps(w http.ResponseWriter, r *http.Request) {
	var req stepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Policy outcomes (throttled, rejected, clamped) are regular responses,
	// not HTTP errors.
	writeJSON(w, http.StatusOK, s.pedometer.Update(req.Count))
}

// ─── Celebrations ───────────────────────────────────────────────────────────

func (s *Server) handleCelebrations(w http.ResponseWriter, r *http.Request) {
	if s.celebrations == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"pending": []domain.Celebration{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pending": s.celebrations.Pending(),
	})
}

func (s *Server) handleCelebrationNext(w http.ResponseWriter, r *http.Request) {
	if s.celebrations == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"celebration": nil})
		return
	}
	c, ok := s.celebrations.Next()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"celebration": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"celebration": c})
}

// ─── Reset ──────────────────────────────────────────────────────────────────

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Reset(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}
