package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/fitrec/internal/recommend"
)

// maxBodyBytes caps request bodies. A recommendation with a few hundred
// candidates is well under this.
const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := s.svc.ModelInfo()
	body := map[string]string{
		"status":         "ok",
		"model_version":  info.ModelVersion,
		"schema_version": info.SchemaVersion,
	}
	status := http.StatusOK
	if s.store != nil {
		body["database"] = "ok"
		if err := s.store.Ping(r.Context()); err != nil {
			s.log.Warn("health: database unreachable", "error", err)
			body["status"] = "degraded"
			body["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, body)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.ModelInfo())
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.svc.Recommend(r.Context(), req)
	if err != nil {
		s.writeError(w, "recommend", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCoefficients(w http.ResponseWriter, r *http.Request) {
	var req recommend.IntensityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := recommend.ComputeIntensity(req)
	if err != nil {
		s.writeError(w, "coefficients", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	var req recommend.ReadinessRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, recommend.AssessReadiness(req))
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req recommend.ClassifyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := recommend.ClassifyScores(req)
	if err != nil {
		s.writeError(w, "classify", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req recommend.DecodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := recommend.DecodeWorkout(req)
	if err != nil {
		s.writeError(w, "decode", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetDataStats(r.Context(), parseLimit(r, 10))
	if err != nil {
		s.writeError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGoalStats(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	stats, err := s.store.GetRecommendationStats(r.Context(), start, end)
	if err != nil {
		s.writeError(w, "goal stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.store.QueryRecommendationLogs(r.Context(), parseLimit(r, 50))
	if err != nil {
		s.writeError(w, "logs", err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.QueryFeaturizeRuns(r.Context(), parseLimit(r, 20))
	if err != nil {
		s.writeError(w, "runs", err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// writeError maps invalid input to 400 and timeouts to 503. Anything else is
// logged and reported as 500.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "request timed out"})
	default:
		s.log.Error(op+" error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseLimit(r *http.Request, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return min(n, 500)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
