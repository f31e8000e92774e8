package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/jonwraymond/healthops/alert"
	"github.com/jonwraymond/healthops/auth"
	"github.com/jonwraymond/healthops/health"
)

// DefaultHistoryWindow bounds history and stats queries when the caller
// gives no explicit range.
const DefaultHistoryWindow = 24 * time.Hour

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	detailed := r.URL.Query().Get("detailed") == "true"

	snap, err := s.monitor.GetStatus(r.Context(), detailed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, statusCode(snap.Status), snap)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.monitor.BuildReport(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, statusCode(rep.OverallStatus), rep)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.Metrics(r.Context()))
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	verdict := s.monitor.Readiness(r.Context())

	code := http.StatusOK
	if !verdict.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, verdict)
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.Liveness(r.Context()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	start, end, err := timeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.monitor.GetHistory(r.Context(), start, end, r.URL.Query().Get("service"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"start":   start,
		"end":     end,
		"count":   len(entries),
		"entries": entries,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	start, end, err := timeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := s.monitor.GetStats(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	filter, err := alertFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	alerts, err := s.monitor.QueryAlerts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	a, err := s.monitor.AcknowledgeAlert(r.Context(), mux.Vars(r)["id"], requestActor(r))
	if err != nil {
		writeAlertError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	a, err := s.monitor.ResolveAlert(r.Context(), mux.Vars(r)["id"], requestActor(r))
	if err != nil {
		writeAlertError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleRunCheck(w http.ResponseWriter, r *http.Request) {
	result, err := s.monitor.RunCheck(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		if errors.Is(err, health.ErrCheckNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, statusCode(result.Status), result)
}

// statusCode maps a health verdict onto a response code. Degraded still
// serves 200 so load balancers keep routing to a partially impaired node.
func statusCode(status health.Status) int {
	if status == health.StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func writeAlertError(w http.ResponseWriter, err error) {
	if errors.Is(err, alert.ErrAlertNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// requestActor picks the actor for an alert mutation: the authenticated
// subject when present, otherwise an actor named in the request body, so
// deployments without token auth can still attribute operations.
func requestActor(r *http.Request) string {
	if actor := auth.ActorFromContext(r.Context()); actor != nil && !actor.IsAnonymous() {
		return actor.Subject
	}

	var body struct {
		Actor string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Actor != "" {
		return body.Actor
	}
	return auth.Anonymous().Subject
}

// timeRange parses start and end query parameters (RFC 3339). End
// defaults to now, start to end minus DefaultHistoryWindow.
func timeRange(r *http.Request) (start, end time.Time, err error) {
	end = time.Now()
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid end time, want RFC 3339")
		}
	}

	start = end.Add(-DefaultHistoryWindow)
	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid start time, want RFC 3339")
		}
	}
	return start, end, nil
}

func alertFilter(r *http.Request) (alert.Filter, error) {
	var filter alert.Filter
	q := r.URL.Query()

	if raw := q.Get("acknowledged"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return alert.Filter{}, errors.New("invalid acknowledged value, want true or false")
		}
		filter.Acknowledged = &v
	}
	if raw := q.Get("resolved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return alert.Filter{}, errors.New("invalid resolved value, want true or false")
		}
		filter.Resolved = &v
	}
	if raw := q.Get("severity"); raw != "" {
		sev := alert.Severity(raw)
		switch sev {
		case alert.SeverityLow, alert.SeverityMedium, alert.SeverityHigh, alert.SeverityCritical:
			filter.Severity = &sev
		default:
			return alert.Filter{}, errors.New("invalid severity value")
		}
	}
	return filter, nil
}
