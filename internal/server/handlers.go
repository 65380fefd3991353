package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/naka-gawa/top-repo-dashboard/internal/chart"
	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
)

type healthData struct {
	Loaded bool          `json:"loaded"`
	Reason domain.Reason `json:"reason,omitempty"`
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	data := healthData{Loaded: s.Snapshot() != nil}
	if fe := s.lastErr.Load(); fe != nil && !data.Loaded {
		data.Reason = fe.Reason
	}
	respondWithJSON(w, http.StatusOK, NewSuccessResponse("ok", data))
}

// loaded writes a 503 and returns nil until the snapshot is available.
func (s *Server) loaded(w http.ResponseWriter) *domain.RepositorySnapshot {
	snap := s.Snapshot()
	if snap == nil {
		respondWithJSON(w, http.StatusServiceUnavailable, NewFailResponse("snapshot not loaded"))
	}
	return snap
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.loaded(w)
	if snap == nil {
		return
	}
	respondWithJSON(w, http.StatusOK, NewSuccessResponse("Snapshot retrieved", snap))
}

func (s *Server) getWeeklySeries(w http.ResponseWriter, r *http.Request) {
	snap := s.loaded(w)
	if snap == nil {
		return
	}
	respondWithJSON(w, http.StatusOK, NewSuccessResponse("Weekly series retrieved", chart.WeeklySeries(snap.Last4WeeksCommits)))
}

// getDailySeries serves the daily series; ?week=N (1-based) narrows it to one week.
func (s *Server) getDailySeries(w http.ResponseWriter, r *http.Request) {
	sel, err := parseWeek(r.URL.Query().Get("week"))
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, NewFailResponse(err.Error()))
		return
	}
	snap := s.loaded(w)
	if snap == nil {
		return
	}
	respondWithJSON(w, http.StatusOK, NewSuccessResponse(sel.Title(), chart.DailySeries(snap.Last4WeeksCommits, sel, s.now())))
}

func (s *Server) getLanguageSeries(w http.ResponseWriter, r *http.Request) {
	snap := s.loaded(w)
	if snap == nil {
		return
	}
	respondWithJSON(w, http.StatusOK, NewSuccessResponse("Language series retrieved", chart.LanguageSeries(snap.LanguagePercentages)))
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	snap := s.loaded(w)
	if snap == nil {
		return
	}
	respondWithJSON(w, http.StatusOK, NewSuccessResponse("Summary retrieved", chart.Summarize(snap.Last4WeeksCommits)))
}

var errInvalidWeek = errors.New("week must be a number between 1 and 4")

func parseWeek(raw string) (chart.Selection, error) {
	if raw == "" {
		return chart.NewSelection(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return chart.Selection{}, errInvalidWeek
	}
	sel, err := chart.SelectedWeek(n - 1)
	if err != nil {
		return chart.Selection{}, errInvalidWeek
	}
	return sel, nil
}
