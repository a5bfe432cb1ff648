package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/brycewandling-glitch/paper/internal/repository"
	"github.com/brycewandling-glitch/paper/internal/resolver"
	"github.com/brycewandling-glitch/paper/internal/sheet"
	"github.com/brycewandling-glitch/paper/internal/teams"
)

func (s *Server) getData(w http.ResponseWriter, r *http.Request) {
	t, err := sheet.ReadTable(r.Context(), s.Source, s.season(r))
	if err != nil {
		respondErr(w, "failed to read sheet", err)
		return
	}
	rows := t.Rows
	if rows == nil {
		rows = []sheet.Row{}
	}
	respondJSON(w, http.StatusOK, rows)
}

func (s *Server) getStandings(w http.ResponseWriter, r *http.Request) {
	players, err := s.Standings.Standings(r.Context(), s.season(r))
	if err != nil {
		respondErr(w, "failed to compute standings", err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

func (s *Server) getSeason(w http.ResponseWriter, r *http.Request) {
	data, err := s.Standings.Season(r.Context(), s.season(r))
	if err != nil {
		respondErr(w, "failed to compute season", err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func (s *Server) getAllTime(w http.ResponseWriter, r *http.Request) {
	data, err := s.Standings.AllTime(r.Context())
	if err != nil {
		respondErr(w, "failed to compute all-time standings", err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func (s *Server) getWeekPicks(w http.ResponseWriter, r *http.Request) {
	week := parseIntParam(r, "week", 0)
	if week <= 0 {
		respondError(w, http.StatusBadRequest, "week must be a positive number", nil)
		return
	}
	view, err := s.Standings.Week(r.Context(), s.season(r), week)
	if err != nil {
		respondErr(w, "failed to load week picks", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) getWeekCount(w http.ResponseWriter, r *http.Request) {
	season := s.season(r)
	n, err := s.Standings.WeekCount(r.Context(), season)
	if err != nil {
		respondErr(w, "failed to count weeks", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"sheet": season, "weekCount": n})
}

func (s *Server) getNextBets(w http.ResponseWriter, r *http.Request) {
	season := s.season(r)
	bets, err := s.Standings.NextBets(r.Context(), season)
	if err != nil {
		respondErr(w, "failed to compute next bets", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"sheet": season, "bets": bets})
}

func (s *Server) getGameDetails(w http.ResponseWriter, r *http.Request) {
	resolved := strings.TrimSpace(r.URL.Query().Get("resolved"))
	if resolved == "" {
		respondError(w, http.StatusBadRequest, "missing 'resolved' query parameter", nil)
		return
	}
	if s.Games == nil {
		respondError(w, http.StatusServiceUnavailable, "game lookup is not configured", nil)
		return
	}
	sport := teams.ParseSport(r.URL.Query().Get("sport"), teams.SportNFL)

	game, err := s.Games.Lookup(r.Context(), resolved, sport)
	if err != nil {
		respondErr(w, "failed to look up game", err)
		return
	}
	if game == nil {
		respondJSON(w, http.StatusNotFound, map[string]interface{}{"error": "Game not found", "resolved": resolved})
		return
	}
	respondJSON(w, http.StatusOK, game)
}

// resolvePick lists schedule-sheet candidates. Team name hints are added when nothing matched.
func (s *Server) resolvePick(w http.ResponseWriter, r *http.Request) {
	season := s.season(r)
	week := parseIntParam(r, "week", 1)
	pick := r.URL.Query().Get("pick")

	sheets := s.ScheduleSheets
	if raw := r.URL.Query().Get("scheduleSheets"); raw != "" {
		sheets = nil
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sheets = append(sheets, name)
			}
		}
	}

	candidates, err := resolver.Candidates(r.Context(), s.Source, season, week, pick, sheets)
	if err != nil {
		respondErr(w, "failed to resolve pick", err)
		return
	}

	resp := map[string]interface{}{
		"sheet":      season,
		"week":       week,
		"pick":       pick,
		"candidates": candidates,
	}
	if len(candidates) == 0 {
		team, _ := resolver.SplitTeamSpread(pick)
		if _, known := s.Matcher.Canonical(team); !known {
			resp["suggestions"] = s.Matcher.Suggest(team, 5)
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) getLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.Snapshots == nil {
		respondError(w, http.StatusServiceUnavailable, "snapshots are not configured", nil)
		return
	}
	season := s.season(r)
	snap, err := s.Snapshots.Latest(r.Context(), season)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no snapshot for "+season, nil)
		return
	}
	if err != nil {
		respondErr(w, "failed to load snapshot", err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) getResolutions(w http.ResponseWriter, r *http.Request) {
	if s.Resolutions == nil {
		respondError(w, http.StatusServiceUnavailable, "resolution log is not configured", nil)
		return
	}
	week := parseIntParam(r, "week", 0)
	if week <= 0 {
		respondError(w, http.StatusBadRequest, "week must be a positive number", nil)
		return
	}
	recs, err := s.Resolutions.ListByWeek(r.Context(), s.season(r), week)
	if err != nil {
		respondErr(w, "failed to list resolutions", err)
		return
	}
	if recs == nil {
		recs = []repository.ResolutionRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}
