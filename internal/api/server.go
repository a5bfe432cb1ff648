// Package api serves the pool's HTTP surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/brycewandling-glitch/paper/internal/ledger"
	"github.com/brycewandling-glitch/paper/internal/metrics"
	"github.com/brycewandling-glitch/paper/internal/repository"
	"github.com/brycewandling-glitch/paper/internal/sheet"
	"github.com/brycewandling-glitch/paper/internal/standings"
	"github.com/brycewandling-glitch/paper/internal/teams"
)

// HealthCheck is a named dependency probe
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// SnapshotReader reads stored standings snapshots
type SnapshotReader interface {
	Latest(ctx context.Context, season string) (*repository.Snapshot, error)
}

// ResolutionReader reads the resolution audit log
type ResolutionReader interface {
	ListByWeek(ctx context.Context, season string, week int) ([]repository.ResolutionRecord, error)
}

// Deps are the services behind the handlers
type Deps struct {
	Source    sheet.Source
	Standings *standings.Service
	Ledger    *ledger.Ledger
	// Games looks up live game details; nil disables /api/game-details
	Games          standings.GameLookup
	Matcher        *teams.Matcher
	DefaultSeason  string
	ScheduleSheets []string
	Health         []HealthCheck
	// Snapshots and Resolutions are nil without a database
	Snapshots   SnapshotReader
	Resolutions ResolutionReader
}

// Server holds handler dependencies
type Server struct {
	Deps
	started time.Time
}

// NewServer creates a server
func NewServer(deps Deps) *Server {
	if deps.Matcher == nil {
		deps.Matcher = teams.Default()
	}
	if deps.DefaultSeason == "" {
		deps.DefaultSeason = "Season 4"
	}
	return &Server{Deps: deps, started: time.Now()}
}

// Router builds the chi router with middleware and CORS
func (s *Server) Router(corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/data", s.getData)
		r.Post("/data", s.appendData)

		r.Get("/standings", s.getStandings)
		r.Get("/season", s.getSeason)
		r.Get("/all-time", s.getAllTime)
		r.Get("/week-picks", s.getWeekPicks)
		r.Get("/week-count", s.getWeekCount)
		r.Get("/next-bets", s.getNextBets)
		r.Get("/snapshots/latest", s.getLatestSnapshot)
		r.Get("/resolutions", s.getResolutions)

		r.Get("/game-details", s.getGameDetails)
		r.Get("/resolve-pick", s.resolvePick)

		r.Post("/submit-pick", s.submitPick)
		r.Post("/update-player-bets", s.updatePlayerBets)
		r.Post("/annotate-season", s.annotateSeason)
		r.Post("/pick-result", s.pickResult)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.Health))
	healthy := true
	for _, hc := range s.Health {
		if err := hc.Check(ctx); err != nil {
			checks[hc.Name] = err.Error()
			healthy = false
			continue
		}
		checks[hc.Name] = "ok"
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]interface{}{
		"status":    status,
		"checks":    checks,
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC(),
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		ev := log.Debug()
		if ww.Status() >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

func (s *Server) season(r *http.Request) string {
	if v := strings.TrimSpace(r.URL.Query().Get("sheet")); v != "" {
		return v
	}
	return s.DefaultSeason
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue
	}

	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    int         `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ev := log.Debug()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
			metrics.RecordError("api", strconv.Itoa(status))
		}
		ev.Err(err).Int("status", status).Msg(message)
	}
	respondJSON(w, status, ErrorResponse{Error: message, Code: status})
}

// respondErr maps a service error onto a status
func respondErr(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	var se *sheet.StatusError
	switch {
	case errors.Is(err, sheet.ErrWeekNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sheet.ErrColumnNotFound), errors.Is(err, sheet.ErrEmptySheet):
		status = http.StatusBadRequest
	case errors.As(err, &se) && se.Quota():
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status < http.StatusInternalServerError {
		message = message + ": " + err.Error()
	}
	respondError(w, status, message, err)
}
