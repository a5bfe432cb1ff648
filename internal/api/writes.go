package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog/log"

	"github.com/brycewandling-glitch/paper/internal/ledger"
	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/picks"
	"github.com/brycewandling-glitch/paper/internal/rules"
	"github.com/brycewandling-glitch/paper/internal/sheet"
)

const writeTimeout = 30 * time.Second

// decodeBody reads a JSON body keeping numbers as json.Number
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(dst)
}

// writeSeason prefers the sheet query parameter, then the body, then the default season
func (s *Server) writeSeason(r *http.Request, body string) string {
	if v := strings.TrimSpace(r.URL.Query().Get("sheet")); v != "" {
		return v
	}
	if v := strings.TrimSpace(body); v != "" {
		return v
	}
	return s.DefaultSeason
}

// cellString renders a decoded JSON value as sheet cell text
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func intValue(v interface{}) (int, bool) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), true
		}
		if f, err := x.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n, true
		}
	}
	return 0, false
}

type appendRequest struct {
	Sheet  string          `json:"sheet"`
	Values [][]interface{} `json:"values"`
}

func (s *Server) appendData(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if err := decodeBody(r, &req); err != nil || req.Values == nil {
		respondError(w, http.StatusBadRequest, "Invalid data format", err)
		return
	}
	season := s.writeSeason(r, req.Sheet)

	rows := make(sheet.Grid, 0, len(req.Values))
	for _, raw := range req.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = cellString(v)
		}
		rows = append(rows, row)
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	if err := s.Source.Append(ctx, season, rows); err != nil {
		respondErr(w, "failed to append rows", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"sheet": season, "appended": len(rows)})
}

type submitRequest struct {
	Sheet            string      `json:"sheet"`
	PlayerName       string      `json:"playerName"`
	BetAmount        interface{} `json:"betAmount"`
	PickText         string      `json:"pickText"`
	Week             interface{} `json:"week"`
	Division         string      `json:"division"`
	IsTail           bool        `json:"isTail"`
	IsReverseTail    bool        `json:"isReverseTail"`
	TailedPlayerName string      `json:"tailedPlayerName"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	Sheet   string `json:"sheet"`
	*ledger.Written
}

func (req submitRequest) missing() []string {
	var out []string
	if strings.TrimSpace(req.PlayerName) == "" {
		out = append(out, "playerName")
	}
	if req.BetAmount == nil {
		out = append(out, "betAmount")
	}
	if strings.TrimSpace(req.PickText) == "" {
		out = append(out, "pickText")
	}
	if week, ok := intValue(req.Week); !ok || week <= 0 {
		out = append(out, "week")
	}
	return out
}

// tail returns the tail reference from the explicit flags, else from the pick text.
// Pick text naming another player is a tail; a directive naming the submitter is kept so it can be rejected.
func (req submitRequest) tail(names []string) picks.TailRef {
	target := strings.TrimSpace(req.TailedPlayerName)
	switch {
	case req.IsReverseTail && target != "":
		return picks.TailRef{Kind: picks.TailReverse, Target: target}
	case req.IsTail && target != "":
		return picks.TailRef{Kind: picks.TailFollow, Target: target}
	}
	if ref, ok := picks.NewTailIndex(names).Detect(strings.TrimSpace(req.PlayerName), req.PickText); ok {
		return ref
	}
	if ref, ok := picks.ParseDirective(req.PickText); ok {
		return ref
	}
	return picks.TailRef{}
}

func amountValue(v interface{}) float64 {
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return sheet.ParseAmount(cellString(v))
}

func (s *Server) submitPick(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if missing := req.missing(); len(missing) > 0 {
		respondError(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "), nil)
		return
	}

	season := s.writeSeason(r, req.Sheet)
	week, _ := intValue(req.Week)
	player := strings.TrimSpace(req.PlayerName)

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	board, err := s.Standings.Board(ctx, season, week)
	if err != nil {
		respondErr(w, "failed to load standings", err)
		return
	}
	ref := req.tail(boardNames(board))
	// players missing from the board fall through to the column lookup, which suggests names
	if onBoard(board, player) {
		violations := rules.Validate(rules.Submission{Player: player, Kind: ref.Kind, Target: ref.Target}, board)
		if len(violations) > 0 {
			log.Info().
				Str("season", season).
				Int("week", week).
				Str("player", player).
				Err(violations).
				Msg("Pick rejected")
			respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:   violations.Error(),
				Code:    http.StatusUnprocessableEntity,
				Details: violations,
			})
			return
		}
	}

	entry := ledger.Entry{
		Week:   week,
		Player: player,
		Amount: amountValue(req.BetAmount),
		Pick:   req.PickText,
		Tail:   ref.Kind,
		Target: ref.Target,
	}
	if req.Division != "" {
		entry.Division = models.ParseDivision(req.Division)
	}

	written, err := s.Ledger.SubmitPick(ctx, season, entry)
	if err != nil {
		if errors.Is(err, sheet.ErrColumnNotFound) {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   fmt.Sprintf("Columns not found for player %s", player),
				Code:    http.StatusBadRequest,
				Details: map[string]interface{}{"suggestions": suggestNames(player, boardNames(board))},
			})
			return
		}
		respondWriteErr(w, "failed to submit pick", err)
		return
	}

	respondJSON(w, http.StatusOK, submitResponse{Success: true, Sheet: season, Written: written})
}

func onBoard(b *rules.Board, name string) bool {
	for _, p := range b.Players {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func boardNames(b *rules.Board) []string {
	names := make([]string, 0, len(b.Players))
	for _, p := range b.Players {
		names = append(names, p.Name)
	}
	return names
}

// suggestNames ranks player names close to a misspelled one
func suggestNames(name string, names []string) []string {
	ranks := fuzzy.RankFindNormalizedFold(name, names)
	sort.Sort(ranks)
	out := make([]string, 0, len(ranks))
	for _, rk := range ranks {
		out = append(out, rk.Target)
	}
	if len(out) > 0 {
		return out
	}
	lower := strings.ToLower(name)
	for _, n := range names {
		if fuzzy.LevenshteinDistance(lower, strings.ToLower(n)) <= 2 {
			out = append(out, n)
		}
	}
	return out
}

type betUpdatesRequest struct {
	Sheet      string                 `json:"sheet"`
	Week       interface{}            `json:"week"`
	BetUpdates map[string]interface{} `json:"betUpdates"`
}

func (s *Server) updatePlayerBets(w http.ResponseWriter, r *http.Request) {
	var req betUpdatesRequest
	if err := decodeBody(r, &req); err != nil || req.BetUpdates == nil {
		respondError(w, http.StatusBadRequest, "Invalid betUpdates format", err)
		return
	}
	week, ok := intValue(req.Week)
	if !ok || week <= 0 {
		respondError(w, http.StatusBadRequest, "Week number required", nil)
		return
	}
	season := s.writeSeason(r, req.Sheet)

	bets := make(map[string]string, len(req.BetUpdates))
	for name, v := range req.BetUpdates {
		bets[name] = cellString(v)
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	updated, missing, err := s.Ledger.UpdateBets(ctx, season, week, bets)
	if err != nil {
		respondWriteErr(w, "failed to update bets", err)
		return
	}
	if missing == nil {
		missing = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sheet":      season,
		"week":       week,
		"updated":    updated,
		"missing":    missing,
		"betUpdates": bets,
	})
}

type annotateRequest struct {
	Sheet string `json:"sheet"`
}

func (s *Server) annotateSeason(w http.ResponseWriter, r *http.Request) {
	var req annotateRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	season := s.writeSeason(r, req.Sheet)

	// annotation resolves every pick of the season, so it gets the full request timeout
	result, err := s.Ledger.AnnotateSeason(r.Context(), season)
	if err != nil {
		respondWriteErr(w, "failed to annotate season", err)
		return
	}
	if result.Created == nil {
		result.Created = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sheet":          season,
		"createdColumns": result.Created,
		"rowsWritten":    result.RowsWritten,
	})
}

type pickResultRequest struct {
	Sheet      string      `json:"sheet"`
	Week       interface{} `json:"week"`
	PlayerName string      `json:"playerName"`
	Result     string      `json:"result"`
}

func (s *Server) pickResult(w http.ResponseWriter, r *http.Request) {
	var req pickResultRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	week, ok := intValue(req.Week)
	player := strings.TrimSpace(req.PlayerName)
	if !ok || week <= 0 || player == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: playerName, week", nil)
		return
	}
	outcome := models.ParseOutcome(req.Result)
	if strings.TrimSpace(req.Result) != "" && !outcome.IsRecorded() {
		respondError(w, http.StatusBadRequest, "result must be W, L or P", nil)
		return
	}
	season := s.writeSeason(r, req.Sheet)

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	if err := s.Ledger.SetResult(ctx, season, week, player, outcome); err != nil {
		respondWriteErr(w, "failed to write result", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"sheet":   season,
		"week":    week,
		"player":  player,
		"result":  string(outcome),
	})
}

// respondWriteErr reports a missing week as a bad request, since the caller named it
func respondWriteErr(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, sheet.ErrWeekNotFound) {
		respondError(w, http.StatusBadRequest, message+": "+err.Error(), err)
		return
	}
	respondErr(w, message, err)
}
