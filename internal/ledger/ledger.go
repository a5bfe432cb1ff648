// Package ledger writes picks, bet amounts and results into season sheets.
package ledger

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/picks"
	"github.com/brycewandling-glitch/paper/internal/repository"
	"github.com/brycewandling-glitch/paper/internal/resolver"
	"github.com/brycewandling-glitch/paper/internal/sheet"
)

var (
	exactWeekRe = regexp.MustCompile(`(?i)^week$`)
	anyWeekRe   = regexp.MustCompile(`(?i)week`)
	betWordRe   = regexp.MustCompile(`(?i)bet|amount`)
)

// Resolver turns pick text into a resolved description
type Resolver interface {
	Resolve(ctx context.Context, req resolver.Request) *models.Resolution
}

// AuditLog records resolutions written to the sheet
type AuditLog interface {
	Record(ctx context.Context, rec *repository.ResolutionRecord) error
}

// Ledger edits season sheets through a sheet source
type Ledger struct {
	src       sheet.Source
	resolve   Resolver
	audit     AuditLog
	schedules []string
}

// Option configures a Ledger
type Option func(*Ledger)

// WithAuditLog records every written resolution
func WithAuditLog(a AuditLog) Option {
	return func(l *Ledger) { l.audit = a }
}

// WithScheduleSheets overrides the schedule sheets picks are resolved against
func WithScheduleSheets(names []string) Option {
	return func(l *Ledger) { l.schedules = names }
}

// New creates a ledger. resolve may be nil, in which case picks are formatted as written.
func New(src sheet.Source, resolve Resolver, opts ...Option) *Ledger {
	l := &Ledger{src: src, resolve: resolve}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// weekRow returns the grid row index of a week. An exact "Week" header is preferred.
func weekRow(g sheet.Grid, week int) (int, error) {
	col := g.Column(exactWeekRe.MatchString)
	if col < 0 {
		col = g.Column(anyWeekRe.MatchString)
	}
	if col < 0 {
		return -1, fmt.Errorf("week column: %w", sheet.ErrColumnNotFound)
	}
	for r := 1; r < len(g); r++ {
		if n, ok := sheet.WeekNumber(g.Cell(r, col)); ok && n == week {
			return r, nil
		}
	}
	return -1, fmt.Errorf("week %d: %w", week, sheet.ErrWeekNotFound)
}

// Entry is a pick submission for one player and week
type Entry struct {
	Week     int
	Player   string
	Amount   float64
	Pick     string
	Division models.Division
	Tail     picks.TailKind
	Target   string
}

// Written reports what SubmitPick put in the sheet
type Written struct {
	Week      int    `json:"week"`
	Player    string `json:"player"`
	BetAmount string `json:"betAmount"`
	Pick      string `json:"pick"`
	Resolved  string `json:"resolved"`
	Strategy  string `json:"strategy,omitempty"`
}

// SubmitPick writes the bet amount, the pick with its division tag and, when the player has
// a Resolved column, the resolved description.
func (l *Ledger) SubmitPick(ctx context.Context, season string, e Entry) (*Written, error) {
	g, err := sheet.ReadGrid(ctx, l.src, season)
	if err != nil {
		return nil, err
	}
	row, err := weekRow(g, e.Week)
	if err != nil {
		return nil, err
	}

	betCol := g.ColumnFold(e.Player + " Bet Amount")
	pickCol := g.ColumnFold(e.Player)
	resolvedCol := g.ColumnFold(e.Player + " Resolved")
	if betCol < 0 || pickCol < 0 {
		return nil, fmt.Errorf("columns for player %q: %w", e.Player, sheet.ErrColumnNotFound)
	}

	w := &Written{
		Week:      e.Week,
		Player:    e.Player,
		BetAmount: "$" + picks.FormatNumber(e.Amount),
		Pick:      strings.TrimSpace(e.Pick),
	}
	if e.Division != "" {
		w.Pick = picks.WithDivisionTag(w.Pick, e.Division)
	}
	if e.Tail == picks.TailNone {
		if ref, ok := tailIndex(sheet.DetectColumns(g.Header())).Detect(e.Player, e.Pick); ok {
			e.Tail, e.Target = ref.Kind, ref.Target
		}
	}
	g.Set(row, betCol, w.BetAmount)
	g.Set(row, pickCol, w.Pick)

	if resolvedCol >= 0 {
		if e.Tail != picks.TailNone && e.Target != "" {
			w.Resolved = picks.TailRef{Kind: e.Tail, Target: e.Target}.Resolved()
			w.Strategy = "tail"
		} else {
			w.Resolved, w.Strategy = l.resolvePick(ctx, g.Table(), season, e.Week, e.Pick)
		}
		g.Set(row, resolvedCol, w.Resolved)
	}

	if err := l.src.Update(ctx, season, g); err != nil {
		return nil, fmt.Errorf("failed to write pick for %s: %w", e.Player, err)
	}

	log.Info().
		Str("season", season).
		Int("week", e.Week).
		Str("player", e.Player).
		Str("pick", w.Pick).
		Str("resolved", w.Resolved).
		Msg("Pick submitted")

	if w.Resolved != "" {
		l.record(ctx, &repository.ResolutionRecord{
			Season:       season,
			Week:         e.Week,
			Player:       e.Player,
			PickText:     w.Pick,
			ResolvedText: w.Resolved,
			Strategy:     w.Strategy,
			Source:       repository.SourceSubmit,
		})
	}
	return w, nil
}

func tailIndex(all []sheet.Columns) *picks.TailIndex {
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name
	}
	return picks.NewTailIndex(names)
}

func (l *Ledger) resolvePick(ctx context.Context, t *sheet.Table, season string, week int, text string) (string, string) {
	if l.resolve == nil {
		return picks.FormatFallback(text), "fallback"
	}
	req := resolver.Request{Sheet: season, Week: week, Text: text, ScheduleSheets: l.schedules}
	if d, ok := sheet.WeekDate(t, week); ok {
		req.WeekDate = d
	}
	res := l.resolve.Resolve(ctx, req)
	if res == nil {
		return "", ""
	}
	return res.ResolvedText, res.Strategy
}

// record writes an audit entry. Audit failures never fail the sheet write.
func (l *Ledger) record(ctx context.Context, rec *repository.ResolutionRecord) {
	if l.audit == nil {
		return
	}
	if err := l.audit.Record(ctx, rec); err != nil {
		log.Warn().Err(err).Str("player", rec.Player).Msg("Failed to audit resolution")
	}
}

// betColumn prefers "<Name> Bet Amount", then any header naming the player and a bet
func betColumn(g sheet.Grid, player string) int {
	if c := g.ColumnFold(player + " Bet Amount"); c >= 0 {
		return c
	}
	lp := strings.ToLower(player)
	return g.Column(func(h string) bool {
		return strings.Contains(strings.ToLower(h), lp) && betWordRe.MatchString(h)
	})
}

// UpdateBets writes bet amounts for a week. Players without a bet column are returned as missing.
func (l *Ledger) UpdateBets(ctx context.Context, season string, week int, bets map[string]string) (int, []string, error) {
	g, err := sheet.ReadGrid(ctx, l.src, season)
	if err != nil {
		return 0, nil, err
	}
	row, err := weekRow(g, week)
	if err != nil {
		return 0, nil, err
	}

	names := make([]string, 0, len(bets))
	for name := range bets {
		names = append(names, name)
	}
	sort.Strings(names)

	var missing []string
	updated := 0
	for _, name := range names {
		col := betColumn(g, name)
		if col < 0 {
			missing = append(missing, name)
			continue
		}
		g.Set(row, col, bets[name])
		updated++
	}
	if updated == 0 {
		return 0, missing, nil
	}

	if err := l.src.Update(ctx, season, g); err != nil {
		return 0, missing, fmt.Errorf("failed to write bets: %w", err)
	}
	log.Info().Str("season", season).Int("week", week).Int("updated", updated).Msg("Bets updated")
	return updated, missing, nil
}

// SetResult writes a player's W/L/P for a week. OutcomeNone clears the cell.
func (l *Ledger) SetResult(ctx context.Context, season string, week int, player string, o models.Outcome) error {
	g, err := sheet.ReadGrid(ctx, l.src, season)
	if err != nil {
		return err
	}
	row, err := weekRow(g, week)
	if err != nil {
		return err
	}
	col := resultColumn(g, player)
	if col < 0 {
		return fmt.Errorf("result column for %q: %w", player, sheet.ErrColumnNotFound)
	}
	g.Set(row, col, string(o))
	if err := l.src.Update(ctx, season, g); err != nil {
		return fmt.Errorf("failed to write result for %s: %w", player, err)
	}
	log.Info().Str("season", season).Int("week", week).Str("player", player).Str("result", string(o)).Msg("Result written")
	return nil
}

func resultColumn(g sheet.Grid, player string) int {
	for _, cols := range sheet.DetectColumns(g.Header()) {
		if strings.EqualFold(cols.Name, player) && cols.Result != "" {
			return g.Column(func(h string) bool { return h == strings.TrimSpace(cols.Result) })
		}
	}
	return -1
}

// Annotation reports the columns AnnotateSeason created
type Annotation struct {
	Created     []string `json:"createdColumns"`
	RowsWritten int      `json:"rowsWritten"`
}

// AnnotateSeason adds a "<Name> Resolved" column after each player's pick column that lacks
// one and fills it. Tail picks are written as directives; other picks go through the resolver.
func (l *Ledger) AnnotateSeason(ctx context.Context, season string) (*Annotation, error) {
	g, err := sheet.ReadGrid(ctx, l.src, season)
	if err != nil {
		return nil, err
	}

	all := sheet.DetectColumns(g.Header())
	ix := tailIndex(all)

	var created []sheet.Columns
	for _, cols := range all {
		if cols.Pick == "" || cols.Resolved != "" {
			continue
		}
		pick := strings.TrimSpace(cols.Pick)
		at := g.Column(func(h string) bool { return h == pick })
		if at < 0 {
			continue
		}
		cols.Resolved = cols.Name + " Resolved"
		g.InsertColumn(at+1, cols.Resolved)
		created = append(created, cols)
	}

	a := &Annotation{RowsWritten: len(g) - 1}
	if len(created) == 0 {
		return a, nil
	}

	table := g.Table()
	for _, cols := range created {
		pickCol := g.Column(func(h string) bool { return h == strings.TrimSpace(cols.Pick) })
		resolvedCol := pickCol + 1
		a.Created = append(a.Created, cols.Resolved)

		for r := 1; r < len(g); r++ {
			text := strings.TrimSpace(g.Cell(r, pickCol))
			if text == "" {
				continue
			}
			week := sheet.RowWeek(table, r-1)

			var resolved, strategy string
			if ref, ok := ix.Detect(cols.Name, text); ok {
				resolved, strategy = ref.Resolved(), "tail"
			} else {
				resolved, strategy = l.resolvePick(ctx, table, season, week, text)
			}
			if resolved == "" {
				resolved = text
			}
			g.Set(r, resolvedCol, resolved)

			l.record(ctx, &repository.ResolutionRecord{
				Season:       season,
				Week:         week,
				Player:       cols.Name,
				PickText:     text,
				ResolvedText: resolved,
				Strategy:     strategy,
				Source:       repository.SourceAnnotate,
			})
		}
	}

	if err := l.src.Update(ctx, season, g); err != nil {
		return nil, fmt.Errorf("failed to write annotated sheet: %w", err)
	}
	log.Info().Str("season", season).Strs("columns", a.Created).Msg("Season annotated")
	return a, nil
}
