package sheet

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/brycewandling-glitch/paper/internal/models"
)

var (
	betAmountRe  = regexp.MustCompile(`(?i)^(.+)\s+Bet Amount$`)
	totalsColRe  = regexp.MustCompile(`(?i)^(.+)\s+Totals$`)
	resultWordRe = regexp.MustCompile(`win|lose|push`)
	numberJunkRe = regexp.MustCompile(`[^0-9.\-]`)
	divisionRe   = regexp.MustCompile(`(?i)\((legends|leaders)\)`)
)

// TotalsHeader labels the aggregate rows used as an override source
const TotalsHeader = "TOTALS"

// DefaultExclusions lists players left out of a season's standings
var DefaultExclusions = map[string][]string{
	"Season 1": {"Nathan", "Jaime", "Brandon", "Evan"},
	"Season 2": {"Nathan", "Jaime", "Brandon", "Evan"},
	"Season 3": {"Nathan", "Brandon", "Evan"},
}

// Columns are the headers holding one player's data
type Columns struct {
	Name     string
	Bet      string
	Result   string
	Pick     string
	Resolved string
	Totals   string
}

// DetectColumns finds every player with a "<Name> Bet Amount" header, in header order
func DetectColumns(headers []string) []Columns {
	set := make(map[string]string, len(headers))
	for _, h := range headers {
		set[strings.TrimSpace(h)] = h
	}

	var out []Columns
	seen := make(map[string]bool)
	for _, h := range headers {
		m := betAmountRe.FindStringSubmatch(strings.TrimSpace(h))
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		cols := Columns{Name: name, Bet: h}
		lowerName := strings.ToLower(name)

		if exact, ok := set[name+" Win/Lose/Push"]; ok {
			cols.Result = exact
		} else {
			for _, x := range headers {
				lx := strings.ToLower(strings.TrimSpace(x))
				if strings.HasPrefix(lx, lowerName) && resultWordRe.MatchString(lx) {
					cols.Result = x
					break
				}
			}
		}
		if pick, ok := set[name]; ok {
			cols.Pick = pick
		}
		for _, x := range headers {
			lx := strings.ToLower(strings.TrimSpace(x))
			if lx == lowerName+" resolved" {
				cols.Resolved = x
			}
			if tm := totalsColRe.FindStringSubmatch(strings.TrimSpace(x)); tm != nil && strings.EqualFold(strings.TrimSpace(tm[1]), name) {
				cols.Totals = x
			}
		}
		out = append(out, cols)
	}
	return out
}

// ParseAmount reads a currency cell such as "$15" or "15.00". Unparsable input is 0.
func ParseAmount(cell string) float64 {
	v, ok := parseNumber(cell)
	if !ok {
		return 0
	}
	return v
}

func parseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(numberJunkRe.ReplaceAllString(s, ""), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// WeekFact is one player's entry for one week
type WeekFact struct {
	Week     int
	RowIndex int
	Bet      float64
	Outcome  models.Outcome
	Pick     string
	Resolved string
	Division models.Division
}

// PlayerSeason is a player's typed season record
type PlayerSeason struct {
	Columns
	Facts    []WeekFact
	Wins     int
	Losses   int
	Pushes   int
	BetTotal float64

	// Division is the latest division tag found in the pick column, if tags are read
	Division models.Division

	// Set when the TOTALS rows replaced the weekly counts
	TotalsOverride bool
	TotalsWinPct   *float64

	// AllTimeWinPct comes from the "<Name> Totals" cell of the win percentage row
	AllTimeWinPct *float64
}

// Outcomes returns the player's results in week order, blanks included
func (p *PlayerSeason) Outcomes() []models.Outcome {
	out := make([]models.Outcome, len(p.Facts))
	for i, f := range p.Facts {
		out[i] = f.Outcome
	}
	return out
}

// Season is a normalized season sheet
type Season struct {
	Name           string
	Table          *Table
	Players        []*PlayerSeason
	CompletedWeeks int
}

// Player finds a player by name, ignoring case
func (s *Season) Player(name string) (*PlayerSeason, bool) {
	for _, p := range s.Players {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// Names returns player names in column order
func (s *Season) Names() []string {
	out := make([]string, len(s.Players))
	for i, p := range s.Players {
		out[i] = p.Name
	}
	return out
}

// Options tune normalization
type Options struct {
	// Exclusions maps a season name to players dropped from it
	Exclusions map[string][]string
	// DivisionTagSeasons are the seasons whose pick columns carry division tags
	DivisionTagSeasons []string
}

// DefaultOptions returns the league's standard options
func DefaultOptions() Options {
	return Options{
		Exclusions:         DefaultExclusions,
		DivisionTagSeasons: []string{"Season 4"},
	}
}

func (o Options) readsDivisions(season string) bool {
	for _, s := range o.DivisionTagSeasons {
		if strings.EqualFold(s, season) {
			return true
		}
	}
	return false
}

func (o Options) excluded(season, name string) bool {
	for _, n := range o.Exclusions[season] {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// Normalize turns a season table into per-player weekly facts.
// Players without a bet amount column are not recognized; excluded players are dropped.
func Normalize(t *Table, season string, opts Options) *Season {
	s := &Season{Name: season, Table: t}
	if t.Empty() {
		return s
	}

	all := DetectColumns(t.Headers)
	tagged := opts.readsDivisions(season)

	for _, cols := range all {
		if opts.excluded(season, cols.Name) {
			continue
		}
		p := &PlayerSeason{Columns: cols, Division: models.DivisionLeaders}
		for i, row := range t.Rows {
			f := WeekFact{
				Week:     RowWeek(t, i),
				RowIndex: i,
				Bet:      ParseAmount(row[cols.Bet]),
			}
			if cols.Result != "" {
				f.Outcome = models.ParseOutcome(row[cols.Result])
			}
			if cols.Pick != "" {
				f.Pick = row.Get(cols.Pick)
			}
			if cols.Resolved != "" {
				f.Resolved = row.Get(cols.Resolved)
			}
			if m := divisionRe.FindStringSubmatch(f.Pick); m != nil {
				f.Division = models.ParseDivision(m[1])
				if tagged {
					p.Division = f.Division
				}
			}

			p.BetTotal += f.Bet
			switch f.Outcome {
			case models.OutcomeWin:
				p.Wins++
			case models.OutcomeLoss:
				p.Losses++
			case models.OutcomePush:
				p.Pushes++
			}
			p.Facts = append(p.Facts, f)
		}
		s.Players = append(s.Players, p)
	}

	applyTotals(t, s.Players)

	for _, row := range t.Rows {
		for _, cols := range all {
			if cols.Result != "" && models.ParseOutcome(row[cols.Result]).IsRecorded() {
				s.CompletedWeeks++
				break
			}
		}
	}
	return s
}

// applyTotals reads the TOTALS label rows. A player whose weekly result cells are all broken
// but whose totals report results gets the totals counts.
func applyTotals(t *Table, players []*PlayerSeason) {
	if !t.HasHeader(TotalsHeader) {
		return
	}
	byLabel := make(map[string]Row)
	var winPctRow Row
	for _, row := range t.Rows {
		label := strings.ToLower(row.Get(TotalsHeader))
		if label == "" {
			continue
		}
		byLabel[label] = row
		if strings.Contains(label, "win percentage") {
			winPctRow = row
		}
	}

	lookup := func(label, col string) (float64, bool) {
		row, ok := byLabel[label]
		if !ok {
			return 0, false
		}
		return parseNumber(row[col])
	}

	for _, p := range players {
		if p.Totals == "" {
			continue
		}
		if winPctRow != nil {
			if v, ok := parseNumber(winPctRow[p.Totals]); ok {
				p.AllTimeWinPct = &v
			}
		}

		w, wok := lookup("total wins", p.Totals)
		l, lok := lookup("total losses", p.Totals)
		pu, pok := lookup("total pushes", p.Totals)
		if !wok && !lok && !pok {
			continue
		}
		if w+l+pu <= 0 || p.Wins+p.Losses+p.Pushes != 0 {
			continue
		}
		if wok {
			p.Wins = int(w)
		}
		if lok {
			p.Losses = int(l)
		}
		if pok {
			p.Pushes = int(pu)
		}
		p.TotalsOverride = true
		if pct, ok := lookup("win percentage", p.Totals); ok {
			p.TotalsWinPct = &pct
		}
	}
}
