// Package picks classifies freeform pick text into betting intents.
package picks

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/brycewandling-glitch/paper/internal/models"
)

// Kind is the shape of a pick
type Kind int

const (
	KindMoneyline Kind = iota
	KindSpread
	KindTotal
)

func (k Kind) String() string {
	switch k {
	case KindSpread:
		return "spread"
	case KindTotal:
		return "total"
	default:
		return "moneyline"
	}
}

// Intent is parsed pick text.
//
// Team holds the selection as typed. Two-team references ("OK/LSU" or "Houston over Baylor")
// are joined as "a / b" and split into Teams. Total is nil for a bare Over/Under.
type Intent struct {
	Raw    string
	Kind   Kind
	Team   string
	Teams  []string
	Spread *float64
	Total  *float64
	Over   bool
}

// IsTwoTeam reports whether the pick names both sides of one game
func (i Intent) IsTwoTeam() bool {
	return len(i.Teams) >= 2
}

var (
	divisionTagRe = regexp.MustCompile(`(?i)\s*\((legends|leaders)\)\s*`)
	sportTagRe    = regexp.MustCompile(`(?i)\s*\((nfl|nba|mlb|nhl|ncaaf|cfb|ncaab|cbb)\)\s*`)

	explicitTotalRe = regexp.MustCompile(`(?i)^(.+?)\s+(over|under)\s+(\d+\.?\d*)\s*(?:[+-]\d+)?$`)
	bareTotalRe     = regexp.MustCompile(`(?i)^(over|under)\s+(\d+\.?\d*)\s*(?:[+-]\d+)?$`)
	keywordTotalRe  = regexp.MustCompile(`(?i)^(.+?)\s+(over|under)\s+(.+)$`)
	trailingKwRe    = regexp.MustCompile(`(?i)^(.+?)\s+(over|under)$`)
	trailingOddsRe  = regexp.MustCompile(`^(.+?)\s+([+-]\d+\.?\d*)$`)
	trailingParenRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	spreadRe        = regexp.MustCompile(`^(.+?)\s*([+-]\d+\.?\d*)\s*$`)
	numericRe       = regexp.MustCompile(`^\d+\.?\d*$`)

	fallbackTotalRe = regexp.MustCompile(`(?i)^(.+?)\s+(over|under|o|u)\s*(\d+\.?\d*)\s*$`)
)

// StripTags removes division and sport tags such as "(legends)" and "(nfl)"
func StripTags(text string) string {
	out := divisionTagRe.ReplaceAllString(text, " ")
	out = sportTagRe.ReplaceAllString(out, " ")
	return strings.Join(strings.Fields(out), " ")
}

// DivisionTag returns the division tag carried by the text, if any
func DivisionTag(text string) (models.Division, bool) {
	m := divisionTagRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return models.ParseDivision(m[1]), true
}

// WithDivisionTag replaces any division tag on text with the given division's tag
func WithDivisionTag(text string, d models.Division) string {
	base := strings.TrimSpace(divisionTagRe.ReplaceAllString(text, " "))
	if d == "" {
		return base
	}
	return base + " " + d.Tag()
}

// Parse classifies pick text. Tags are stripped first.
func Parse(text string) Intent {
	clean := StripTags(text)
	in := Intent{Raw: clean, Kind: KindMoneyline, Team: clean}

	if m := explicitTotalRe.FindStringSubmatch(clean); m != nil {
		in.Kind = KindTotal
		in.Team = strings.TrimSpace(m[1])
		in.Over = strings.EqualFold(m[2], "over")
		in.Total = parseFloat(m[3])
		return in.withTeams()
	}

	if m := bareTotalRe.FindStringSubmatch(clean); m != nil {
		in.Kind = KindTotal
		in.Team = ""
		in.Over = strings.EqualFold(m[1], "over")
		in.Total = parseFloat(m[2])
		return in
	}

	if m := keywordTotalRe.FindStringSubmatch(clean); m != nil {
		in.Kind = KindTotal
		in.Over = strings.EqualFold(m[2], "over")
		first := strings.TrimSpace(m[1])
		rest := strings.TrimSpace(m[3])
		if om := trailingOddsRe.FindStringSubmatch(rest); om != nil {
			rest = strings.TrimSpace(om[1])
		}
		if numericRe.MatchString(rest) {
			in.Team = first
			in.Total = parseFloat(rest)
			return in.withTeams()
		}
		second := strings.TrimSpace(trailingParenRe.ReplaceAllString(rest, ""))
		in.Team = first + " / " + second
		return in.withTeams()
	}

	if m := trailingKwRe.FindStringSubmatch(clean); m != nil {
		in.Kind = KindTotal
		in.Team = strings.TrimSpace(m[1])
		in.Over = strings.EqualFold(m[2], "over")
		return in.withTeams()
	}

	if m := spreadRe.FindStringSubmatch(clean); m != nil {
		in.Kind = KindSpread
		in.Team = strings.TrimSpace(m[1])
		in.Spread = parseFloat(m[2])
		return in.withTeams()
	}

	return in.withTeams()
}

func (i Intent) withTeams() Intent {
	i.Teams = nil
	for _, part := range strings.Split(i.Team, "/") {
		if p := strings.TrimSpace(part); p != "" {
			i.Teams = append(i.Teams, p)
		}
	}
	return i
}

// FormatFallback renders pick text when no game could be found:
// "team (Over 54.5)", "team (team -3)" or the cleaned text.
func FormatFallback(text string) string {
	clean := StripTags(text)
	if clean == "" {
		return ""
	}

	if m := fallbackTotalRe.FindStringSubmatch(clean); m != nil {
		dir := "Under"
		if strings.HasPrefix(strings.ToLower(m[2]), "o") {
			dir = "Over"
		}
		return strings.TrimSpace(m[1]) + " (" + dir + " " + m[3] + ")"
	}

	if m := spreadRe.FindStringSubmatch(clean); m != nil {
		team := strings.TrimSpace(m[1])
		v := parseFloat(m[2])
		if v != nil {
			return team + " (" + team + " " + FormatLine(*v) + ")"
		}
	}

	return clean
}

// FormatLine renders a signed line, e.g. "+3", "-14", "+2.5"
func FormatLine(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v > 0 {
		return "+" + s
	}
	return s
}

// FormatNumber renders a threshold without trailing zeros
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
