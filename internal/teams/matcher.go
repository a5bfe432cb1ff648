// Package teams resolves free-text team references against an alias table.
package teams

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// EventTeam is a team as reported by a game catalog
type EventTeam struct {
	Name             string
	DisplayName      string
	ShortDisplayName string
	Abbreviation     string
}

// Matcher disambiguates team names with an ordered alias table
type Matcher struct {
	entries []Entry
	byName  map[string]Entry
}

// NewMatcher builds a matcher over the given table. Aliases are lowercased.
func NewMatcher(entries []Entry) *Matcher {
	m := &Matcher{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		aliases := make([]string, 0, len(e.Aliases))
		for _, a := range e.Aliases {
			aliases = append(aliases, strings.ToLower(strings.TrimSpace(a)))
		}
		entry := Entry{Name: e.Name, Aliases: aliases}
		m.entries = append(m.entries, entry)
		m.byName[e.Name] = entry
	}
	return m
}

// Default returns a matcher over DefaultAliases
func Default() *Matcher {
	return NewMatcher(DefaultAliases)
}

// Canonical finds the canonical team for free text.
// An exact name or alias hit wins; otherwise the longest alias contained in the text.
func (m *Matcher) Canonical(text string) (string, bool) {
	search := strings.ToLower(strings.TrimSpace(text))
	if search == "" {
		return "", false
	}

	for _, e := range m.entries {
		if strings.ToLower(e.Name) == search {
			return e.Name, true
		}
		for _, a := range e.Aliases {
			if a == search {
				return e.Name, true
			}
		}
	}

	best, bestLen := "", 0
	for _, e := range m.entries {
		for _, a := range e.Aliases {
			if len(a) > bestLen && strings.Contains(search, a) {
				best, bestLen = e.Name, len(a)
			}
		}
	}
	return best, bestLen > 0
}

// Matches reports whether a pick's team text refers to the catalog team.
//
// When the text resolves through the alias table, the catalog team must start with the
// canonical name or one of its aliases. This keeps "alabama" from matching "South Alabama".
// Plain substring matching is only used for teams missing from the table.
func (m *Matcher) Matches(search string, team EventTeam) bool {
	s := strings.ToLower(strings.TrimSpace(search))
	if s == "" {
		return false
	}
	display := strings.ToLower(team.DisplayName)
	name := strings.ToLower(team.Name)

	if display == s || name == s ||
		strings.ToLower(team.ShortDisplayName) == s ||
		strings.ToLower(team.Abbreviation) == s {
		return true
	}

	if canonical, ok := m.Canonical(s); ok {
		full := strings.ToLower(canonical)
		if strings.HasPrefix(display, full) || strings.HasPrefix(name, full) {
			return true
		}
		for _, a := range m.byName[canonical].Aliases {
			if strings.HasPrefix(display, a) || strings.HasPrefix(name, a) {
				return true
			}
		}
		return false
	}

	return strings.Contains(display, s) || strings.Contains(name, s)
}

// Suggest returns up to limit canonical names that look like the text.
// Used for hints only; never for matching.
func (m *Matcher) Suggest(text string, limit int) []string {
	search := strings.ToLower(strings.TrimSpace(text))
	if search == "" || limit <= 0 {
		return nil
	}

	targets := make([]string, 0, len(m.entries)*4)
	owners := make([]string, 0, cap(targets))
	for _, e := range m.entries {
		targets = append(targets, strings.ToLower(e.Name))
		owners = append(owners, e.Name)
		for _, a := range e.Aliases {
			targets = append(targets, a)
			owners = append(owners, e.Name)
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(search, targets)
	if len(ranks) == 0 {
		for i, t := range targets {
			if d := fuzzy.LevenshteinDistance(search, t); d <= 2 {
				ranks = append(ranks, fuzzy.Rank{Source: search, Target: t, Distance: d, OriginalIndex: i})
			}
		}
	}
	sort.Stable(ranks)

	seen := make(map[string]bool)
	var out []string
	for _, r := range ranks {
		name := owners[r.OriginalIndex]
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}
