package streak

import "github.com/brycewandling-glitch/paper/internal/models"

type runs struct {
	cur  map[models.Outcome]int
	best map[models.Outcome]int
}

// Scanner tracks longest win, lose and push runs per player over a forward scan.
// A result of one kind resets the other two counters; a blank week resets all three.
// Feed weeks in chronological order; a Scanner may span several seasons.
type Scanner struct {
	order   []string
	players map[string]*runs
}

// NewScanner creates an empty scanner
func NewScanner() *Scanner {
	return &Scanner{players: make(map[string]*runs)}
}

// Observe advances the named player's counters by one week
func (s *Scanner) Observe(player string, o models.Outcome) {
	r, ok := s.players[player]
	if !ok {
		r = &runs{
			cur:  make(map[models.Outcome]int, 3),
			best: make(map[models.Outcome]int, 3),
		}
		s.players[player] = r
		s.order = append(s.order, player)
	}

	for _, kind := range []models.Outcome{models.OutcomeWin, models.OutcomeLoss, models.OutcomePush} {
		if kind != o {
			r.cur[kind] = 0
			continue
		}
		r.cur[kind]++
		if r.cur[kind] > r.best[kind] {
			r.best[kind] = r.cur[kind]
		}
	}
}

// Best returns the player's longest run of the given kind
func (s *Scanner) Best(player string, kind models.Outcome) int {
	if r, ok := s.players[player]; ok {
		return r.best[kind]
	}
	return 0
}

// Leader returns the longest run of the given kind across all players.
// Ties go to the player observed first.
func (s *Scanner) Leader(kind models.Outcome) models.StreakRecord {
	var rec models.StreakRecord
	for _, name := range s.order {
		if b := s.players[name].best[kind]; b > rec.Length {
			rec = models.StreakRecord{Player: name, Length: b}
		}
	}
	return rec
}
