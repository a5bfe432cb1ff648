package standings

import (
	"sort"

	"github.com/brycewandling-glitch/paper/internal/models"
)

type ranked struct {
	player *models.Player
	meta   models.PlayerMeta
	idx    int
}

// Rank applies promotion and relegation.
//
// Divisions are reassigned only once completedWeeks exceeds probation and there are more
// players than Legends slots (slots is capped at the player count). Otherwise players are
// returned in their original order with divisions untouched. metas is parallel to players.
func Rank(players []*models.Player, metas []models.PlayerMeta, completedWeeks, probation, slots int) []*models.Player {
	n := len(players)
	if slots > n {
		slots = n
	}
	if completedWeeks <= probation || slots <= 0 || n <= slots {
		return players
	}

	entries := make([]ranked, n)
	for i, p := range players {
		meta := models.PlayerMeta{InitialDivision: p.Division, AllTimeWinPct: p.WinPercentage}
		if i < len(metas) {
			meta = metas[i]
		}
		entries[i] = ranked{player: p, meta: meta, idx: i}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})

	out := make([]*models.Player, n)
	for i, e := range entries {
		if i < slots {
			e.player.Division = models.DivisionLegends
		} else {
			e.player.Division = models.DivisionLeaders
		}
		out[i] = e.player
	}
	return out
}

func less(a, b ranked) bool {
	if a.player.WinPercentage != b.player.WinPercentage {
		return a.player.WinPercentage > b.player.WinPercentage
	}
	if a.meta.InitialDivision != b.meta.InitialDivision {
		return a.meta.InitialDivision == models.DivisionLegends
	}
	if a.meta.Last10WinPct != b.meta.Last10WinPct {
		return a.meta.Last10WinPct > b.meta.Last10WinPct
	}
	if a.meta.Last10Wins != b.meta.Last10Wins {
		return a.meta.Last10Wins > b.meta.Last10Wins
	}
	if a.meta.Last10Losses != b.meta.Last10Losses {
		return a.meta.Last10Losses < b.meta.Last10Losses
	}
	if a.meta.AllTimeWinPct != b.meta.AllTimeWinPct {
		return a.meta.AllTimeWinPct > b.meta.AllTimeWinPct
	}
	return a.idx < b.idx
}
