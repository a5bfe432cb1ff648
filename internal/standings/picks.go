package standings

import (
	"fmt"
	"strings"

	"github.com/brycewandling-glitch/paper/internal/grader"
	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/picks"
	"github.com/brycewandling-glitch/paper/internal/sheet"
)

// WeekPicks builds every player's pick for a week row with tails resolved.
//
// A tail adopts its target's pick text and, when its own amount is zero, the target's amount.
// Its own division tag is kept. A pending tail is graded from its target.
func WeekPicks(s *sheet.Season, rowIndex, week int) []*models.Pick {
	out := make([]*models.Pick, 0, len(s.Players))
	ids := make(map[string]int, len(s.Players))

	for i, ps := range s.Players {
		ids[strings.ToLower(ps.Name)] = i + 1
		if rowIndex < 0 || rowIndex >= len(ps.Facts) {
			continue
		}
		f := ps.Facts[rowIndex]
		p := &models.Pick{
			ID:           fmt.Sprintf("%d-%d", week, i+1),
			Week:         week,
			PlayerID:     i + 1,
			PlayerName:   ps.Name,
			Team:         strings.TrimSpace(f.Pick),
			ResolvedTeam: strings.TrimSpace(f.Resolved),
			Amount:       f.Bet,
			Result:       f.Outcome.Result(),
			Division:     f.Division,
		}
		if p.Division == "" {
			p.Division = ps.Division
		}
		out = append(out, p)
	}

	ix := picks.NewTailIndex(s.Names())
	sheetResults := make(map[*models.Pick]models.Result, len(out))
	for _, p := range out {
		sheetResults[p] = p.Result

		ref, ok := detectTail(ix, p)
		if !ok {
			continue
		}
		target, found := ids[strings.ToLower(ref.Target)]
		if !found {
			continue
		}
		p.TailingPlayerID = target
		p.IsTail = ref.Kind == picks.TailFollow
		p.IsReverseTail = ref.Kind == picks.TailReverse
	}

	byID := make(map[int]*models.Pick, len(out))
	for _, p := range out {
		byID[p.PlayerID] = p
	}
	for _, p := range out {
		if !p.IsTail {
			continue
		}
		target := followTails(byID, p)
		if target == nil {
			continue
		}
		own, tagged := picks.DivisionTag(p.Team)
		p.Team = target.Team
		if tagged {
			p.Team = picks.WithDivisionTag(target.Team, own)
		}
		if p.ResolvedTeam == "" || isDirective(p.ResolvedTeam) {
			p.ResolvedTeam = target.ResolvedTeam
		}
		if p.Amount == 0 {
			p.Amount = target.Amount
		}
	}

	grader.Propagate(out)
	for _, p := range out {
		if r := sheetResults[p]; r != models.ResultPending {
			p.Result = r
		}
	}
	return out
}

// detectTail checks the pick text, then the resolved column for a written directive
func detectTail(ix *picks.TailIndex, p *models.Pick) (picks.TailRef, bool) {
	if p.Team != "" {
		if ref, ok := ix.Detect(p.PlayerName, p.Team); ok {
			return ref, true
		}
	}
	if ref, ok := picks.ParseDirective(p.ResolvedTeam); ok {
		if name, found := ix.Lookup(ref.Target); found {
			ref.Target = name
		}
		if !strings.EqualFold(ref.Target, p.PlayerName) {
			return ref, true
		}
	}
	return picks.TailRef{}, false
}

func isDirective(text string) bool {
	_, ok := picks.ParseDirective(text)
	return ok
}

// followTails walks tail links to the original pick. Reverse tails and cycles stop the walk.
func followTails(byID map[int]*models.Pick, p *models.Pick) *models.Pick {
	seen := map[int]bool{p.PlayerID: true}
	cur := byID[p.TailingPlayerID]
	for cur != nil && cur.IsTail {
		if seen[cur.PlayerID] {
			return nil
		}
		seen[cur.PlayerID] = true
		cur = byID[cur.TailingPlayerID]
	}
	if cur == nil || cur.IsReverseTail {
		return nil
	}
	return cur
}

// Slip is the visible bet ticket for a week, split by division
type Slip struct {
	Legends []*models.Pick `json:"legends"`
	Leaders []*models.Pick `json:"leaders"`
}

// BetSlip removes reverse tails from the ticket. Each reverse tail also cancels exactly one
// original pick of its target, if that pick is on the ticket. Blank picks are left off.
func BetSlip(all []*models.Pick) Slip {
	offset := make(map[int]int)
	for _, p := range all {
		if p.IsReverseTail && p.TailingPlayerID != 0 {
			offset[p.TailingPlayerID]++
		}
	}

	var slip Slip
	for _, p := range all {
		if p.IsReverseTail || strings.TrimSpace(p.Team) == "" {
			continue
		}
		if p.IsOriginal() && offset[p.PlayerID] > 0 {
			offset[p.PlayerID]--
			continue
		}
		if p.Division == models.DivisionLegends {
			slip.Legends = append(slip.Legends, p)
		} else {
			slip.Leaders = append(slip.Leaders, p)
		}
	}
	return slip
}
