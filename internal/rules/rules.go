// Package rules implements the league's bet progression and tailing rules.
package rules

import (
	"fmt"
	"strings"

	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/picks"
)

const (
	BaseBet = 5.0
	BetStep = 5.0
	MaxBet  = 25.0

	// ForcedTailLosses is the losing run that puts a Legends player into a forced tail
	ForcedTailLosses = 3
	// SuspenseWeeks is the length of the end-of-season window where Spicer Suspense applies
	SuspenseWeeks = 3
)

// NextBet walks a player's results in week order and returns the next wager.
// A loss adds BetStep up to MaxBet, a win resets to BaseBet, pushes and skipped weeks keep the bet.
func NextBet(player string, results []models.Outcome) models.BetUpdate {
	u := models.BetUpdate{Player: player, NextBet: BaseBet}
	for _, o := range results {
		switch o {
		case models.OutcomeWin:
			u.NextBet = BaseBet
			u.LossRun = 0
		case models.OutcomeLoss:
			u.NextBet += BetStep
			if u.NextBet > MaxBet {
				u.NextBet = MaxBet
			}
			u.LossRun++
		case models.OutcomePush:
		default:
			continue
		}
		u.LastState = o
	}
	return u
}

// Code identifies a broken rule
type Code string

const (
	CodeUnknownPlayer  Code = "unknown_player"
	CodeSelfTail       Code = "self_tail"
	CodeForcedTail     Code = "forced_tail"
	CodeSpicerSuspense Code = "spicer_suspense"
	CodeCrossDivision  Code = "cross_division"
)

// Violation is one broken rule
type Violation struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Code, v.Message)
}

// Violations collects every rule a submission breaks
type Violations []Violation

func (vs Violations) Error() string {
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether a violation with the given code is present
func (vs Violations) Has(code Code) bool {
	for _, v := range vs {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Standing is a player's place on the board
type Standing struct {
	Name          string
	Division      models.Division
	WinPercentage float64
	Streak        models.Streak
}

// Board is the standings context a pick is checked against.
// Players are in ranked order.
type Board struct {
	Players     []Standing
	Week        int
	SeasonWeeks int
}

func (b *Board) index(name string) int {
	for i, p := range b.Players {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}

// InSuspense reports whether the board's week falls in the final weeks of the season
func (b *Board) InSuspense() bool {
	return b.SeasonWeeks > 0 && b.Week > b.SeasonWeeks-SuspenseWeeks && b.Week <= b.SeasonWeeks
}

// ForcedToTail reports whether a player is in a forced tail
func (b *Board) ForcedToTail(name string) bool {
	i := b.index(name)
	if i < 0 {
		return false
	}
	p := b.Players[i]
	return p.Division == models.DivisionLegends &&
		p.Streak.Kind == models.OutcomeLoss && p.Streak.Count >= ForcedTailLosses
}

// Submission is a pick about to be written
type Submission struct {
	Player string
	Kind   picks.TailKind
	Target string
}

// Validate checks a submission against the board. A nil result means the pick is allowed.
func Validate(sub Submission, board *Board) Violations {
	self := board.index(sub.Player)
	if self < 0 {
		return Violations{{Code: CodeUnknownPlayer, Message: fmt.Sprintf("%s is not on the board", sub.Player)}}
	}
	me := board.Players[self]

	var out Violations
	target := -1
	if sub.Kind != picks.TailNone {
		target = board.index(sub.Target)
		if target < 0 {
			out = append(out, Violation{Code: CodeUnknownPlayer, Message: fmt.Sprintf("%s is not on the board", sub.Target)})
		} else if target == self {
			out = append(out, Violation{Code: CodeSelfTail, Message: "a player cannot tail their own pick"})
		}
	}
	if len(out) > 0 {
		return out
	}

	if sub.Kind == picks.TailFollow {
		them := board.Players[target]
		if them.Division != me.Division {
			out = append(out, Violation{
				Code:    CodeCrossDivision,
				Message: fmt.Sprintf("%s (%s) cannot tail %s (%s)", me.Name, me.Division, them.Name, them.Division),
			})
		}
		if board.InSuspense() && board.suspended(self, target) && len(board.tailOptions(self)) > 0 {
			out = append(out, Violation{
				Code:    CodeSpicerSuspense,
				Message: fmt.Sprintf("%s cannot tail %s, who is tied with or right behind them, in the last %d weeks", me.Name, them.Name, SuspenseWeeks),
			})
		}
	}

	if board.ForcedToTail(me.Name) {
		onRun := sub.Kind == picks.TailFollow && onWinStreak(board.Players[target])
		if !onRun && len(board.forcedOptions(self)) > 0 {
			out = append(out, Violation{
				Code:    CodeForcedTail,
				Message: fmt.Sprintf("%s has lost %d straight and must tail a player on a win streak", me.Name, me.Streak.Count),
			})
		}
	}
	return out
}

// suspended reports whether target is tied with self or immediately behind them
func (b *Board) suspended(self, target int) bool {
	if b.Players[target].WinPercentage == b.Players[self].WinPercentage {
		return true
	}
	return target == self+1
}

// tailOptions lists same-division targets not blocked by Spicer Suspense
func (b *Board) tailOptions(self int) []string {
	var out []string
	for i, p := range b.Players {
		if i == self || p.Division != b.Players[self].Division {
			continue
		}
		if b.InSuspense() && b.suspended(self, i) {
			continue
		}
		out = append(out, p.Name)
	}
	return out
}

// forcedOptions lists same-division targets on a win streak
func (b *Board) forcedOptions(self int) []string {
	var out []string
	for i, p := range b.Players {
		if i == self || p.Division != b.Players[self].Division || !onWinStreak(p) {
			continue
		}
		out = append(out, p.Name)
	}
	return out
}

func onWinStreak(p Standing) bool {
	return p.Streak.Kind == models.OutcomeWin && p.Streak.Count > 0
}
