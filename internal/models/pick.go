package models

// Result is the graded state of a pick
type Result string

const (
	ResultWin     Result = "Win"
	ResultLoss    Result = "Loss"
	ResultPush    Result = "Push"
	ResultPending Result = "Pending"
)

// Outcome converts a result into its sheet code
func (r Result) Outcome() Outcome {
	switch r {
	case ResultWin:
		return OutcomeWin
	case ResultLoss:
		return OutcomeLoss
	case ResultPush:
		return OutcomePush
	default:
		return OutcomeNone
	}
}

// Invert flips Win and Loss. Push and Pending are unchanged.
func (r Result) Invert() Result {
	switch r {
	case ResultWin:
		return ResultLoss
	case ResultLoss:
		return ResultWin
	default:
		return r
	}
}

// Pick is one player's wager for one week.
//
// An original pick carries its own text. A tail adopts the tailed player's pick but keeps
// its own division tag. A reverse tail (fade) counts for standings only and never appears
// on the bet slip.
type Pick struct {
	ID              string   `json:"id"`
	Week            int      `json:"week"`
	PlayerID        int      `json:"playerId"`
	PlayerName      string   `json:"playerName"`
	Team            string   `json:"team"`
	ResolvedTeam    string   `json:"resolvedTeam,omitempty"`
	Amount          float64  `json:"amount"`
	Result          Result   `json:"result"`
	Division        Division `json:"division,omitempty"`
	IsTail          bool     `json:"isTail"`
	IsReverseTail   bool     `json:"isReverseTail"`
	TailingPlayerID int      `json:"tailingPlayerId,omitempty"`

	Game *GameDetails `json:"gameDetails,omitempty"`
}

// IsOriginal reports whether the pick was made on its own rather than copied
func (p *Pick) IsOriginal() bool {
	return !p.IsTail && !p.IsReverseTail
}

// BetUpdate is the next wager for a player under the progression rules
type BetUpdate struct {
	Player    string  `json:"player"`
	NextBet   float64 `json:"nextBet"`
	LossRun   int     `json:"lossRun"`
	LastState Outcome `json:"lastState"`
}
