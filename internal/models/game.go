package models

import "time"

// GameStatus is the simplified lifecycle of a sporting event
type GameStatus string

const (
	GameScheduled GameStatus = "scheduled"
	GameLive      GameStatus = "live"
	GameFinal     GameStatus = "final"
)

// GameDetails is a canonical event record resolved from the game catalog.
// Read-only once fetched.
type GameDetails struct {
	GameID    string `json:"gameId"`
	GameName  string `json:"gameName"`
	ShortName string `json:"shortName"`

	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	HomeAbbrev string `json:"homeAbbrev"`
	AwayAbbrev string `json:"awayAbbrev"`

	GameDate          time.Time `json:"gameDate"`
	GameDateFormatted string    `json:"gameDateFormatted"`

	Venue string `json:"venue,omitempty"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`

	Broadcasts []string `json:"broadcasts"`

	Status       GameStatus `json:"status"`
	StatusDetail string     `json:"statusDetail"`

	HomeScore *int `json:"homeScore,omitempty"`
	AwayScore *int `json:"awayScore,omitempty"`

	Spread       *float64 `json:"spread,omitempty"`
	OverUnder    *float64 `json:"overUnder,omitempty"`
	FavoriteTeam string   `json:"favoriteTeam,omitempty"`

	MatchedTeam  string `json:"matchedTeam"`
	ResolvedText string `json:"resolvedText"`
}

// IsFinal reports whether the game is over and both scores are known
func (g *GameDetails) IsFinal() bool {
	return g.Status == GameFinal && g.HomeScore != nil && g.AwayScore != nil
}

// ScheduledGame is an entry in a static or sheet-backed schedule.
// A negative spread means the home side is favored.
type ScheduledGame struct {
	Date   time.Time `json:"date"`
	Home   string    `json:"home"`
	Away   string    `json:"away"`
	Spread float64   `json:"spread"`
	Week   int       `json:"week"`
}

// ScheduleCandidate is a schedule-sheet row that matched a pick
type ScheduleCandidate struct {
	Sheet      string            `json:"sheet"`
	Row        map[string]string `json:"row"`
	ParsedDate *time.Time        `json:"parsedDate,omitempty"`
	Spread     *float64          `json:"spread,omitempty"`
	Home       string            `json:"home,omitempty"`
	Away       string            `json:"away,omitempty"`
}

// Resolution is the outcome of running a pick through the resolver chain
type Resolution struct {
	Strategy     string       `json:"strategy"`
	ResolvedText string       `json:"resolvedText"`
	Game         *GameDetails `json:"game,omitempty"`
}
