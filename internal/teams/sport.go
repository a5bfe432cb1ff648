package teams

import "strings"

// Sport is a catalog league key
type Sport string

const (
	SportNFL    Sport = "nfl"
	SportNCAAF  Sport = "ncaaf"
	SportNBA    Sport = "nba"
	SportNCAAB  Sport = "ncaab"
	SportMLB    Sport = "mlb"
	SportNHL    Sport = "nhl"
	SportMLS    Sport = "mls"
	SportEPL    Sport = "epl"
	SportSoccer Sport = "soccer"
)

var sportEndpoints = map[string]string{
	"nfl":                "football/nfl",
	"ncaaf":              "football/college-football",
	"cfb":                "football/college-football",
	"college football":   "football/college-football",
	"nba":                "basketball/nba",
	"ncaab":              "basketball/mens-college-basketball",
	"cbb":                "basketball/mens-college-basketball",
	"college basketball": "basketball/mens-college-basketball",
	"mlb":                "baseball/mlb",
	"nhl":                "hockey/nhl",
	"soccer":             "soccer/usa.1",
	"mls":                "soccer/usa.1",
	"epl":                "soccer/eng.1",
	"premier league":     "soccer/eng.1",
}

// ParseSport normalizes a sport name, falling back to def when unknown
func ParseSport(s string, def Sport) Sport {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := sportEndpoints[key]; !ok {
		return def
	}
	switch key {
	case "cfb", "college football":
		return SportNCAAF
	case "cbb", "college basketball":
		return SportNCAAB
	case "premier league":
		return SportEPL
	}
	return Sport(key)
}

// Endpoint returns the scoreboard path segment, e.g. "football/nfl".
// Unknown sports map to college football.
func (s Sport) Endpoint() string {
	if ep, ok := sportEndpoints[strings.ToLower(string(s))]; ok {
		return ep
	}
	return sportEndpoints["ncaaf"]
}

// College names that collide with NFL mascots are checked first
var collegeKeywords = []string{
	"baylor", "houston cougars", "cougars", "longhorns", "aggies", "sooners", "seminoles",
	"crimson tide", "tide", "bulldogs", "volunteers", "gators", "wolverines", "buckeyes",
	"tigers", "wildcats", "fighting illini", "illini", "hawkeyes", "badgers", "spartans",
	"nittany lions", "hoosiers", "boilermakers", "cornhuskers", "jayhawks", "cyclones",
	"mountaineers", "horned frogs", "red raiders", "gamecocks", "commodores", "rebels",
	"razorbacks", "huskies", "ducks", "beavers", "bruins", "trojans", "sun devils",
	"buffaloes", "utes", "cougar", "golden bears", "cardinal", "fighting irish",
	"tar heels", "cavaliers", "hokies", "demon deacons", "blue devils", "wolfpack",
	"yellow jackets", "hurricanes", "orange", "owls", "mustangs", "bearcats",
	"memphis", "tulane", "tulsa", "smu", "ucf", "usf", "cincinnati", "louisville",
	"pitt", "boston college", "syracuse", "duke", "wake forest", "virginia tech",
	"georgia tech", "miami hurricanes", "florida state", "nc state", "northwestern",
	"purdue", "indiana", "maryland", "rutgers", "minnesota", "iowa", "wisconsin",
	"illinois", "nebraska", "kansas", "kansas state", "oklahoma state", "west virginia",
	"tcu", "texas tech", "colorado", "utah", "arizona state", "ucla", "usc", "cal",
	"stanford", "washington state", "oregon state",
}

var nflMascots = []string{
	"cardinals", "falcons", "ravens", "bills", "panthers", "bears", "bengals",
	"browns", "cowboys", "broncos", "lions", "packers", "texans", "colts", "jaguars",
	"chiefs", "raiders", "chargers", "rams", "dolphins", "vikings", "patriots", "saints",
	"giants", "jets", "eagles", "steelers", "49ers", "seahawks", "buccaneers", "titans", "commanders",
}

// DetectSport infers the league from pick text.
// Explicit tags win, then college keywords, then NFL mascots. Defaults to college football.
func DetectSport(text string) Sport {
	t := strings.ToLower(text)

	switch {
	case strings.Contains(t, "(nfl)") || strings.Contains(t, "nfl "):
		return SportNFL
	case strings.Contains(t, "(nba)") || strings.Contains(t, "nba "):
		return SportNBA
	case strings.Contains(t, "(mlb)") || strings.Contains(t, "mlb "):
		return SportMLB
	case strings.Contains(t, "(nhl)") || strings.Contains(t, "nhl "):
		return SportNHL
	case strings.Contains(t, "(ncaaf)") || strings.Contains(t, "(cfb)") || strings.Contains(t, "college football"):
		return SportNCAAF
	case strings.Contains(t, "(ncaab)") || strings.Contains(t, "(cbb)") || strings.Contains(t, "college basketball"):
		return SportNCAAB
	}

	for _, kw := range collegeKeywords {
		if strings.Contains(t, kw) {
			return SportNCAAF
		}
	}
	for _, m := range nflMascots {
		if strings.Contains(t, m) {
			return SportNFL
		}
	}
	return SportNCAAF
}
