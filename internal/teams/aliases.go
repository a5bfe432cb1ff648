package teams

// Entry is a canonical team name with its lowercase aliases
type Entry struct {
	Name    string
	Aliases []string
}

// DefaultAliases is the built-in alias table. Order matters: on equal-length alias hits the
// earlier entry wins.
var DefaultAliases = []Entry{
	// NFL
	{"Arizona Cardinals", []string{"cardinals", "arizona", "ari", "cards"}},
	{"Atlanta Falcons", []string{"falcons", "atlanta", "atl"}},
	{"Baltimore Ravens", []string{"ravens", "baltimore", "bal", "balt"}},
	{"Buffalo Bills", []string{"bills", "buffalo", "buf"}},
	{"Carolina Panthers", []string{"panthers", "carolina", "car"}},
	{"Chicago Bears", []string{"bears", "chicago", "chi"}},
	{"Cincinnati Bengals", []string{"bengals", "cincinnati", "cin", "cincy"}},
	{"Cleveland Browns", []string{"browns", "cleveland", "cle"}},
	{"Dallas Cowboys", []string{"cowboys", "dallas", "dal"}},
	{"Denver Broncos", []string{"broncos", "denver", "den"}},
	{"Detroit Lions", []string{"lions", "detroit", "det"}},
	{"Green Bay Packers", []string{"packers", "green bay", "gb", "greenbay"}},
	{"Houston Texans", []string{"texans", "houston", "hou"}},
	{"Indianapolis Colts", []string{"colts", "indianapolis", "ind", "indy"}},
	{"Jacksonville Jaguars", []string{"jaguars", "jacksonville", "jax", "jags"}},
	{"Kansas City Chiefs", []string{"chiefs", "kansas city", "kc"}},
	{"Las Vegas Raiders", []string{"raiders", "las vegas", "lv", "vegas"}},
	{"Los Angeles Chargers", []string{"chargers", "la chargers", "lac"}},
	{"Los Angeles Rams", []string{"rams", "la rams", "lar"}},
	{"Miami Dolphins", []string{"dolphins", "miami", "mia"}},
	{"Minnesota Vikings", []string{"vikings", "minnesota", "min", "vikes"}},
	{"New England Patriots", []string{"patriots", "new england", "ne", "pats"}},
	{"New Orleans Saints", []string{"saints", "new orleans", "no", "nola"}},
	{"New York Giants", []string{"giants", "ny giants", "nyg"}},
	{"New York Jets", []string{"jets", "ny jets", "nyj"}},
	{"Philadelphia Eagles", []string{"eagles", "philadelphia", "phi", "philly"}},
	{"Pittsburgh Steelers", []string{"steelers", "pittsburgh", "pit", "pitt"}},
	{"San Francisco 49ers", []string{"49ers", "san francisco", "sf", "niners", "san fran"}},
	{"Seattle Seahawks", []string{"seahawks", "seattle", "sea"}},
	{"Tampa Bay Buccaneers", []string{"buccaneers", "tampa bay", "tb", "bucs", "tampa"}},
	{"Tennessee Titans", []string{"titans", "tennessee", "ten"}},
	{"Washington Commanders", []string{"commanders", "washington", "was", "wsh"}},

	// College
	{"Alabama", []string{"alabama", "bama", "crimson tide", "tide"}},
	{"South Alabama", []string{"south alabama", "s alabama"}},
	{"Ohio State", []string{"ohio state", "osu", "buckeyes"}},
	{"Georgia", []string{"georgia", "uga", "bulldogs", "dawgs"}},
	{"Michigan", []string{"michigan", "wolverines", "um"}},
	{"Texas", []string{"texas", "longhorns", "ut"}},
	{"USC", []string{"usc", "trojans", "southern cal"}},
	{"Notre Dame", []string{"notre dame", "irish", "nd"}},
	{"Oregon", []string{"oregon", "ducks"}},
	{"Penn State", []string{"penn state", "psu", "nittany lions"}},
	{"Clemson", []string{"clemson", "tigers"}},
	{"LSU", []string{"lsu", "tigers", "louisiana state"}},
	{"Florida", []string{"florida", "gators", "uf"}},
	{"Oklahoma", []string{"oklahoma", "sooners", "ou", "ok"}},
	{"Tennessee", []string{"tennessee", "vols", "volunteers"}},
	{"Wisconsin", []string{"wisconsin", "badgers"}},
	{"Iowa", []string{"iowa", "hawkeyes"}},
	{"Michigan State", []string{"michigan state", "msu", "spartans"}},
	{"Auburn", []string{"auburn", "tigers"}},
	{"Texas A&M", []string{"texas a&m", "aggies", "tamu"}},
	{"Florida State", []string{"florida state", "fsu", "seminoles", "noles"}},
	{"Miami", []string{"miami", "hurricanes", "canes", "u"}},
	{"Nebraska", []string{"nebraska", "cornhuskers", "huskers"}},
	{"Colorado", []string{"colorado", "buffaloes", "buffs", "cu"}},
	{"BYU", []string{"byu", "brigham young", "cougars"}},
	{"Utah", []string{"utah", "utes"}},
	{"Arizona", []string{"arizona", "wildcats"}},
	{"UCLA", []string{"ucla", "bruins"}},
	{"Stanford", []string{"stanford", "cardinal"}},
	{"Washington", []string{"washington", "huskies", "uw"}},
	{"Duke", []string{"duke", "blue devils"}},
	{"North Carolina", []string{"north carolina", "unc", "tar heels"}},
	{"Kentucky", []string{"kentucky", "wildcats", "uk"}},
	{"Kansas", []string{"kansas", "jayhawks", "ku"}},
	{"Indiana", []string{"indiana", "hoosiers", "iu"}},
	{"Illinois", []string{"illinois", "illini"}},
	{"Purdue", []string{"purdue", "boilermakers"}},
	{"Northwestern", []string{"northwestern", "wildcats", "nw"}},
	{"Minnesota", []string{"minnesota", "golden gophers", "gophers"}},
	{"Rutgers", []string{"rutgers", "scarlet knights"}},
	{"Maryland", []string{"maryland", "terrapins", "terps"}},
}
