package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher_Canonical(t *testing.T) {
	m := Default()

	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"alabama", "Alabama", true},
		{"Chiefs", "Kansas City Chiefs", true},
		{"ohio state buckeyes", "Ohio State", true},
		{"kansas city", "Kansas City Chiefs", true},
		{"gonzaga", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := m.Canonical(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatcher_Canonical_LongestAliasWins(t *testing.T) {
	m := NewMatcher([]Entry{
		{"Ohio", []string{"ohio", "bobcats"}},
		{"Ohio State", []string{"ohio state", "buckeyes"}},
	})

	got, ok := m.Canonical("take ohio state -7")
	assert.True(t, ok)
	assert.Equal(t, "Ohio State", got, "Longer alias should outrank the shorter one")
}

func TestMatcher_Matches_AlabamaNotSouthAlabama(t *testing.T) {
	m := Default()

	bama := EventTeam{Name: "Crimson Tide", DisplayName: "Alabama Crimson Tide", ShortDisplayName: "Alabama", Abbreviation: "ALA"}
	south := EventTeam{Name: "Jaguars", DisplayName: "South Alabama Jaguars", ShortDisplayName: "South Alabama", Abbreviation: "USA"}

	assert.True(t, m.Matches("alabama", bama))
	assert.False(t, m.Matches("alabama", south), "Alias hit must not fall through to substring matching")
	assert.True(t, m.Matches("South Alabama", south))
	assert.False(t, m.Matches("South Alabama", bama))
}

func TestMatcher_Matches_ExactFields(t *testing.T) {
	m := Default()
	team := EventTeam{Name: "Bears", DisplayName: "Baylor Bears", ShortDisplayName: "Baylor", Abbreviation: "BAY"}

	assert.True(t, m.Matches("Baylor", team))
	assert.True(t, m.Matches("bay", team))
	assert.True(t, m.Matches("baylor bears", team))
}

func TestMatcher_Matches_AliasPrefix(t *testing.T) {
	m := Default()
	cougars := EventTeam{Name: "Cougars", DisplayName: "Houston Cougars", ShortDisplayName: "Houston", Abbreviation: "HOU"}
	texans := EventTeam{Name: "Texans", DisplayName: "Houston Texans", ShortDisplayName: "Texans", Abbreviation: "HOU"}

	assert.True(t, m.Matches("Texans", texans))
	assert.False(t, m.Matches("Texans", cougars))
	assert.True(t, m.Matches("houston", cougars), "houston alias is a prefix of the college display name")
}

func TestMatcher_Matches_SubstringWithoutAlias(t *testing.T) {
	m := Default()
	team := EventTeam{Name: "Bulldogs", DisplayName: "Fresno State Bulldogs", ShortDisplayName: "Fresno St", Abbreviation: "FRES"}

	assert.True(t, m.Matches("fresno", team))
	assert.False(t, m.Matches("", team))
}

func TestMatcher_Suggest(t *testing.T) {
	m := Default()

	got := m.Suggest("alabma", 3)
	assert.Contains(t, got, "Alabama")
	assert.LessOrEqual(t, len(got), 3)

	assert.Nil(t, m.Suggest("", 3))
}

func TestDetectSport(t *testing.T) {
	tests := []struct {
		text string
		want Sport
	}{
		{"Lakers -4 (nba)", SportNBA},
		{"Kansas -14 (legends)", SportNCAAF},
		{"Baylor Bears +3", SportNCAAF},
		{"Chicago Bears +3", SportNFL},
		{"Chiefs -7", SportNFL},
		{"Houston over Baylor", SportNCAAF},
		{"something", SportNCAAF},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSport(tt.text))
		})
	}
}

func TestSport_Endpoint(t *testing.T) {
	assert.Equal(t, "football/nfl", SportNFL.Endpoint())
	assert.Equal(t, "basketball/mens-college-basketball", ParseSport("cbb", SportNFL).Endpoint())
	assert.Equal(t, "football/college-football", Sport("cricket").Endpoint())
	assert.Equal(t, SportNFL, ParseSport("curling", SportNFL))
}
