package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		cell string
		want Outcome
	}{
		{"W", OutcomeWin},
		{" win ", OutcomeWin},
		{"l", OutcomeLoss},
		{"Loss", OutcomeLoss},
		{"Push", OutcomePush},
		{"p", OutcomePush},
		{"", OutcomeNone},
		{"#NAME?", OutcomeNone},
		{"TBD", OutcomeNone},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOutcome(tt.cell))
		})
	}
}

func TestStreak_String(t *testing.T) {
	assert.Equal(t, "W3", Streak{Kind: OutcomeWin, Count: 3}.String())
	assert.Equal(t, "L2", Streak{Kind: OutcomeLoss, Count: 2}.String())
	assert.Equal(t, "W0", Streak{}.String(), "Empty streak should display as W0")
}

func TestStreak_JSON(t *testing.T) {
	data, err := json.Marshal(Streak{Kind: OutcomePush, Count: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `"P1"`, string(data))

	var s Streak
	require.NoError(t, json.Unmarshal([]byte(`"L4"`), &s))
	assert.Equal(t, Streak{Kind: OutcomeLoss, Count: 4}, s)

	assert.Error(t, json.Unmarshal([]byte(`"X4"`), &s), "Unknown kind should fail")
}

func TestResult_Invert(t *testing.T) {
	assert.Equal(t, ResultLoss, ResultWin.Invert())
	assert.Equal(t, ResultWin, ResultLoss.Invert())
	assert.Equal(t, ResultPush, ResultPush.Invert())
	assert.Equal(t, ResultPending, ResultPending.Invert())
}

func TestDivision_Tag(t *testing.T) {
	assert.Equal(t, "(legends)", DivisionLegends.Tag())
	assert.Equal(t, DivisionLegends, ParseDivision(" legends"))
	assert.Equal(t, DivisionLeaders, ParseDivision("whatever"))
}
