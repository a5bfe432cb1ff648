package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Outcome is a single week's graded result code as written in the sheet
type Outcome string

const (
	OutcomeWin  Outcome = "W"
	OutcomeLoss Outcome = "L"
	OutcomePush Outcome = "P"
	OutcomeNone Outcome = ""
)

// ParseOutcome reads a result cell. Only the first letter counts, case-insensitive.
// Anything that does not start with W, L or P yields OutcomeNone.
func ParseOutcome(cell string) Outcome {
	code := strings.ToUpper(strings.TrimSpace(cell))
	switch {
	case strings.HasPrefix(code, "W"):
		return OutcomeWin
	case strings.HasPrefix(code, "L"):
		return OutcomeLoss
	case strings.HasPrefix(code, "P"), strings.Contains(code, "PUSH"):
		return OutcomePush
	default:
		return OutcomeNone
	}
}

// IsRecorded reports whether the outcome is a graded result
func (o Outcome) IsRecorded() bool {
	return o == OutcomeWin || o == OutcomeLoss || o == OutcomePush
}

// Result converts a sheet code into the pick-level result
func (o Outcome) Result() Result {
	switch o {
	case OutcomeWin:
		return ResultWin
	case OutcomeLoss:
		return ResultLoss
	case OutcomePush:
		return ResultPush
	default:
		return ResultPending
	}
}

// Streak is a run of identical outcomes. Displayed and serialized as "W3".
type Streak struct {
	Kind  Outcome
	Count int
}

// String returns the display form, e.g. "L2"
func (s Streak) String() string {
	kind := s.Kind
	if kind == OutcomeNone {
		kind = OutcomeWin
	}
	return fmt.Sprintf("%s%d", kind, s.Count)
}

// MarshalJSON encodes the streak as its display string
func (s Streak) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the display string form
func (s *Streak) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal streak: %w", err)
	}
	parsed, err := ParseStreak(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStreak parses "W3" / "L2" / "P1"
func ParseStreak(raw string) (Streak, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 {
		return Streak{}, fmt.Errorf("invalid streak %q", raw)
	}
	kind := ParseOutcome(raw[:1])
	if kind == OutcomeNone {
		return Streak{}, fmt.Errorf("invalid streak kind %q", raw)
	}
	count, err := strconv.Atoi(raw[1:])
	if err != nil || count < 0 {
		return Streak{}, fmt.Errorf("invalid streak count %q", raw)
	}
	return Streak{Kind: kind, Count: count}, nil
}
