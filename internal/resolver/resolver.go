// Package resolver turns freeform pick text into a concrete game description.
//
// Strategies are tried in order. A strategy returns nil when it has no match; errors are
// logged and treated as no match so the next strategy still runs.
package resolver

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brycewandling-glitch/paper/internal/client"
	"github.com/brycewandling-glitch/paper/internal/metrics"
	"github.com/brycewandling-glitch/paper/internal/models"
	"github.com/brycewandling-glitch/paper/internal/sheet"
	"github.com/brycewandling-glitch/paper/internal/teams"
)

// Catalog lists events for a sport between two dates
type Catalog interface {
	FetchScoreboard(ctx context.Context, sport teams.Sport, start, end time.Time) ([]client.Event, error)
}

// Request describes one pick to resolve
type Request struct {
	Sheet string
	Week  int
	// WeekDate is the first day of the pick's week; zero when the sheet has no date for it
	WeekDate       time.Time
	Text           string
	ScheduleSheets []string
}

// Strategy is one way of resolving a pick
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, req Request) (*models.Resolution, error)
}

// Chain runs strategies in order and returns the first match
type Chain struct {
	strategies []Strategy
}

// NewChain creates a chain over the given strategies
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Resolve returns the first strategy's match, or nil when none matched
func (c *Chain) Resolve(ctx context.Context, req Request) *models.Resolution {
	for _, s := range c.strategies {
		res, err := s.Resolve(ctx, req)
		if err != nil {
			log.Warn().
				Err(err).
				Str("strategy", s.Name()).
				Str("pick", req.Text).
				Int("week", req.Week).
				Msg("Resolution strategy failed")
			metrics.RecordError("resolver", s.Name())
			continue
		}
		if res == nil || res.ResolvedText == "" {
			log.Debug().Str("strategy", s.Name()).Str("pick", req.Text).Msg("No match")
			continue
		}
		res.Strategy = s.Name()
		metrics.RecordResolution(s.Name())
		return res
	}
	metrics.RecordResolution("none")
	return nil
}

// NewDefaultChain builds the standard order: catalog, built-in schedule, schedule sheets,
// then formatted passthrough. A nil catalog or source skips that strategy.
func NewDefaultChain(catalog Catalog, src sheet.Source, matcher *teams.Matcher, lookupTimeout time.Duration) *Chain {
	var strategies []Strategy
	if catalog != nil {
		strategies = append(strategies, NewESPNStrategy(catalog, matcher, lookupTimeout))
	}
	strategies = append(strategies, NewStaticScheduleStrategy(nil))
	if src != nil {
		strategies = append(strategies, NewSheetScheduleStrategy(src))
	}
	strategies = append(strategies, FallbackStrategy{})
	return NewChain(strategies...)
}
