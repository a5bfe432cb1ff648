package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/brycewandling-glitch/paper/internal/cache"
	"github.com/brycewandling-glitch/paper/internal/metrics"
	"github.com/brycewandling-glitch/paper/internal/teams"
)

// DefaultESPNBaseURL is the public scoreboard API root
const DefaultESPNBaseURL = "https://site.api.espn.com/apis/site/v2/sports"

// Scoreboard is the scoreboard response
type Scoreboard struct {
	Events []Event `json:"events"`
}

// Event is one game on a scoreboard
type Event struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Date         string        `json:"date"`
	Competitions []Competition `json:"competitions"`
	Status       Status        `json:"status"`
}

// Competition holds the matchup, lines and broadcast data of an event
type Competition struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	Venue       Venue        `json:"venue"`
	Competitors []Competitor `json:"competitors"`
	Odds        []Odds       `json:"odds"`
	Broadcasts  []Broadcast  `json:"broadcasts"`
	Status      Status       `json:"status"`
}

// Venue is where a game is played
type Venue struct {
	FullName string `json:"fullName"`
	City     string `json:"city"`
	State    string `json:"state"`
	Address  struct {
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"address"`
}

// Competitor is one side of a competition
type Competitor struct {
	HomeAway string `json:"homeAway"`
	Team     Team   `json:"team"`
	Score    string `json:"score"`
}

// Team identifies a competitor
type Team struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Abbreviation     string `json:"abbreviation"`
	DisplayName      string `json:"displayName"`
	ShortDisplayName string `json:"shortDisplayName"`
}

// EventTeam converts the team for matching
func (t Team) EventTeam() teams.EventTeam {
	return teams.EventTeam{
		Name:             t.Name,
		DisplayName:      t.DisplayName,
		ShortDisplayName: t.ShortDisplayName,
		Abbreviation:     t.Abbreviation,
	}
}

// Odds is a betting line, e.g. details "TEX -7.5"
type Odds struct {
	Details   string   `json:"details"`
	OverUnder *float64 `json:"overUnder"`
	Spread    *float64 `json:"spread"`
}

// Broadcast lists networks for a market
type Broadcast struct {
	Market string   `json:"market"`
	Names  []string `json:"names"`
}

// Status is the game state
type Status struct {
	Type StatusType `json:"type"`
}

// StatusType carries the state code: pre, in or post
type StatusType struct {
	State       string `json:"state"`
	ShortDetail string `json:"shortDetail"`
	Completed   bool   `json:"completed"`
}

// Competitor returns the home or away side
func (c *Competition) Competitor(homeAway string) (*Competitor, bool) {
	for i := range c.Competitors {
		if c.Competitors[i].HomeAway == homeAway {
			return &c.Competitors[i], true
		}
	}
	return nil, false
}

// ParseEventDate reads ESPN timestamps such as "2025-08-30T23:30Z"
func ParseEventDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00", "2006-01-02T15:04Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ESPNClient reads scoreboards
type ESPNClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter chan struct{}
	maxRetries  int
	retryDelay  time.Duration

	store    cache.Store
	cacheTTL time.Duration
	group    singleflight.Group
}

// ESPNOption configures an ESPNClient
type ESPNOption func(*ESPNClient)

// WithScoreboardCache caches scoreboards in a shared store
func WithScoreboardCache(store cache.Store, ttl time.Duration) ESPNOption {
	return func(c *ESPNClient) {
		c.store = store
		c.cacheTTL = ttl
	}
}

// WithRetryDelay overrides the base backoff
func WithRetryDelay(d time.Duration) ESPNOption {
	return func(c *ESPNClient) { c.retryDelay = d }
}

// NewESPNClient creates a scoreboard client
func NewESPNClient(baseURL string, timeout time.Duration, opts ...ESPNOption) *ESPNClient {
	if baseURL == "" {
		baseURL = DefaultESPNBaseURL
	}
	// max 10 concurrent requests
	rateLimiter := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		rateLimiter <- struct{}{}
	}

	c := &ESPNClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rateLimiter,
		maxRetries:  3,
		retryDelay:  500 * time.Millisecond,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchScoreboard returns the events for a sport between start and end, inclusive by day
func (c *ESPNClient) FetchScoreboard(ctx context.Context, sport teams.Sport, start, end time.Time) ([]Event, error) {
	dates := start.Format("20060102") + "-" + end.Format("20060102")
	path := sport.Endpoint() + "/scoreboard"
	params := map[string]string{"dates": dates, "limit": "1000"}
	if sport.Endpoint() == teams.SportNCAAF.Endpoint() {
		// all FBS games, not just the ranked ones
		params["groups"] = "80"
	}
	key := "espn:" + path + ":" + dates

	v, err, _ := c.group.Do(key, func() (any, error) {
		if c.store != nil {
			var sb Scoreboard
			found, err := c.store.GetJSON(ctx, key, &sb)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Scoreboard cache read failed")
			}
			if found {
				metrics.RecordCacheHit("espn", "redis")
				return sb.Events, nil
			}
			metrics.RecordCacheMiss("espn")
		}

		body, err := c.get(ctx, path, params)
		if err != nil {
			return nil, err
		}
		var sb Scoreboard
		if err := json.Unmarshal(body, &sb); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scoreboard: %w", err)
		}

		if c.store != nil && c.cacheTTL > 0 {
			if err := c.store.SetJSON(ctx, key, sb, c.cacheTTL); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Scoreboard cache write failed")
			}
		}
		return sb.Events, nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("sport", string(sport)).
		Str("dates", dates).
		Int("events", len(v.([]Event))).
		Msg("Fetched scoreboard")
	return v.([]Event), nil
}

// get performs a GET request with retry logic and rate limiting
func (c *ESPNClient) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying scoreboard request after backoff")
			metrics.RecordAPIRetry("espn")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, status, err := c.once(ctx, url, params)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		switch status {
		case http.StatusOK:
			return body, nil

		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			lastErr = fmt.Errorf("scoreboard returned retryable status %d", status)
			log.Warn().
				Str("url", url).
				Int("status", status).
				Int("attempt", attempt+1).
				Msg("Received retryable error, will retry")
			continue

		default:
			return nil, fmt.Errorf("scoreboard returned status %d: %s", status, truncate(body, 200))
		}
	}

	return nil, lastErr
}

func (c *ESPNClient) once(ctx context.Context, url string, params map[string]string) ([]byte, int, error) {
	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	case <-c.rateLimiter:
		defer func() { c.rateLimiter <- struct{}{} }()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall("espn", "scoreboard", "error", time.Since(start).Seconds())
		return nil, 0, fmt.Errorf("scoreboard request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordAPICall("espn", "scoreboard", fmt.Sprint(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
