package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/brycewandling-glitch/paper/internal/metrics"
)

const (
	// DefaultBaseURL is the Google Sheets REST endpoint
	DefaultBaseURL = "https://sheets.googleapis.com"

	rangeEnd = "ZZ1000"
)

// ClientConfig configures the Sheets REST client
type ClientConfig struct {
	BaseURL        string
	SpreadsheetID  string
	APIKey         string
	AccessToken    string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	RatePerSecond  float64
}

// Client talks to the Sheets v4 values API
type Client struct {
	baseURL        string
	spreadsheetID  string
	apiKey         string
	accessToken    string
	httpClient     *http.Client
	limiter        *rate.Limiter
	maxAttempts    int
	initialBackoff time.Duration
}

// NewClient creates a Sheets client. Reads retry quota errors with doubling backoff.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 300 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	burst := 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		burst = int(cfg.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		spreadsheetID:  cfg.SpreadsheetID,
		apiKey:         cfg.APIKey,
		accessToken:    cfg.AccessToken,
		limiter:        rate.NewLimiter(limit, burst),
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SheetRange quotes a sheet name into an A1 range covering the whole sheet
func SheetRange(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!A1:" + rangeEnd
}

type valueRange struct {
	Range          string  `json:"range,omitempty"`
	MajorDimension string  `json:"majorDimension,omitempty"`
	Values         [][]any `json:"values"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// StatusError is a non-2xx response from the Sheets API
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sheets API returned status %d (%s): %s", e.StatusCode, e.Status, e.Message)
}

// Quota reports whether the error is a rate or quota rejection
func (e *StatusError) Quota() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Status == "RESOURCE_EXHAUSTED" ||
		strings.Contains(strings.ToLower(e.Message), "quota exceeded")
}

// Values reads a whole sheet
func (c *Client) Values(ctx context.Context, sheet string) (Grid, error) {
	endpoint := "values/" + url.PathEscape(SheetRange(sheet))
	body, err := c.do(ctx, http.MethodGet, endpoint, nil, nil, true)
	if err != nil {
		return nil, err
	}

	var vr valueRange
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sheet values: %w", err)
	}
	grid := make(Grid, len(vr.Values))
	for i, row := range vr.Values {
		grid[i] = make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				grid[i][j] = fmt.Sprint(cell)
			}
		}
	}
	return grid, nil
}

// Update overwrites the sheet starting at A1
func (c *Client) Update(ctx context.Context, sheet string, values Grid) error {
	rng := "'" + strings.ReplaceAll(sheet, "'", "''") + "'!A1"
	payload := valueRange{Range: rng, MajorDimension: "ROWS", Values: toAny(values)}
	params := url.Values{"valueInputOption": {"USER_ENTERED"}}
	_, err := c.do(ctx, http.MethodPut, "values/"+url.PathEscape(rng), params, payload, false)
	return err
}

// Append adds rows after the last row of the sheet
func (c *Client) Append(ctx context.Context, sheet string, rows Grid) error {
	rng := SheetRange(sheet)
	payload := valueRange{MajorDimension: "ROWS", Values: toAny(rows)}
	params := url.Values{
		"valueInputOption": {"USER_ENTERED"},
		"insertDataOption": {"INSERT_ROWS"},
	}
	_, err := c.do(ctx, http.MethodPost, "values/"+url.PathEscape(rng)+":append", params, payload, false)
	return err
}

func toAny(g Grid) [][]any {
	out := make([][]any, len(g))
	for i, row := range g {
		out[i] = make([]any, len(row))
		for j, v := range row {
			out[i][j] = v
		}
	}
	return out
}

// do performs a request. Quota errors are retried only when retry is set; writes are not
// idempotent enough to replay blindly.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, payload any, retry bool) ([]byte, error) {
	u := fmt.Sprintf("%s/v4/spreadsheets/%s/%s", c.baseURL, url.PathEscape(c.spreadsheetID), endpoint)
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var encoded []byte
	if payload != nil {
		var err error
		encoded, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sheet payload: %w", err)
		}
	}

	label := strings.ToLower(method)
	backoff := c.initialBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			log.Info().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying sheets request after backoff")
			metrics.RecordAPIRetry("sheets")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
		}

		var body io.Reader
		if encoded != nil {
			body = bytes.NewReader(encoded)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if encoded != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.accessToken)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordAPICall("sheets", label, "error", time.Since(start).Seconds())
			return nil, fmt.Errorf("sheets request failed: %w", err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.RecordAPICall("sheets", label, fmt.Sprint(resp.StatusCode), time.Since(start).Seconds())
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}

		serr := &StatusError{StatusCode: resp.StatusCode, Message: string(data)}
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Error.Message != "" {
			serr.Status = ae.Error.Status
			serr.Message = ae.Error.Message
		}
		lastErr = serr

		if !retry || !serr.Quota() {
			return nil, serr
		}
		log.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Msg("Sheets quota exceeded, will retry")
	}

	return nil, lastErr
}
