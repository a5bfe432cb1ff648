package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(ClientConfig{
		BaseURL:        url,
		SpreadsheetID:  "sheet-123",
		APIKey:         "key",
		Timeout:        2 * time.Second,
		MaxAttempts:    5,
		InitialBackoff: time.Millisecond,
	})
}

func TestClient_Values_RetriesQuotaErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-123/values/"))
		assert.Contains(t, r.URL.Path, "'Season 4'!A1:ZZ1000")

		if n < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"range":"'Season 4'!A1:ZZ1000","values":[["Week","Mitch"],["1","Texas -3"],["2"]]}`))
	}))
	defer server.Close()

	g, err := newTestClient(server.URL).Values(context.Background(), "Season 4")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, Grid{{"Week", "Mitch"}, {"1", "Texas -3"}, {"2"}}, g)
}

func TestClient_Values_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Values(context.Background(), "Season 4")
	require.Error(t, err)

	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.True(t, serr.Quota())
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestClient_Values_NoRetryOnForbidden(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Values(context.Background(), "Season 4")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
}

func TestClient_Update(t *testing.T) {
	var got valueRange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).Update(context.Background(), "Season 4", Grid{{"Week"}, {"1"}})
	require.NoError(t, err)
	assert.Equal(t, "'Season 4'!A1", got.Range)
	assert.Equal(t, [][]any{{"Week"}, {"1"}}, got.Values)
}

func TestClient_Append(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":append"))
		assert.Equal(t, "INSERT_ROWS", r.URL.Query().Get("insertDataOption"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).Append(context.Background(), "Season 4", Grid{{"5", "$5"}})
	assert.NoError(t, err)
}

func TestSheetRange(t *testing.T) {
	assert.Equal(t, "'Bryce''s Sheet'!A1:ZZ1000", SheetRange("Bryce's Sheet"))
}
