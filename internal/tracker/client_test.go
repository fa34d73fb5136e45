package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presence-monitor-backend/config"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(&config.UpstreamConfig{
		BaseURL:     serverURL,
		AccessToken: "test-token",
		PageSize:    2,
		PageTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestFetchAll_Paginates(t *testing.T) {
	pages := map[string][]RawEvent{
		"1": {event("P1", "gate_in", "2024-01-01 08:00:00"), event("P2", "gate_in", "2024-01-01 08:01:00")},
		"2": {event("P3", "gate_in", "2024-01-01 08:02:00")},
		"3": {},
	}

	var seenPages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		seenPages = append(seenPages, q.Get("pageNo"))

		assert.Equal(t, "test-token", q.Get("access_token"))
		assert.Equal(t, "2", q.Get("pageSize"))
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} 00:00:00$`, q.Get("startDate"))
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} 23:59:59$`, q.Get("endDate"))

		json.NewEncoder(w).Encode(ApiResponse{Data: pages[q.Get("pageNo")]})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	events, err := client.FetchAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Equal(t, []string{"1", "2", "3"}, seenPages, "pages are fetched in order until one comes back empty")
}

func TestFetchAll_AnyPageFailureAbortsWholeFetch(t *testing.T) {
	var requestCount int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if requestCount == 1 {
			json.NewEncoder(w).Encode(ApiResponse{Data: []RawEvent{event("P1", "gate_in", "2024-01-01 08:00:00")}})
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	events, err := client.FetchAll(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamOffline))
	assert.Nil(t, events, "pages fetched before the failure must be discarded")
}

func TestFetchAll_MalformedResponseIsOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.FetchAll(context.Background())

	assert.True(t, errors.Is(err, ErrUpstreamOffline))
}

func TestFetchAll_TransportErrorIsOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(t, server.URL)
	_, err := client.FetchAll(context.Background())

	assert.True(t, errors.Is(err, ErrUpstreamOffline))
}

func TestFetchAll_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ApiResponse{Data: nil})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchAll(ctx)
	assert.True(t, errors.Is(err, ErrUpstreamOffline), "an abandoned cycle reports offline, not a partial result")
}

func TestDateWindow(t *testing.T) {
	client := newTestClient(t, "http://unused")

	now := time.Date(2024, 3, 31, 15, 4, 5, 0, time.UTC)
	start, end := client.dateWindow(now)

	assert.Equal(t, "2024-03-31 00:00:00", start)
	assert.Equal(t, "2024-04-01 23:59:59", end)
}
