package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"presence-monitor-backend/config"
)

// ErrUpstreamOffline marks a fetch cycle that failed on any page. The
// tracker treats it as "compute nothing", never as a partial result.
var ErrUpstreamOffline = errors.New("upstream attendance API offline")

// Client pages through the upstream attendance API.
type Client struct {
	baseURL  string
	token    string
	pageSize int
	loc      *time.Location
	http     *http.Client
}

// NewClient builds a client from the upstream configuration.
func NewClient(cfg *config.UpstreamConfig) (*Client, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		token:    cfg.AccessToken,
		pageSize: cfg.PageSize,
		loc:      loc,
		http: &http.Client{
			Timeout: cfg.PageTimeout,
		},
	}, nil
}

// FetchAll retrieves every event in the current date window, page by page,
// until a page comes back empty. Any failure on any page aborts the whole
// fetch: pages already retrieved are discarded, because a presence snapshot
// built from a partial window would misreport who is inside.
func (c *Client) FetchAll(ctx context.Context) ([]RawEvent, error) {
	start, end := c.dateWindow(time.Now().In(c.loc))

	var events []RawEvent
	for page := 1; ; page++ {
		pageEvents, err := c.fetchPage(ctx, page, start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrUpstreamOffline, page, err)
		}
		if len(pageEvents) == 0 {
			break
		}
		events = append(events, pageEvents...)
	}
	return events, nil
}

// dateWindow spans today 00:00:00 through tomorrow 23:59:59 in the
// upstream's local calendar. Recomputed on every fetch; crossing midnight
// mid-run is acceptable.
func (c *Client) dateWindow(now time.Time) (string, string) {
	const layout = "2006-01-02"
	start := now.Format(layout) + " 00:00:00"
	end := now.AddDate(0, 0, 1).Format(layout) + " 23:59:59"
	return start, end
}

func (c *Client) fetchPage(ctx context.Context, page int, start, end string) ([]RawEvent, error) {
	q := url.Values{}
	q.Set("startDate", start)
	q.Set("endDate", end)
	q.Set("pageNo", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(c.pageSize))
	q.Set("access_token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp ApiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal api response: %w", err)
	}

	return apiResp.Data, nil
}
