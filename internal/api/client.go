// Package api is the wire contract of the schedule endpoint and a client for it.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/prayer-board/internal/logging"
	"github.com/smokyabdulrahman/prayer-board/internal/prayer"
)

const DefaultBaseURL = "http://localhost:8080"

// Client fetches prayer schedules from a schedule endpoint.
type Client struct {
	httpClient *retryablehttp.Client
	// BaseURL is the endpoint root, without the /prayers path.
	BaseURL string
	// Method and School are forwarded when non-empty.
	Method string
	School string
}

// NewClient creates a client that retries transient failures up to three times.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := retryablehttp.NewClient()
	hc.HTTPClient.Timeout = 10 * time.Second
	hc.RetryMax = 3
	hc.RetryWaitMin = 250 * time.Millisecond
	hc.RetryWaitMax = 2 * time.Second
	hc.Logger = logging.NewLeveled(log.Logger, "api")
	hc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		httpClient: hc,
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// SetRetryWait overrides the backoff bounds. Tests use it to keep retries fast.
func (c *Client) SetRetryWait(min, max time.Duration) {
	c.httpClient.RetryWaitMin = min
	c.httpClient.RetryWaitMax = max
}

// FetchSchedule fetches today's schedule for the coordinates, as decided by the endpoint.
func (c *Client) FetchSchedule(ctx context.Context, lat, lng float64) ([]prayer.Prayer, error) {
	return c.FetchScheduleOn(ctx, lat, lng, time.Time{})
}

// FetchScheduleOn fetches the schedule for a given calendar day.
// A zero date lets the endpoint pick its current day.
func (c *Client) FetchScheduleOn(ctx context.Context, lat, lng float64, date time.Time) ([]prayer.Prayer, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	if c.Method != "" {
		params.Set("method", c.Method)
	}
	if c.School != "" {
		params.Set("school", c.School)
	}
	if !date.IsZero() {
		params.Set("date", date.Format("2006-01-02"))
	}

	var entries []Prayer
	if err := c.getJSON(ctx, "/prayers", params, &entries); err != nil {
		return nil, err
	}
	return ToSchedule(entries)
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.BaseURL + path + "?" + params.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")

	// With the passthrough error handler a response that exhausted its
	// retries comes back alongside an error; report its status instead.
	resp, err := c.httpClient.Do(req)
	if err != nil && resp == nil {
		return errors.WithHintf(errors.Wrap(err, "API request failed"),
			"is the schedule endpoint running at %s?", c.BaseURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return errors.Newf("API returned status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return errors.Newf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode API response")
	}
	return nil
}
