/*
Package holidays resolves the US holiday calendar the curve is built on.

PURPOSE:
  Fetches public holidays per year from date.nager.at, all years in
  parallel. If any year fails, the whole live set is discarded and the
  resolver falls back to the last good set in the cache, then to the
  static list compiled into the curve package. Failure never stops the
  server; the dashboard just prices on the fallback calendar.

RESOLUTION ORDER:
  1. Live:     every configured year fetched successfully
  2. Cache:    last live set persisted by the store
  3. Fallback: curve.FallbackHolidays()

SEE ALSO:
  - resolver.go: Resolution order and the current calendar
  - curve/calendar.go: Static fallback list
*/
package holidays

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/warp/stir-engine/curve"
)

const (
	DefaultBaseURL = "https://date.nager.at/api/v3/publicholidays"
	countryCode    = "US"
)

// ErrUnavailable is returned when the live calendar could not be fetched
// for every requested year.
var ErrUnavailable = errors.New("live holiday calendar unavailable")

// HTTPError is a non-2xx response from the holiday service.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// =============================================================================
// NAGER CLIENT
// =============================================================================

// Client fetches one year of public holidays at a time.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client against baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// nagerHoliday is one element of GET /publicholidays/{year}/{country}.
type nagerHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// FetchYear returns the US public holidays for one year.
func (c *Client) FetchYear(ctx context.Context, year int) ([]curve.Holiday, error) {
	url := fmt.Sprintf("%s/%d/%s", c.baseURL, year, countryCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	var raw []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode holidays %d: %w", year, err)
	}

	out := make([]curve.Holiday, 0, len(raw))
	for _, h := range raw {
		d, err := civil.ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %q has bad date %q: %w", h.Name, h.Date, err)
		}
		out = append(out, curve.Holiday{Date: d, Name: h.Name, LocalName: h.LocalName})
	}
	return out, nil
}
