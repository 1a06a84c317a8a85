/*
Package fomc keeps the policy meeting calendar.

PURPOSE:
  Scenarios are edited against a list of decision dates. The list ships
  with the curve package (16 meetings for 2026-2027) and can optionally
  be refreshed by scraping the Federal Reserve's published calendar.

SCRAPING:
  The calendar page groups meetings into one panel per year:

    <div class="panel">
      <div class="panel-heading"><h4>2026 FOMC Meetings</h4></div>
      <div class="fomc-meeting">
        <div class="fomc-meeting__month">January</div>
        <div class="fomc-meeting__date">27-28</div>
      </div>
      ...

  The decision date is the last day of the range. Ranges that straddle
  a month end ("Apr/May", "30-1") take the second month. Notation votes
  and unscheduled meetings are skipped.

SEE ALSO:
  - curve/calendar.go: Static meeting dates
*/
package fomc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/warp/stir-engine/curve"
)

const DefaultURL = "https://www.federalreserve.gov/monetarypolicy/fomccalendars.htm"

// ErrNoMeetings is returned when a page yields no decision dates inside
// the curve window.
var ErrNoMeetings = errors.New("no FOMC meetings found")

var (
	yearHeading = regexp.MustCompile(`(\d{4})\s+FOMC Meetings`)
	nonDigits   = regexp.MustCompile(`\D`)
)

// =============================================================================
// PARSER
// =============================================================================

// Parse extracts decision dates inside [curve.WindowStart, curve.WindowEnd]
// from the calendar page, sorted and de-duplicated.
func Parse(r io.Reader) ([]civil.Date, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse FOMC calendar HTML: %w", err)
	}

	seen := make(map[civil.Date]bool)
	var dates []civil.Date
	window := curve.Window{Start: curve.WindowStart, End: curve.WindowEnd}

	doc.Find(".panel").Each(func(_ int, panel *goquery.Selection) {
		m := yearHeading.FindStringSubmatch(panel.Find(".panel-heading").Text())
		if m == nil {
			return
		}
		year, _ := strconv.Atoi(m[1])

		panel.Find(".fomc-meeting").Each(func(_ int, row *goquery.Selection) {
			text := strings.ToLower(row.Text())
			if strings.Contains(text, "notation vote") || strings.Contains(text, "unscheduled") {
				return
			}
			d, ok := decisionDate(year,
				strings.TrimSpace(row.Find(".fomc-meeting__month").Text()),
				strings.TrimSpace(row.Find(".fomc-meeting__date").Text()),
			)
			if !ok || !window.Contains(d) || seen[d] {
				return
			}
			seen[d] = true
			dates = append(dates, d)
		})
	})

	if len(dates) == 0 {
		return nil, ErrNoMeetings
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// decisionDate turns ("Apr/May", "30-1*") into the last day of the range.
func decisionDate(year int, monthText, dayText string) (civil.Date, bool) {
	months := strings.Split(monthText, "/")
	month, ok := parseMonth(strings.TrimSpace(months[len(months)-1]))
	if !ok {
		return civil.Date{}, false
	}

	days := strings.Split(dayText, "-")
	day, err := strconv.Atoi(nonDigits.ReplaceAllString(days[len(days)-1], ""))
	if err != nil {
		return civil.Date{}, false
	}

	d := curve.Date(year, month, day)
	return d, d.IsValid()
}

func parseMonth(s string) (time.Month, bool) {
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Month(), true
		}
	}
	return 0, false
}

// =============================================================================
// CALENDAR - Current meeting dates with optional live refresh
// =============================================================================

type Origin string

const (
	OriginScraped Origin = "scraped"
	OriginStatic  Origin = "static"
)

// Calendar holds the decision dates offered to scenario editors.
type Calendar struct {
	url    string
	http   *http.Client
	logger *zap.Logger

	mu     sync.RWMutex
	dates  []civil.Date
	origin Origin
}

// NewCalendar starts on the static dates; call Refresh to scrape.
func NewCalendar(url string, timeout time.Duration, logger *zap.Logger) *Calendar {
	if url == "" {
		url = DefaultURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calendar{
		url:    url,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
		dates:  curve.FOMCDates(),
		origin: OriginStatic,
	}
}

// Dates returns a copy of the current decision dates and their origin.
func (c *Calendar) Dates() ([]civil.Date, Origin) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]civil.Date(nil), c.dates...), c.origin
}

// Meetings returns the current dates as on-hold meetings.
func (c *Calendar) Meetings() []curve.Meeting {
	dates, _ := c.Dates()
	return curve.MeetingsOn(dates)
}

// Refresh scrapes the published calendar. On any error the static
// dates stay in place and the error is returned for logging.
func (c *Calendar) Refresh(ctx context.Context) error {
	dates, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("FOMC calendar refresh failed, keeping static dates", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.dates = dates
	c.origin = OriginScraped
	c.mu.Unlock()

	c.logger.Info("FOMC calendar refreshed", zap.Int("meetings", len(dates)))
	return nil
}

func (c *Calendar) fetch(ctx context.Context) ([]civil.Date, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP GET %s: %s", c.url, resp.Status)
	}
	return Parse(resp.Body)
}
